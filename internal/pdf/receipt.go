package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"sira/internal/models"
)

const fontName = "Helvetica"

// BookingReceipt renders a completed booking as a one-page PDF and
// returns the bytes, leaving delivery to the caller.
func BookingReceipt(b *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Booking receipt %s", b.ID), false)
	pdf.SetAuthor("Sira", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont(fontName, "B", 18)
	pdf.CellFormat(0, 10, "BOOKING RECEIPT", "", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 12)
	sub := fmt.Sprintf("No. %s  —  %s", b.ID, b.BookingDate.Format("02.01.2006"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	hr(pdf)
	pdf.Ln(3)

	sectionTitle(pdf, "Parties")
	kvLine(pdf, "Customer", b.CustomerName)
	kvLine(pdf, "Tasker", b.TaskerName)
	pdf.Ln(2)
	hr(pdf)

	sectionTitle(pdf, "Service")
	kvLine(pdf, "Service", b.ServiceName)
	if b.ServiceDescription != nil {
		kvLine(pdf, "Details", *b.ServiceDescription)
	}
	kvLine(pdf, "Date", b.BookingDate.Format("02.01.2006"))
	timeRange := b.StartTime
	if b.EndTime != nil {
		timeRange += " - " + *b.EndTime
	}
	kvLine(pdf, "Time", timeRange)
	if b.Address != nil {
		kvLine(pdf, "Address", *b.Address)
	}
	pdf.Ln(2)
	hr(pdf)

	sectionTitle(pdf, "Payment")
	kvLine(pdf, "Price type", string(b.PriceType))
	kvLine(pdf, "Agreed price", fmt.Sprintf("%.2f ETB", b.AgreedPrice))
	kvLine(pdf, "Payment status", b.PaymentStatus)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 11)
}

func kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}
