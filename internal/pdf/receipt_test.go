package pdf

import (
	"bytes"
	"testing"
	"time"

	"sira/internal/models"
)

func TestBookingReceipt(t *testing.T) {
	desc := "Deep clean, two bedrooms"
	end := "12:00"
	b := &models.Booking{
		ID:                 "bk-1",
		CustomerID:         "c-1",
		TaskerID:           "t-1",
		ServiceName:        "House cleaning",
		ServiceDescription: &desc,
		AgreedPrice:        1200,
		PriceType:          models.PriceFixed,
		BookingDate:        time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime:          "09:00",
		EndTime:            &end,
		Status:             models.BookingCompleted,
		PaymentStatus:      "paid",
		CustomerName:       "Abebe Bikila",
		TaskerName:         "Tirunesh Dibaba",
	}

	data, err := BookingReceipt(b)
	if err != nil {
		t.Fatalf("render receipt: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got %q", data[:8])
	}
	if len(data) < 500 {
		t.Fatalf("suspiciously small receipt: %d bytes", len(data))
	}
}
