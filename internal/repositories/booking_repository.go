package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	UpdateNotes(ctx context.Context, id string, customerNotes, taskerNotes *string) error
}

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

const bookingSelect = `
	SELECT b.id, b.customer_id, b.tasker_id, b.service_name, b.service_description,
	       b.base_price, b.agreed_price, b.price_type, b.booking_date, b.start_time,
	       b.end_time, b.address, b.city, b.status, b.payment_status,
	       b.customer_notes, b.tasker_notes, b.created_at, b.updated_at,
	       c.full_name, t.full_name
	FROM direct_bookings b
	JOIN profiles c ON c.id = b.customer_id
	JOIN profiles t ON t.id = b.tasker_id`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.TaskerID, &b.ServiceName, &b.ServiceDescription,
		&b.BasePrice, &b.AgreedPrice, &b.PriceType, &b.BookingDate, &b.StartTime,
		&b.EndTime, &b.Address, &b.City, &b.Status, &b.PaymentStatus,
		&b.CustomerNotes, &b.TaskerNotes, &b.CreatedAt, &b.UpdatedAt,
		&b.CustomerName, &b.TaskerName,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	const q = `
		INSERT INTO direct_bookings (
			id, customer_id, tasker_id, service_name, service_description,
			base_price, agreed_price, price_type, booking_date, start_time,
			end_time, address, city, status, payment_status,
			customer_notes, tasker_notes, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`
	if _, err := r.db.ExecContext(ctx, q,
		b.ID, b.CustomerID, b.TaskerID, b.ServiceName, b.ServiceDescription,
		b.BasePrice, b.AgreedPrice, b.PriceType, b.BookingDate, b.StartTime,
		b.EndTime, b.Address, b.City, b.Status, b.PaymentStatus,
		b.CustomerNotes, b.TaskerNotes, b.CreatedAt, b.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *bookingRepository) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	q := bookingSelect + `
		WHERE b.customer_id = $1 OR b.tasker_id = $1
		ORDER BY b.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE direct_bookings SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}

func (r *bookingRepository) UpdateNotes(ctx context.Context, id string, customerNotes, taskerNotes *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE direct_bookings
		SET customer_notes = COALESCE($1, customer_notes),
		    tasker_notes   = COALESCE($2, tasker_notes),
		    updated_at = NOW()
		WHERE id=$3`, customerNotes, taskerNotes, id)
	return err
}
