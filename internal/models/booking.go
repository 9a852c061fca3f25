package models

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

type PriceType string

const (
	PriceHourly     PriceType = "hourly"
	PriceFixed      PriceType = "fixed"
	PriceNegotiable PriceType = "negotiable"
)

// Booking is a direct engagement of a tasker, outside the open-task flow.
type Booking struct {
	ID                 string        `json:"id"`
	CustomerID         string        `json:"customer_id"`
	TaskerID           string        `json:"tasker_id"`
	ServiceName        string        `json:"service_name"`
	ServiceDescription *string       `json:"service_description,omitempty"`
	BasePrice          float64       `json:"base_price"`
	AgreedPrice        float64       `json:"agreed_price"`
	PriceType          PriceType     `json:"price_type"`
	BookingDate        time.Time     `json:"booking_date"`
	StartTime          string        `json:"start_time"`
	EndTime            *string       `json:"end_time,omitempty"`
	Address            *string       `json:"address,omitempty"`
	City               *string       `json:"city,omitempty"`
	Status             BookingStatus `json:"status"`
	PaymentStatus      string        `json:"payment_status"`
	CustomerNotes      *string       `json:"customer_notes,omitempty"`
	TaskerNotes        *string       `json:"tasker_notes,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`

	CustomerName string `json:"customer_name,omitempty"`
	TaskerName   string `json:"tasker_name,omitempty"`
}

// BookingStats aggregates one user's bookings across both sides. Spent
// counts completed bookings where the user is the customer, earned
// where they are the tasker.
type BookingStats struct {
	Total       int     `json:"total"`
	Upcoming    int     `json:"upcoming"`
	Completed   int     `json:"completed"`
	Cancelled   int     `json:"cancelled"`
	TotalSpent  float64 `json:"total_spent"`
	TotalEarned float64 `json:"total_earned"`
}
