package models

import "time"

type TaskerApplicationStatus string

const (
	TaskerApplicationPending  TaskerApplicationStatus = "pending"
	TaskerApplicationApproved TaskerApplicationStatus = "approved"
	TaskerApplicationRejected TaskerApplicationStatus = "rejected"
)

// TaskerApplication is a customer's request to start working as a tasker.
// One application per user; an admin approves or rejects it.
type TaskerApplication struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	Status          TaskerApplicationStatus `json:"status"`
	FullName        string                  `json:"full_name"`
	Email           string                  `json:"email"`
	Phone           string                  `json:"phone"`
	Bio             string                  `json:"bio"`
	Skills          []string                `json:"skills"`
	Experience      string                  `json:"experience"`
	HourlyRate      float64                 `json:"hourly_rate"`
	Languages       []string                `json:"languages,omitempty"`
	Certifications  []string                `json:"certifications,omitempty"`
	RejectionReason *string                 `json:"rejection_reason,omitempty"`
	AdminNotes      *string                 `json:"admin_notes,omitempty"`
	ReviewedAt      *time.Time              `json:"reviewed_at,omitempty"`
	ReviewedBy      *string                 `json:"reviewed_by,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}
