package models

import "time"

// TaskStatus defines the possible statuses for a posted task.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "open"
	TaskAssigned   TaskStatus = "assigned"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

type TaskSize string

const (
	SizeSmall  TaskSize = "small"
	SizeMedium TaskSize = "medium"
	SizeLarge  TaskSize = "large"
)

type TaskUrgency string

const (
	UrgencyFlexible   TaskUrgency = "flexible"
	UrgencyWithinWeek TaskUrgency = "within_week"
	UrgencyUrgent     TaskUrgency = "urgent"
)

// Task represents a job posted by a customer.
type Task struct {
	ID                 string      `json:"id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	Budget             float64     `json:"budget"`
	Address            *string     `json:"address,omitempty"`
	City               *string     `json:"city,omitempty"`
	TaskDate           *time.Time  `json:"task_date,omitempty"`
	FlexibleDate       bool        `json:"flexible_date"`
	TaskSize           TaskSize    `json:"task_size"`
	Urgency            TaskUrgency `json:"urgency"`
	Status             TaskStatus  `json:"status"`
	CustomerID         string      `json:"customer_id"`
	TaskerID           *string     `json:"tasker_id,omitempty"`
	CategoryID         string      `json:"category_id"`
	Requirements       []string    `json:"requirements,omitempty"`
	Tags               []string    `json:"tags,omitempty"`
	FinalPrice         *float64    `json:"final_price,omitempty"`
	CompletedAt        *time.Time  `json:"completed_at,omitempty"`
	CancelledAt        *time.Time  `json:"cancelled_at,omitempty"`
	CancellationReason *string     `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`

	// display-only joins
	CustomerName string `json:"customer_name,omitempty"`
	TaskerName   string `json:"tasker_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}

type TaskCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// TaskApplication is a tasker's offer on an open task.
type TaskApplication struct {
	ID               string            `json:"id"`
	TaskID           string            `json:"task_id"`
	TaskerID         string            `json:"tasker_id"`
	ProposedPrice    float64           `json:"proposed_price"`
	Message          string            `json:"message"`
	AvailabilityDate *time.Time        `json:"availability_date,omitempty"`
	EstimatedHours   *float64          `json:"estimated_hours,omitempty"`
	Status           ApplicationStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	TaskerName   string  `json:"tasker_name,omitempty"`
	TaskerRating float64 `json:"tasker_rating,omitempty"`
}

// TaskFilter defines the available parameters for listing tasks.
type TaskFilter struct {
	Status      *TaskStatus
	CustomerID  *string
	TaskerID    *string
	NotCustomer *string // exclude tasks posted by this user
	CategoryID  *string
	Query       *string // matches title or description
}
