package models

import "time"

type ReviewType string

const (
	ReviewOfTasker   ReviewType = "tasker"
	ReviewOfCustomer ReviewType = "customer"
)

// Review is left once per task per reviewer per direction.
type Review struct {
	ID         string     `json:"id"`
	TaskID     string     `json:"task_id"`
	ReviewerID string     `json:"reviewer_id"`
	RevieweeID string     `json:"reviewee_id"`
	Rating     int        `json:"rating"`
	Comment    *string    `json:"comment,omitempty"`
	ReviewType ReviewType `json:"review_type"`
	IsPublic   bool       `json:"is_public"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	ReviewerName string `json:"reviewer_name,omitempty"`
	RevieweeName string `json:"reviewee_name,omitempty"`
	TaskTitle    string `json:"task_title,omitempty"`
}

// ReviewStats aggregates a user's received reviews.
type ReviewStats struct {
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	Breakdown     map[int]int `json:"rating_breakdown"`
}
