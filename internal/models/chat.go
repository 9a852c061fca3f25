package models

import "time"

// ChatMessage lives in the per-task conversation between the customer and
// the assigned tasker. The task id is the channel key.
type ChatMessage struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`

	SenderName string `json:"sender_name,omitempty"`
}

// ChatSummary is one row in a user's chat list: an assigned task plus the
// latest message preview and the count of messages the user has not read.
type ChatSummary struct {
	TaskID        string     `json:"task_id"`
	TaskTitle     string     `json:"task_title"`
	CustomerID    string     `json:"customer_id"`
	TaskerID      string     `json:"tasker_id"`
	CustomerName  string     `json:"customer_name,omitempty"`
	TaskerName    string     `json:"tasker_name,omitempty"`
	LastMessage   string     `json:"last_message,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	UnreadCount   int        `json:"unread_count"`
}
