package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

type ChatRepository interface {
	ListUserChats(ctx context.Context, userID string) ([]models.ChatSummary, error)
	ListMessages(ctx context.Context, taskID string, limit, offset int) ([]models.ChatMessage, error)
	CreateMessage(ctx context.Context, taskID, senderID, body string) (*models.ChatMessage, error)
	// MarkRead flags every message in the chat not sent by readerID as read.
	MarkRead(ctx context.Context, taskID, readerID string) error
	// IsMember reports whether the user is the customer or the assigned
	// tasker of the task that backs this chat.
	IsMember(ctx context.Context, taskID, userID string) (bool, error)
}

type chatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) ChatRepository {
	return &chatRepository{DB: db}
}

func (r *chatRepository) ListUserChats(ctx context.Context, userID string) ([]models.ChatSummary, error) {
	const q = `
		SELECT t.id, t.title, t.customer_id, t.tasker_id,
		       c.full_name, a.full_name,
		       COALESCE(m.body, ''), m.created_at,
		       (SELECT COUNT(*) FROM task_messages
		        WHERE task_id = t.id AND sender_id <> $1 AND NOT is_read)
		FROM tasks t
		JOIN profiles c ON c.id = t.customer_id
		JOIN profiles a ON a.id = t.tasker_id
		LEFT JOIN LATERAL (
			SELECT body, created_at
			FROM task_messages
			WHERE task_id = t.id
			ORDER BY created_at DESC
			LIMIT 1
		) m ON TRUE
		WHERE t.tasker_id IS NOT NULL
		  AND (t.customer_id = $1 OR t.tasker_id = $1)
		ORDER BY m.created_at DESC NULLS LAST, t.updated_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list user chats: %w", err)
	}
	defer rows.Close()

	var out []models.ChatSummary
	for rows.Next() {
		var s models.ChatSummary
		var lastAt sql.NullTime
		if err := rows.Scan(
			&s.TaskID, &s.TaskTitle, &s.CustomerID, &s.TaskerID,
			&s.CustomerName, &s.TaskerName, &s.LastMessage, &lastAt,
			&s.UnreadCount,
		); err != nil {
			return nil, err
		}
		if lastAt.Valid {
			t := lastAt.Time
			s.LastMessageAt = &t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *chatRepository) ListMessages(ctx context.Context, taskID string, limit, offset int) ([]models.ChatMessage, error) {
	const q = `
		SELECT m.id, m.task_id, m.sender_id, m.body, m.is_read, m.created_at, p.full_name
		FROM task_messages m
		JOIN profiles p ON p.id = m.sender_id
		WHERE m.task_id = $1
		ORDER BY m.created_at ASC, m.id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, q, taskID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.TaskID, &msg.SenderID, &msg.Body, &msg.IsRead, &msg.CreatedAt, &msg.SenderName); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *chatRepository) CreateMessage(ctx context.Context, taskID, senderID, body string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:       uuid.NewString(),
		TaskID:   taskID,
		SenderID: senderID,
		Body:     body,
	}
	const q = `
		INSERT INTO task_messages (id, task_id, sender_id, body, is_read, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING created_at
	`
	if err := r.DB.QueryRowContext(ctx, q, msg.ID, taskID, senderID, body, time.Now()).Scan(&msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, taskID, readerID string) error {
	const q = `
		UPDATE task_messages
		SET is_read = TRUE
		WHERE task_id = $1 AND sender_id <> $2 AND NOT is_read
	`
	if _, err := r.DB.ExecContext(ctx, q, taskID, readerID); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *chatRepository) IsMember(ctx context.Context, taskID, userID string) (bool, error) {
	const q = `
		SELECT 1 FROM tasks
		WHERE id = $1 AND (customer_id = $2 OR tasker_id = $2)
		LIMIT 1
	`
	var dummy int
	err := r.DB.QueryRowContext(ctx, q, taskID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
