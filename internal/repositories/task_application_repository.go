package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.TaskApplication) error
	GetByID(ctx context.Context, id string) (*models.TaskApplication, error)
	Exists(ctx context.Context, taskID, taskerID string) (bool, error)
	ListForTask(ctx context.Context, taskID string) ([]models.TaskApplication, error)
	ListForTasker(ctx context.Context, taskerID string) ([]models.TaskApplication, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error
}

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, a *models.TaskApplication) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	const q = `
		INSERT INTO task_applications (
			id, task_id, tasker_id, proposed_price, message,
			availability_date, estimated_hours, status, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	if _, err := r.db.ExecContext(ctx, q,
		a.ID, a.TaskID, a.TaskerID, a.ProposedPrice, a.Message,
		a.AvailabilityDate, a.EstimatedHours, a.Status, a.CreatedAt, a.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create task application: %w", err)
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.TaskApplication, error) {
	const q = `
		SELECT a.id, a.task_id, a.tasker_id, a.proposed_price, a.message,
		       a.availability_date, a.estimated_hours, a.status, a.created_at, a.updated_at,
		       p.full_name, p.rating_average
		FROM task_applications a
		JOIN profiles p ON p.id = a.tasker_id
		WHERE a.id = $1
	`
	var a models.TaskApplication
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.TaskID, &a.TaskerID, &a.ProposedPrice, &a.Message,
		&a.AvailabilityDate, &a.EstimatedHours, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&a.TaskerName, &a.TaskerRating,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task application: %w", err)
	}
	return &a, nil
}

func (r *applicationRepository) Exists(ctx context.Context, taskID, taskerID string) (bool, error) {
	const q = `SELECT 1 FROM task_applications WHERE task_id = $1 AND tasker_id = $2 LIMIT 1`
	var dummy int
	err := r.db.QueryRowContext(ctx, q, taskID, taskerID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *applicationRepository) ListForTask(ctx context.Context, taskID string) ([]models.TaskApplication, error) {
	const q = `
		SELECT a.id, a.task_id, a.tasker_id, a.proposed_price, a.message,
		       a.availability_date, a.estimated_hours, a.status, a.created_at, a.updated_at,
		       p.full_name, p.rating_average
		FROM task_applications a
		JOIN profiles p ON p.id = a.tasker_id
		WHERE a.task_id = $1
		ORDER BY a.created_at DESC
	`
	return r.list(ctx, q, taskID)
}

func (r *applicationRepository) ListForTasker(ctx context.Context, taskerID string) ([]models.TaskApplication, error) {
	const q = `
		SELECT a.id, a.task_id, a.tasker_id, a.proposed_price, a.message,
		       a.availability_date, a.estimated_hours, a.status, a.created_at, a.updated_at,
		       p.full_name, p.rating_average
		FROM task_applications a
		JOIN profiles p ON p.id = a.tasker_id
		WHERE a.tasker_id = $1
		ORDER BY a.created_at DESC
	`
	return r.list(ctx, q, taskerID)
}

func (r *applicationRepository) list(ctx context.Context, q string, arg any) ([]models.TaskApplication, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, fmt.Errorf("list task applications: %w", err)
	}
	defer rows.Close()

	var out []models.TaskApplication
	for rows.Next() {
		var a models.TaskApplication
		if err := rows.Scan(
			&a.ID, &a.TaskID, &a.TaskerID, &a.ProposedPrice, &a.Message,
			&a.AvailabilityDate, &a.EstimatedHours, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&a.TaskerName, &a.TaskerRating,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE task_applications SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}
