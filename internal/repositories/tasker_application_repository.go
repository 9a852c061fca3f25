package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sira/internal/models"
)

type TaskerApplicationRepository interface {
	Create(ctx context.Context, a *models.TaskerApplication) error
	GetByID(ctx context.Context, id string) (*models.TaskerApplication, error)
	GetByUserID(ctx context.Context, userID string) (*models.TaskerApplication, error)
	ListByStatus(ctx context.Context, status models.TaskerApplicationStatus) ([]models.TaskerApplication, error)
	SetDecision(ctx context.Context, id string, status models.TaskerApplicationStatus, reviewerID string, rejectionReason, adminNotes *string) error
}

type taskerApplicationRepository struct {
	db *sql.DB
}

func NewTaskerApplicationRepository(db *sql.DB) TaskerApplicationRepository {
	return &taskerApplicationRepository{db: db}
}

const taskerAppColumns = `
	id, user_id, status, full_name, email, phone, bio, skills, experience,
	hourly_rate, languages, certifications, rejection_reason, admin_notes,
	reviewed_at, reviewed_by, created_at, updated_at`

func scanTaskerApp(row interface{ Scan(...any) error }) (*models.TaskerApplication, error) {
	var a models.TaskerApplication
	err := row.Scan(
		&a.ID, &a.UserID, &a.Status, &a.FullName, &a.Email, &a.Phone, &a.Bio,
		pq.Array(&a.Skills), &a.Experience, &a.HourlyRate,
		pq.Array(&a.Languages), pq.Array(&a.Certifications),
		&a.RejectionReason, &a.AdminNotes, &a.ReviewedAt, &a.ReviewedBy,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *taskerApplicationRepository) Create(ctx context.Context, a *models.TaskerApplication) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	const q = `
		INSERT INTO tasker_applications (
			id, user_id, status, full_name, email, phone, bio, skills, experience,
			hourly_rate, languages, certifications, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`
	if _, err := r.db.ExecContext(ctx, q,
		a.ID, a.UserID, a.Status, a.FullName, a.Email, a.Phone, a.Bio,
		pq.Array(a.Skills), a.Experience, a.HourlyRate,
		pq.Array(a.Languages), pq.Array(a.Certifications),
		a.CreatedAt, a.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create tasker application: %w", err)
	}
	return nil
}

func (r *taskerApplicationRepository) GetByID(ctx context.Context, id string) (*models.TaskerApplication, error) {
	q := `SELECT` + taskerAppColumns + ` FROM tasker_applications WHERE id = $1`
	a, err := scanTaskerApp(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tasker application: %w", err)
	}
	return a, nil
}

func (r *taskerApplicationRepository) GetByUserID(ctx context.Context, userID string) (*models.TaskerApplication, error) {
	q := `SELECT` + taskerAppColumns + `
		FROM tasker_applications WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 1`
	a, err := scanTaskerApp(r.db.QueryRowContext(ctx, q, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tasker application by user: %w", err)
	}
	return a, nil
}

func (r *taskerApplicationRepository) ListByStatus(ctx context.Context, status models.TaskerApplicationStatus) ([]models.TaskerApplication, error) {
	q := `SELECT` + taskerAppColumns + `
		FROM tasker_applications WHERE status = $1
		ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, fmt.Errorf("list tasker applications: %w", err)
	}
	defer rows.Close()

	var out []models.TaskerApplication
	for rows.Next() {
		a, err := scanTaskerApp(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (r *taskerApplicationRepository) SetDecision(ctx context.Context, id string, status models.TaskerApplicationStatus, reviewerID string, rejectionReason, adminNotes *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasker_applications
		SET status=$1, reviewed_by=$2, reviewed_at=NOW(),
		    rejection_reason=$3, admin_notes=$4, updated_at=NOW()
		WHERE id=$5`, status, reviewerID, rejectionReason, adminNotes, id)
	return err
}
