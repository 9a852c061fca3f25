package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

// VerificationRepository persists issued verification codes. Every send is a
// new row; rows are only ever mutated by flipping used to true.
type VerificationRepository interface {
	Create(ctx context.Context, v *models.PhoneVerification) error
	// FindMatch returns the most recently created row for phone with this
	// exact code that is unused and unexpired, or nil when there is none.
	FindMatch(ctx context.Context, phone, code string) (*models.PhoneVerification, error)
	MarkUsed(ctx context.Context, id string) error
	CountRecentSends(ctx context.Context, phone string, since time.Time) (int, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type verificationRepository struct {
	DB *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationRepository {
	return &verificationRepository{DB: db}
}

func (r *verificationRepository) Create(ctx context.Context, v *models.PhoneVerification) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO phone_verifications (id, phone_number, verification_code, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	if err := r.DB.QueryRowContext(ctx, q,
		v.ID, v.PhoneNumber, v.Code, v.ExpiresAt, v.Used, time.Now(),
	).Scan(&v.CreatedAt); err != nil {
		return fmt.Errorf("create phone verification: %w", err)
	}
	return nil
}

func (r *verificationRepository) FindMatch(ctx context.Context, phone, code string) (*models.PhoneVerification, error) {
	const q = `
		SELECT id, phone_number, verification_code, expires_at, used, created_at
		FROM phone_verifications
		WHERE phone_number = $1 AND verification_code = $2 AND used = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.DB.QueryRowContext(ctx, q, phone, code)

	var v models.PhoneVerification
	if err := row.Scan(&v.ID, &v.PhoneNumber, &v.Code, &v.ExpiresAt, &v.Used, &v.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find verification match: %w", err)
	}
	return &v, nil
}

func (r *verificationRepository) MarkUsed(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx,
		`UPDATE phone_verifications SET used = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark verification used: %w", err)
	}
	return nil
}

func (r *verificationRepository) CountRecentSends(ctx context.Context, phone string, since time.Time) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM phone_verifications
		WHERE phone_number = $1 AND created_at >= $2
	`
	var c int
	if err := r.DB.QueryRowContext(ctx, q, phone, since).Scan(&c); err != nil {
		return 0, fmt.Errorf("count recent sends: %w", err)
	}
	return c, nil
}

// DeleteExpired removes rows whose expiry is behind the given cutoff.
// Best-effort retention; verification never depends on it running.
func (r *verificationRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM phone_verifications WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired verifications: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
