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

type ProfileRepository interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByPhone(ctx context.Context, phone string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	ListTaskers(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	SearchTaskers(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error)
	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdateRating(ctx context.Context, id string, average float64, count int) error
	IncrementCompletedTasks(ctx context.Context, id string) error
	TouchLastActive(ctx context.Context, id string) error

	// refresh helpers
	UpdateRefresh(ctx context.Context, id, token string, expiresAt time.Time) error
	RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.Profile, error)
	ClearRefresh(ctx context.Context, id string) error
	GetByRefreshToken(ctx context.Context, token string) (*models.Profile, error)
}

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{DB: db}
}

const profileColumns = `
	id, phone, full_name, username, email, bio, role, available,
	phone_verified, verification_status, skills, languages, certifications,
	hourly_rate, experience_years, city, rating_average, rating_count,
	completed_tasks, is_admin, password_hash, last_active, created_at, updated_at,
	refresh_token, refresh_expires_at, refresh_revoked`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Phone, &p.FullName, &p.Username, &p.Email, &p.Bio, &p.Role, &p.Available,
		&p.PhoneVerified, &p.VerificationStatus,
		pq.Array(&p.Skills), pq.Array(&p.Languages), pq.Array(&p.Certifications),
		&p.HourlyRate, &p.ExperienceYears, &p.City, &p.RatingAverage, &p.RatingCount,
		&p.CompletedTasks, &p.IsAdmin, &p.PasswordHash, &p.LastActive, &p.CreatedAt, &p.UpdatedAt,
		&p.RefreshToken, &p.RefreshExpiresAt, &p.RefreshRevoked,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Create(ctx context.Context, p *models.Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.LastActive = now
	const q = `
		INSERT INTO profiles (
			id, phone, full_name, username, email, bio, role, available,
			phone_verified, verification_status, skills, languages, certifications,
			hourly_rate, experience_years, city, rating_average, rating_count,
			completed_tasks, is_admin, password_hash, last_active, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
	`
	if _, err := r.DB.ExecContext(ctx, q,
		p.ID, p.Phone, p.FullName, p.Username, p.Email, p.Bio, p.Role, p.Available,
		p.PhoneVerified, p.VerificationStatus,
		pq.Array(p.Skills), pq.Array(p.Languages), pq.Array(p.Certifications),
		p.HourlyRate, p.ExperienceYears, p.City, p.RatingAverage, p.RatingCount,
		p.CompletedTasks, p.IsAdmin, p.PasswordHash, p.LastActive, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	q := `SELECT` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

func (r *profileRepository) GetByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	q := `SELECT` + profileColumns + ` FROM profiles WHERE phone = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, q, phone))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by phone: %w", err)
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *models.Profile) error {
	p.UpdatedAt = time.Now()
	const q = `
		UPDATE profiles SET
			full_name=$1, username=$2, email=$3, bio=$4, available=$5,
			skills=$6, languages=$7, certifications=$8, hourly_rate=$9,
			experience_years=$10, city=$11, updated_at=$12
		WHERE id=$13
	`
	if _, err := r.DB.ExecContext(ctx, q,
		p.FullName, p.Username, p.Email, p.Bio, p.Available,
		pq.Array(p.Skills), pq.Array(p.Languages), pq.Array(p.Certifications),
		p.HourlyRate, p.ExperienceYears, p.City, p.UpdatedAt, p.ID,
	); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func (r *profileRepository) ListTaskers(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	q := `SELECT` + profileColumns + `
		FROM profiles
		WHERE role IN ('tasker','both') AND available = TRUE
		ORDER BY rating_average DESC, rating_count DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list taskers: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tasker: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SearchTaskers matches the query against the name, the bio and any skill.
func (r *profileRepository) SearchTaskers(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error) {
	q := `SELECT` + profileColumns + `
		FROM profiles
		WHERE role IN ('tasker','both') AND available = TRUE
		  AND (full_name ILIKE $1
		       OR bio ILIKE $1
		       OR EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE s ILIKE $1))
		ORDER BY rating_average DESC, rating_count DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, q, "%"+query+"%", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("search taskers: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tasker: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE profiles SET role=$1, updated_at=NOW() WHERE id=$2`, role, id)
	return err
}

func (r *profileRepository) UpdateRating(ctx context.Context, id string, average float64, count int) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE profiles SET rating_average=$1, rating_count=$2, updated_at=NOW() WHERE id=$3`,
		average, count, id)
	return err
}

func (r *profileRepository) IncrementCompletedTasks(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE profiles SET completed_tasks = completed_tasks + 1, updated_at=NOW() WHERE id=$1`, id)
	return err
}

func (r *profileRepository) TouchLastActive(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE profiles SET last_active=NOW() WHERE id=$1`, id)
	return err
}

func (r *profileRepository) UpdateRefresh(ctx context.Context, id, token string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE profiles
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE id=$3`, token, expiresAt, id)
	return err
}

func (r *profileRepository) RotateRefresh(ctx context.Context, oldToken, newToken string, newExpiresAt time.Time) (*models.Profile, error) {
	q := `
		UPDATE profiles
		SET refresh_token=$1, refresh_expires_at=$2, refresh_revoked=FALSE
		WHERE refresh_token=$3 AND refresh_revoked=FALSE
		RETURNING` + profileColumns
	p, err := scanProfile(r.DB.QueryRowContext(ctx, q, newToken, newExpiresAt, oldToken))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rotate refresh: %w", err)
	}
	return p, nil
}

func (r *profileRepository) ClearRefresh(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE profiles
		SET refresh_token=NULL, refresh_expires_at=NULL, refresh_revoked=FALSE
		WHERE id=$1`, id)
	return err
}

func (r *profileRepository) GetByRefreshToken(ctx context.Context, token string) (*models.Profile, error) {
	q := `SELECT` + profileColumns + ` FROM profiles WHERE refresh_token = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, q, token))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile by refresh token: %w", err)
	}
	return p, nil
}
