package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *models.Review) error
	Exists(ctx context.Context, taskID, reviewerID string, reviewType models.ReviewType) (bool, error)
	ListForUser(ctx context.Context, userID string) ([]models.Review, error)
	StatsForUser(ctx context.Context, userID string) (*models.ReviewStats, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	now := time.Now()
	rv.CreatedAt = now
	rv.UpdatedAt = now
	const q = `
		INSERT INTO reviews (
			id, task_id, reviewer_id, reviewee_id, rating, comment,
			review_type, is_public, created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	if _, err := r.db.ExecContext(ctx, q,
		rv.ID, rv.TaskID, rv.ReviewerID, rv.RevieweeID, rv.Rating, rv.Comment,
		rv.ReviewType, rv.IsPublic, rv.CreatedAt, rv.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *reviewRepository) Exists(ctx context.Context, taskID, reviewerID string, reviewType models.ReviewType) (bool, error) {
	const q = `
		SELECT 1 FROM reviews
		WHERE task_id = $1 AND reviewer_id = $2 AND review_type = $3
		LIMIT 1`
	var dummy int
	err := r.db.QueryRowContext(ctx, q, taskID, reviewerID, reviewType).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *reviewRepository) ListForUser(ctx context.Context, userID string) ([]models.Review, error) {
	const q = `
		SELECT rv.id, rv.task_id, rv.reviewer_id, rv.reviewee_id, rv.rating, rv.comment,
		       rv.review_type, rv.is_public, rv.created_at, rv.updated_at,
		       rr.full_name, re.full_name, t.title
		FROM reviews rv
		JOIN profiles rr ON rr.id = rv.reviewer_id
		JOIN profiles re ON re.id = rv.reviewee_id
		JOIN tasks t ON t.id = rv.task_id
		WHERE rv.reviewee_id = $1 AND rv.is_public = TRUE
		ORDER BY rv.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.TaskID, &rv.ReviewerID, &rv.RevieweeID, &rv.Rating, &rv.Comment,
			&rv.ReviewType, &rv.IsPublic, &rv.CreatedAt, &rv.UpdatedAt,
			&rv.ReviewerName, &rv.RevieweeName, &rv.TaskTitle,
		); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *reviewRepository) StatsForUser(ctx context.Context, userID string) (*models.ReviewStats, error) {
	const q = `
		SELECT rating, COUNT(*)
		FROM reviews
		WHERE reviewee_id = $1
		GROUP BY rating
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()

	stats := &models.ReviewStats{Breakdown: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.Breakdown[rating] = count
		stats.TotalReviews += count
		sum += rating * count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}
