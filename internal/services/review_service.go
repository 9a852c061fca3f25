package services

import (
	"context"
	"errors"
	"log"

	"sira/internal/models"
	"sira/internal/repositories"
)

var (
	ErrAlreadyReviewed  = errors.New("review already left for this task")
	ErrTaskNotCompleted = errors.New("task is not completed")
	ErrNotReviewable    = errors.New("reviewer was not part of this task")
)

type ReviewService interface {
	CreateReview(ctx context.Context, rv *models.Review) error
	ListForUser(ctx context.Context, userID string) ([]models.Review, error)
	StatsForUser(ctx context.Context, userID string) (*models.ReviewStats, error)
}

type reviewService struct {
	reviews  repositories.ReviewRepository
	tasks    repositories.TaskRepository
	profiles repositories.ProfileRepository
}

func NewReviewService(reviews repositories.ReviewRepository, tasks repositories.TaskRepository, profiles repositories.ProfileRepository) ReviewService {
	return &reviewService{reviews: reviews, tasks: tasks, profiles: profiles}
}

// CreateReview accepts one review per task per direction, only after
// completion, and recomputes the reviewee's rating aggregates.
func (s *reviewService) CreateReview(ctx context.Context, rv *models.Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	task, err := s.tasks.FindByID(ctx, rv.TaskID)
	if err != nil {
		return err
	}
	if task == nil {
		return ErrTaskNotFound
	}
	if task.Status != models.TaskCompleted {
		return ErrTaskNotCompleted
	}
	if task.TaskerID == nil {
		return ErrNotReviewable
	}

	switch rv.ReviewType {
	case models.ReviewOfTasker:
		if rv.ReviewerID != task.CustomerID {
			return ErrNotReviewable
		}
		rv.RevieweeID = *task.TaskerID
	case models.ReviewOfCustomer:
		if rv.ReviewerID != *task.TaskerID {
			return ErrNotReviewable
		}
		rv.RevieweeID = task.CustomerID
	default:
		return errors.New("unknown review type")
	}

	exists, err := s.reviews.Exists(ctx, rv.TaskID, rv.ReviewerID, rv.ReviewType)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyReviewed
	}

	if err := s.reviews.Create(ctx, rv); err != nil {
		return err
	}

	stats, err := s.reviews.StatsForUser(ctx, rv.RevieweeID)
	if err != nil {
		log.Printf("[review][create] warning: stats recompute failed: user=%s err=%v", rv.RevieweeID, err)
		return nil
	}
	if err := s.profiles.UpdateRating(ctx, rv.RevieweeID, stats.AverageRating, stats.TotalReviews); err != nil {
		log.Printf("[review][create] warning: rating update failed: user=%s err=%v", rv.RevieweeID, err)
	}
	return nil
}

func (s *reviewService) ListForUser(ctx context.Context, userID string) ([]models.Review, error) {
	return s.reviews.ListForUser(ctx, userID)
}

func (s *reviewService) StatsForUser(ctx context.Context, userID string) (*models.ReviewStats, error) {
	return s.reviews.StatsForUser(ctx, userID)
}
