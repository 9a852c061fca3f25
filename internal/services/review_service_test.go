package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

type fakeReviewRepo struct {
	reviews []*models.Review
}

func (f *fakeReviewRepo) Create(_ context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedAt = time.Now()
	cp := *rv
	f.reviews = append(f.reviews, &cp)
	return nil
}

func (f *fakeReviewRepo) Exists(_ context.Context, taskID, reviewerID string, reviewType models.ReviewType) (bool, error) {
	for _, rv := range f.reviews {
		if rv.TaskID == taskID && rv.ReviewerID == reviewerID && rv.ReviewType == reviewType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListForUser(_ context.Context, userID string) ([]models.Review, error) {
	var out []models.Review
	for _, rv := range f.reviews {
		if rv.RevieweeID == userID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) StatsForUser(_ context.Context, userID string) (*models.ReviewStats, error) {
	stats := &models.ReviewStats{Breakdown: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, rv := range f.reviews {
		if rv.RevieweeID != userID {
			continue
		}
		stats.TotalReviews++
		stats.Breakdown[rv.Rating]++
		sum += rv.Rating
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

type reviewFixture struct {
	reviews  *fakeReviewRepo
	tasks    *fakeTaskRepo
	profiles *fakeProfileRepo
	svc      ReviewService
}

func newReviewFixture(t *testing.T) (*reviewFixture, *models.Task, *models.Profile) {
	t.Helper()
	reviews := &fakeReviewRepo{}
	tasks := newFakeTaskRepo()
	profiles := newFakeProfileRepo()

	tasker := &models.Profile{Phone: "+251911111111", FullName: "T", Username: "t", Role: models.RoleBoth}
	if err := profiles.Create(context.Background(), tasker); err != nil {
		t.Fatal(err)
	}

	task := &models.Task{
		Title:      "Paint the fence",
		CustomerID: "customer-1",
		TaskerID:   &tasker.ID,
		Status:     models.TaskCompleted,
		CategoryID: "painting",
	}
	if err := tasks.Store(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	return &reviewFixture{
		reviews:  reviews,
		tasks:    tasks,
		profiles: profiles,
		svc:      NewReviewService(reviews, tasks, profiles),
	}, task, tasker
}

func TestCreateReviewUpdatesRating(t *testing.T) {
	f, task, tasker := newReviewFixture(t)
	ctx := context.Background()

	rv := &models.Review{TaskID: task.ID, ReviewerID: "customer-1", Rating: 5, ReviewType: models.ReviewOfTasker}
	if err := f.svc.CreateReview(ctx, rv); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if rv.RevieweeID != tasker.ID {
		t.Fatalf("expected reviewee to be the tasker")
	}

	p, _ := f.profiles.GetByID(ctx, tasker.ID)
	if p.RatingAverage != 5 || p.RatingCount != 1 {
		t.Fatalf("expected rating aggregates updated, got avg=%v count=%d", p.RatingAverage, p.RatingCount)
	}
}

func TestCreateReviewGuards(t *testing.T) {
	f, task, tasker := newReviewFixture(t)
	ctx := context.Background()

	// rating bounds
	if err := f.svc.CreateReview(ctx, &models.Review{TaskID: task.ID, ReviewerID: "customer-1", Rating: 6, ReviewType: models.ReviewOfTasker}); err == nil {
		t.Fatalf("expected rating bound error")
	}

	// only the customer may review the tasker
	if err := f.svc.CreateReview(ctx, &models.Review{TaskID: task.ID, ReviewerID: "stranger", Rating: 4, ReviewType: models.ReviewOfTasker}); !errors.Is(err, ErrNotReviewable) {
		t.Fatalf("expected ErrNotReviewable, got %v", err)
	}

	// duplicate in the same direction
	first := &models.Review{TaskID: task.ID, ReviewerID: "customer-1", Rating: 4, ReviewType: models.ReviewOfTasker}
	if err := f.svc.CreateReview(ctx, first); err != nil {
		t.Fatal(err)
	}
	dup := &models.Review{TaskID: task.ID, ReviewerID: "customer-1", Rating: 3, ReviewType: models.ReviewOfTasker}
	if err := f.svc.CreateReview(ctx, dup); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	// the other direction is still open
	back := &models.Review{TaskID: task.ID, ReviewerID: tasker.ID, Rating: 5, ReviewType: models.ReviewOfCustomer}
	if err := f.svc.CreateReview(ctx, back); err != nil {
		t.Fatalf("reverse review: %v", err)
	}
	if back.RevieweeID != "customer-1" {
		t.Fatalf("expected reviewee to be the customer")
	}
}

func TestCreateReviewRequiresCompletion(t *testing.T) {
	f, _, _ := newReviewFixture(t)
	ctx := context.Background()

	open := &models.Task{Title: "Open job", CustomerID: "customer-1", CategoryID: "misc", Status: models.TaskOpen}
	if err := f.tasks.Store(ctx, open); err != nil {
		t.Fatal(err)
	}

	err := f.svc.CreateReview(ctx, &models.Review{TaskID: open.ID, ReviewerID: "customer-1", Rating: 5, ReviewType: models.ReviewOfTasker})
	if !errors.Is(err, ErrTaskNotCompleted) {
		t.Fatalf("expected ErrTaskNotCompleted, got %v", err)
	}
}
