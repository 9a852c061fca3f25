package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"sira/internal/models"
	"sira/internal/repositories"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNotTaskOwner      = errors.New("not the task owner")
	ErrTaskNotOpen       = errors.New("task is not open")
	ErrBadTransition     = errors.New("status transition not allowed")
	ErrAlreadyApplied    = errors.New("already applied to this task")
	ErrOwnTask           = errors.New("cannot apply to your own task")
	ErrApplicationClosed = errors.New("application is not pending")
)

type TaskService interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateStatus(ctx context.Context, taskID, actorID string, to models.TaskStatus, reason *string) error
	ListCategories(ctx context.Context) ([]models.TaskCategory, error)

	Apply(ctx context.Context, app *models.TaskApplication) error
	ListApplications(ctx context.Context, taskID, requesterID string) ([]models.TaskApplication, error)
	ListMyApplications(ctx context.Context, taskerID string) ([]models.TaskApplication, error)
	AcceptApplication(ctx context.Context, applicationID, customerID string) (*models.Task, error)
}

type taskService struct {
	tasks    repositories.TaskRepository
	apps     repositories.ApplicationRepository
	profiles repositories.ProfileRepository
}

func NewTaskService(tasks repositories.TaskRepository, apps repositories.ApplicationRepository, profiles repositories.ProfileRepository) TaskService {
	return &taskService{tasks: tasks, apps: apps, profiles: profiles}
}

func (s *taskService) CreateTask(ctx context.Context, task *models.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return errors.New("title is required")
	}
	if task.Budget < 0 {
		return errors.New("budget cannot be negative")
	}
	if task.TaskSize == "" {
		task.TaskSize = models.SizeMedium
	}
	if task.Urgency == "" {
		task.Urgency = models.UrgencyFlexible
	}
	task.Status = models.TaskOpen
	return s.tasks.Store(ctx, task)
}

func (s *taskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTaskNotFound
	}
	return t, nil
}

func (s *taskService) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	return s.tasks.FindAll(ctx, filter)
}

// UpdateStatus enforces the transition table and ownership. Completing
// a task bumps the tasker's completed count.
func (s *taskService) UpdateStatus(ctx context.Context, taskID, actorID string, to models.TaskStatus, reason *string) error {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.CustomerID != actorID && (task.TaskerID == nil || *task.TaskerID != actorID) {
		return ErrNotTaskOwner
	}
	if !canTransitionTask(task.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, task.Status, to)
	}
	if err := s.tasks.UpdateStatus(ctx, taskID, to, reason); err != nil {
		return err
	}
	if to == models.TaskCompleted && task.TaskerID != nil {
		if err := s.profiles.IncrementCompletedTasks(ctx, *task.TaskerID); err != nil {
			log.Printf("[task][status] warning: completed count bump failed: tasker=%s err=%v", *task.TaskerID, err)
		}
	}
	return nil
}

func (s *taskService) ListCategories(ctx context.Context) ([]models.TaskCategory, error) {
	return s.tasks.ListCategories(ctx)
}

func (s *taskService) Apply(ctx context.Context, app *models.TaskApplication) error {
	task, err := s.GetTask(ctx, app.TaskID)
	if err != nil {
		return err
	}
	if task.Status != models.TaskOpen {
		return ErrTaskNotOpen
	}
	if task.CustomerID == app.TaskerID {
		return ErrOwnTask
	}
	if app.ProposedPrice <= 0 {
		return errors.New("proposed price must be positive")
	}
	exists, err := s.apps.Exists(ctx, app.TaskID, app.TaskerID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyApplied
	}
	app.Status = models.ApplicationPending
	return s.apps.Create(ctx, app)
}

func (s *taskService) ListApplications(ctx context.Context, taskID, requesterID string) ([]models.TaskApplication, error) {
	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.CustomerID != requesterID {
		return nil, ErrNotTaskOwner
	}
	return s.apps.ListForTask(ctx, taskID)
}

func (s *taskService) ListMyApplications(ctx context.Context, taskerID string) ([]models.TaskApplication, error) {
	return s.apps.ListForTasker(ctx, taskerID)
}

// AcceptApplication assigns the task to the applicant at the proposed
// price and rejects the remaining pending offers.
func (s *taskService) AcceptApplication(ctx context.Context, applicationID, customerID string) (*models.Task, error) {
	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, errors.New("application not found")
	}
	if app.Status != models.ApplicationPending {
		return nil, ErrApplicationClosed
	}

	task, err := s.GetTask(ctx, app.TaskID)
	if err != nil {
		return nil, err
	}
	if task.CustomerID != customerID {
		return nil, ErrNotTaskOwner
	}
	if task.Status != models.TaskOpen {
		return nil, ErrTaskNotOpen
	}

	if err := s.tasks.Assign(ctx, task.ID, app.TaskerID, app.ProposedPrice); err != nil {
		return nil, err
	}
	if err := s.apps.UpdateStatus(ctx, app.ID, models.ApplicationAccepted); err != nil {
		return nil, err
	}

	others, err := s.apps.ListForTask(ctx, task.ID)
	if err == nil {
		for _, other := range others {
			if other.ID == app.ID || other.Status != models.ApplicationPending {
				continue
			}
			if err := s.apps.UpdateStatus(ctx, other.ID, models.ApplicationRejected); err != nil {
				log.Printf("[task][accept] warning: reject sibling application failed: id=%s err=%v", other.ID, err)
			}
		}
	}

	log.Printf("[task][accept] task=%s tasker=%s price=%.2f at=%s", task.ID, app.TaskerID, app.ProposedPrice, time.Now().Format(time.RFC3339))
	return s.GetTask(ctx, task.ID)
}
