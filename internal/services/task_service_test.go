package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"sira/internal/models"
)

type fakeTaskRepo struct {
	tasks map[string]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*models.Task)}
}

func (f *fakeTaskRepo) Store(_ context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskRepo) FindByID(_ context.Context, id string) (*models.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTaskRepo) FindAll(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil && t.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.NotCustomer != nil && t.CustomerID == *filter.NotCustomer {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTaskRepo) UpdateStatus(_ context.Context, id string, to models.TaskStatus, reason *string) error {
	t, ok := f.tasks[id]
	if !ok {
		return errors.New("not found")
	}
	t.Status = to
	t.CancellationReason = reason
	return nil
}

func (f *fakeTaskRepo) Assign(_ context.Context, id, taskerID string, finalPrice float64) error {
	t, ok := f.tasks[id]
	if !ok {
		return errors.New("not found")
	}
	t.TaskerID = &taskerID
	t.FinalPrice = &finalPrice
	t.Status = models.TaskAssigned
	return nil
}

func (f *fakeTaskRepo) ListCategories(_ context.Context) ([]models.TaskCategory, error) {
	return nil, nil
}

type fakeApplicationRepo struct {
	apps map[string]*models.TaskApplication
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*models.TaskApplication)}
}

func (f *fakeApplicationRepo) Create(_ context.Context, a *models.TaskApplication) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	cp := *a
	f.apps[a.ID] = &cp
	return nil
}

func (f *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.TaskApplication, error) {
	a, ok := f.apps[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplicationRepo) Exists(_ context.Context, taskID, taskerID string) (bool, error) {
	for _, a := range f.apps {
		if a.TaskID == taskID && a.TaskerID == taskerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationRepo) ListForTask(_ context.Context, taskID string) ([]models.TaskApplication, error) {
	var out []models.TaskApplication
	for _, a := range f.apps {
		if a.TaskID == taskID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) ListForTasker(_ context.Context, taskerID string) ([]models.TaskApplication, error) {
	var out []models.TaskApplication
	for _, a := range f.apps {
		if a.TaskerID == taskerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) UpdateStatus(_ context.Context, id string, status models.ApplicationStatus) error {
	a, ok := f.apps[id]
	if !ok {
		return errors.New("not found")
	}
	a.Status = status
	return nil
}

type taskFixture struct {
	tasks    *fakeTaskRepo
	apps     *fakeApplicationRepo
	profiles *fakeProfileRepo
	svc      TaskService
}

func newTaskFixture() *taskFixture {
	tasks := newFakeTaskRepo()
	apps := newFakeApplicationRepo()
	profiles := newFakeProfileRepo()
	return &taskFixture{
		tasks:    tasks,
		apps:     apps,
		profiles: profiles,
		svc:      NewTaskService(tasks, apps, profiles),
	}
}

func (f *taskFixture) openTask(t *testing.T, customerID string) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:      "Fix leaking sink",
		Budget:     500,
		CategoryID: "plumbing",
		CustomerID: customerID,
	}
	if err := f.svc.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newTaskFixture()
	task := f.openTask(t, "customer-1")

	if task.Status != models.TaskOpen {
		t.Fatalf("expected open status, got %s", task.Status)
	}
	if task.TaskSize != models.SizeMedium || task.Urgency != models.UrgencyFlexible {
		t.Fatalf("expected defaults applied, got %s/%s", task.TaskSize, task.Urgency)
	}
}

func TestApplyGuards(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	task := f.openTask(t, "customer-1")

	if err := f.svc.Apply(ctx, &models.TaskApplication{TaskID: task.ID, TaskerID: "customer-1", ProposedPrice: 100}); !errors.Is(err, ErrOwnTask) {
		t.Fatalf("expected ErrOwnTask, got %v", err)
	}

	app := &models.TaskApplication{TaskID: task.ID, TaskerID: "tasker-1", ProposedPrice: 450}
	if err := f.svc.Apply(ctx, app); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("expected pending status, got %s", app.Status)
	}

	if err := f.svc.Apply(ctx, &models.TaskApplication{TaskID: task.ID, TaskerID: "tasker-1", ProposedPrice: 400}); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestAcceptApplicationAssignsAndRejectsOthers(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()
	task := f.openTask(t, "customer-1")

	winner := &models.TaskApplication{TaskID: task.ID, TaskerID: "tasker-1", ProposedPrice: 450}
	loser := &models.TaskApplication{TaskID: task.ID, TaskerID: "tasker-2", ProposedPrice: 480}
	if err := f.svc.Apply(ctx, winner); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Apply(ctx, loser); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.AcceptApplication(ctx, winner.ID, "someone-else"); !errors.Is(err, ErrNotTaskOwner) {
		t.Fatalf("expected ErrNotTaskOwner, got %v", err)
	}

	updated, err := f.svc.AcceptApplication(ctx, winner.ID, "customer-1")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if updated.Status != models.TaskAssigned {
		t.Fatalf("expected assigned, got %s", updated.Status)
	}
	if updated.TaskerID == nil || *updated.TaskerID != "tasker-1" {
		t.Fatalf("expected tasker-1 assigned")
	}
	if updated.FinalPrice == nil || *updated.FinalPrice != 450 {
		t.Fatalf("expected final price 450")
	}

	rejected, _ := f.apps.GetByID(ctx, loser.ID)
	if rejected.Status != models.ApplicationRejected {
		t.Fatalf("expected sibling application rejected, got %s", rejected.Status)
	}

	// applications on a no-longer-open task are refused
	if err := f.svc.Apply(ctx, &models.TaskApplication{TaskID: task.ID, TaskerID: "tasker-3", ProposedPrice: 300}); !errors.Is(err, ErrTaskNotOpen) {
		t.Fatalf("expected ErrTaskNotOpen, got %v", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	f := newTaskFixture()
	ctx := context.Background()

	tasker := &models.Profile{Phone: "+251911111111", FullName: "T", Username: "t", Role: models.RoleBoth}
	if err := f.profiles.Create(ctx, tasker); err != nil {
		t.Fatal(err)
	}

	task := f.openTask(t, "customer-1")
	app := &models.TaskApplication{TaskID: task.ID, TaskerID: tasker.ID, ProposedPrice: 450}
	if err := f.svc.Apply(ctx, app); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.AcceptApplication(ctx, app.ID, "customer-1"); err != nil {
		t.Fatal(err)
	}

	// open -> completed is not a legal jump for a fresh task
	other := f.openTask(t, "customer-1")
	if err := f.svc.UpdateStatus(ctx, other.ID, "customer-1", models.TaskCompleted, nil); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("expected ErrBadTransition, got %v", err)
	}

	if err := f.svc.UpdateStatus(ctx, task.ID, tasker.ID, models.TaskInProgress, nil); err != nil {
		t.Fatalf("assigned -> in_progress: %v", err)
	}
	if err := f.svc.UpdateStatus(ctx, task.ID, "customer-1", models.TaskCompleted, nil); err != nil {
		t.Fatalf("in_progress -> completed: %v", err)
	}

	p, _ := f.profiles.GetByID(ctx, tasker.ID)
	if p.CompletedTasks != 1 {
		t.Fatalf("expected completed task counter bump, got %d", p.CompletedTasks)
	}

	if err := f.svc.UpdateStatus(ctx, task.ID, "stranger", models.TaskCancelled, nil); !errors.Is(err, ErrNotTaskOwner) {
		t.Fatalf("expected ErrNotTaskOwner for stranger, got %v", err)
	}
}
