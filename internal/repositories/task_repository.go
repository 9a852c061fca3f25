package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"sira/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error)
	UpdateStatus(ctx context.Context, id string, to models.TaskStatus, reason *string) error
	Assign(ctx context.Context, id, taskerID string, finalPrice float64) error
	ListCategories(ctx context.Context) ([]models.TaskCategory, error)
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.budget, t.address, t.city,
	       t.task_date, t.flexible_date, t.task_size, t.urgency, t.status,
	       t.customer_id, t.tasker_id, t.category_id, t.requirements, t.tags,
	       t.final_price, t.completed_at, t.cancelled_at, t.cancellation_reason,
	       t.created_at, t.updated_at,
	       c.full_name, COALESCE(a.full_name, ''), COALESCE(cat.name, '')
	FROM tasks t
	JOIN profiles c ON c.id = t.customer_id
	LEFT JOIN profiles a ON a.id = t.tasker_id
	LEFT JOIN task_categories cat ON cat.id = t.category_id`

func scanTask(row interface{ Scan(...any) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Budget, &t.Address, &t.City,
		&t.TaskDate, &t.FlexibleDate, &t.TaskSize, &t.Urgency, &t.Status,
		&t.CustomerID, &t.TaskerID, &t.CategoryID,
		pq.Array(&t.Requirements), pq.Array(&t.Tags),
		&t.FinalPrice, &t.CompletedAt, &t.CancelledAt, &t.CancellationReason,
		&t.CreatedAt, &t.UpdatedAt,
		&t.CustomerName, &t.TaskerName, &t.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	const q = `
		INSERT INTO tasks (
			id, title, description, budget, address, city, task_date, flexible_date,
			task_size, urgency, status, customer_id, category_id, requirements, tags,
			created_at, updated_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		task.ID, task.Title, task.Description, task.Budget, task.Address, task.City,
		task.TaskDate, task.FlexibleDate, task.TaskSize, task.Urgency, task.Status,
		task.CustomerID, task.CategoryID,
		pq.Array(task.Requirements), pq.Array(task.Tags),
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return t, nil
}

func (r *taskRepository) FindAll(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	baseQuery := taskSelect

	conditions := []string{}
	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("t.customer_id = $%d", argID))
		args = append(args, *filter.CustomerID)
		argID++
	}
	if filter.TaskerID != nil {
		conditions = append(conditions, fmt.Sprintf("t.tasker_id = $%d", argID))
		args = append(args, *filter.TaskerID)
		argID++
	}
	if filter.NotCustomer != nil {
		conditions = append(conditions, fmt.Sprintf("t.customer_id <> $%d", argID))
		args = append(args, *filter.NotCustomer)
		argID++
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("t.category_id = $%d", argID))
		args = append(args, *filter.CategoryID)
		argID++
	}
	if filter.Query != nil {
		conditions = append(conditions,
			fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", argID, argID))
		args = append(args, "%"+*filter.Query+"%")
		argID++
	}

	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, baseQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) UpdateStatus(ctx context.Context, id string, to models.TaskStatus, reason *string) error {
	var err error
	switch to {
	case models.TaskCompleted:
		_, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET status=$1, completed_at=NOW(), updated_at=NOW() WHERE id=$2`, to, id)
	case models.TaskCancelled:
		_, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET status=$1, cancelled_at=NOW(), cancellation_reason=$2, updated_at=NOW() WHERE id=$3`,
			to, reason, id)
	default:
		_, err = r.db.ExecContext(ctx,
			`UPDATE tasks SET status=$1, updated_at=NOW() WHERE id=$2`, to, id)
	}
	return err
}

func (r *taskRepository) Assign(ctx context.Context, id, taskerID string, finalPrice float64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET status='assigned', tasker_id=$1, final_price=$2, updated_at=NOW()
		WHERE id=$3`, taskerID, finalPrice, id)
	return err
}

func (r *taskRepository) ListCategories(ctx context.Context) ([]models.TaskCategory, error) {
	const q = `
		SELECT id, name, slug, is_active, sort_order
		FROM task_categories
		WHERE is_active = TRUE
		ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.TaskCategory
	for rows.Next() {
		var c models.TaskCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
