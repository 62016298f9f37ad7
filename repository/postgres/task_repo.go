package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

const taskColumns = `id, title, description, priority, status, category, estimated_time, actual_time,
	due_date, created_at, updated_at, completed_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id ASC`
	return r.query(ctx, query)
}

func (r *taskRepository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	const query = `SELECT ` + taskColumns + ` FROM tasks WHERE status = $1 ORDER BY created_at DESC, id ASC`
	return r.query(ctx, query, string(status))
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	const query = `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE due_date < $1 AND status <> 'completed'
	ORDER BY due_date ASC, id ASC
	`
	return r.query(ctx, query, now)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Priority),
		string(task.Status),
		task.Category,
		task.EstimatedTime,
		nullInt(task.ActualTime),
		nullTime(task.DueDate),
		task.CreatedAt,
		task.UpdatedAt,
		nullTime(task.CompletedAt),
	)
	return err
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		priority = $4,
		status = $5,
		category = $6,
		estimated_time = $7,
		actual_time = $8,
		due_date = $9,
		updated_at = $10,
		completed_at = $11
	WHERE id = $1
	RETURNING created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		nullString(task.Description),
		string(task.Priority),
		string(task.Status),
		task.Category,
		task.EstimatedTime,
		nullInt(task.ActualTime),
		nullTime(task.DueDate),
		task.UpdatedAt,
		nullTime(task.CompletedAt),
	).Scan(&task.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *taskRepository) Counts(ctx context.Context, now time.Time) (repository.TaskCounts, error) {
	const query = `
	SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE due_date < $1 AND status <> 'completed'),
		(AVG(actual_time) FILTER (WHERE status = 'completed' AND actual_time IS NOT NULL))::float8
	FROM tasks
	`

	var (
		counts                             repository.TaskCounts
		total, completed, pending, overdue int64
		avg                                *float64
	)
	if err := r.pool.QueryRow(ctx, query, now).Scan(&total, &completed, &pending, &overdue, &avg); err != nil {
		return repository.TaskCounts{}, err
	}

	counts.Total = int(total)
	counts.Completed = int(completed)
	counts.Pending = int(pending)
	counts.Overdue = int(overdue)
	counts.AverageActualTime = avg
	return counts, nil
}

func (r *taskRepository) query(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task     domain.Task
		priority string
		status   string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.Category,
		&task.EstimatedTime,
		&task.ActualTime,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Priority = domain.Priority(priority)
	task.Status = domain.Status(status)
	return &task, nil
}
