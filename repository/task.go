package repository

import (
	"context"
	"time"

	"github.com/fastygo/productivity/domain"
)

// TaskCounts holds the scalar inputs of ProductivityStats.
type TaskCounts struct {
	Total             int
	Completed         int
	Pending           int
	Overdue           int
	AverageActualTime *float64
}

// TaskRepository persists tasks. Lists are ordered newest first with ties broken by id,
// except ListOverdue which is ordered by due date ascending.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) (bool, error)
	Counts(ctx context.Context, now time.Time) (TaskCounts, error)
}
