package boltdb

import (
	"context"
	"time"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type taskRepository struct {
	store *Store
}

// NewTaskRepository returns a Bolt-backed implementation of TaskRepository.
func NewTaskRepository(store *Store) repository.TaskRepository {
	return &taskRepository{store: store}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	found, err := r.store.get(bucketTasks, id, &task)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := scan[domain.Task](r.store, bucketTasks)
	if err != nil {
		return nil, err
	}
	repository.SortNewestFirst(tasks)
	return tasks, nil
}

func (r *taskRepository) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	return r.filter(func(t *domain.Task) bool { return t.Status == status })
}

func (r *taskRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	tasks, err := r.filter(func(t *domain.Task) bool { return t.IsOverdue(now) })
	if err != nil {
		return nil, err
	}
	repository.SortByDueDate(tasks)
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.put(bucketTasks, task.ID, task)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil || task.ID == "" {
		return domain.ErrInvalidPayload
	}
	var existing domain.Task
	found, err := r.store.get(bucketTasks, task.ID, &existing)
	if err != nil {
		return err
	}
	if !found {
		return domain.ErrTaskNotFound
	}
	task.CreatedAt = existing.CreatedAt
	return r.store.put(bucketTasks, task.ID, task)
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	return r.store.delete(bucketTasks, id)
}

func (r *taskRepository) Counts(ctx context.Context, now time.Time) (repository.TaskCounts, error) {
	tasks, err := scan[domain.Task](r.store, bucketTasks)
	if err != nil {
		return repository.TaskCounts{}, err
	}

	counts := repository.TaskCounts{Total: len(tasks)}
	var timed, sum int
	for i := range tasks {
		t := &tasks[i]
		switch t.Status {
		case domain.StatusCompleted:
			counts.Completed++
			if t.ActualTime != nil {
				timed++
				sum += *t.ActualTime
			}
		case domain.StatusPending:
			counts.Pending++
		}
		if t.IsOverdue(now) {
			counts.Overdue++
		}
	}
	if timed > 0 {
		avg := float64(sum) / float64(timed)
		counts.AverageActualTime = &avg
	}
	return counts, nil
}

func (r *taskRepository) filter(keep func(*domain.Task) bool) ([]domain.Task, error) {
	tasks, err := scan[domain.Task](r.store, bucketTasks)
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for i := range tasks {
		if keep(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	repository.SortNewestFirst(out)
	return out, nil
}
