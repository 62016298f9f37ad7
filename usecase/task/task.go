package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/usecase"
	"github.com/fastygo/productivity/usecase/analytics"
)

// Store is the task surface of the Task Store.
type Store interface {
	Now() time.Time
	CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, req domain.UpdateTaskRequest) (before, after *domain.Task, err error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	ListTasksByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error)
	Stats(ctx context.Context, now time.Time) (domain.ProductivityStats, error)
}

type UseCase struct {
	store        Store
	achievements usecase.AchievementNotifier
	logger       *zap.Logger
}

func New(store Store, achievements usecase.AchievementNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:        store,
		achievements: achievements,
		logger:       logger,
	}
}

// ListTasks returns all tasks, or only those with the given status.
func (uc *UseCase) ListTasks(ctx context.Context, status *domain.Status) ([]domain.Task, error) {
	if status != nil {
		return uc.store.ListTasksByStatus(ctx, *status)
	}
	return uc.store.ListTasks(ctx)
}

func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	task, err := uc.store.CreateTask(ctx, req)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("task created", zap.String("task_id", task.ID))
	return task, nil
}

// UpdateTask merges req into the task. Completing a task sends an achievement notification;
// a failure there is logged and does not undo the update.
func (uc *UseCase) UpdateTask(ctx context.Context, id string, req domain.UpdateTaskRequest) (*domain.Task, error) {
	before, after, err := uc.store.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if after == nil {
		return nil, domain.ErrTaskNotFound
	}

	if !before.IsCompleted() && after.IsCompleted() && uc.achievements != nil {
		if _, err := uc.achievements.SendAchievement(ctx, "Task completed: "+after.Title); err != nil {
			uc.logger.Error("failed to send achievement", zap.String("task_id", id), zap.Error(err))
		}
	}
	return after, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	existed, err := uc.store.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrTaskNotFound
	}
	uc.logger.Info("task deleted", zap.String("task_id", id))
	return nil
}

func (uc *UseCase) ListOverdue(ctx context.Context) ([]domain.Task, error) {
	return uc.store.ListOverdue(ctx, uc.store.Now())
}

// Stats takes the counters from the store aggregates and the breakdowns from a task snapshot.
func (uc *UseCase) Stats(ctx context.Context) (domain.ProductivityStats, error) {
	now := uc.store.Now()
	stats, err := uc.store.Stats(ctx, now)
	if err != nil {
		return domain.ProductivityStats{}, err
	}
	tasks, err := uc.store.ListTasks(ctx)
	if err != nil {
		return domain.ProductivityStats{}, err
	}

	breakdown := analytics.ComputeStats(tasks, now)
	stats.MostProductiveHours = breakdown.MostProductiveHours
	stats.CommonCategories = breakdown.CommonCategories
	stats.WeeklyProgress = breakdown.WeeklyProgress
	return stats, nil
}

// Patterns returns the behavioural findings for the current task set.
func (uc *UseCase) Patterns(ctx context.Context) ([]string, error) {
	tasks, err := uc.store.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.AnalyzePatterns(tasks), nil
}
