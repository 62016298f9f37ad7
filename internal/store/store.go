package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

// Backend bundles the repositories of one storage driver.
type Backend struct {
	Tasks         repository.TaskRepository
	Insights      repository.InsightRepository
	Notifications repository.NotificationRepository
	Communication repository.CommunicationRepository
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used to report storage failures.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the single writer over every persisted entity. All calls are serialized
// by one mutex; backend failures come back as STORAGE domain errors.
type Store struct {
	mu      sync.Mutex
	backend Backend
	now     func() time.Time
	logger  *zap.Logger
}

// New wraps a backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) fail(op string, err error) error {
	s.logger.Error("storage operation failed", zap.String("op", op), zap.Error(err))
	return domain.StorageError(op, err)
}

// CreateTask builds a pending task from req and persists it.
func (s *Store) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := domain.NewTask(req, s.now())
	if err := s.backend.Tasks.Create(ctx, &task); err != nil {
		return nil, s.fail("create task", err)
	}
	return &task, nil
}

// GetTask returns nil without error when the task does not exist.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getTask(ctx, id)
}

func (s *Store) getTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := s.backend.Tasks.GetByID(ctx, id)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, s.fail("get task", err)
	}
	return task, nil
}

// UpdateTask fetches, merges and writes back under one lock acquisition. It returns
// the previous and the updated task; both are nil when the id is unknown.
func (s *Store) UpdateTask(ctx context.Context, id string, req domain.UpdateTaskRequest) (before, after *domain.Task, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.getTask(ctx, id)
	if err != nil || current == nil {
		return nil, nil, err
	}

	previous := *current
	current.ApplyUpdate(req, s.now())
	if err := s.backend.Tasks.Update(ctx, current); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, nil, nil
		}
		return nil, nil, s.fail("update task", err)
	}
	return &previous, current, nil
}

// DeleteTask reports whether a task was removed.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.backend.Tasks.Delete(ctx, id)
	if err != nil {
		return false, s.fail("delete task", err)
	}
	return existed, nil
}

// ListTasks returns every task, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Tasks.List(ctx)
	if err != nil {
		return nil, s.fail("list tasks", err)
	}
	return tasks, nil
}

func (s *Store) ListTasksByStatus(ctx context.Context, status domain.Status) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Tasks.ListByStatus(ctx, status)
	if err != nil {
		return nil, s.fail("list tasks by status", err)
	}
	return tasks, nil
}

// ListOverdue returns overdue tasks, soonest due date first.
func (s *Store) ListOverdue(ctx context.Context, now time.Time) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.backend.Tasks.ListOverdue(ctx, now)
	if err != nil {
		return nil, s.fail("list overdue tasks", err)
	}
	return tasks, nil
}

// Stats builds the scalar part of ProductivityStats from the backend aggregates.
func (s *Store) Stats(ctx context.Context, now time.Time) (domain.ProductivityStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, err := s.backend.Tasks.Counts(ctx, now)
	if err != nil {
		return domain.ProductivityStats{}, s.fail("task counts", err)
	}
	return domain.ProductivityStats{
		TotalTasks:            counts.Total,
		CompletedTasks:        counts.Completed,
		PendingTasks:          counts.Pending,
		OverdueTasks:          counts.Overdue,
		CompletionRate:        domain.CompletionRate(counts.Completed, counts.Total),
		AverageCompletionTime: counts.AverageActualTime,
	}, nil
}

func (s *Store) SaveInsight(ctx context.Context, insight *domain.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Insights.SaveInsight(ctx, insight); err != nil {
		return s.fail("save insight", err)
	}
	return nil
}

// RecentInsights returns up to limit insights, most recent first.
func (s *Store) RecentInsights(ctx context.Context, limit int) ([]domain.Insight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	insights, err := s.backend.Insights.RecentInsights(ctx, limit)
	if err != nil {
		return nil, s.fail("recent insights", err)
	}
	return insights, nil
}

func (s *Store) SaveNotification(ctx context.Context, item *domain.NotificationItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Notifications.SaveNotification(ctx, item); err != nil {
		return s.fail("save notification", err)
	}
	return nil
}

// Notifications returns up to limit notifications, most recent first.
func (s *Store) Notifications(ctx context.Context, limit int) ([]domain.NotificationItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.backend.Notifications.Notifications(ctx, limit)
	if err != nil {
		return nil, s.fail("list notifications", err)
	}
	return items, nil
}

// MarkNotificationRead returns false when the id is unknown.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, err := s.backend.Notifications.MarkRead(ctx, id)
	if err != nil {
		return false, s.fail("mark notification read", err)
	}
	return found, nil
}

func (s *Store) UnreadNotificationCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.backend.Notifications.UnreadCount(ctx)
	if err != nil {
		return 0, s.fail("unread notification count", err)
	}
	return count, nil
}

// SaveCommunicationActivity upserts a snapshot by service. The first save fixes
// ID and CreatedAt; later saves only advance UpdatedAt and replace the counters.
func (s *Store) SaveCommunicationActivity(ctx context.Context, activity domain.CommunicationActivity) (*domain.CommunicationActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	activity.ID = uuid.NewString()
	activity.CreatedAt = now
	activity.UpdatedAt = now
	if activity.KeywordsDetected == nil {
		activity.KeywordsDetected = []string{}
	}
	if err := s.backend.Communication.SaveActivity(ctx, &activity); err != nil {
		return nil, s.fail("save communication activity", err)
	}
	return &activity, nil
}

// ListCommunicationActivity returns stored snapshots, most recently updated first.
func (s *Store) ListCommunicationActivity(ctx context.Context) ([]domain.CommunicationActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	activities, err := s.backend.Communication.ListActivity(ctx)
	if err != nil {
		return nil, s.fail("list communication activity", err)
	}
	return activities, nil
}
