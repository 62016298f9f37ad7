package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/internal/events"
	"github.com/fastygo/productivity/usecase/insight"
)

// Confidence recorded with persisted insights, by generation path.
const (
	RemoteConfidence   = 0.8
	FallbackConfidence = 0.6
)

// Store is the Task Store surface the ticks read and write.
type Store interface {
	Now() time.Time
	ListTasks(ctx context.Context) ([]domain.Task, error)
	SaveInsight(ctx context.Context, insight *domain.Insight) error
}

// Generator produces insights and accountability messages.
type Generator interface {
	GenerateInsights(ctx context.Context, tasks []domain.Task) insight.Insights
	GenerateAccountability(ctx context.Context, tasks []domain.Task) insight.Accountability
}

// Notifier delivers the notifications raised by ticks.
type Notifier interface {
	SendAccountability(ctx context.Context, message string) (*domain.NotificationItem, error)
	SendTaskReminder(ctx context.Context, task domain.Task) (*domain.NotificationItem, error)
	SendCommunicationAlert(ctx context.Context, service string, count int) (*domain.NotificationItem, error)
}

// Syncer pulls communication snapshots.
type Syncer interface {
	SyncAll(ctx context.Context) ([]domain.CommunicationActivity, error)
}

// Config holds the three timer intervals.
type Config struct {
	AccountabilityEvery    time.Duration
	InsightsEvery          time.Duration
	CommunicationSyncEvery time.Duration
	// RunOnStart fires every job once as soon as the scheduler starts.
	RunOnStart bool
	// TickTimeout bounds a single tick. Zero means no bound.
	TickTimeout time.Duration
}

// Scheduler runs the accountability, insight and communication timers. Each timer is
// an independent cron entry; a failed tick is logged and the next one fires on schedule.
type Scheduler struct {
	store         Store
	generator     Generator
	notifications Notifier
	communication Syncer
	publisher     events.Publisher
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           Config
}

func New(
	store Store,
	generator Generator,
	notifications Notifier,
	communication Syncer,
	publisher events.Publisher,
	logger *zap.Logger,
	cfg Config,
) *Scheduler {
	if cfg.AccountabilityEvery <= 0 {
		cfg.AccountabilityEvery = time.Hour
	}
	if cfg.InsightsEvery <= 0 {
		cfg.InsightsEvery = 30 * time.Minute
	}
	if cfg.CommunicationSyncEvery <= 0 {
		cfg.CommunicationSyncEvery = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cronLogger := newCronLogger(logger)
	s := &Scheduler{
		store:         store,
		generator:     generator,
		notifications: notifications,
		communication: communication,
		publisher:     publisher,
		logger:        logger,
		cfg:           cfg,
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
	}

	s.schedule("accountability_check", cfg.AccountabilityEvery, func(ctx context.Context) error {
		_, err := s.AccountabilityCheck(ctx)
		return err
	})
	s.schedule("insights_refresh", cfg.InsightsEvery, func(ctx context.Context) error {
		_, err := s.RefreshInsights(ctx)
		return err
	})
	s.schedule("communication_sync", cfg.CommunicationSyncEvery, func(ctx context.Context) error {
		_, err := s.SyncCommunications(ctx)
		return err
	})
	return s
}

func (s *Scheduler) schedule(name string, every time.Duration, tick func(ctx context.Context) error) {
	var sched cron.Schedule = cron.Every(every)
	if s.cfg.RunOnStart {
		sched = &immediately{then: sched}
	}
	s.cron.Schedule(sched, cron.FuncJob(func() {
		ctx := context.Background()
		if s.cfg.TickTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.TickTimeout)
			defer cancel()
		}
		started := time.Now()
		if err := tick(ctx); err != nil {
			s.logger.Error("scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.logger.Info("scheduled job completed", zap.String("job", name), zap.Duration("took", time.Since(started)))
	}))
}

// Start launches the timers.
func (s *Scheduler) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.Duration("accountability_every", s.cfg.AccountabilityEvery),
		zap.Duration("insights_every", s.cfg.InsightsEvery),
		zap.Duration("communication_sync_every", s.cfg.CommunicationSyncEvery),
	)
}

// Stop halts the timers and waits for running ticks until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.logger.Info("scheduler stopped")
	return nil
}

// AccountabilityCheck generates a check-in, notifies the user, publishes it, and sends
// reminders for open tasks due within the next hour.
func (s *Scheduler) AccountabilityCheck(ctx context.Context) (insight.Accountability, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return insight.Accountability{}, err
	}

	result := s.generator.GenerateAccountability(ctx, tasks)
	if _, err := s.notifications.SendAccountability(ctx, result.Message); err != nil {
		return result, err
	}
	s.publish(ctx, events.AccountabilityCheck, result.Message)

	now := s.store.Now()
	horizon := now.Add(time.Hour)
	for _, t := range tasks {
		if t.IsCompleted() || t.DueDate == nil || !t.DueDate.After(now) || t.DueDate.After(horizon) {
			continue
		}
		if _, err := s.notifications.SendTaskReminder(ctx, t); err != nil {
			return result, err
		}
	}
	return result, nil
}

// RefreshInsights generates insights, stores each line, and publishes the list.
func (s *Scheduler) RefreshInsights(ctx context.Context) (insight.Insights, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return insight.Insights{}, err
	}

	result := s.generator.GenerateInsights(ctx, tasks)
	confidence := FallbackConfidence
	if result.Source == insight.SourceRemote {
		confidence = RemoteConfidence
	}

	now := s.store.Now()
	for _, line := range result.Lines {
		record := &domain.Insight{
			ID:          uuid.NewString(),
			Message:     line,
			InsightType: domain.InsightProductivityTip,
			Confidence:  confidence,
			CreatedAt:   now,
		}
		if err := s.store.SaveInsight(ctx, record); err != nil {
			return result, err
		}
	}

	s.publish(ctx, events.InsightsUpdated, result.Lines)
	return result, nil
}

// SyncCommunications pulls connector snapshots, alerts on unread messages, and publishes the result.
func (s *Scheduler) SyncCommunications(ctx context.Context) ([]domain.CommunicationActivity, error) {
	synced, err := s.communication.SyncAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, activity := range synced {
		if activity.UnreadCount <= 0 {
			continue
		}
		if _, err := s.notifications.SendCommunicationAlert(ctx, activity.Service, activity.UnreadCount); err != nil {
			return synced, err
		}
	}

	s.publish(ctx, events.CommunicationSynced, synced)
	return synced, nil
}

func (s *Scheduler) publish(ctx context.Context, name string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, name, payload); err != nil {
		s.logger.Warn("event not fully delivered", zap.String("event", name), zap.Error(err))
	}
}

// immediately fires once at start, then follows the wrapped schedule.
type immediately struct {
	fired bool
	then  cron.Schedule
}

func (s *immediately) Next(t time.Time) time.Time {
	if !s.fired {
		s.fired = true
		return t
	}
	return s.then.Next(t)
}
