package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/internal/events"
)

// Desktop is one best-effort OS notification.
type Desktop struct {
	Title   string
	Body    string
	Icon    string
	Timeout time.Duration
}

// Notifier renders desktop notifications. Failures are logged, never returned.
type Notifier interface {
	Notify(ctx context.Context, n Desktop) error
}

// Store persists notification records.
type Store interface {
	SaveNotification(ctx context.Context, item *domain.NotificationItem) error
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithAppName sets the prefix of desktop notification titles.
func WithAppName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.appName = name
		}
	}
}

// Manager sends notifications through three channels: the desktop notifier, the
// store, and the event publisher. A disabled manager sends nothing.
type Manager struct {
	mu        sync.Mutex
	enabled   bool
	appName   string
	notifier  Notifier
	store     Store
	publisher events.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func New(notifier Notifier, store Store, publisher events.Publisher, opts ...Option) *Manager {
	m := &Manager{
		enabled:   true,
		appName:   "Productivity",
		notifier:  notifier,
		store:     store,
		publisher: publisher,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	m.logger.Info("notifications " + state)
}

func (m *Manager) IsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SendAccountability delivers an accountability check-in.
func (m *Manager) SendAccountability(ctx context.Context, message string) (*domain.NotificationItem, error) {
	return m.send(ctx,
		Desktop{Title: m.appName + " - Accountability Check", Body: message, Icon: "productivity", Timeout: 5 * time.Second},
		"Accountability Check", message, domain.NotificationAccountability, nil)
}

// SendTaskReminder warns about a task that is overdue or due soon.
func (m *Manager) SendTaskReminder(ctx context.Context, task domain.Task) (*domain.NotificationItem, error) {
	minutes := 0
	if task.DueDate != nil {
		minutes = int(task.DueDate.Sub(m.now()) / time.Minute)
	}

	var message string
	switch {
	case minutes <= 0:
		message = fmt.Sprintf("⚠️ Task '%s' is overdue!", task.Title)
	case minutes <= 30:
		message = fmt.Sprintf("⏰ Task '%s' is due in %d minutes", task.Title, minutes)
	default:
		message = fmt.Sprintf("📋 Reminder: '%s' is due in %d minutes", task.Title, minutes)
	}

	action := "app://task/" + task.ID
	return m.send(ctx,
		Desktop{Title: m.appName + " - Task Reminder", Body: message, Icon: "task", Timeout: 7 * time.Second},
		"Task Reminder", message, domain.NotificationTaskReminder, &action)
}

// SendAchievement celebrates a milestone.
func (m *Manager) SendAchievement(ctx context.Context, achievement string) (*domain.NotificationItem, error) {
	message := "🎉 Achievement unlocked: " + achievement
	return m.send(ctx,
		Desktop{Title: m.appName + " - Achievement!", Body: message, Icon: "achievement", Timeout: 8 * time.Second},
		"Achievement Unlocked!", message, domain.NotificationAchievement, nil)
}

// SendCommunicationAlert reports unread messages for a service. A zero count sends nothing.
func (m *Manager) SendCommunicationAlert(ctx context.Context, service string, count int) (*domain.NotificationItem, error) {
	if count == 0 {
		return nil, nil
	}

	icon, message := "notification", fmt.Sprintf("📢 %d new messages in %s", count, service)
	switch service {
	case "gmail":
		icon, message = "mail", fmt.Sprintf("📧 %d new emails require attention", count)
	case "discord":
		icon, message = "chat", fmt.Sprintf("💬 %d new Discord messages", count)
	case "messenger":
		icon, message = "message", fmt.Sprintf("📱 %d new messages in Messenger", count)
	}

	action := "app://communication/" + service
	return m.send(ctx,
		Desktop{Title: m.appName + " - Communication Alert", Body: message, Icon: icon, Timeout: 4 * time.Second},
		"Communication Alert", message, domain.NotificationCommunication, &action)
}

// send returns (nil, nil) when disabled. Only a persistence failure is returned.
func (m *Manager) send(ctx context.Context, desktop Desktop, title, message string, kind domain.NotificationType, action *string) (*domain.NotificationItem, error) {
	if !m.IsEnabled() {
		return nil, nil
	}

	if m.notifier != nil {
		if err := m.notifier.Notify(ctx, desktop); err != nil {
			m.logger.Error("desktop notification failed", zap.String("type", string(kind)), zap.Error(err))
		}
	}

	item := &domain.NotificationItem{
		ID:               uuid.NewString(),
		Title:            title,
		Message:          message,
		NotificationType: kind,
		CreatedAt:        m.now(),
		ActionURL:        action,
	}
	if err := m.store.SaveNotification(ctx, item); err != nil {
		return nil, err
	}

	if m.publisher != nil {
		if err := m.publisher.Publish(ctx, events.Notification, item); err != nil {
			m.logger.Warn("notification event not fully delivered", zap.Error(err))
		}
	}
	return item, nil
}
