package communication

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

// Known services, in reporting order.
const (
	ServiceGmail     = "gmail"
	ServiceDiscord   = "discord"
	ServiceMessenger = "messenger"
)

var services = []string{ServiceGmail, ServiceDiscord, ServiceMessenger}

// Credentials enable individual services by presence alone.
type Credentials struct {
	GmailClientID     string
	GmailClientSecret string
	DiscordBotToken   string
}

// Store is the persistence surface the manager needs.
type Store interface {
	SaveCommunicationActivity(ctx context.Context, activity domain.CommunicationActivity) (*domain.CommunicationActivity, error)
	ListCommunicationActivity(ctx context.Context) ([]domain.CommunicationActivity, error)
}

// Manager tracks which connectors are enabled and pulls their snapshots into the store.
type Manager struct {
	mu             sync.Mutex
	gmailEnabled   bool
	discordEnabled bool
	source         repository.SnapshotSource
	store          Store
	logger         *zap.Logger
}

// New builds a manager. A nil source means no connector can be reached and SyncAll is a no-op.
func New(creds Credentials, source repository.SnapshotSource, store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		gmailEnabled:   creds.GmailClientID != "" && creds.GmailClientSecret != "",
		discordEnabled: creds.DiscordBotToken != "",
		source:         source,
		store:          store,
		logger:         logger,
	}
	if !m.gmailEnabled {
		logger.Warn("gmail credentials not found, gmail integration disabled")
	}
	if !m.discordEnabled {
		logger.Warn("discord bot token not found, discord integration disabled")
	}
	return m
}

// IsServiceEnabled reports whether sync will attempt the service.
func (m *Manager) IsServiceEnabled(service string) bool {
	switch service {
	case ServiceGmail:
		return m.gmailEnabled
	case ServiceDiscord:
		return m.discordEnabled
	}
	return false
}

// Status returns one entry per known service: the stored snapshot, or an empty one.
func (m *Manager) Status(ctx context.Context) ([]domain.CommunicationActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, err := m.store.ListCommunicationActivity(ctx)
	if err != nil {
		return nil, err
	}
	byService := make(map[string]domain.CommunicationActivity, len(stored))
	for _, a := range stored {
		byService[a.Service] = a
	}

	out := make([]domain.CommunicationActivity, 0, len(services))
	for _, name := range services {
		if a, ok := byService[name]; ok {
			out = append(out, a)
			continue
		}
		out = append(out, domain.CommunicationActivity{Service: name, KeywordsDetected: []string{}})
	}
	return out, nil
}

// ConnectService returns guidance for connecting a service.
func (m *Manager) ConnectService(service string) (string, error) {
	switch service {
	case ServiceGmail:
		if m.gmailEnabled {
			m.logger.Info("gmail connection requested")
			return "Gmail OAuth flow would be initiated here. Please check your browser.", nil
		}
		return "Gmail credentials not configured. Please add GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET to your environment.", nil
	case ServiceDiscord:
		if m.discordEnabled {
			m.logger.Info("discord connection requested")
			return "Discord bot connection initiated.", nil
		}
		return "Discord bot token not configured. Please add DISCORD_BOT_TOKEN to your environment.", nil
	case ServiceMessenger:
		m.logger.Info("messenger connection requested")
		return "Messenger integration coming soon!", nil
	}
	m.logger.Error("unknown service requested", zap.String("service", service))
	return "", domain.WrapError(domain.ErrCodeInvalid, "unknown service: "+service, domain.ErrUnknownService)
}

// SyncAll fetches the latest snapshot of every enabled service and upserts it. A service
// whose connector fails is skipped; a storage failure aborts the sync.
func (m *Manager) SyncAll(ctx context.Context) ([]domain.CommunicationActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	synced := []domain.CommunicationActivity{}
	if m.source == nil {
		return synced, nil
	}

	for _, name := range services {
		if !m.IsServiceEnabled(name) {
			continue
		}
		snapshot, err := m.source.Snapshot(ctx, name)
		if err != nil {
			m.logger.Error("communication sync failed", zap.String("service", name), zap.Error(err))
			continue
		}
		saved, err := m.store.SaveCommunicationActivity(ctx, *snapshot)
		if err != nil {
			return nil, err
		}
		synced = append(synced, *saved)
	}
	return synced, nil
}
