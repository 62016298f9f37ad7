package communication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/productivity/domain"
)

type fakeSource map[string]*domain.CommunicationActivity

func (f fakeSource) Snapshot(_ context.Context, service string) (*domain.CommunicationActivity, error) {
	if a, ok := f[service]; ok {
		snapshot := *a
		return &snapshot, nil
	}
	return nil, domain.ErrSnapshotNotFound
}

type memStore struct {
	saved map[string]domain.CommunicationActivity
	err   error
}

func (s *memStore) SaveCommunicationActivity(_ context.Context, a domain.CommunicationActivity) (*domain.CommunicationActivity, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.saved == nil {
		s.saved = map[string]domain.CommunicationActivity{}
	}
	a.UpdatedAt = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)
	s.saved[a.Service] = a
	return &a, nil
}

func (s *memStore) ListCommunicationActivity(context.Context) ([]domain.CommunicationActivity, error) {
	out := make([]domain.CommunicationActivity, 0, len(s.saved))
	for _, a := range s.saved {
		out = append(out, a)
	}
	return out, s.err
}

var allCreds = Credentials{GmailClientID: "id", GmailClientSecret: "secret", DiscordBotToken: "token"}

func TestIsServiceEnabled(t *testing.T) {
	m := New(Credentials{GmailClientID: "id"}, nil, &memStore{}, nil)
	assert.False(t, m.IsServiceEnabled(ServiceGmail))
	assert.False(t, m.IsServiceEnabled(ServiceDiscord))
	assert.False(t, m.IsServiceEnabled(ServiceMessenger))

	m = New(allCreds, nil, &memStore{}, nil)
	assert.True(t, m.IsServiceEnabled(ServiceGmail))
	assert.True(t, m.IsServiceEnabled(ServiceDiscord))
	assert.False(t, m.IsServiceEnabled("slack"))
}

func TestConnectService(t *testing.T) {
	off := New(Credentials{}, nil, &memStore{}, nil)
	on := New(allCreds, nil, &memStore{}, nil)

	msg, err := off.ConnectService(ServiceGmail)
	require.NoError(t, err)
	assert.Contains(t, msg, "GMAIL_CLIENT_ID")

	msg, err = on.ConnectService(ServiceDiscord)
	require.NoError(t, err)
	assert.Equal(t, "Discord bot connection initiated.", msg)

	msg, err = on.ConnectService(ServiceMessenger)
	require.NoError(t, err)
	assert.Equal(t, "Messenger integration coming soon!", msg)

	_, err = on.ConnectService("slack")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownService)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSyncAll_SkipsFailingServices(t *testing.T) {
	store := &memStore{}
	source := fakeSource{
		ServiceDiscord:   {Service: ServiceDiscord, MessageCount: 12, Mentions: 1},
		ServiceMessenger: {Service: ServiceMessenger, MessageCount: 99},
	}
	m := New(allCreds, source, store, nil)

	synced, err := m.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, ServiceDiscord, synced[0].Service)
	assert.Equal(t, 12, synced[0].MessageCount)
	assert.NotContains(t, store.saved, ServiceMessenger)
}

func TestSyncAll_StorageFailureSurfaces(t *testing.T) {
	store := &memStore{err: domain.StorageError("save communication activity", errors.New("locked"))}
	source := fakeSource{ServiceGmail: {Service: ServiceGmail, UnreadCount: 2}}
	m := New(allCreds, source, store, nil)

	_, err := m.SyncAll(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStorage))
}

func TestSyncAll_NoSource(t *testing.T) {
	m := New(allCreds, nil, &memStore{}, nil)

	synced, err := m.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, synced)
}

func TestStatus_FillsUnknownServices(t *testing.T) {
	store := &memStore{saved: map[string]domain.CommunicationActivity{
		ServiceDiscord: {Service: ServiceDiscord, UnreadCount: 4},
	}}
	m := New(allCreds, nil, store, nil)

	status, err := m.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, status, 3)
	assert.Equal(t, ServiceGmail, status[0].Service)
	assert.Zero(t, status[0].UnreadCount)
	assert.Equal(t, 4, status[1].UnreadCount)
	assert.Equal(t, ServiceMessenger, status[2].Service)
}
