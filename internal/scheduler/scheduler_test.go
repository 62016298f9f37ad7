package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/internal/events"
	"github.com/fastygo/productivity/usecase/insight"
)

var now = time.Date(2024, 5, 10, 10, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu       sync.Mutex
	tasks    []domain.Task
	err      error
	calls    int
	insights []domain.Insight
}

func (s *fakeStore) Now() time.Time { return now }

func (s *fakeStore) ListTasks(context.Context) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.tasks, s.err
}

func (s *fakeStore) SaveInsight(_ context.Context, in *domain.Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = append(s.insights, *in)
	return nil
}

func (s *fakeStore) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeGenerator struct {
	insights       insight.Insights
	accountability insight.Accountability
}

func (g fakeGenerator) GenerateInsights(context.Context, []domain.Task) insight.Insights {
	return g.insights
}

func (g fakeGenerator) GenerateAccountability(context.Context, []domain.Task) insight.Accountability {
	return g.accountability
}

type fakeNotifier struct {
	mu             sync.Mutex
	accountability []string
	reminders      []string
	alerts         map[string]int
	err            error
}

func (n *fakeNotifier) SendAccountability(_ context.Context, message string) (*domain.NotificationItem, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accountability = append(n.accountability, message)
	return &domain.NotificationItem{Message: message}, n.err
}

func (n *fakeNotifier) SendTaskReminder(_ context.Context, task domain.Task) (*domain.NotificationItem, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, task.ID)
	return &domain.NotificationItem{}, nil
}

func (n *fakeNotifier) SendCommunicationAlert(_ context.Context, service string, count int) (*domain.NotificationItem, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.alerts == nil {
		n.alerts = map[string]int{}
	}
	n.alerts[service] = count
	return &domain.NotificationItem{}, nil
}

func (n *fakeNotifier) Accountability() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.accountability...)
}

type fakeSyncer struct {
	synced []domain.CommunicationActivity
	err    error
}

func (f fakeSyncer) SyncAll(context.Context) ([]domain.CommunicationActivity, error) {
	return f.synced, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events map[string]any
}

func (p *recordingPublisher) Publish(_ context.Context, name string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = map[string]any{}
	}
	p.events[name] = payload
	return nil
}

func due(id string, in time.Duration, status domain.Status) domain.Task {
	d := now.Add(in)
	return domain.Task{ID: id, Title: id, Status: status, DueDate: &d}
}

func TestAccountabilityCheck(t *testing.T) {
	store := &fakeStore{tasks: []domain.Task{
		due("soon", 20*time.Minute, domain.StatusPending),
		due("edge", time.Hour, domain.StatusInProgress),
		due("later", 2*time.Hour, domain.StatusPending),
		due("late", -time.Minute, domain.StatusPending),
		due("done", 10*time.Minute, domain.StatusCompleted),
		{ID: "undated", Status: domain.StatusPending},
	}}
	notifier := &fakeNotifier{}
	pub := &recordingPublisher{}
	gen := fakeGenerator{accountability: insight.Accountability{Message: "Keep going", Source: insight.SourceFallback}}
	s := New(store, gen, notifier, fakeSyncer{}, pub, nil, Config{})

	result, err := s.AccountabilityCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Keep going", result.Message)
	assert.Equal(t, []string{"Keep going"}, notifier.accountability)
	assert.Equal(t, []string{"soon", "edge"}, notifier.reminders)
	assert.Equal(t, "Keep going", pub.events[events.AccountabilityCheck])
}

func TestAccountabilityCheck_StoreFailure(t *testing.T) {
	store := &fakeStore{err: domain.StorageError("list tasks", errors.New("closed"))}
	notifier := &fakeNotifier{}
	pub := &recordingPublisher{}
	s := New(store, fakeGenerator{}, notifier, fakeSyncer{}, pub, nil, Config{})

	_, err := s.AccountabilityCheck(context.Background())
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStorage))
	assert.Empty(t, notifier.accountability)
	assert.Empty(t, pub.events)
}

func TestRefreshInsights_PersistsWithConfidence(t *testing.T) {
	for _, tc := range []struct {
		source insight.Source
		want   float64
	}{
		{insight.SourceRemote, RemoteConfidence},
		{insight.SourceFallback, FallbackConfidence},
	} {
		t.Run(string(tc.source), func(t *testing.T) {
			store := &fakeStore{}
			pub := &recordingPublisher{}
			gen := fakeGenerator{insights: insight.Insights{Lines: []string{"one", "two"}, Source: tc.source}}
			s := New(store, gen, &fakeNotifier{}, fakeSyncer{}, pub, nil, Config{})

			result, err := s.RefreshInsights(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []string{"one", "two"}, result.Lines)

			require.Len(t, store.insights, 2)
			for _, in := range store.insights {
				assert.Equal(t, domain.InsightProductivityTip, in.InsightType)
				assert.InDelta(t, tc.want, in.Confidence, 1e-9)
				assert.True(t, in.CreatedAt.Equal(now))
				assert.NotEmpty(t, in.ID)
			}
			assert.Equal(t, []string{"one", "two"}, pub.events[events.InsightsUpdated])
		})
	}
}

func TestSyncCommunications(t *testing.T) {
	synced := []domain.CommunicationActivity{
		{Service: "gmail", UnreadCount: 2},
		{Service: "discord", UnreadCount: 0},
	}
	notifier := &fakeNotifier{}
	pub := &recordingPublisher{}
	s := New(&fakeStore{}, fakeGenerator{}, notifier, fakeSyncer{synced: synced}, pub, nil, Config{})

	got, err := s.SyncCommunications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, synced, got)
	assert.Equal(t, map[string]int{"gmail": 2}, notifier.alerts)
	assert.Equal(t, synced, pub.events[events.CommunicationSynced])
}

func TestSyncCommunications_Failure(t *testing.T) {
	pub := &recordingPublisher{}
	s := New(&fakeStore{}, fakeGenerator{}, &fakeNotifier{}, fakeSyncer{err: errors.New("storage")}, pub, nil, Config{})

	_, err := s.SyncCommunications(context.Background())
	assert.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestImmediatelySchedule(t *testing.T) {
	sched := &immediately{then: constant(time.Minute)}
	start := now

	assert.True(t, sched.Next(start).Equal(start))
	assert.True(t, sched.Next(start).Equal(start.Add(time.Minute)))
}

type constant time.Duration

func (c constant) Next(t time.Time) time.Time { return t.Add(time.Duration(c)) }

func TestSchedulerRunsOnStartAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	notifier := &fakeNotifier{}
	gen := fakeGenerator{accountability: insight.Accountability{Message: "tick"}}
	s := New(&fakeStore{}, gen, notifier, fakeSyncer{}, &recordingPublisher{}, nil, Config{RunOnStart: true})

	s.Start()
	assert.Eventually(t, func() bool { return len(notifier.Accountability()) == 1 }, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestFailedTickDoesNotStopTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &fakeStore{err: errors.New("unavailable")}
	s := New(store, fakeGenerator{}, &fakeNotifier{}, fakeSyncer{}, &recordingPublisher{}, nil, Config{
		AccountabilityEvery:    time.Second,
		InsightsEvery:          time.Hour,
		CommunicationSyncEvery: time.Hour,
	})

	s.Start()
	assert.Eventually(t, func() bool { return store.Calls() >= 2 }, 4*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}
