package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event names published to the presentation layer.
const (
	AccountabilityCheck = "accountability_check"
	InsightsUpdated     = "insights_updated"
	CommunicationSynced = "communication_synced"
	Notification        = "notification"
)

// Event is one published occurrence. Payload is JSON-encodable.
type Event struct {
	Name    string    `json:"event"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// Publisher is what producers depend on.
type Publisher interface {
	Publish(ctx context.Context, name string, payload any) error
}

// Sink forwards events outside the process.
type Sink interface {
	Name() string
	Send(ctx context.Context, evt Event) error
}

// Bus fans events out to in-process subscribers and external sinks. Slow subscribers
// miss events instead of blocking the publisher.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	sinks  []Sink
	now    func() time.Time
	logger *zap.Logger
}

// NewBus creates a bus that forwards every event to sinks.
func NewBus(logger *zap.Logger, sinks ...Sink) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		subs:   make(map[int]chan Event),
		sinks:  sinks,
		now:    time.Now,
		logger: logger,
	}
}

// Subscribe returns a channel of events and a function that detaches it.
func (b *Bus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers to subscribers, then to each sink. Sink failures are joined and
// returned; delivery to the remaining sinks continues.
func (b *Bus) Publish(ctx context.Context, name string, payload any) error {
	evt := Event{Name: name, Payload: payload, At: b.now()}

	b.mu.RLock()
	for id, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			b.logger.Warn("event dropped for slow subscriber", zap.String("event", name), zap.Int("subscriber", id))
		}
	}
	b.mu.RUnlock()

	var result error
	for _, sink := range b.sinks {
		if err := sink.Send(ctx, evt); err != nil {
			b.logger.Error("event sink failed", zap.String("sink", sink.Name()), zap.String("event", name), zap.Error(err))
			result = errors.Join(result, err)
		}
	}
	return result
}

// Subscribers returns the number of attached subscribers.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
