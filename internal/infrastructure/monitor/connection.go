package monitor

import (
	"context"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is satisfied by every storage backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Monitor.
type Options struct {
	Storage       Pinger
	StorageDriver string
	Redis         *redislib.Client
	RemoteModel   bool
	Interval      time.Duration
	Logger        *zap.Logger
}

type Monitor struct {
	storage       Pinger
	storageDriver string
	redis         *redislib.Client
	remoteModel   bool

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	once     sync.Once
	logger   *zap.Logger
}

func New(opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Monitor{
		storage:       opts.Storage,
		storageDriver: opts.StorageDriver,
		redis:         opts.Redis,
		remoteModel:   opts.RemoteModel,
		interval:      opts.Interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		logger:        opts.Logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

// Stop halts the refresh loop and waits for it to exit. Safe to call more than once.
func (m *Monitor) Stop() {
	m.once.Do(func() {
		close(m.stopCh)
		<-m.doneCh
	})
}

// IsHealthy reports whether storage answered the last ping and, when Redis is configured, Redis did too.
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.status.Storage {
		return false
	}
	return !m.status.RedisEnabled || m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh runs every check once and stores the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	status := Status{
		Storage:       m.checkStorage(ctx),
		StorageDriver: m.storageDriver,
		Redis:         m.checkRedis(ctx),
		RedisEnabled:  m.redis != nil,
		RemoteModel:   m.remoteModel,
		LastCheck:     time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return status
}

func (m *Monitor) loop() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) checkStorage(ctx context.Context) bool {
	if m.storage == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := m.storage.Ping(ctx); err != nil {
		m.logger.Warn("storage ping failed", zap.String("driver", m.storageDriver), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkRedis(ctx context.Context) bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}
