package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	redislib "github.com/redis/go-redis/v9"
)

// RedisSink publishes each event as JSON on <prefix><event name>.
type RedisSink struct {
	client *redislib.Client
	prefix string
}

func NewRedisSink(client *redislib.Client, prefix string) *RedisSink {
	return &RedisSink{client: client, prefix: prefix}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.client.Publish(ctx, s.prefix+evt.Name, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event to redis: %w", err)
	}
	return nil
}

// NatsSink publishes each event as JSON on <subject>.<event name>.
type NatsSink struct {
	nc      *nats.Conn
	subject string
}

func NewNatsSink(nc *nats.Conn, subject string) *NatsSink {
	return &NatsSink{nc: nc, subject: subject}
}

func (s *NatsSink) Name() string { return "nats" }

func (s *NatsSink) Send(_ context.Context, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := s.nc.Publish(fmt.Sprintf("%s.%s", s.subject, evt.Name), data); err != nil {
		return fmt.Errorf("failed to publish event to nats: %w", err)
	}
	return nil
}
