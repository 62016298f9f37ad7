package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

// DefaultSnapshotPrefix is the key prefix connectors publish under.
const DefaultSnapshotPrefix = "communication:snapshot:"

type snapshotSource struct {
	client *redislib.Client
	prefix string
}

// NewSnapshotSource reads connector snapshots stored as JSON at <prefix><service>.
func NewSnapshotSource(client *redislib.Client, prefix string) repository.SnapshotSource {
	if prefix == "" {
		prefix = DefaultSnapshotPrefix
	}
	return &snapshotSource{
		client: client,
		prefix: prefix,
	}
}

func (s *snapshotSource) Snapshot(ctx context.Context, service string) (*domain.CommunicationActivity, error) {
	result, err := s.client.Get(ctx, s.key(service)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSnapshotNotFound
		}
		return nil, err
	}
	return decodeSnapshot(service, []byte(result))
}

func (s *snapshotSource) key(service string) string {
	return fmt.Sprintf("%s%s", s.prefix, service)
}

// decodeSnapshot parses a connector payload. The key decides the service name.
func decodeSnapshot(service string, payload []byte) (*domain.CommunicationActivity, error) {
	var activity domain.CommunicationActivity
	if err := json.Unmarshal(payload, &activity); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "malformed snapshot for "+service, err)
	}
	activity.Service = service
	if activity.KeywordsDetected == nil {
		activity.KeywordsDetected = []string{}
	}
	return &activity, nil
}
