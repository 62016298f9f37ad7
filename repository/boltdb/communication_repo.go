package boltdb

import (
	"context"
	"encoding/json"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type communicationRepository struct {
	store *Store
}

// NewCommunicationRepository returns a Bolt-backed CommunicationRepository.
func NewCommunicationRepository(store *Store) repository.CommunicationRepository {
	return &communicationRepository{store: store}
}

func (r *communicationRepository) SaveActivity(ctx context.Context, activity *domain.CommunicationActivity) error {
	if activity == nil || activity.Service == "" {
		return domain.ErrInvalidPayload
	}
	if r.store == nil || r.store.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCommunication)
		key := []byte(activity.Service)
		if v := b.Get(key); v != nil {
			var existing domain.CommunicationActivity
			if err := json.Unmarshal(v, &existing); err != nil {
				return err
			}
			activity.CreatedAt = existing.CreatedAt
			if existing.ID != "" {
				activity.ID = existing.ID
			}
		}
		payload, err := json.Marshal(activity)
		if err != nil {
			return err
		}
		return b.Put(key, payload)
	})
}

func (r *communicationRepository) ListActivity(ctx context.Context) ([]domain.CommunicationActivity, error) {
	activities, err := scan[domain.CommunicationActivity](r.store, bucketCommunication)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(activities, func(i, j int) bool {
		if !activities[i].UpdatedAt.Equal(activities[j].UpdatedAt) {
			return activities[i].UpdatedAt.After(activities[j].UpdatedAt)
		}
		return activities[i].Service < activities[j].Service
	})
	return activities, nil
}
