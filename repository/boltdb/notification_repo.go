package boltdb

import (
	"context"
	"encoding/json"
	"sort"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type notificationRepository struct {
	store *Store
}

// NewNotificationRepository returns a Bolt-backed NotificationRepository.
func NewNotificationRepository(store *Store) repository.NotificationRepository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) SaveNotification(ctx context.Context, item *domain.NotificationItem) error {
	if item == nil || item.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.put(bucketNotifications, item.ID, item)
}

func (r *notificationRepository) Notifications(ctx context.Context, limit int) ([]domain.NotificationItem, error) {
	items, err := scan[domain.NotificationItem](r.store, bucketNotifications)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	if limit = repository.ClampLimit(limit); len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	if r.store == nil || r.store.db == nil {
		return false, bolt.ErrDatabaseNotOpen
	}
	var found bool
	err := r.store.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotifications)
		v := b.Get([]byte(id))
		if v == nil {
			return nil
		}
		found = true
		var item domain.NotificationItem
		if err := json.Unmarshal(v, &item); err != nil {
			return err
		}
		item.IsRead = true
		payload, err := json.Marshal(item)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), payload)
	})
	return found, err
}

func (r *notificationRepository) UnreadCount(ctx context.Context) (int, error) {
	items, err := scan[domain.NotificationItem](r.store, bucketNotifications)
	if err != nil {
		return 0, err
	}
	var unread int
	for _, item := range items {
		if !item.IsRead {
			unread++
		}
	}
	return unread, nil
}
