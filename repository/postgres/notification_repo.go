package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) SaveNotification(ctx context.Context, item *domain.NotificationItem) error {
	if item == nil || item.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO notifications (id, title, message, notification_type, is_read, created_at, action_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.Title,
		item.Message,
		string(item.NotificationType),
		item.IsRead,
		item.CreatedAt,
		nullString(item.ActionURL),
	)
	return err
}

func (r *notificationRepository) Notifications(ctx context.Context, limit int) ([]domain.NotificationItem, error) {
	const query = `
	SELECT id, title, message, notification_type, is_read, created_at, action_url
	FROM notifications
	ORDER BY created_at DESC, id ASC
	LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, repository.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.NotificationItem
	for rows.Next() {
		var (
			item domain.NotificationItem
			kind string
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Message, &kind, &item.IsRead, &item.CreatedAt, &item.ActionURL); err != nil {
			return nil, err
		}
		item.NotificationType = domain.NotificationType(kind)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (bool, error) {
	const query = `UPDATE notifications SET is_read = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM notifications WHERE is_read = FALSE`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return int(count), nil
}
