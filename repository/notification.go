package repository

import (
	"context"

	"github.com/fastygo/productivity/domain"
)

type NotificationRepository interface {
	SaveNotification(ctx context.Context, item *domain.NotificationItem) error
	Notifications(ctx context.Context, limit int) ([]domain.NotificationItem, error)
	MarkRead(ctx context.Context, id string) (bool, error)
	UnreadCount(ctx context.Context) (int, error)
}
