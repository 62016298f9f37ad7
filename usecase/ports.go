package usecase

import (
	"context"

	"github.com/fastygo/productivity/domain"
)

// AchievementNotifier lets task commands celebrate completions without knowing how
// notifications are delivered.
type AchievementNotifier interface {
	SendAchievement(ctx context.Context, achievement string) (*domain.NotificationItem, error)
}
