package repository

import (
	"context"

	"github.com/fastygo/productivity/domain"
)

type InsightRepository interface {
	SaveInsight(ctx context.Context, insight *domain.Insight) error
	RecentInsights(ctx context.Context, limit int) ([]domain.Insight, error)
}
