package boltdb

import (
	"context"
	"sort"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type insightRepository struct {
	store *Store
}

// NewInsightRepository returns a Bolt-backed InsightRepository.
func NewInsightRepository(store *Store) repository.InsightRepository {
	return &insightRepository{store: store}
}

func (r *insightRepository) SaveInsight(ctx context.Context, insight *domain.Insight) error {
	if insight == nil || insight.ID == "" {
		return domain.ErrInvalidPayload
	}
	return r.store.put(bucketInsights, insight.ID, insight)
}

func (r *insightRepository) RecentInsights(ctx context.Context, limit int) ([]domain.Insight, error) {
	insights, err := scan[domain.Insight](r.store, bucketInsights)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(insights, func(i, j int) bool {
		if !insights[i].CreatedAt.Equal(insights[j].CreatedAt) {
			return insights[i].CreatedAt.After(insights[j].CreatedAt)
		}
		return insights[i].ID < insights[j].ID
	})
	if limit = repository.ClampLimit(limit); len(insights) > limit {
		insights = insights[:limit]
	}
	return insights, nil
}
