package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type insightRepository struct {
	pool *pgxpool.Pool
}

// NewInsightRepository returns a Postgres-backed InsightRepository.
func NewInsightRepository(pool *pgxpool.Pool) repository.InsightRepository {
	return &insightRepository{pool: pool}
}

func (r *insightRepository) SaveInsight(ctx context.Context, insight *domain.Insight) error {
	if insight == nil || insight.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO ai_insights (id, message, insight_type, confidence, created_at)
	VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		insight.ID,
		insight.Message,
		string(insight.InsightType),
		insight.Confidence,
		insight.CreatedAt,
	)
	return err
}

func (r *insightRepository) RecentInsights(ctx context.Context, limit int) ([]domain.Insight, error) {
	const query = `
	SELECT id, message, insight_type, confidence, created_at
	FROM ai_insights
	ORDER BY created_at DESC, id ASC
	LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, repository.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insights []domain.Insight
	for rows.Next() {
		var (
			insight domain.Insight
			kind    string
		)
		if err := rows.Scan(&insight.ID, &insight.Message, &kind, &insight.Confidence, &insight.CreatedAt); err != nil {
			return nil, err
		}
		insight.InsightType = domain.InsightType(kind)
		insights = append(insights, insight)
	}
	return insights, rows.Err()
}
