package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/repository"
)

type communicationRepository struct {
	pool *pgxpool.Pool
}

// NewCommunicationRepository returns a Postgres-backed CommunicationRepository.
func NewCommunicationRepository(pool *pgxpool.Pool) repository.CommunicationRepository {
	return &communicationRepository{pool: pool}
}

func (r *communicationRepository) SaveActivity(ctx context.Context, activity *domain.CommunicationActivity) error {
	if activity == nil || activity.Service == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO communication_activity
		(id, service, message_count, unread_count, last_activity, mentions, keywords_detected, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (service) DO UPDATE
	SET message_count = EXCLUDED.message_count,
		unread_count = EXCLUDED.unread_count,
		last_activity = EXCLUDED.last_activity,
		mentions = EXCLUDED.mentions,
		keywords_detected = EXCLUDED.keywords_detected,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.Service,
		activity.MessageCount,
		activity.UnreadCount,
		nullTime(activity.LastActivity),
		activity.Mentions,
		marshalStrings(activity.KeywordsDetected),
		activity.CreatedAt,
		activity.UpdatedAt,
	).Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt)
}

func (r *communicationRepository) ListActivity(ctx context.Context) ([]domain.CommunicationActivity, error) {
	const query = `
	SELECT id, service, message_count, unread_count, last_activity, mentions, keywords_detected, created_at, updated_at
	FROM communication_activity
	ORDER BY updated_at DESC, service ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.CommunicationActivity
	for rows.Next() {
		var (
			activity domain.CommunicationActivity
			keywords []byte
		)
		if err := rows.Scan(
			&activity.ID,
			&activity.Service,
			&activity.MessageCount,
			&activity.UnreadCount,
			&activity.LastActivity,
			&activity.Mentions,
			&keywords,
			&activity.CreatedAt,
			&activity.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(keywords) > 0 {
			_ = json.Unmarshal(keywords, &activity.KeywordsDetected)
		}
		activities = append(activities, activity)
	}
	return activities, rows.Err()
}
