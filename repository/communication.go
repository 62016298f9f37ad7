package repository

import (
	"context"

	"github.com/fastygo/productivity/domain"
)

// CommunicationRepository upserts snapshots by service name. On conflict the stored
// CreatedAt survives and every other field, UpdatedAt included, is replaced.
type CommunicationRepository interface {
	SaveActivity(ctx context.Context, activity *domain.CommunicationActivity) error
	ListActivity(ctx context.Context) ([]domain.CommunicationActivity, error)
}

// SnapshotSource supplies the latest snapshot published by an external connector.
type SnapshotSource interface {
	Snapshot(ctx context.Context, service string) (*domain.CommunicationActivity, error)
}
