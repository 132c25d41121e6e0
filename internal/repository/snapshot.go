package repository

import (
	"context"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
)

// SnapshotRepository defines persistence for comparison snapshots.
// Writes happen fire-and-forget after a comparison is served; a failing
// repository must never fail or delay the comparison itself.
type SnapshotRepository interface {
	// Create persists a new snapshot.
	Create(ctx context.Context, snapshot *domain.ComparisonSnapshot) error

	// GetRecent retrieves the most recent snapshots, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.ComparisonSnapshot, error)

	// GetByID retrieves a single snapshot, ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*domain.ComparisonSnapshot, error)
}
