package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattleonard16/ridecomparsion-sub001/internal/domain"
	"github.com/mattleonard16/ridecomparsion-sub001/internal/repository"
)

// SnapshotRepository is a PostgreSQL implementation of
// repository.SnapshotRepository.
type SnapshotRepository struct {
	q Querier
}

// NewSnapshotRepository creates a new PostgreSQL snapshot repository.
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{q: db}
}

// Create persists a new comparison snapshot.
func (r *SnapshotRepository) Create(ctx context.Context, s *domain.ComparisonSnapshot) error {
	query := `
		INSERT INTO comparison_snapshots (id, pickup, destination, pickup_lat, pickup_lng, destination_lat, destination_lng, results, recommendation, surge_multiplier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var results any
	if len(s.ResultsJSON) > 0 {
		results = s.ResultsJSON
	}

	_, err := r.q.ExecContext(ctx, query,
		s.ID, s.Pickup, s.Destination,
		s.PickupLat, s.PickupLng, s.DestinationLat, s.DestinationLng,
		results, s.Recommendation, s.SurgeMultiplier, s.CreatedAt,
	)
	return err
}

// GetRecent retrieves the most recent snapshots, newest first.
func (r *SnapshotRepository) GetRecent(ctx context.Context, limit int) ([]*domain.ComparisonSnapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, pickup, destination, pickup_lat, pickup_lng, destination_lat, destination_lng, results, recommendation, surge_multiplier, created_at
		FROM comparison_snapshots
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*domain.ComparisonSnapshot
	for rows.Next() {
		var s domain.ComparisonSnapshot
		var results sql.NullString
		if err := rows.Scan(
			&s.ID, &s.Pickup, &s.Destination,
			&s.PickupLat, &s.PickupLng, &s.DestinationLat, &s.DestinationLng,
			&results, &s.Recommendation, &s.SurgeMultiplier, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		if results.Valid {
			s.ResultsJSON = []byte(results.String)
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return snapshots, nil
}

// GetByID retrieves a single snapshot.
func (r *SnapshotRepository) GetByID(ctx context.Context, id string) (*domain.ComparisonSnapshot, error) {
	query := `
		SELECT id, pickup, destination, pickup_lat, pickup_lng, destination_lat, destination_lng, results, recommendation, surge_multiplier, created_at
		FROM comparison_snapshots
		WHERE id = $1
	`

	var s domain.ComparisonSnapshot
	var results sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Pickup, &s.Destination,
		&s.PickupLat, &s.PickupLng, &s.DestinationLat, &s.DestinationLng,
		&results, &s.Recommendation, &s.SurgeMultiplier, &s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if results.Valid {
		s.ResultsJSON = []byte(results.String)
	}
	return &s, nil
}
