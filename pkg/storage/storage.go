package storage

import (
	"context"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Archive stores and retrieves hot-list snapshots. Implementations must be
// safe for concurrent use.
type Archive interface {
	// SaveSnapshot persists a snapshot. Returns ErrConflict if a snapshot
	// with the same ID already exists.
	SaveSnapshot(ctx context.Context, snap *news.Snapshot) error

	// GetSnapshot retrieves a snapshot by ID. Returns ErrNotFound if it
	// does not exist.
	GetSnapshot(ctx context.Context, id string) (*news.Snapshot, error)

	// SnapshotsByDay returns all snapshots captured on the given day,
	// ordered by fetch time ascending. An empty platforms list means all
	// platforms.
	SnapshotsByDay(ctx context.Context, day news.Day, platforms []string) ([]*news.Snapshot, error)

	// LatestBatch returns the most recent snapshot per platform. An empty
	// platforms list means every platform present in the archive.
	LatestBatch(ctx context.Context, platforms []string) ([]*news.Snapshot, error)

	// Days lists the distinct days with stored snapshots, ascending.
	Days(ctx context.Context) ([]news.Day, error)

	// Prune removes all snapshots captured before the given day and
	// reports how many were removed.
	Prune(ctx context.Context, before news.Day) (int, error)

	// HealthCheck verifies the backend is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// FilterPlatforms reports whether the platform passes the filter. An empty
// filter admits every platform.
func FilterPlatforms(platforms []string, platform string) bool {
	if len(platforms) == 0 {
		return true
	}
	for _, p := range platforms {
		if p == platform {
			return true
		}
	}
	return false
}
