// Package postgres provides a PostgreSQL implementation of storage.Archive.
// It uses pgx/v5 for connection pooling and JSONB for hot-list item storage.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/storage"
)

// Store is a PostgreSQL-backed Archive.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements storage.Archive at compile time.
var _ storage.Archive = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// SaveSnapshot persists a snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snap *news.Snapshot) error {
	itemsJSON, err := json.Marshal(snap.Items)
	if err != nil {
		return fmt.Errorf("marshaling items: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO snapshots (id, platform, platform_name, day, fetched_at, items)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		snap.ID, snap.Platform, snap.PlatformName, string(snap.Day), snap.FetchedAt, itemsJSON,
	)

	if err != nil {
		if isDuplicateKey(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	return nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(ctx context.Context, id string) (*news.Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, platform, platform_name, day, fetched_at, items
		FROM snapshots
		WHERE id = $1
	`, id)

	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying snapshot: %w", err)
	}
	return snap, nil
}

// SnapshotsByDay returns the snapshots captured on the given day, ordered
// by fetch time ascending.
func (s *Store) SnapshotsByDay(ctx context.Context, day news.Day, platforms []string) ([]*news.Snapshot, error) {
	query := `
		SELECT id, platform, platform_name, day, fetched_at, items
		FROM snapshots
		WHERE day = $1
	`
	args := []any{string(day)}

	if len(platforms) > 0 {
		query += " AND platform = ANY($2)"
		args = append(args, platforms)
	}
	query += " ORDER BY fetched_at ASC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots by day: %w", err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

// LatestBatch returns the most recent snapshot per platform.
func (s *Store) LatestBatch(ctx context.Context, platforms []string) ([]*news.Snapshot, error) {
	query := `
		SELECT DISTINCT ON (platform) id, platform, platform_name, day, fetched_at, items
		FROM snapshots
	`
	var args []any
	if len(platforms) > 0 {
		query += " WHERE platform = ANY($1)"
		args = append(args, platforms)
	}
	query += " ORDER BY platform, fetched_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying latest batch: %w", err)
	}
	defer rows.Close()

	return collectSnapshots(rows)
}

// Days lists the distinct days with stored snapshots, ascending.
func (s *Store) Days(ctx context.Context) ([]news.Day, error) {
	rows, err := s.pool.Query(ctx, "SELECT DISTINCT day FROM snapshots ORDER BY day ASC")
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	defer rows.Close()

	var days []news.Day
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		days = append(days, news.Day(d))
	}
	return days, rows.Err()
}

// Prune removes all snapshots captured before the given day.
func (s *Store) Prune(ctx context.Context, before news.Day) (int, error) {
	result, err := s.pool.Exec(ctx, "DELETE FROM snapshots WHERE day < $1", string(before))
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// HealthCheck verifies the database connection.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnapshot reads one snapshot row.
func scanSnapshot(row rowScanner) (*news.Snapshot, error) {
	var snap news.Snapshot
	var day string
	var itemsJSON []byte

	if err := row.Scan(&snap.ID, &snap.Platform, &snap.PlatformName, &day, &snap.FetchedAt, &itemsJSON); err != nil {
		return nil, err
	}

	snap.Day = news.Day(day)
	if err := json.Unmarshal(itemsJSON, &snap.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling items: %w", err)
	}
	return &snap, nil
}

// collectSnapshots drains a result set into a snapshot slice.
func collectSnapshots(rows pgx.Rows) ([]*news.Snapshot, error) {
	var out []*news.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
