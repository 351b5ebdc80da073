// Package memory provides an in-memory implementation of storage.Archive
// for testing and lightweight deployments. Snapshots are kept in memory,
// keyed by calendar day, and lost when the process restarts. Optional
// day-based retention bounds memory usage.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/storage"
)

// Store is an in-memory Archive with optional day-based retention.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*news.Snapshot
	byDay   map[news.Day][]*news.Snapshot
	days    []news.Day // ascending
	maxDays int        // 0 = unlimited
}

// Ensure Store implements storage.Archive at compile time.
var _ storage.Archive = (*Store)(nil)

// New creates a new in-memory store. If maxDays is 0, the store keeps
// every day. If maxDays > 0, the oldest days are evicted when a new day
// pushes the count past the limit.
func New(maxDays int) *Store {
	return &Store{
		byID:    make(map[string]*news.Snapshot),
		byDay:   make(map[news.Day][]*news.Snapshot),
		maxDays: maxDays,
	}
}

// SaveSnapshot persists a snapshot in memory.
func (s *Store) SaveSnapshot(_ context.Context, snap *news.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[snap.ID]; exists {
		return storage.ErrConflict
	}

	if _, seen := s.byDay[snap.Day]; !seen {
		s.days = append(s.days, snap.Day)
		sort.Slice(s.days, func(i, j int) bool { return s.days[i] < s.days[j] })
	}

	s.byID[snap.ID] = snap
	s.byDay[snap.Day] = append(s.byDay[snap.Day], snap)

	// Evict oldest days beyond the retention window.
	for s.maxDays > 0 && len(s.days) > s.maxDays {
		s.evictDay(s.days[0])
	}

	return nil
}

// GetSnapshot retrieves a snapshot by ID.
func (s *Store) GetSnapshot(_ context.Context, id string) (*news.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return snap, nil
}

// SnapshotsByDay returns the snapshots captured on the given day, ordered
// by fetch time ascending.
func (s *Store) SnapshotsByDay(_ context.Context, day news.Day, platforms []string) ([]*news.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*news.Snapshot
	for _, snap := range s.byDay[day] {
		if storage.FilterPlatforms(platforms, snap.Platform) {
			out = append(out, snap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FetchedAt.Before(out[j].FetchedAt) })
	return out, nil
}

// LatestBatch returns the most recent snapshot per platform.
func (s *Store) LatestBatch(_ context.Context, platforms []string) ([]*news.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[string]*news.Snapshot)
	for _, snap := range s.byID {
		if !storage.FilterPlatforms(platforms, snap.Platform) {
			continue
		}
		if cur, ok := latest[snap.Platform]; !ok || snap.FetchedAt.After(cur.FetchedAt) {
			latest[snap.Platform] = snap
		}
	}

	out := make([]*news.Snapshot, 0, len(latest))
	for _, snap := range latest {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

// Days lists the distinct days with stored snapshots, ascending.
func (s *Store) Days(_ context.Context) ([]news.Day, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]news.Day, len(s.days))
	copy(out, s.days)
	return out, nil
}

// Prune removes all snapshots captured before the given day.
func (s *Store) Prune(_ context.Context, before news.Day) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for len(s.days) > 0 && s.days[0] < before {
		removed += len(s.byDay[s.days[0]])
		s.evictDay(s.days[0])
	}
	return removed, nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// evictDay removes a whole day of snapshots.
// Must be called with s.mu held; day must be present in s.days.
func (s *Store) evictDay(day news.Day) {
	for _, snap := range s.byDay[day] {
		delete(s.byID, snap.ID)
	}
	delete(s.byDay, day)
	for i, d := range s.days {
		if d == day {
			s.days = append(s.days[:i], s.days[i+1:]...)
			break
		}
	}
}
