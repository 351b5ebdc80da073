package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/storage"
)

func init() {
	// Configure testcontainers to use podman.
	// Detect the podman socket from `podman machine inspect`.
	if os.Getenv("DOCKER_HOST") == "" {
		out, err := exec.Command("podman", "machine", "inspect", "--format", "{{.ConnectionInfo.PodmanSocket.Path}}").Output()
		if err == nil {
			sock := strings.TrimSpace(string(out))
			if sock != "" {
				os.Setenv("DOCKER_HOST", "unix://"+sock)
			}
		}
	}
	// Ryuk needs privileged mode with podman.
	if os.Getenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_CONTAINER_PRIVILEGED", "true")
	}
}

// setupTestDB starts a PostgreSQL container and returns a connected Store.
// Tests are skipped if no container runtime is available.
func setupTestDB(t *testing.T) *Store {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	// Verify podman is running.
	if _, err := exec.LookPath("podman"); err != nil {
		t.Skip("podman not found, skipping integration tests")
	}

	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("trendradar_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container (is podman running?): %v", err)
	}

	t.Cleanup(func() {
		container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	store, err := New(ctx, Config{
		DSN:            connStr,
		MaxConns:       5,
		MinConns:       1,
		MigrateOnStart: true,
	})
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func makeTestSnapshot(id, platform string, day news.Day, fetchedAt time.Time) *news.Snapshot {
	return &news.Snapshot{
		ID:           id,
		Platform:     platform,
		PlatformName: "知乎",
		Day:          day,
		FetchedAt:    fetchedAt,
		Items: []news.Item{
			{Title: "重磅新闻标题", URL: "https://example.com/1", Platform: platform, Rank: 1, Hot: 4320000, CapturedAt: fetchedAt},
			{Title: "second headline", Platform: platform, Rank: 2, CapturedAt: fetchedAt},
		},
	}
}

func uniqueID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func TestPostgres_SaveAndGet(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	snap := makeTestSnapshot(uniqueID("snap_pg"), "zhihu", "2025-10-25", time.Now().UTC().Truncate(time.Millisecond))
	if err := store.SaveSnapshot(ctx, snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	got, err := store.GetSnapshot(ctx, snap.ID)
	if err != nil {
		t.Fatalf("GetSnapshot failed: %v", err)
	}

	if got.ID != snap.ID {
		t.Errorf("ID = %q, want %q", got.ID, snap.ID)
	}
	if got.Platform != "zhihu" {
		t.Errorf("Platform = %q, want %q", got.Platform, "zhihu")
	}
	if got.Day != "2025-10-25" {
		t.Errorf("Day = %q, want %q", got.Day, "2025-10-25")
	}
	if len(got.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(got.Items))
	}
	if got.Items[0].Title != "重磅新闻标题" {
		t.Errorf("Items[0].Title = %q, want round-tripped CJK title", got.Items[0].Title)
	}
	if got.Items[0].Hot != 4320000 {
		t.Errorf("Items[0].Hot = %d, want 4320000", got.Items[0].Hot)
	}
}

func TestPostgres_GetNotFound(t *testing.T) {
	store := setupTestDB(t)

	_, err := store.GetSnapshot(context.Background(), "snap_nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgres_DuplicateSave(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	snap := makeTestSnapshot(uniqueID("snap_dup"), "zhihu", "2025-10-25", time.Now())
	store.SaveSnapshot(ctx, snap)

	err := store.SaveSnapshot(ctx, snap)
	if !errors.Is(err, storage.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestPostgres_SnapshotsByDay(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 25, 8, 0, 0, 0, time.UTC)

	a := makeTestSnapshot(uniqueID("snap_day_a"), "zhihu", "2025-10-25", base.Add(time.Hour))
	b := makeTestSnapshot(uniqueID("snap_day_b"), "zhihu", "2025-10-25", base)
	c := makeTestSnapshot(uniqueID("snap_day_c"), "weibo", "2025-10-25", base)
	d := makeTestSnapshot(uniqueID("snap_day_d"), "zhihu", "2025-10-24", base.AddDate(0, 0, -1))
	for _, snap := range []*news.Snapshot{a, b, c, d} {
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot(%s) failed: %v", snap.ID, err)
		}
	}

	got, err := store.SnapshotsByDay(ctx, "2025-10-25", nil)
	if err != nil {
		t.Fatalf("SnapshotsByDay failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].FetchedAt.Before(got[i-1].FetchedAt) {
			t.Error("snapshots not ordered by fetch time ascending")
		}
	}

	got, err = store.SnapshotsByDay(ctx, "2025-10-25", []string{"weibo"})
	if err != nil {
		t.Fatalf("SnapshotsByDay with filter failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != c.ID {
		t.Errorf("platform filter: got %d snapshots, want just %s", len(got), c.ID)
	}
}

func TestPostgres_LatestBatch(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 25, 8, 0, 0, 0, time.UTC)

	older := makeTestSnapshot(uniqueID("snap_lb_old"), "zhihu", "2025-10-25", base)
	newer := makeTestSnapshot(uniqueID("snap_lb_new"), "zhihu", "2025-10-25", base.Add(time.Hour))
	weibo := makeTestSnapshot(uniqueID("snap_lb_w"), "weibo", "2025-10-25", base)
	for _, snap := range []*news.Snapshot{older, newer, weibo} {
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	got, err := store.LatestBatch(ctx, []string{"zhihu", "weibo"})
	if err != nil {
		t.Fatalf("LatestBatch failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, snap := range got {
		if snap.Platform == "zhihu" && snap.ID != newer.ID {
			t.Errorf("zhihu latest = %q, want %q", snap.ID, newer.ID)
		}
	}
}

func TestPostgres_DaysAndPrune(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	for _, day := range []news.Day{"2025-10-20", "2025-10-21", "2025-10-25"} {
		snap := makeTestSnapshot(uniqueID("snap_days"), "zhihu", day, now)
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	days, err := store.Days(ctx)
	if err != nil {
		t.Fatalf("Days failed: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("len(days) = %d, want 3", len(days))
	}
	if days[0] != "2025-10-20" || days[2] != "2025-10-25" {
		t.Errorf("days = %v, want ascending 2025-10-20..2025-10-25", days)
	}

	removed, err := store.Prune(ctx, "2025-10-22")
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}

	days, _ = store.Days(ctx)
	if len(days) != 1 || days[0] != "2025-10-25" {
		t.Errorf("days after prune = %v, want [2025-10-25]", days)
	}
}

func TestPostgres_HealthCheck(t *testing.T) {
	store := setupTestDB(t)
	if err := store.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck failed: %v", err)
	}
}
