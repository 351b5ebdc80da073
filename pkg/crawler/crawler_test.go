package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/storage/memory"
)

// newsnowHandler serves a minimal hot list for every platform except the
// ones listed in broken.
func newsnowHandler(broken ...string) http.HandlerFunc {
	failing := make(map[string]bool, len(broken))
	for _, id := range broken {
		failing[id] = true
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if failing[id] {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"success","items":[{"title":"%s 今日头条","extra":{"info":"10万"}}]}`, id)
	}
}

func newTestCrawler(t *testing.T, handler http.HandlerFunc, platforms []news.Platform) *Crawler {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return New(client, platforms)
}

func TestCrawl_FanOut(t *testing.T) {
	platforms := []news.Platform{
		{ID: "weibo", Name: "微博"},
		{ID: "zhihu", Name: "知乎"},
		{ID: "broken", Name: "坏站"},
	}
	c := newTestCrawler(t, newsnowHandler("broken"), platforms)

	batch := c.Crawl(context.Background(), nil)

	if batch.CrawlID == "" {
		t.Error("batch has no crawl id")
	}
	if len(batch.Snapshots) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(batch.Snapshots))
	}
	// Results keep the platform list order even though fetches run
	// concurrently.
	if batch.Snapshots[0].Platform != "weibo" || batch.Snapshots[1].Platform != "zhihu" {
		t.Errorf("snapshot order = %s, %s, want weibo, zhihu",
			batch.Snapshots[0].Platform, batch.Snapshots[1].Platform)
	}
	if len(batch.FailedPlatforms) != 1 || batch.FailedPlatforms[0] != "broken" {
		t.Errorf("FailedPlatforms = %v, want [broken]", batch.FailedPlatforms)
	}
	if batch.TotalItems() != 2 {
		t.Errorf("TotalItems() = %d, want 2", batch.TotalItems())
	}
}

func TestCrawl_SubsetSelection(t *testing.T) {
	platforms := []news.Platform{
		{ID: "weibo", Name: "微博"},
		{ID: "zhihu", Name: "知乎"},
	}
	c := newTestCrawler(t, newsnowHandler(), platforms)

	batch := c.Crawl(context.Background(), []news.Platform{{ID: "zhihu", Name: "知乎"}})

	if len(batch.Snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(batch.Snapshots))
	}
	if batch.Snapshots[0].Platform != "zhihu" {
		t.Errorf("snapshot platform = %q, want \"zhihu\"", batch.Snapshots[0].Platform)
	}
}

func TestResolve(t *testing.T) {
	platforms := []news.Platform{
		{ID: "weibo", Name: "微博"},
		{ID: "zhihu", Name: "知乎"},
	}
	c := New(nil, platforms)

	// Empty selects everything.
	selected, unknown := c.Resolve(nil)
	if len(selected) != 2 || len(unknown) != 0 {
		t.Errorf("Resolve(nil) = %d selected, %v unknown, want 2 selected", len(selected), unknown)
	}

	// Known ids resolve to full platform entries.
	selected, unknown = c.Resolve([]string{"zhihu"})
	if len(selected) != 1 || selected[0].Name != "知乎" {
		t.Errorf("Resolve([zhihu]) = %+v, want the 知乎 entry", selected)
	}
	if len(unknown) != 0 {
		t.Errorf("Resolve([zhihu]) unknown = %v, want none", unknown)
	}

	// Unknown ids are reported, not fetched.
	selected, unknown = c.Resolve([]string{"weibo", "nosuch"})
	if len(selected) != 1 || selected[0].ID != "weibo" {
		t.Errorf("Resolve([weibo nosuch]) selected = %+v, want weibo only", selected)
	}
	if len(unknown) != 1 || unknown[0] != "nosuch" {
		t.Errorf("Resolve([weibo nosuch]) unknown = %v, want [nosuch]", unknown)
	}
}

func TestRunner(t *testing.T) {
	platforms := []news.Platform{{ID: "weibo", Name: "微博"}}
	c := newTestCrawler(t, newsnowHandler(), platforms)
	store := memory.New(7)

	batches := make(chan *Batch, 8)
	r := NewRunner(c, store, 20*time.Millisecond, func(_ context.Context, b *Batch) {
		select {
		case batches <- b:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Wait for the immediate crawl plus at least one tick.
	for i := 0; i < 2; i++ {
		select {
		case b := <-batches:
			if len(b.Snapshots) != 1 {
				t.Errorf("batch snapshots = %d, want 1", len(b.Snapshots))
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for crawl batch")
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}

	// Batches were persisted along the way.
	latest, err := store.LatestBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("LatestBatch() error: %v", err)
	}
	if len(latest) != 1 || latest[0].Platform != "weibo" {
		t.Errorf("LatestBatch() = %d snapshots, want the weibo snapshot", len(latest))
	}
}

func TestRunner_DisabledInterval(t *testing.T) {
	r := NewRunner(nil, nil, 0, nil)
	if err := r.Run(context.Background()); err != nil {
		t.Errorf("Run() with zero interval error: %v", err)
	}
}

func TestSaveBatch_CountsStoredSnapshots(t *testing.T) {
	store := memory.New(7)
	snap := &news.Snapshot{
		ID:        news.NewSnapshotID(),
		Platform:  "weibo",
		Day:       news.DayOf(time.Now()),
		FetchedAt: time.Now(),
	}
	batch := &Batch{CrawlID: "test", Snapshots: []*news.Snapshot{snap}}

	if got := SaveBatch(context.Background(), store, batch); got != 1 {
		t.Errorf("SaveBatch() = %d, want 1", got)
	}

	// Saving the same batch again collides on the snapshot ID.
	if got := SaveBatch(context.Background(), store, batch); got != 0 {
		t.Errorf("SaveBatch() second run = %d, want 0", got)
	}
}
