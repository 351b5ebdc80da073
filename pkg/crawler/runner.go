package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/observability"
	"github.com/lizouzt/TrendRadar/pkg/storage"
)

// Runner triggers periodic crawls, persists the snapshots, and hands each
// batch to an optional hook (push notifications, cache warmers).
type Runner struct {
	crawler  *Crawler
	archive  storage.Archive
	interval time.Duration
	onBatch  func(context.Context, *Batch)
}

// NewRunner creates a Runner. interval <= 0 disables periodic crawling:
// Run returns immediately. onBatch may be nil.
func NewRunner(c *Crawler, archive storage.Archive, interval time.Duration, onBatch func(context.Context, *Batch)) *Runner {
	return &Runner{
		crawler:  c,
		archive:  archive,
		interval: interval,
		onBatch:  onBatch,
	}
}

// Run crawls once immediately, then on every interval tick until ctx is
// cancelled. It always returns nil after a clean shutdown.
func (r *Runner) Run(ctx context.Context) error {
	if r.interval <= 0 {
		slog.Info("periodic crawling disabled")
		return nil
	}

	slog.Info("periodic crawling started", "interval", r.interval)

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("periodic crawling stopped")
			return nil
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	batch := r.crawler.Crawl(ctx, nil)
	if ctx.Err() != nil {
		return
	}

	saved := SaveBatch(ctx, r.archive, batch)
	if saved < len(batch.Snapshots) {
		slog.Warn("batch partially persisted",
			"crawl_id", batch.CrawlID,
			"saved", saved,
			"snapshots", len(batch.Snapshots),
		)
	}

	if r.onBatch != nil {
		r.onBatch(ctx, batch)
	}
}

// SaveBatch persists every snapshot in the batch and returns the number
// stored. Individual save failures are logged and skipped.
func SaveBatch(ctx context.Context, archive storage.Archive, b *Batch) int {
	saved := 0
	for _, snap := range b.Snapshots {
		if err := archive.SaveSnapshot(ctx, snap); err != nil {
			slog.Error("saving snapshot failed",
				"crawl_id", b.CrawlID,
				"snapshot_id", snap.ID,
				"platform", snap.Platform,
				"error", err.Error(),
			)
			continue
		}
		observability.SnapshotsStoredTotal.WithLabelValues(snap.Platform).Inc()
		saved++
	}
	return saved
}
