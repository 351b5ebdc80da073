package crawler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/observability"
)

// Crawler fans hot-list fetches out across a platform set.
type Crawler struct {
	client    *Client
	platforms []news.Platform
}

// New creates a Crawler that fetches the given platforms through client.
func New(client *Client, platforms []news.Platform) *Crawler {
	return &Crawler{
		client:    client,
		platforms: platforms,
	}
}

// Platforms returns the configured platform set.
func (c *Crawler) Platforms() []news.Platform {
	return c.platforms
}

// Resolve maps platform ids to configured platforms. Unknown ids come back
// in the second return value. An empty id list selects every configured
// platform.
func (c *Crawler) Resolve(ids []string) ([]news.Platform, []string) {
	if len(ids) == 0 {
		return c.platforms, nil
	}

	byID := make(map[string]news.Platform, len(c.platforms))
	for _, p := range c.platforms {
		byID[p.ID] = p
	}

	var selected []news.Platform
	var unknown []string
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			selected = append(selected, p)
		} else {
			unknown = append(unknown, id)
		}
	}
	return selected, unknown
}

// Batch is the outcome of one crawl pass.
type Batch struct {
	CrawlID         string
	StartedAt       time.Time
	Snapshots       []*news.Snapshot
	FailedPlatforms []string
}

// TotalItems sums the item counts across the batch's snapshots.
func (b *Batch) TotalItems() int {
	total := 0
	for _, s := range b.Snapshots {
		total += len(s.Items)
	}
	return total
}

// Crawl fetches every given platform concurrently and collects the results.
// Per-platform failures land in the batch's FailedPlatforms list instead of
// failing the pass. An empty platform list selects the configured set.
func (c *Crawler) Crawl(ctx context.Context, platforms []news.Platform) *Batch {
	if len(platforms) == 0 {
		platforms = c.platforms
	}

	batch := &Batch{
		CrawlID:   uuid.New().String(),
		StartedAt: time.Now(),
	}

	snapshots := make([]*news.Snapshot, len(platforms))
	errs := make([]error, len(platforms))
	var wg sync.WaitGroup

	for i, p := range platforms {
		wg.Add(1)
		go func(idx int, platform news.Platform) {
			defer wg.Done()

			start := time.Now()
			snap, err := c.client.FetchPlatform(ctx, platform)
			observability.CrawlDuration.WithLabelValues(platform.ID).Observe(time.Since(start).Seconds())

			if err != nil {
				slog.Warn("platform crawl failed",
					"crawl_id", batch.CrawlID,
					"platform", platform.ID,
					"error", err.Error(),
				)
				errs[idx] = err
				observability.CrawlsTotal.WithLabelValues(platform.ID, "error").Inc()
				return
			}

			snapshots[idx] = snap
			observability.CrawlsTotal.WithLabelValues(platform.ID, "success").Inc()
		}(i, p)
	}

	wg.Wait()

	for i, p := range platforms {
		if errs[i] != nil {
			batch.FailedPlatforms = append(batch.FailedPlatforms, p.ID)
			continue
		}
		batch.Snapshots = append(batch.Snapshots, snapshots[i])
	}

	slog.Info("crawl finished",
		"crawl_id", batch.CrawlID,
		"platforms", len(platforms),
		"failed", len(batch.FailedPlatforms),
		"items", batch.TotalItems(),
		"elapsed", time.Since(batch.StartedAt),
	)

	return batch
}
