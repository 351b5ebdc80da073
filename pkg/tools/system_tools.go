package tools

import (
	"context"
	"runtime"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lizouzt/TrendRadar/pkg/crawler"
	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/trending"
)

func (t *Toolbox) registerSystemTools(server *mcp.Server) {
	type configInput struct {
		Section string `json:"section,omitempty" jsonschema_description:"all (default), crawler, push, keywords or weights."`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "get_current_config",
		Description: "Returns the running configuration by section. Credentials are never included.",
	}, func(_ context.Context, in configInput) (*mcp.CallToolResult, error) {
		section := in.Section
		if section == "" {
			section = "all"
		}
		switch section {
		case "all":
			return jsonResult(map[string]any{
				"crawler":  t.crawlerSection(),
				"push":     t.pushSection(),
				"keywords": t.keywordsSection(),
				"weights":  t.weights(),
			})
		case "crawler":
			return jsonResult(t.crawlerSection())
		case "push":
			return jsonResult(t.pushSection())
		case "keywords":
			return jsonResult(t.keywordsSection())
		case "weights":
			return jsonResult(t.weights())
		default:
			return errorResult("unknown section %q, expected all, crawler, push, keywords or weights", in.Section), nil
		}
	})

	type statusResult struct {
		Version        string   `json:"version"`
		UptimeSeconds  int64    `json:"uptime_seconds"`
		GoVersion      string   `json:"go_version"`
		Goroutines     int      `json:"goroutines"`
		MemoryAllocMB  float64  `json:"memory_alloc_mb"`
		StorageHealthy bool     `json:"storage_healthy"`
		StorageError   string   `json:"storage_error,omitempty"`
		DaysArchived   int      `json:"days_archived"`
		LatestDay      news.Day `json:"latest_day,omitempty"`
		AuthEnabled    bool     `json:"auth_enabled"`
		CrawlRunning   bool     `json:"crawl_running"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "get_system_status",
		Description: "Reports server health: version, uptime, runtime stats, archive state and whether the password gate is active.",
	}, func(ctx context.Context, _ struct{}) (*mcp.CallToolResult, error) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		out := statusResult{
			Version:       t.version,
			UptimeSeconds: int64(t.now().Sub(t.startedAt) / time.Second),
			GoVersion:     runtime.Version(),
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(m.Alloc) / (1 << 20),
			AuthEnabled:   t.authEnabled,
			CrawlRunning:  t.crawling.Load(),
		}
		if err := t.archive.HealthCheck(ctx); err != nil {
			out.StorageError = err.Error()
		} else {
			out.StorageHealthy = true
		}
		if days, err := t.archive.Days(ctx); err == nil && len(days) > 0 {
			out.DaysArchived = len(days)
			out.LatestDay = days[len(days)-1]
		}
		return jsonResult(out)
	})

	type crawlInput struct {
		Platforms   []string `json:"platforms,omitempty" jsonschema_description:"Platform ids to crawl. Empty means every configured platform."`
		SaveToLocal bool     `json:"save_to_local,omitempty" jsonschema_description:"Persist the fetched snapshots to the archive."`
		IncludeURL  bool     `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the returned data."`
	}
	type crawlResult struct {
		CrawlID         string      `json:"crawl_id"`
		Platforms       []string    `json:"platforms"`
		FailedPlatforms []string    `json:"failed_platforms,omitempty"`
		TotalNews       int         `json:"total_news"`
		Stored          int         `json:"stored"`
		Data            []news.Item `json:"data"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "trigger_crawl",
		Description: "Runs one crawl now, optionally persisting the snapshots. Platforms that fail to fetch are listed in failed_platforms.",
	}, func(ctx context.Context, in crawlInput) (*mcp.CallToolResult, error) {
		if t.crawler == nil {
			return errorResult("crawling is not configured"), nil
		}
		if !t.crawling.CompareAndSwap(false, true) {
			return errorResult("a crawl is already running, try again shortly"), nil
		}
		defer t.crawling.Store(false)

		platforms, unknown := t.crawler.Resolve(in.Platforms)
		batch := t.crawler.Crawl(ctx, platforms)

		stored := 0
		if in.SaveToLocal {
			stored = crawler.SaveBatch(ctx, t.archive, batch)
		}

		succeeded := make([]string, 0, len(batch.Snapshots))
		for _, snap := range batch.Snapshots {
			succeeded = append(succeeded, snap.Platform)
		}
		failed := append(unknown, batch.FailedPlatforms...)

		items := make([]news.Item, 0, batch.TotalItems())
		for _, snap := range batch.Snapshots {
			items = append(items, snap.Items...)
		}
		if !in.IncludeURL {
			items = stripURLs(items)
		}

		return jsonResult(crawlResult{
			CrawlID:         batch.CrawlID,
			Platforms:       succeeded,
			FailedPlatforms: failed,
			TotalNews:       len(items),
			Stored:          stored,
			Data:            items,
		})
	})
}

type crawlerSection struct {
	BaseURL   string          `json:"base_url"`
	Interval  string          `json:"interval"`
	Timeout   string          `json:"timeout"`
	UserAgent string          `json:"user_agent"`
	HasProxy  bool            `json:"has_proxy"`
	Platforms []news.Platform `json:"platforms"`
}

func (t *Toolbox) crawlerSection() crawlerSection {
	cfg := t.store.Get().Crawler
	return crawlerSection{
		BaseURL:   cfg.BaseURL,
		Interval:  cfg.Interval.String(),
		Timeout:   cfg.Timeout.String(),
		UserAgent: cfg.UserAgent,
		HasProxy:  cfg.Proxy != "",
		Platforms: cfg.Platforms,
	}
}

type pushSection struct {
	Enabled  bool            `json:"enabled"`
	Webhooks []webhookStatus `json:"webhooks"`
}

type webhookStatus struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

func (t *Toolbox) pushSection() pushSection {
	cfg := t.store.Get().Push
	out := pushSection{Enabled: cfg.Enabled, Webhooks: []webhookStatus{}}
	for _, wh := range cfg.Webhooks {
		out.Webhooks = append(out.Webhooks, webhookStatus{Type: wh.Type, URL: wh.URL})
	}
	return out
}

type keywordsSection struct {
	File    string           `json:"file"`
	Groups  []trending.Group `json:"groups"`
	Filters []string         `json:"filters"`
}

func (t *Toolbox) keywordsSection() keywordsSection {
	out := keywordsSection{
		File:    t.store.Get().Keywords.File,
		Groups:  []trending.Group{},
		Filters: []string{},
	}
	if t.lexicon != nil {
		out.Groups = append(out.Groups, t.lexicon.Groups...)
		out.Filters = append(out.Filters, t.lexicon.Filters...)
	}
	return out
}
