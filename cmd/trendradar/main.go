// Command trendradar runs the TrendRadar MCP news aggregation server.
//
// Flags:
//
//	--config     path to a YAML config file (optional)
//	--transport  "stdio" or "http" (default: stdio)
//	--host       HTTP listen host (default: 0.0.0.0)
//	--port       HTTP listen port (default: 3333)
//
// Key environment variables (full list in pkg/config):
//
//	MCP_SERVER_PASSWORD   - shared secret for the HTTP gate (empty = open)
//	TRENDRADAR_CONFIG     - config file path when --config is not given
//	TRENDRADAR_TRANSPORT  - overrides the configured transport
//	TRENDRADAR_DEBUG      - debug log categories (e.g. "crawler,tools")
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lizouzt/TrendRadar/pkg/auth"
	"github.com/lizouzt/TrendRadar/pkg/config"
	"github.com/lizouzt/TrendRadar/pkg/crawler"
	"github.com/lizouzt/TrendRadar/pkg/debug"
	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/notify"
	"github.com/lizouzt/TrendRadar/pkg/server"
	"github.com/lizouzt/TrendRadar/pkg/storage"
	"github.com/lizouzt/TrendRadar/pkg/storage/memory"
	"github.com/lizouzt/TrendRadar/pkg/storage/postgres"
	"github.com/lizouzt/TrendRadar/pkg/tools"
	"github.com/lizouzt/TrendRadar/pkg/trending"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (YAML)")
	transport := flag.String("transport", "stdio", `transport: "stdio" or "http"`)
	host := flag.String("host", "0.0.0.0", "HTTP listen host")
	port := flag.Int("port", 3333, "HTTP listen port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags beat config, but only when given explicitly; otherwise the
	// config file (and its env overrides) decides.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "transport":
			cfg.Server.Transport = *transport
		case "host":
			cfg.Server.Host = *host
		case "port":
			cfg.Server.Port = *port
		}
	})

	debug.Init(strings.Join(cfg.Log.Categories, ","), cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Archive.
	var archive storage.Archive
	switch cfg.Storage.Type {
	case "postgres":
		store, err := postgres.New(ctx, postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		archive = store
		// The postgres store keeps everything it is given; retention
		// runs here. The memory store evicts on its own.
		if cfg.Storage.MaxDays > 0 {
			go pruneLoop(ctx, store, cfg.Storage.MaxDays)
		}
	default:
		archive = memory.New(cfg.Storage.MaxDays)
	}
	defer archive.Close()
	slog.Info("storage ready", "type", cfg.Storage.Type, "max_days", cfg.Storage.MaxDays)

	// Keyword lexicon. A missing file disables topic statistics but is
	// not fatal; the file can be created and hot-reloaded later.
	var lexicon *trending.Lexicon
	if lex, err := trending.LoadFile(cfg.Keywords.File); err != nil {
		slog.Warn("keyword lexicon unavailable", "path", cfg.Keywords.File, "error", err)
	} else {
		lexicon = lex
		slog.Info("keyword lexicon loaded", "path", cfg.Keywords.File, "groups", len(lex.Groups))
	}

	// Crawler.
	client, err := crawler.NewClient(crawler.Config{
		BaseURL:   cfg.Crawler.BaseURL,
		Timeout:   cfg.Crawler.Timeout,
		UserAgent: cfg.Crawler.UserAgent,
		Proxy:     cfg.Crawler.Proxy,
	})
	if err != nil {
		return fmt.Errorf("creating crawl client: %w", err)
	}
	defer client.Close()
	c := crawler.New(client, cfg.Crawler.Platforms)

	// Live config view for tools, hot-reloaded when a file is watchable.
	cfgStore := config.NewStore(cfg)
	if watchPath := *configPath; watchPath != "" || os.Getenv("TRENDRADAR_CONFIG") != "" {
		if watchPath == "" {
			watchPath = os.Getenv("TRENDRADAR_CONFIG")
		}
		go func() {
			if err := config.Watch(ctx, watchPath, cfg, cfgStore.Swap); err != nil {
				slog.Warn("config watch stopped", "error", err)
			}
		}()
	}

	gate := auth.NewGate(cfg.Auth.Password)

	var notifier *notify.Notifier
	if cfg.Push.Enabled && len(cfg.Push.Webhooks) > 0 {
		notifier = notify.New(cfg.Push.Webhooks)
		slog.Info("push notifications enabled", "webhooks", len(cfg.Push.Webhooks))
	}

	tb := tools.New(tools.Options{
		Version:     version,
		Archive:     archive,
		Crawler:     c,
		Lexicon:     lexicon,
		Config:      cfgStore,
		AuthEnabled: gate.Enabled(),
	})

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: "trendradar", Version: version}, nil)
	count := tb.Register(mcpServer)

	// Periodic crawling runs regardless of transport so the archive
	// fills up even when the server only talks stdio.
	if cfg.Crawler.Interval > 0 {
		runner := crawler.NewRunner(c, archive, cfg.Crawler.Interval, func(ctx context.Context, batch *crawler.Batch) {
			if notifier == nil {
				return
			}
			var items []news.Item
			for _, snap := range batch.Snapshots {
				items = append(items, snap.Items...)
			}
			var topics []trending.TopicStat
			if lexicon != nil {
				topics = lexicon.Stats(items, 5)
			}
			notifier.Notify(ctx, notify.BuildSummary(time.Now(), len(batch.Snapshots), batch.TotalItems(), batch.FailedPlatforms, topics))
		})
		go func() {
			if err := runner.Run(ctx); err != nil {
				slog.Error("crawl runner stopped", "error", err)
			}
		}()
	}

	slog.Info("trendradar starting",
		"version", version,
		"transport", cfg.Server.Transport,
		"tools", count,
		"auth_enabled", gate.Enabled(),
		"storage", cfg.Storage.Type,
	)

	switch cfg.Server.Transport {
	case "stdio":
		return mcpServer.Run(ctx, &mcp.StdioTransport{})
	case "http":
		srv := server.New(mcpServer, cfg.Server,
			server.WithGate(gate),
			server.WithArchive(archive),
			server.WithMetrics(cfg.Observability.Metrics),
		)
		return srv.Run(ctx)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
	}
}

// pruneLoop trims archived days beyond the retention window once a day.
func pruneLoop(ctx context.Context, archive storage.Archive, maxDays int) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		cutoff := news.DayOf(time.Now()).AddDays(-(maxDays - 1))
		if removed, err := archive.Prune(ctx, cutoff); err != nil {
			slog.Warn("retention prune failed", "error", err)
		} else if removed > 0 {
			slog.Info("retention prune", "removed", removed, "before", cutoff)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
