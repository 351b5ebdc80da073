// Package tools exposes the TrendRadar toolset over MCP. A Toolbox wires the
// snapshot archive, crawler, frequency-words lexicon and live configuration
// behind typed tool handlers registered on an mcp.Server.
//
// Handlers report domain failures as IsError results so clients see a
// readable message instead of a protocol error; only marshaling faults
// surface as Go errors.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lizouzt/TrendRadar/pkg/analytics"
	"github.com/lizouzt/TrendRadar/pkg/config"
	"github.com/lizouzt/TrendRadar/pkg/crawler"
	"github.com/lizouzt/TrendRadar/pkg/debug"
	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/observability"
	"github.com/lizouzt/TrendRadar/pkg/storage"
	"github.com/lizouzt/TrendRadar/pkg/trending"
)

const (
	defaultListLimit = 50
	maxListLimit     = 1000
	maxSimilarLimit  = 100

	// maxRangeDays bounds how many archive days a single tool call may scan.
	maxRangeDays = 366
)

// Toolbox holds the dependencies shared by every tool handler.
type Toolbox struct {
	version     string
	startedAt   time.Time
	archive     storage.Archive
	crawler     *crawler.Crawler
	lexicon     *trending.Lexicon
	store       *config.Store
	authEnabled bool
	now         func() time.Time

	crawling   atomic.Bool
	registered int
}

// Options configures a Toolbox. Archive and Config are required; Crawler and
// Lexicon may be nil, which disables trigger_crawl and topic statistics
// respectively. Now is a clock override for tests.
type Options struct {
	Version     string
	Archive     storage.Archive
	Crawler     *crawler.Crawler
	Lexicon     *trending.Lexicon
	Config      *config.Store
	AuthEnabled bool
	Now         func() time.Time
}

// New creates a Toolbox.
func New(opts Options) *Toolbox {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Toolbox{
		version:     version,
		startedAt:   now(),
		archive:     opts.Archive,
		crawler:     opts.Crawler,
		lexicon:     opts.Lexicon,
		store:       opts.Config,
		authEnabled: opts.AuthEnabled,
		now:         now,
	}
}

// Register adds every tool to the server and returns how many were added.
func (t *Toolbox) Register(server *mcp.Server) int {
	t.registerNewsTools(server)
	t.registerSearchTools(server)
	t.registerAnalyticsTools(server)
	t.registerSystemTools(server)
	return t.registered
}

// addTool registers one typed handler and wraps it with execution metrics
// and debug logging.
func addTool[In any](t *Toolbox, server *mcp.Server, tool *mcp.Tool, handler func(context.Context, In) (*mcp.CallToolResult, error)) {
	t.registered++
	mcp.AddTool(server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, input In) (*mcp.CallToolResult, struct{}, error) {
		start := time.Now()
		result, err := handler(ctx, input)

		status := "success"
		if err != nil || (result != nil && result.IsError) {
			status = "error"
		}
		observability.ToolExecutionsTotal.WithLabelValues(tool.Name, status).Inc()
		debug.Log("tools", "tool executed",
			"tool", tool.Name,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return result, struct{}{}, err
	})
}

// jsonResult marshals v as indented JSON text content.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

// errorResult builds an IsError result with a formatted message.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// dateRange is the wire shape of an optional inclusive day range.
type dateRange struct {
	Start string `json:"start,omitempty" jsonschema_description:"First day of the range, YYYY-MM-DD."`
	End   string `json:"end,omitempty" jsonschema_description:"Last day of the range, YYYY-MM-DD. Equal to start for a single day."`
}

// resolveRange turns an optional wire range into a concrete day range. With
// no range given it falls back to the last fallbackDays days ending today.
// A half-open input reuses the day that was given for both ends.
func (t *Toolbox) resolveRange(dr *dateRange, fallbackDays int) (news.Range, error) {
	if dr == nil || (dr.Start == "" && dr.End == "") {
		if fallbackDays <= 1 {
			return news.SingleDay(news.DayOf(t.now())), nil
		}
		return news.LastNDays(t.now(), fallbackDays), nil
	}

	startStr, endStr := dr.Start, dr.End
	if startStr == "" {
		startStr = endStr
	}
	if endStr == "" {
		endStr = startStr
	}
	start, err := news.ParseDay(startStr)
	if err != nil {
		return news.Range{}, fmt.Errorf("invalid start day: %w", err)
	}
	end, err := news.ParseDay(endStr)
	if err != nil {
		return news.Range{}, fmt.Errorf("invalid end day: %w", err)
	}
	r := news.NewRange(start, end)
	if r.Len() > maxRangeDays {
		return news.Range{}, fmt.Errorf("date range spans %d days, max %d", r.Len(), maxRangeDays)
	}
	return r, nil
}

// snapshotsForRange loads every snapshot captured inside r, day by day.
func (t *Toolbox) snapshotsForRange(ctx context.Context, r news.Range, platforms []string) ([]*news.Snapshot, error) {
	var out []*news.Snapshot
	for _, day := range r.Days() {
		snaps, err := t.archive.SnapshotsByDay(ctx, day, platforms)
		if err != nil {
			return nil, fmt.Errorf("loading day %s: %w", day, err)
		}
		out = append(out, snaps...)
	}
	return out, nil
}

// itemsForRange flattens the items of every snapshot inside r.
func (t *Toolbox) itemsForRange(ctx context.Context, r news.Range, platforms []string) ([]news.Item, error) {
	snaps, err := t.snapshotsForRange(ctx, r, platforms)
	if err != nil {
		return nil, err
	}
	return flatten(snaps), nil
}

// dayItemsForRange groups the range's items per day for trend analysis.
// Days without snapshots produce empty entries so trend lines have no gaps.
func (t *Toolbox) dayItemsForRange(ctx context.Context, r news.Range) ([]analytics.DayItems, error) {
	var out []analytics.DayItems
	for _, day := range r.Days() {
		snaps, err := t.archive.SnapshotsByDay(ctx, day, nil)
		if err != nil {
			return nil, fmt.Errorf("loading day %s: %w", day, err)
		}
		out = append(out, analytics.DayItems{Day: day, Items: flatten(snaps)})
	}
	return out, nil
}

// weights returns the live weight configuration.
func (t *Toolbox) weights() news.Weights {
	if t.store == nil {
		return news.DefaultWeights
	}
	return t.store.Get().Weights
}

// topics ranks frequency-word matches, tolerating a missing lexicon.
func (t *Toolbox) topics(items []news.Item, topN int) []trending.TopicStat {
	if t.lexicon == nil {
		return nil
	}
	return t.lexicon.Stats(items, topN)
}

func flatten(snaps []*news.Snapshot) []news.Item {
	var items []news.Item
	for _, snap := range snaps {
		items = append(items, snap.Items...)
	}
	return items
}

// stripURLs copies items with their URL fields cleared.
func stripURLs(items []news.Item) []news.Item {
	out := make([]news.Item, len(items))
	for i, item := range items {
		out[i] = item.WithoutURLs()
	}
	return out
}
