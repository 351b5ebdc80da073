package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/trending"
)

// newsListResult is the shared shape of list-style tool responses.
type newsListResult struct {
	Day      news.Day    `json:"day,omitempty"`
	Total    int         `json:"total"`
	Returned int         `json:"returned"`
	Items    []news.Item `json:"items"`
}

func (t *Toolbox) registerNewsTools(server *mcp.Server) {
	type latestInput struct {
		Platforms  []string `json:"platforms,omitempty" jsonschema_description:"Platform ids to include, e.g. [\"weibo\",\"zhihu\"]. Empty means every configured platform."`
		Limit      int      `json:"limit,omitempty" jsonschema_description:"Maximum items to return. Default 50, max 1000."`
		IncludeURL bool     `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the result. Off by default to save tokens."`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "get_latest_news",
		Description: "Returns the most recent crawl batch: one current hot list per platform, items in captured rank order.",
	}, func(ctx context.Context, in latestInput) (*mcp.CallToolResult, error) {
		snaps, err := t.archive.LatestBatch(ctx, in.Platforms)
		if err != nil {
			return errorResult("loading latest batch: %v", err), nil
		}
		return jsonResult(t.buildNewsList("", flatten(snaps), in.Limit, maxListLimit, in.IncludeURL))
	})

	type byDateInput struct {
		DateQuery  string   `json:"date_query,omitempty" jsonschema_description:"Day to load: YYYY-MM-DD, YYYY/MM/DD, or natural phrases like today, yesterday, 3 days ago, 今天, 昨天, 前天, 3天前. Defaults to today."`
		Platforms  []string `json:"platforms,omitempty" jsonschema_description:"Platform ids to include. Empty means every configured platform."`
		Limit      int      `json:"limit,omitempty" jsonschema_description:"Maximum items to return. Default 50, max 1000."`
		IncludeURL bool     `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the result."`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "get_news_by_date",
		Description: "Returns every news item archived on a given day, for historical lookups and day-to-day comparison.",
	}, func(ctx context.Context, in byDateInput) (*mcp.CallToolResult, error) {
		day, err := news.ParseDayQuery(in.DateQuery, t.now())
		if err != nil {
			return errorResult("invalid date_query: %v", err), nil
		}
		snaps, err := t.archive.SnapshotsByDay(ctx, day, in.Platforms)
		if err != nil {
			return errorResult("loading day %s: %v", day, err), nil
		}
		return jsonResult(t.buildNewsList(day, flatten(snaps), in.Limit, maxListLimit, in.IncludeURL))
	})

	type trendingInput struct {
		TopN int    `json:"top_n,omitempty" jsonschema_description:"How many topics to return. Default 10."`
		Mode string `json:"mode,omitempty" jsonschema_description:"current counts the latest batch only; daily counts everything captured today. Default current."`
	}
	type trendingResult struct {
		Mode   string               `json:"mode"`
		Topics []trending.TopicStat `json:"topics"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "get_trending_topics",
		Description: "Counts how often the configured frequency words appear in the news, ranked by matches. Statistics cover the user-maintained watch list, not auto-extracted topics.",
	}, func(ctx context.Context, in trendingInput) (*mcp.CallToolResult, error) {
		topN := in.TopN
		if topN <= 0 {
			topN = 10
		}

		mode := in.Mode
		if mode == "" {
			mode = "current"
		}
		var (
			items []news.Item
			err   error
		)
		switch mode {
		case "current":
			var snaps []*news.Snapshot
			snaps, err = t.archive.LatestBatch(ctx, nil)
			items = flatten(snaps)
		case "daily":
			items, err = t.itemsForRange(ctx, news.SingleDay(news.DayOf(t.now())), nil)
		default:
			return errorResult("unknown mode %q, expected current or daily", in.Mode), nil
		}
		if err != nil {
			return errorResult("loading news: %v", err), nil
		}

		stats := t.topics(items, topN)
		if stats == nil {
			stats = []trending.TopicStat{}
		}
		return jsonResult(trendingResult{Mode: mode, Topics: stats})
	})
}

// buildNewsList applies the shared limit and URL-stripping rules.
func (t *Toolbox) buildNewsList(day news.Day, items []news.Item, limit, max int, includeURL bool) newsListResult {
	limit = clampLimit(limit, defaultListLimit, max)
	total := len(items)
	if len(items) > limit {
		items = items[:limit]
	}
	if !includeURL {
		items = stripURLs(items)
	}
	if items == nil {
		items = []news.Item{}
	}
	return newsListResult{Day: day, Total: total, Returned: len(items), Items: items}
}
