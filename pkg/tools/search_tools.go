package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lizouzt/TrendRadar/pkg/analytics"
	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/search"
)

func (t *Toolbox) registerSearchTools(server *mcp.Server) {
	type searchInput struct {
		Query      string     `json:"query" jsonschema_description:"Search terms or a content fragment."`
		SearchMode string     `json:"search_mode,omitempty" jsonschema_description:"keyword requires every term as a substring (default); fuzzy keeps titles whose similarity reaches the threshold; entity matches names at word boundaries."`
		DateRange  *dateRange `json:"date_range,omitempty" jsonschema_description:"Inclusive day range to search. Defaults to today."`
		Platforms  []string   `json:"platforms,omitempty" jsonschema_description:"Platform ids to include. Empty means every configured platform."`
		Limit      int        `json:"limit,omitempty" jsonschema_description:"Maximum results. Default 50, max 1000."`
		SortBy     string     `json:"sort_by,omitempty" jsonschema_description:"relevance (default), weight or date."`
		Threshold  float64    `json:"threshold,omitempty" jsonschema_description:"Similarity threshold for fuzzy mode, (0,1]. Default 0.6."`
		IncludeURL bool       `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the result."`
	}
	type searchResult struct {
		Query   string          `json:"query"`
		Mode    string          `json:"mode"`
		Range   news.Range      `json:"range"`
		Total   int             `json:"total"`
		Results []search.Result `json:"results"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "search_news",
		Description: "Searches archived news by keyword, fuzzy similarity or entity name over a day range, with relevance, weight or date ordering.",
	}, func(ctx context.Context, in searchInput) (*mcp.CallToolResult, error) {
		r, err := t.resolveRange(in.DateRange, 1)
		if err != nil {
			return errorResult("invalid date_range: %v", err), nil
		}
		items, err := t.itemsForRange(ctx, r, in.Platforms)
		if err != nil {
			return errorResult("loading news: %v", err), nil
		}
		if !in.IncludeURL {
			items = stripURLs(items)
		}

		results, err := search.Search(items, in.Query, search.Options{
			Mode:      in.SearchMode,
			Threshold: in.Threshold,
			SortBy:    in.SortBy,
			Limit:     clampLimit(in.Limit, defaultListLimit, maxListLimit),
			Weights:   t.weights(),
		})
		if err != nil {
			return errorResult("%v", err), nil
		}
		if results == nil {
			results = []search.Result{}
		}

		mode := in.SearchMode
		if mode == "" {
			mode = search.ModeKeyword
		}
		return jsonResult(searchResult{
			Query:   in.Query,
			Mode:    mode,
			Range:   r,
			Total:   len(results),
			Results: results,
		})
	})

	type relatedInput struct {
		ReferenceText string  `json:"reference_text" jsonschema_description:"Seed headline, complete or partial."`
		TimePreset    string  `json:"time_preset,omitempty" jsonschema_description:"yesterday (default), last_week, last_month, or custom with start_date and end_date."`
		StartDate     string  `json:"start_date,omitempty" jsonschema_description:"First day for the custom preset, YYYY-MM-DD."`
		EndDate       string  `json:"end_date,omitempty" jsonschema_description:"Last day for the custom preset, YYYY-MM-DD."`
		Threshold     float64 `json:"threshold,omitempty" jsonschema_description:"Relatedness threshold in (0,1]. Default 0.4. The score blends keyword overlap (70%) with text similarity (30%)."`
		Limit         int     `json:"limit,omitempty" jsonschema_description:"Maximum results. Default 50, max 100."`
		IncludeURL    bool    `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the result."`
	}
	type relatedResult struct {
		Reference string          `json:"reference"`
		Preset    string          `json:"preset"`
		Range     news.Range      `json:"range"`
		Total     int             `json:"total"`
		Results   []search.Result `json:"results"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "search_related_news_history",
		Description: "Finds historical news related to a seed headline inside a preset or custom time window, scored by keyword overlap and similarity.",
	}, func(ctx context.Context, in relatedInput) (*mcp.CallToolResult, error) {
		if in.ReferenceText == "" {
			return errorResult("reference_text is required"), nil
		}

		preset := in.TimePreset
		if preset == "" {
			preset = search.PresetYesterday
		}
		var r news.Range
		if preset == search.PresetCustom {
			if in.StartDate == "" || in.EndDate == "" {
				return errorResult("custom preset requires start_date and end_date"), nil
			}
			var err error
			r, err = t.resolveRange(&dateRange{Start: in.StartDate, End: in.EndDate}, 1)
			if err != nil {
				return errorResult("invalid custom range: %v", err), nil
			}
		} else {
			var err error
			r, err = search.PresetRange(preset, t.now())
			if err != nil {
				return errorResult("%v", err), nil
			}
		}

		items, err := t.itemsForRange(ctx, r, nil)
		if err != nil {
			return errorResult("loading news: %v", err), nil
		}
		if !in.IncludeURL {
			items = stripURLs(items)
		}

		results := search.Related(in.ReferenceText, items, search.RelatedOptions{
			Threshold: in.Threshold,
			Limit:     clampLimit(in.Limit, defaultListLimit, maxSimilarLimit),
		})
		if results == nil {
			results = []search.Result{}
		}
		return jsonResult(relatedResult{
			Reference: in.ReferenceText,
			Preset:    preset,
			Range:     r,
			Total:     len(results),
			Results:   results,
		})
	})

	type similarInput struct {
		ReferenceTitle string  `json:"reference_title" jsonschema_description:"Headline to compare against, complete or partial."`
		Threshold      float64 `json:"threshold,omitempty" jsonschema_description:"Similarity threshold in (0,1]. Default 0.6; higher is stricter."`
		Limit          int     `json:"limit,omitempty" jsonschema_description:"Maximum results. Default 50, max 100."`
		IncludeURL     bool    `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the result."`
	}
	type similarResult struct {
		Reference string            `json:"reference"`
		Threshold float64           `json:"threshold"`
		Total     int               `json:"total"`
		Matches   []analytics.Match `json:"matches"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "find_similar_news",
		Description: "Lists today's news titles similar to a reference headline, with similarity scores.",
	}, func(ctx context.Context, in similarInput) (*mcp.CallToolResult, error) {
		if in.ReferenceTitle == "" {
			return errorResult("reference_title is required"), nil
		}
		threshold := in.Threshold
		if threshold <= 0 {
			threshold = 0.6
		}
		if threshold > 1 {
			return errorResult("threshold %v out of range (0,1]", in.Threshold), nil
		}

		items, err := t.itemsForRange(ctx, news.SingleDay(news.DayOf(t.now())), nil)
		if err != nil {
			return errorResult("loading news: %v", err), nil
		}
		if !in.IncludeURL {
			items = stripURLs(items)
		}

		matches := analytics.FindSimilar(in.ReferenceTitle, items, threshold, clampLimit(in.Limit, defaultListLimit, maxSimilarLimit))
		if matches == nil {
			matches = []analytics.Match{}
		}
		return jsonResult(similarResult{
			Reference: in.ReferenceTitle,
			Threshold: threshold,
			Total:     len(matches),
			Matches:   matches,
		})
	})
}
