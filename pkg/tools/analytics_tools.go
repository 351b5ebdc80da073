package tools

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lizouzt/TrendRadar/pkg/analytics"
	"github.com/lizouzt/TrendRadar/pkg/news"
)

// defaultViralThreshold is the spike multiplier applied when viral analysis
// is requested without an explicit threshold.
const defaultViralThreshold = 3.0

func (t *Toolbox) registerAnalyticsTools(server *mcp.Server) {
	type trendInput struct {
		Topic        string     `json:"topic" jsonschema_description:"Topic keyword to analyze."`
		AnalysisType string     `json:"analysis_type,omitempty" jsonschema_description:"trend (per-day counts, default), lifecycle (first/peak/last appearance), viral (spike vs trailing baseline) or predict (next-day projection)."`
		DateRange    *dateRange `json:"date_range,omitempty" jsonschema_description:"Inclusive day range to analyze. Defaults to the last 7 days."`
		Threshold    float64    `json:"threshold,omitempty" jsonschema_description:"Spike multiplier for viral analysis. Default 3.0."`
	}
	type trendResult struct {
		Topic        string                 `json:"topic"`
		AnalysisType string                 `json:"analysis_type"`
		Range        news.Range             `json:"range"`
		Points       []analytics.TrendPoint `json:"points,omitempty"`
		Found        *bool                  `json:"found,omitempty"`
		Lifecycle    *analytics.Lifecycle   `json:"lifecycle,omitempty"`
		Viral        *analytics.Viral       `json:"viral,omitempty"`
		Prediction   *analytics.Prediction  `json:"prediction,omitempty"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "analyze_topic_trend",
		Description: "Analyzes a topic across days: trend line, lifecycle, viral spike detection or a naive next-day prediction.",
	}, func(ctx context.Context, in trendInput) (*mcp.CallToolResult, error) {
		if in.Topic == "" {
			return errorResult("topic is required"), nil
		}
		r, err := t.resolveRange(in.DateRange, 7)
		if err != nil {
			return errorResult("invalid date_range: %v", err), nil
		}
		days, err := t.dayItemsForRange(ctx, r)
		if err != nil {
			return errorResult("loading news: %v", err), nil
		}

		analysisType := in.AnalysisType
		if analysisType == "" {
			analysisType = "trend"
		}
		out := trendResult{Topic: in.Topic, AnalysisType: analysisType, Range: r}
		switch analysisType {
		case "trend":
			out.Points = analytics.Trend(days, in.Topic)
		case "lifecycle":
			lc, found := analytics.TopicLifecycle(days, in.Topic)
			out.Found = &found
			if found {
				out.Lifecycle = &lc
			}
		case "viral":
			threshold := in.Threshold
			if threshold <= 0 {
				threshold = defaultViralThreshold
			}
			v := analytics.DetectViral(days, in.Topic, threshold)
			out.Viral = &v
		case "predict":
			p := analytics.Predict(days, in.Topic)
			out.Prediction = &p
		default:
			return errorResult("unknown analysis_type %q, expected trend, lifecycle, viral or predict", in.AnalysisType), nil
		}
		return jsonResult(out)
	})

	type insightsInput struct {
		InsightType  string     `json:"insight_type,omitempty" jsonschema_description:"platform_compare (per-platform topic attention, default), platform_activity (snapshot and item volume) or keyword_cooccur (token pairs appearing together)."`
		Topic        string     `json:"topic,omitempty" jsonschema_description:"Topic keyword for platform_compare. Empty compares raw volume."`
		DateRange    *dateRange `json:"date_range,omitempty" jsonschema_description:"Inclusive day range. Defaults to today."`
		MinFrequency int        `json:"min_frequency,omitempty" jsonschema_description:"Minimum co-occurrence count for keyword_cooccur. Default 3."`
		TopN         int        `json:"top_n,omitempty" jsonschema_description:"Maximum pairs for keyword_cooccur. Default 20."`
	}
	type insightsResult struct {
		InsightType   string                   `json:"insight_type"`
		Topic         string                   `json:"topic,omitempty"`
		Range         news.Range               `json:"range"`
		Platforms     []analytics.PlatformStat `json:"platforms,omitempty"`
		Activity      []analytics.ActivityStat `json:"activity,omitempty"`
		Cooccurrences []analytics.Cooccurrence `json:"cooccurrences,omitempty"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "analyze_data_insights",
		Description: "Cross-platform insights: compares topic attention per platform, measures platform activity, or finds co-occurring keyword pairs.",
	}, func(ctx context.Context, in insightsInput) (*mcp.CallToolResult, error) {
		r, err := t.resolveRange(in.DateRange, 1)
		if err != nil {
			return errorResult("invalid date_range: %v", err), nil
		}

		insightType := in.InsightType
		if insightType == "" {
			insightType = "platform_compare"
		}
		out := insightsResult{InsightType: insightType, Topic: in.Topic, Range: r}
		switch insightType {
		case "platform_compare":
			items, err := t.itemsForRange(ctx, r, nil)
			if err != nil {
				return errorResult("loading news: %v", err), nil
			}
			out.Platforms = analytics.PlatformCompare(items, in.Topic)
		case "platform_activity":
			snaps, err := t.snapshotsForRange(ctx, r, nil)
			if err != nil {
				return errorResult("loading snapshots: %v", err), nil
			}
			out.Activity = analytics.PlatformActivity(snaps)
		case "keyword_cooccur":
			items, err := t.itemsForRange(ctx, r, nil)
			if err != nil {
				return errorResult("loading news: %v", err), nil
			}
			minFrequency := in.MinFrequency
			if minFrequency <= 0 {
				minFrequency = 3
			}
			topN := in.TopN
			if topN <= 0 {
				topN = 20
			}
			out.Cooccurrences = analytics.KeywordCooccur(items, minFrequency, topN)
		default:
			return errorResult("unknown insight_type %q, expected platform_compare, platform_activity or keyword_cooccur", in.InsightType), nil
		}
		return jsonResult(out)
	})

	type sentimentInput struct {
		Topic        string     `json:"topic,omitempty" jsonschema_description:"Restrict analysis to titles mentioning this keyword."`
		Platforms    []string   `json:"platforms,omitempty" jsonschema_description:"Platform ids to include. Empty means every configured platform."`
		DateRange    *dateRange `json:"date_range,omitempty" jsonschema_description:"Inclusive day range. Defaults to today."`
		Limit        int        `json:"limit,omitempty" jsonschema_description:"Maximum classified items to attach. Default 50, max 100."`
		SortByWeight *bool      `json:"sort_by_weight,omitempty" jsonschema_description:"Order attached items by composite weight. Default true."`
		IncludeURL   bool       `json:"include_url,omitempty" jsonschema_description:"Include article URLs in the result."`
	}
	type sentimentResult struct {
		Topic   string                     `json:"topic,omitempty"`
		Range   news.Range                 `json:"range"`
		Summary analytics.SentimentSummary `json:"summary"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "analyze_sentiment",
		Description: "Classifies news titles as positive, negative or neutral against a built-in lexicon and reports the distribution with the classified items.",
	}, func(ctx context.Context, in sentimentInput) (*mcp.CallToolResult, error) {
		r, err := t.resolveRange(in.DateRange, 1)
		if err != nil {
			return errorResult("invalid date_range: %v", err), nil
		}
		items, err := t.itemsForRange(ctx, r, in.Platforms)
		if err != nil {
			return errorResult("loading news: %v", err), nil
		}
		if in.Topic != "" {
			needle := strings.ToLower(in.Topic)
			var filtered []news.Item
			for _, item := range items {
				if strings.Contains(strings.ToLower(item.Title), needle) {
					filtered = append(filtered, item)
				}
			}
			items = filtered
		}
		if !in.IncludeURL {
			items = stripURLs(items)
		}

		if in.SortByWeight == nil || *in.SortByWeight {
			weighted := analytics.TopWeighted(items, t.weights(), 0)
			items = make([]news.Item, 0, len(weighted))
			for _, w := range weighted {
				items = append(items, w.Item)
			}
		}

		summary := analytics.AnalyzeSentiment(items, true)
		limit := clampLimit(in.Limit, defaultListLimit, maxSimilarLimit)
		if len(summary.Items) > limit {
			summary.Items = summary.Items[:limit]
		}
		return jsonResult(sentimentResult{Topic: in.Topic, Range: r, Summary: summary})
	})

	type reportInput struct {
		ReportType string     `json:"report_type,omitempty" jsonschema_description:"daily (default) or weekly."`
		DateRange  *dateRange `json:"date_range,omitempty" jsonschema_description:"Custom inclusive day range overriding the report type's default window."`
	}
	type reportResult struct {
		ReportType string     `json:"report_type"`
		Range      news.Range `json:"range"`
		Markdown   string     `json:"markdown"`
		Generated  time.Time  `json:"generated_at"`
	}
	addTool(t, server, &mcp.Tool{
		Name:        "generate_summary_report",
		Description: "Renders a markdown digest for a day or week: top watched topics, highest-weighted news and per-platform activity.",
	}, func(ctx context.Context, in reportInput) (*mcp.CallToolResult, error) {
		reportType := in.ReportType
		if reportType == "" {
			reportType = analytics.ReportDaily
		}
		if reportType != analytics.ReportDaily && reportType != analytics.ReportWeekly {
			return errorResult("unknown report_type %q, expected daily or weekly", in.ReportType), nil
		}

		fallbackDays := 1
		if reportType == analytics.ReportWeekly {
			fallbackDays = 7
		}
		r, err := t.resolveRange(in.DateRange, fallbackDays)
		if err != nil {
			return errorResult("invalid date_range: %v", err), nil
		}

		snaps, err := t.snapshotsForRange(ctx, r, nil)
		if err != nil {
			return errorResult("loading snapshots: %v", err), nil
		}
		items := flatten(snaps)

		generated := t.now()
		markdown := analytics.BuildReport(analytics.ReportData{
			Type:      reportType,
			Range:     r,
			Topics:    t.topics(items, 10),
			TopNews:   analytics.TopWeighted(items, t.weights(), 10),
			Platforms: analytics.PlatformActivity(snaps),
			Generated: generated,
		})
		return jsonResult(reportResult{
			ReportType: reportType,
			Range:      r,
			Markdown:   markdown,
			Generated:  generated,
		})
	})
}
