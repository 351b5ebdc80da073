package search

import (
	"fmt"
	"sort"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/analytics"
	"github.com/lizouzt/TrendRadar/pkg/news"
)

// DefaultRelatedThreshold filters weakly related titles out of Related
// results when no explicit threshold is given.
const DefaultRelatedThreshold = 0.4

// RelatedOptions controls Related scoring. A zero Threshold falls back to
// DefaultRelatedThreshold; a zero Limit means no cap.
type RelatedOptions struct {
	Threshold float64
	Limit     int
}

// Related scores every item against a reference headline and returns those
// above the threshold, strongest first. The score blends how much of the
// reference's tokens the title covers (weight 0.7) with plain title
// similarity (weight 0.3), so shorter follow-ups that reuse the reference's
// key terms still rank high. Duplicate titles collapse to their first
// occurrence.
func Related(reference string, items []news.Item, opts RelatedOptions) []Result {
	refTokens := analytics.Tokenize(reference)
	refSet := make(map[string]struct{}, len(refTokens))
	for _, tok := range refTokens {
		refSet[tok] = struct{}{}
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultRelatedThreshold
	}

	seen := make(map[string]bool)
	var results []Result
	for _, item := range items {
		key := news.TitleKey(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true

		score := 0.7*coverage(refSet, item.Title) + 0.3*analytics.Similarity(reference, item.Title)
		if score < threshold {
			continue
		}
		results = append(results, Result{Item: item, Score: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// coverage is the fraction of the reference's tokens found in the title.
func coverage(refSet map[string]struct{}, title string) float64 {
	if len(refSet) == 0 {
		return 0
	}
	hits := make(map[string]struct{})
	for _, tok := range analytics.Tokenize(title) {
		if _, ok := refSet[tok]; ok {
			hits[tok] = struct{}{}
		}
	}
	return float64(len(hits)) / float64(len(refSet))
}

// Presets accepted by PresetRange.
const (
	PresetYesterday = "yesterday"
	PresetLastWeek  = "last_week"
	PresetLastMonth = "last_month"
	PresetCustom    = "custom"
)

// PresetRange resolves a named history window relative to now. Yesterday is
// the single previous day; last_week and last_month cover the 7 and 30 days
// ending yesterday. The custom preset carries its own explicit range and is
// rejected here so callers surface a useful error.
func PresetRange(preset string, now time.Time) (news.Range, error) {
	today := news.DayOf(now)
	switch preset {
	case PresetYesterday, "":
		y := today.AddDays(-1)
		return news.SingleDay(y), nil
	case PresetLastWeek:
		return news.NewRange(today.AddDays(-7), today.AddDays(-1)), nil
	case PresetLastMonth:
		return news.NewRange(today.AddDays(-30), today.AddDays(-1)), nil
	case PresetCustom:
		return news.Range{}, fmt.Errorf("search: custom preset requires an explicit start and end day")
	default:
		return news.Range{}, fmt.Errorf("search: unknown time preset %q", preset)
	}
}
