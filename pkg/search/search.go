// Package search finds archived news items by keyword, fuzzy similarity or
// entity mention, and links a headline to its related history.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/lizouzt/TrendRadar/pkg/analytics"
	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Search modes.
const (
	ModeKeyword = "keyword"
	ModeFuzzy   = "fuzzy"
	ModeEntity  = "entity"
)

// Sort orders.
const (
	SortRelevance = "relevance"
	SortWeight    = "weight"
	SortDate      = "date"
)

// DefaultFuzzyThreshold is applied when fuzzy search is requested without an
// explicit threshold.
const DefaultFuzzyThreshold = 0.6

// Options controls how Search matches and orders results. Zero values mean
// keyword matching, relevance order, the default fuzzy threshold, the stock
// weight configuration and no result cap.
type Options struct {
	Mode      string
	Threshold float64
	SortBy    string
	Limit     int
	Weights   news.Weights
}

// Result is a matched item with its relevance score and composite weight.
type Result struct {
	news.Item
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Search matches items against the query, collapses duplicate titles to the
// best-scoring occurrence and orders the remainder. Keyword mode requires
// every whitespace-separated term as a case-folded substring; fuzzy mode keeps
// titles whose similarity reaches the threshold; entity mode requires the
// query at token boundaries for latin text and as a substring for CJK. The
// relevance score is always the title's similarity to the query.
func Search(items []news.Item, query string, opts Options) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search: empty query")
	}

	mode := opts.Mode
	if mode == "" {
		mode = ModeKeyword
	}
	matcher, err := buildMatcher(mode, query, opts.Threshold)
	if err != nil {
		return nil, err
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortRelevance
	}
	switch sortBy {
	case SortRelevance, SortWeight, SortDate:
	default:
		return nil, fmt.Errorf("search: unknown sort order %q", sortBy)
	}

	weights := opts.Weights
	if weights == (news.Weights{}) {
		weights = news.DefaultWeights
	}
	scores := news.ScoreItems(items, weights)

	best := make(map[string]int)
	var results []Result
	for i, item := range items {
		if !matcher(item.Title) {
			continue
		}
		r := Result{Item: item, Score: analytics.Similarity(query, item.Title), Weight: scores[i]}
		key := news.TitleKey(item.Title)
		if idx, ok := best[key]; ok {
			if r.Score > results[idx].Score {
				results[idx] = r
			}
			continue
		}
		best[key] = len(results)
		results = append(results, r)
	}

	sortResults(results, sortBy)
	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results, nil
}

func buildMatcher(mode, query string, threshold float64) (func(string) bool, error) {
	switch mode {
	case ModeKeyword:
		terms := strings.Fields(strings.ToLower(query))
		return func(title string) bool {
			lower := strings.ToLower(title)
			for _, term := range terms {
				if !strings.Contains(lower, term) {
					return false
				}
			}
			return true
		}, nil
	case ModeFuzzy:
		if threshold <= 0 {
			threshold = DefaultFuzzyThreshold
		}
		if threshold > 1 {
			return nil, fmt.Errorf("search: fuzzy threshold %v out of range", threshold)
		}
		return func(title string) bool {
			return analytics.Similarity(query, title) >= threshold
		}, nil
	case ModeEntity:
		if containsCJK(query) {
			needle := strings.ToLower(query)
			return func(title string) bool {
				return strings.Contains(strings.ToLower(title), needle)
			}, nil
		}
		// Latin entities match only at token boundaries, so "AI" does not
		// hit inside "OpenAI".
		re, err := regexp.Compile(`(?i)(^|[^a-z0-9])` + regexp.QuoteMeta(query) + `([^a-z0-9]|$)`)
		if err != nil {
			return nil, fmt.Errorf("search: compile entity pattern: %w", err)
		}
		return re.MatchString, nil
	default:
		return nil, fmt.Errorf("search: unknown mode %q", mode)
	}
}

func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func sortResults(results []Result, sortBy string) {
	switch sortBy {
	case SortWeight:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Weight > results[j].Weight
		})
	case SortDate:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].CapturedAt.After(results[j].CapturedAt)
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			if results[i].Score != results[j].Score {
				return results[i].Score > results[j].Score
			}
			return results[i].Weight > results[j].Weight
		})
	}
}
