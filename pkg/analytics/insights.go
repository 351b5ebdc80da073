package analytics

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// PlatformStat describes one platform's contribution to a comparison.
type PlatformStat struct {
	Platform     string  `json:"platform"`
	PlatformName string  `json:"platform_name,omitempty"`
	Matches      int     `json:"matches"`
	Total        int     `json:"total"`
	Share        float64 `json:"share"`
}

// PlatformCompare breaks down coverage per platform. With a topic, Matches
// counts the platform's distinct titles mentioning it and Share is that
// fraction of the platform's own titles. With an empty topic every title
// matches and Share becomes the platform's fraction of the grand total, so
// the result is a pure volume comparison. Busiest platforms come first.
func PlatformCompare(items []news.Item, topic string) []PlatformStat {
	needle := strings.ToLower(topic)
	type agg struct {
		name    string
		seen    map[string]bool
		matches int
	}
	byPlatform := make(map[string]*agg)
	var order []string
	for _, item := range items {
		a, ok := byPlatform[item.Platform]
		if !ok {
			a = &agg{name: item.PlatformName, seen: make(map[string]bool)}
			byPlatform[item.Platform] = a
			order = append(order, item.Platform)
		}
		key := news.TitleKey(item.Title)
		if a.seen[key] {
			continue
		}
		a.seen[key] = true
		if needle == "" || strings.Contains(strings.ToLower(item.Title), needle) {
			a.matches++
		}
	}

	grand := 0
	for _, a := range byPlatform {
		grand += len(a.seen)
	}

	stats := make([]PlatformStat, 0, len(order))
	for _, id := range order {
		a := byPlatform[id]
		s := PlatformStat{
			Platform:     id,
			PlatformName: a.name,
			Matches:      a.matches,
			Total:        len(a.seen),
		}
		if needle == "" {
			if grand > 0 {
				s.Share = float64(s.Total) / float64(grand)
			}
		} else if s.Total > 0 {
			s.Share = float64(s.Matches) / float64(s.Total)
		}
		stats = append(stats, s)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Matches > stats[j].Matches
	})
	return stats
}

// ActivityStat summarizes how much material a platform produced.
type ActivityStat struct {
	Platform       string    `json:"platform"`
	PlatformName   string    `json:"platform_name,omitempty"`
	Snapshots      int       `json:"snapshots"`
	Items          int       `json:"items"`
	DistinctTitles int       `json:"distinct_titles"`
	LastFetched    time.Time `json:"last_fetched"`
}

// PlatformActivity aggregates snapshot volume per platform, most items first.
func PlatformActivity(snapshots []*news.Snapshot) []ActivityStat {
	type agg struct {
		stat ActivityStat
		seen map[string]bool
	}
	byPlatform := make(map[string]*agg)
	var order []string
	for _, snap := range snapshots {
		a, ok := byPlatform[snap.Platform]
		if !ok {
			a = &agg{
				stat: ActivityStat{Platform: snap.Platform, PlatformName: snap.PlatformName},
				seen: make(map[string]bool),
			}
			byPlatform[snap.Platform] = a
			order = append(order, snap.Platform)
		}
		a.stat.Snapshots++
		a.stat.Items += len(snap.Items)
		for _, item := range snap.Items {
			a.seen[news.TitleKey(item.Title)] = true
		}
		if snap.FetchedAt.After(a.stat.LastFetched) {
			a.stat.LastFetched = snap.FetchedAt
		}
	}

	stats := make([]ActivityStat, 0, len(order))
	for _, id := range order {
		a := byPlatform[id]
		a.stat.DistinctTitles = len(a.seen)
		stats = append(stats, a.stat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Items > stats[j].Items
	})
	return stats
}

// Cooccurrence is a pair of tokens that appear together in titles.
type Cooccurrence struct {
	A     string `json:"a"`
	B     string `json:"b"`
	Count int    `json:"count"`
}

// KeywordCooccur finds token pairs that co-occur in at least minFrequency
// distinct titles, most frequent first, capped at topN when positive. Tokens
// shorter than two runes are ignored; pairs are ordered lexically so (a, b)
// and (b, a) count as one.
func KeywordCooccur(items []news.Item, minFrequency, topN int) []Cooccurrence {
	if minFrequency < 1 {
		minFrequency = 1
	}
	counts := make(map[[2]string]int)
	seen := make(map[string]bool)
	for _, item := range items {
		key := news.TitleKey(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true

		uniq := make(map[string]struct{})
		for _, tok := range Tokenize(item.Title) {
			if utf8.RuneCountInString(tok) < 2 {
				continue
			}
			uniq[tok] = struct{}{}
		}
		tokens := make([]string, 0, len(uniq))
		for tok := range uniq {
			tokens = append(tokens, tok)
		}
		sort.Strings(tokens)
		for i := 0; i < len(tokens); i++ {
			for j := i + 1; j < len(tokens); j++ {
				counts[[2]string{tokens[i], tokens[j]}]++
			}
		}
	}

	var pairs []Cooccurrence
	for pair, count := range counts {
		if count < minFrequency {
			continue
		}
		pairs = append(pairs, Cooccurrence{A: pair[0], B: pair[1], Count: count})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	if topN > 0 && len(pairs) > topN {
		pairs = pairs[:topN]
	}
	return pairs
}
