package trending

import (
	"sort"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// maxSamples caps how many example items each topic carries.
const maxSamples = 5

// TopicStat is one ranked topic group.
type TopicStat struct {
	Group     string      `json:"group"`
	Words     []string    `json:"words"`
	Count     int         `json:"count"`
	Platforms []string    `json:"platforms,omitempty"`
	Samples   []news.Item `json:"samples,omitempty"`
}

// Stats counts distinct matched titles per group and returns the topN
// groups ranked by count. Groups nothing matched are omitted. topN <= 0
// returns every matched group.
//
// Titles are deduplicated across captures, so an item recaptured on several
// crawls of the same list counts once.
func (l *Lexicon) Stats(items []news.Item, topN int) []TopicStat {
	if len(l.Groups) == 0 || len(items) == 0 {
		return nil
	}

	counts := make([]int, len(l.Groups))
	samples := make([][]news.Item, len(l.Groups))
	platforms := make([]map[string]bool, len(l.Groups))
	seen := make(map[string]int, len(items))

	for _, it := range items {
		key := news.TitleKey(it.Title)
		if idx, ok := seen[key]; ok {
			// Already counted; still track which platforms carry it.
			if idx >= 0 && it.Platform != "" {
				platforms[idx][it.Platform] = true
			}
			continue
		}

		idx := l.MatchGroup(it.Title)
		seen[key] = idx
		if idx < 0 {
			continue
		}

		counts[idx]++
		if len(samples[idx]) < maxSamples {
			samples[idx] = append(samples[idx], it)
		}
		if platforms[idx] == nil {
			platforms[idx] = make(map[string]bool)
		}
		if it.Platform != "" {
			platforms[idx][it.Platform] = true
		}
	}

	var stats []TopicStat
	for i, g := range l.Groups {
		if counts[i] == 0 {
			continue
		}
		stats = append(stats, TopicStat{
			Group:     g.Name,
			Words:     g.Words,
			Count:     counts[i],
			Platforms: sortedKeys(platforms[i]),
			Samples:   samples[i],
		})
	}

	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].Count > stats[b].Count
	})

	if topN > 0 && len(stats) > topN {
		stats = stats[:topN]
	}
	return stats
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
