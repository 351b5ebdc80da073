package news

import "strings"

// Weights controls how much rank position, cross-capture frequency, and raw
// hot value contribute to an item's weight score.
type Weights struct {
	Rank      float64 `yaml:"rank_weight" json:"rank_weight"`
	Frequency float64 `yaml:"frequency_weight" json:"frequency_weight"`
	Hotness   float64 `yaml:"hotness_weight" json:"hotness_weight"`
}

// DefaultWeights mirrors the stock weight configuration.
var DefaultWeights = Weights{Rank: 0.6, Frequency: 0.3, Hotness: 0.1}

// rankCeiling caps how deep a hot list counts toward the rank score.
const rankCeiling = 50

// ScoreItems computes a 0-100 weight for each item, aligned by index.
//
// The rank component rewards positions near the top of a list, the
// frequency component rewards titles recaptured many times within the
// input set, and the hotness component normalizes the platform-reported
// hot value against the hottest item in the set.
func ScoreItems(items []Item, w Weights) []float64 {
	if len(items) == 0 {
		return nil
	}

	freq := make(map[string]int, len(items))
	var maxHot int64
	for _, it := range items {
		freq[TitleKey(it.Title)]++
		if it.Hot > maxHot {
			maxHot = it.Hot
		}
	}

	scores := make([]float64, len(items))
	for i, it := range items {
		rank := it.Rank
		if rank < 1 {
			rank = rankCeiling
		}
		if rank > rankCeiling {
			rank = rankCeiling
		}
		rankScore := float64(rankCeiling-rank+1) / float64(rankCeiling)

		n := freq[TitleKey(it.Title)]
		freqScore := float64(n) / 10
		if freqScore > 1 {
			freqScore = 1
		}

		var hotScore float64
		if maxHot > 0 && it.Hot > 0 {
			hotScore = float64(it.Hot) / float64(maxHot)
		}

		scores[i] = 100 * (w.Rank*rankScore + w.Frequency*freqScore + w.Hotness*hotScore)
	}
	return scores
}

// TitleKey normalizes a title for duplicate detection across captures:
// case-folded with surrounding and internal whitespace collapsed.
func TitleKey(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
