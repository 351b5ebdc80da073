package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Tokenize splits a title into comparable tokens. Runs of CJK characters
// become overlapping bigrams so that two titles sharing a phrase fragment
// still overlap; runs of latin letters and digits become single lowercased
// tokens. Everything else separates runs.
func Tokenize(s string) []string {
	var tokens []string
	var cjk []rune
	var latin []rune

	flushCJK := func() {
		if len(cjk) == 0 {
			return
		}
		if len(cjk) == 1 {
			tokens = append(tokens, string(cjk))
		} else {
			for i := 0; i+1 < len(cjk); i++ {
				tokens = append(tokens, string(cjk[i:i+2]))
			}
		}
		cjk = cjk[:0]
	}
	flushLatin := func() {
		if len(latin) == 0 {
			return
		}
		tokens = append(tokens, strings.ToLower(string(latin)))
		latin = latin[:0]
	}

	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r):
			flushLatin()
			cjk = append(cjk, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			flushCJK()
			latin = append(latin, r)
		default:
			flushCJK()
			flushLatin()
		}
	}
	flushCJK()
	flushLatin()
	return tokens
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(s) {
		set[tok] = struct{}{}
	}
	return set
}

// Similarity returns the Jaccard similarity of two titles over their token
// sets, in [0, 1]. Two empty titles are considered identical.
func Similarity(a, b string) float64 {
	return setSimilarity(tokenSet(a), tokenSet(b))
}

// Match pairs an item with its similarity score against a reference title.
type Match struct {
	Item  news.Item `json:"item"`
	Score float64   `json:"score"`
}

// FindSimilar returns the items whose titles score at least threshold against
// the reference title, most similar first. Duplicate titles across platforms
// are collapsed to the highest-scoring occurrence. A limit of 0 means no cap.
func FindSimilar(reference string, items []news.Item, threshold float64, limit int) []Match {
	refSet := tokenSet(reference)
	best := make(map[string]int)
	var matches []Match
	for _, item := range items {
		score := setSimilarity(refSet, tokenSet(item.Title))
		if score < threshold {
			continue
		}
		key := news.TitleKey(item.Title)
		if idx, ok := best[key]; ok {
			if score > matches[idx].Score {
				matches[idx] = Match{Item: item, Score: score}
			}
			continue
		}
		best[key] = len(matches)
		matches = append(matches, Match{Item: item, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func setSimilarity(sa, sb map[string]struct{}) float64 {
	if len(sa) == 0 && len(sb) == 0 {
		return 1
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for tok := range sa {
		if _, ok := sb[tok]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}
