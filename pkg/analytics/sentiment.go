package analytics

import (
	"strings"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Sentiment labels assigned to titles.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Small embedded lexicon tuned for headline vocabulary. Chinese entries match
// as substrings, English entries are lowercased before matching.
var positiveWords = []string{
	"突破", "成功", "增长", "上涨", "利好", "创新", "领先", "夺冠", "丰收", "喜讯",
	"刷新纪录", "回暖", "复苏", "获奖", "点赞", "暖心", "福利", "提升", "首次", "开通",
	"win", "growth", "success", "record", "breakthrough", "surge", "rally",
	"boost", "launch", "achievement", "recover",
}

var negativeWords = []string{
	"下跌", "暴跌", "事故", "遇难", "死亡", "失败", "危机", "裁员", "破产", "召回",
	"诈骗", "违规", "处罚", "罚款", "崩盘", "爆炸", "灾害", "疫情", "停产", "亏损",
	"警惕", "谴责", "冲突", "袭击",
	"crash", "crisis", "fraud", "layoff", "decline", "loss", "attack",
	"failure", "scandal", "bankrupt", "recall", "warning",
}

// ClassifyTitle scores a title against the embedded lexicon. The score is
// positive hits minus negative hits; the label follows the sign.
func ClassifyTitle(title string) (string, int) {
	lower := strings.ToLower(title)
	score := 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			score++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			score--
		}
	}
	switch {
	case score > 0:
		return SentimentPositive, score
	case score < 0:
		return SentimentNegative, score
	default:
		return SentimentNeutral, 0
	}
}

// SentimentItem is an item annotated with its classification.
type SentimentItem struct {
	news.Item
	Sentiment string `json:"sentiment"`
	Score     int    `json:"sentiment_score"`
}

// SentimentSummary is the distribution of sentiment across a set of items.
type SentimentSummary struct {
	Total         int             `json:"total"`
	Positive      int             `json:"positive"`
	Negative      int             `json:"negative"`
	Neutral       int             `json:"neutral"`
	PositiveShare float64         `json:"positive_share"`
	NegativeShare float64         `json:"negative_share"`
	Tone          string          `json:"tone"`
	Items         []SentimentItem `json:"items,omitempty"`
}

// AnalyzeSentiment classifies every item and aggregates the distribution.
// Duplicate titles count once. Tone is the dominant label, or "mixed" when
// positive and negative tie above zero. Classified items are attached only
// when includeItems is set, so large summaries stay small on the wire.
func AnalyzeSentiment(items []news.Item, includeItems bool) SentimentSummary {
	var summary SentimentSummary
	seen := make(map[string]bool)
	for _, item := range items {
		key := news.TitleKey(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true

		label, score := ClassifyTitle(item.Title)
		summary.Total++
		switch label {
		case SentimentPositive:
			summary.Positive++
		case SentimentNegative:
			summary.Negative++
		default:
			summary.Neutral++
		}
		if includeItems {
			summary.Items = append(summary.Items, SentimentItem{Item: item, Sentiment: label, Score: score})
		}
	}
	if summary.Total > 0 {
		summary.PositiveShare = float64(summary.Positive) / float64(summary.Total)
		summary.NegativeShare = float64(summary.Negative) / float64(summary.Total)
	}
	switch {
	case summary.Positive > summary.Negative:
		summary.Tone = SentimentPositive
	case summary.Negative > summary.Positive:
		summary.Tone = SentimentNegative
	case summary.Positive > 0:
		summary.Tone = "mixed"
	default:
		summary.Tone = SentimentNeutral
	}
	return summary
}
