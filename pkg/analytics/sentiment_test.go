package analytics

import (
	"testing"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

func TestClassifyTitle(t *testing.T) {
	tests := []struct {
		title string
		label string
		score int
	}{
		{"某大厂宣布裁员", SentimentNegative, -1},
		{"股市上涨创新高", SentimentPositive, 2},
		{"今日多云转晴", SentimentNeutral, 0},
		{"Stock market crash warning", SentimentNegative, -2},
		{"国产芯片取得突破", SentimentPositive, 1},
		{"突破之后公司宣布亏损", SentimentNeutral, 0},
		{"", SentimentNeutral, 0},
	}
	for _, tt := range tests {
		label, score := ClassifyTitle(tt.title)
		if label != tt.label || score != tt.score {
			t.Errorf("ClassifyTitle(%q) = %q/%d, want %q/%d", tt.title, label, score, tt.label, tt.score)
		}
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	items := []news.Item{
		{Title: "新能源销量增长", Platform: "weibo"},
		{Title: "球队夺冠", Platform: "weibo"},
		{Title: "工厂事故调查", Platform: "zhihu"},
		{Title: "周末活动安排", Platform: "zhihu"},
		{Title: "球队夺冠", Platform: "douyin"},
	}

	summary := AnalyzeSentiment(items, false)
	if summary.Total != 4 {
		t.Fatalf("Total = %d, want 4 after duplicate collapse", summary.Total)
	}
	if summary.Positive != 2 || summary.Negative != 1 || summary.Neutral != 1 {
		t.Errorf("distribution = %d/%d/%d, want 2/1/1", summary.Positive, summary.Negative, summary.Neutral)
	}
	if summary.PositiveShare != 0.5 || summary.NegativeShare != 0.25 {
		t.Errorf("shares = %v/%v, want 0.5/0.25", summary.PositiveShare, summary.NegativeShare)
	}
	if summary.Tone != SentimentPositive {
		t.Errorf("Tone = %q, want positive", summary.Tone)
	}
	if summary.Items != nil {
		t.Errorf("Items attached without includeItems: %d entries", len(summary.Items))
	}

	summary = AnalyzeSentiment(items, true)
	if len(summary.Items) != 4 {
		t.Fatalf("len(Items) = %d, want 4", len(summary.Items))
	}
	if summary.Items[2].Sentiment != SentimentNegative {
		t.Errorf("Items[2].Sentiment = %q, want negative", summary.Items[2].Sentiment)
	}
}

func TestAnalyzeSentimentTone(t *testing.T) {
	mixed := []news.Item{
		{Title: "销量增长"},
		{Title: "工厂事故"},
	}
	if got := AnalyzeSentiment(mixed, false).Tone; got != "mixed" {
		t.Errorf("Tone = %q, want mixed on a balanced split", got)
	}

	quiet := []news.Item{{Title: "天气晴"}, {Title: "路况正常"}}
	if got := AnalyzeSentiment(quiet, false).Tone; got != SentimentNeutral {
		t.Errorf("Tone = %q, want neutral when nothing scores", got)
	}

	if got := AnalyzeSentiment(nil, false); got.Total != 0 || got.Tone != SentimentNeutral {
		t.Errorf("empty input = %+v, want zero totals with neutral tone", got)
	}
}
