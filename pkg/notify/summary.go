package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/trending"
)

// maxSummaryTopics caps how many topics a digest lists.
const maxSummaryTopics = 5

// BuildSummary formats a crawl digest for pushing. Topics beyond the first
// five are summarized as a count; failed platforms get their own warning line.
func BuildSummary(when time.Time, platforms, items int, failed []string, topics []trending.TopicStat) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "本次抓取 %d 个平台，共 %d 条新闻（%s）\n", platforms, items, when.Format("15:04"))
	if len(failed) > 0 {
		fmt.Fprintf(&b, "抓取失败：%s\n", strings.Join(failed, "、"))
	}

	if len(topics) > 0 {
		b.WriteString("\n热点话题：\n")
		shown := topics
		if len(shown) > maxSummaryTopics {
			shown = shown[:maxSummaryTopics]
		}
		for _, topic := range shown {
			fmt.Fprintf(&b, "· %s（%d 条）\n", topic.Group, topic.Count)
		}
		if rest := len(topics) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "…… 另有 %d 个话题\n", rest)
		}
	}

	return Message{
		Title: "TrendRadar 热点速报",
		Text:  strings.TrimRight(b.String(), "\n"),
	}
}
