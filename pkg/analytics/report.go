package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/news"
	"github.com/lizouzt/TrendRadar/pkg/trending"
)

// Report types accepted by BuildReport.
const (
	ReportDaily  = "daily"
	ReportWeekly = "weekly"
)

// WeightedItem is an item annotated with its composite weight.
type WeightedItem struct {
	news.Item
	Weight float64 `json:"weight"`
}

// TopWeighted scores items with the configured weights and returns the
// highest-weighted distinct titles, heaviest first. Duplicate titles keep
// their best-scoring occurrence. A limit of 0 means no cap.
func TopWeighted(items []news.Item, w news.Weights, n int) []WeightedItem {
	scores := news.ScoreItems(items, w)
	best := make(map[string]int)
	var out []WeightedItem
	for i, item := range items {
		key := news.TitleKey(item.Title)
		if idx, ok := best[key]; ok {
			if scores[i] > out[idx].Weight {
				out[idx] = WeightedItem{Item: item, Weight: scores[i]}
			}
			continue
		}
		best[key] = len(out)
		out = append(out, WeightedItem{Item: item, Weight: scores[i]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight > out[j].Weight
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ReportData carries everything a rendered report needs.
type ReportData struct {
	Type      string
	Range     news.Range
	Topics    []trending.TopicStat
	TopNews   []WeightedItem
	Platforms []ActivityStat
	Generated time.Time
}

// BuildReport renders the report as markdown. Sections with no data are
// omitted rather than rendered empty.
func BuildReport(data ReportData) string {
	var b strings.Builder

	title := "TrendRadar 日报"
	if data.Type == ReportWeekly {
		title = "TrendRadar 周报"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if data.Range.Start == data.Range.End {
		fmt.Fprintf(&b, "日期：%s\n", data.Range.Start)
	} else {
		fmt.Fprintf(&b, "周期：%s ~ %s\n", data.Range.Start, data.Range.End)
	}
	fmt.Fprintf(&b, "生成时间：%s\n", data.Generated.Format("2006-01-02 15:04:05"))

	if len(data.Topics) > 0 {
		b.WriteString("\n## 热点话题\n\n")
		for i, topic := range data.Topics {
			fmt.Fprintf(&b, "%d. **%s**（%d 条", i+1, topic.Group, topic.Count)
			if len(topic.Platforms) > 0 {
				fmt.Fprintf(&b, "，%s", strings.Join(topic.Platforms, "、"))
			}
			b.WriteString("）\n")
			for _, sample := range topic.Samples {
				fmt.Fprintf(&b, "   - %s\n", sample.Title)
			}
		}
	}

	if len(data.TopNews) > 0 {
		b.WriteString("\n## 高权重新闻\n\n")
		for i, item := range data.TopNews {
			name := item.PlatformName
			if name == "" {
				name = item.Platform
			}
			fmt.Fprintf(&b, "%d. %s [%s] 权重 %.1f\n", i+1, item.Title, name, item.Weight)
		}
	}

	if len(data.Platforms) > 0 {
		b.WriteString("\n## 平台活跃度\n\n")
		b.WriteString("| 平台 | 快照数 | 条目数 | 去重标题 |\n")
		b.WriteString("| --- | --- | --- | --- |\n")
		for _, p := range data.Platforms {
			name := p.PlatformName
			if name == "" {
				name = p.Platform
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", name, p.Snapshots, p.Items, p.DistinctTitles)
		}
	}

	return b.String()
}
