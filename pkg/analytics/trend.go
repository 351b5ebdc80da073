package analytics

import (
	"strings"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// DayItems groups the items captured on a single day. Callers assemble the
// slice in chronological order, typically one entry per day in a range.
type DayItems struct {
	Day   news.Day
	Items []news.Item
}

// TrendPoint is one day in a topic's trend line. Count is the number of
// distinct titles mentioning the topic that day and Share is its fraction of
// all distinct titles seen that day.
type TrendPoint struct {
	Day   news.Day `json:"day"`
	Count int      `json:"count"`
	Share float64  `json:"share"`
}

// Trend computes the per-day trend line of a topic across the given days.
// Matching is a case-folded substring test against each title, and duplicate
// titles within a day count once. Days with no items still produce a point so
// the line has no gaps.
func Trend(days []DayItems, topic string) []TrendPoint {
	points := make([]TrendPoint, 0, len(days))
	for _, d := range days {
		matched, total := countDay(d.Items, topic)
		p := TrendPoint{Day: d.Day, Count: matched}
		if total > 0 {
			p.Share = float64(matched) / float64(total)
		}
		points = append(points, p)
	}
	return points
}

func countDay(items []news.Item, topic string) (matched, total int) {
	needle := strings.ToLower(topic)
	seen := make(map[string]bool)
	for _, item := range items {
		key := news.TitleKey(item.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		total++
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matched++
		}
	}
	return matched, total
}

// Lifecycle summarizes when a topic appeared, peaked and was last seen.
type Lifecycle struct {
	First        news.Day `json:"first_seen"`
	Peak         news.Day `json:"peak_day"`
	PeakCount    int      `json:"peak_count"`
	Last         news.Day `json:"last_seen"`
	ActiveDays   int      `json:"active_days"`
	TotalMatches int      `json:"total_matches"`
}

// TopicLifecycle derives a topic's lifecycle from its trend line. It returns
// false when the topic never appeared in the given days.
func TopicLifecycle(days []DayItems, topic string) (Lifecycle, bool) {
	var lc Lifecycle
	found := false
	for _, p := range Trend(days, topic) {
		if p.Count == 0 {
			continue
		}
		if !found {
			lc.First = p.Day
			found = true
		}
		if p.Count > lc.PeakCount {
			lc.Peak = p.Day
			lc.PeakCount = p.Count
		}
		lc.Last = p.Day
		lc.ActiveDays++
		lc.TotalMatches += p.Count
	}
	return lc, found
}

// Viral reports whether a topic's latest-day activity spikes above its
// trailing baseline.
type Viral struct {
	IsViral     bool     `json:"is_viral"`
	Day         news.Day `json:"day"`
	Count       int      `json:"count"`
	BaselineAvg float64  `json:"baseline_avg"`
	Ratio       float64  `json:"ratio"`
}

// DetectViral compares the topic's count on the most recent day against the
// mean of all preceding days. The topic is viral when the count reaches
// threshold times the baseline. With no prior activity the baseline is zero,
// so the raw threshold acts as a minimum count instead and Ratio stays zero.
func DetectViral(days []DayItems, topic string, threshold float64) Viral {
	points := Trend(days, topic)
	if len(points) == 0 {
		return Viral{}
	}
	latest := points[len(points)-1]
	v := Viral{Day: latest.Day, Count: latest.Count}
	sum := 0
	for _, p := range points[:len(points)-1] {
		sum += p.Count
	}
	if n := len(points) - 1; n > 0 {
		v.BaselineAvg = float64(sum) / float64(n)
	}
	if v.BaselineAvg > 0 {
		v.Ratio = float64(latest.Count) / v.BaselineAvg
		v.IsViral = v.Ratio >= threshold
	} else {
		v.IsViral = float64(latest.Count) >= threshold
	}
	return v
}

// Prediction extrapolates a topic's trend line one day forward.
type Prediction struct {
	NextDay    news.Day `json:"next_day"`
	Predicted  float64  `json:"predicted_count"`
	Slope      float64  `json:"slope"`
	Confidence float64  `json:"confidence"`
	Trend      string   `json:"trend"`
}

// Predict fits a least-squares line to the topic's daily counts and projects
// the next day. Confidence is the fit's R² clamped to [0, 1]; with fewer than
// two days the prediction is flat with zero confidence. The Trend field is
// "rising", "falling" or "stable".
func Predict(days []DayItems, topic string) Prediction {
	points := Trend(days, topic)
	var pred Prediction
	if len(points) == 0 {
		return pred
	}
	pred.NextDay = points[len(points)-1].Day.AddDays(1)
	if len(points) < 2 {
		pred.Predicted = float64(points[len(points)-1].Count)
		pred.Trend = "stable"
		return pred
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x, y := float64(i), float64(p.Count)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		pred.Predicted = sumY / n
		pred.Trend = "stable"
		return pred
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	pred.Slope = slope
	pred.Predicted = slope*n + intercept
	if pred.Predicted < 0 {
		pred.Predicted = 0
	}

	mean := sumY / n
	var ssTot, ssRes float64
	for i, p := range points {
		y := float64(p.Count)
		fit := slope*float64(i) + intercept
		ssTot += (y - mean) * (y - mean)
		ssRes += (y - fit) * (y - fit)
	}
	if ssTot > 0 {
		r2 := 1 - ssRes/ssTot
		if r2 < 0 {
			r2 = 0
		}
		if r2 > 1 {
			r2 = 1
		}
		pred.Confidence = r2
	} else if ssRes == 0 {
		// A perfectly flat line fits itself exactly.
		pred.Confidence = 1
	}

	switch {
	case slope > 0.1:
		pred.Trend = "rising"
	case slope < -0.1:
		pred.Trend = "falling"
	default:
		pred.Trend = "stable"
	}
	return pred
}
