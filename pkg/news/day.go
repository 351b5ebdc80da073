package news

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the canonical calendar day key format.
const DayLayout = "2006-01-02"

// Day is a calendar day key in the form "2006-01-02". The layout sorts
// lexicographically, so Day values compare correctly as plain strings.
type Day string

// DayOf returns the day key for the given instant in its own location.
func DayOf(t time.Time) Day {
	return Day(t.Format(DayLayout))
}

// ParseDay parses an explicit date in "2006-01-02" or "2006/01/02" form.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DayLayout, "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DayOf(t), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD or YYYY/MM/DD", s)
}

var (
	daysAgoZH = regexp.MustCompile(`^(\d+)天前$`)
	daysAgoEN = regexp.MustCompile(`^(\d+) days? ago$`)
)

// ParseDayQuery resolves a date query relative to now. It accepts natural
// language ("today", "yesterday", "3 days ago", 今天, 昨天, 前天, 3天前)
// and explicit dates. An empty query means today.
func ParseDayQuery(q string, now time.Time) (Day, error) {
	q = strings.TrimSpace(q)

	switch strings.ToLower(q) {
	case "", "today", "今天":
		return DayOf(now), nil
	case "yesterday", "昨天":
		return DayOf(now.AddDate(0, 0, -1)), nil
	case "day before yesterday", "前天":
		return DayOf(now.AddDate(0, 0, -2)), nil
	}

	if m := daysAgoZH.FindStringSubmatch(q); m != nil {
		n, _ := strconv.Atoi(m[1])
		return DayOf(now.AddDate(0, 0, -n)), nil
	}
	if m := daysAgoEN.FindStringSubmatch(strings.ToLower(q)); m != nil {
		n, _ := strconv.Atoi(m[1])
		return DayOf(now.AddDate(0, 0, -n)), nil
	}

	return ParseDay(q)
}

// Time returns midnight of the day in the given location.
func (d Day) Time(loc *time.Location) time.Time {
	t, _ := time.ParseInLocation(DayLayout, string(d), loc)
	return t
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time(time.UTC).AddDate(0, 0, n))
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start Day `json:"start"`
	End   Day `json:"end"`
}

// NewRange builds a range, normalizing a reversed start/end pair.
func NewRange(start, end Day) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// LastNDays returns the range covering today and the n-1 preceding days.
func LastNDays(now time.Time, n int) Range {
	if n < 1 {
		n = 1
	}
	end := DayOf(now)
	return Range{Start: end.AddDays(-(n - 1)), End: end}
}

// SingleDay returns the one-day range for d.
func SingleDay(d Day) Range {
	return Range{Start: d, End: d}
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d Day) bool {
	return d >= r.Start && d <= r.End
}

// Days enumerates every day in the range in ascending order.
func (r Range) Days() []Day {
	var days []Day
	for d := r.Start; d <= r.End; d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Len returns the number of days in the range.
func (r Range) Len() int {
	return len(r.Days())
}
