package crawler

import (
	"math"
	"regexp"
	"strconv"
)

// hotPattern matches the first number in an info string together with an
// optional Chinese magnitude suffix (万 = 1e4, 亿 = 1e8).
var hotPattern = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*(万|亿)?`)

// ParseHot extracts a numeric hot value from a platform's info string,
// e.g. "436.2万热度" → 4362000. Returns 0 when no number is present.
func ParseHot(info string) int64 {
	m := hotPattern.FindStringSubmatch(info)
	if m == nil {
		return 0
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}

	switch m[2] {
	case "万":
		n *= 1e4
	case "亿":
		n *= 1e8
	}

	return int64(math.Round(n))
}
