package news

import "time"

// Platform identifies an upstream hot-list source.
type Platform struct {
	// ID is the upstream identifier, e.g. "zhihu", "weibo", "douyin".
	ID string `yaml:"id" json:"id"`

	// Name is the human-readable label, e.g. "知乎", "微博".
	Name string `yaml:"name" json:"name"`
}

// Item is a single entry on a platform's hot list.
type Item struct {
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	MobileURL    string    `json:"mobile_url,omitempty"`
	Platform     string    `json:"platform"`
	PlatformName string    `json:"platform_name,omitempty"`
	Rank         int       `json:"rank"`
	Hot          int64     `json:"hot,omitempty"`
	CapturedAt   time.Time `json:"captured_at"`
}

// WithoutURLs returns a copy of the item with link fields cleared.
// Tool responses drop URLs by default to keep payloads small.
func (it Item) WithoutURLs() Item {
	it.URL = ""
	it.MobileURL = ""
	return it
}

// Snapshot is one capture of a platform's hot list.
type Snapshot struct {
	ID           string    `json:"id"`
	Platform     string    `json:"platform"`
	PlatformName string    `json:"platform_name,omitempty"`
	Day          Day       `json:"day"`
	FetchedAt    time.Time `json:"fetched_at"`
	Items        []Item    `json:"items"`
}

// PlatformIDs extracts the ID column from a platform list.
func PlatformIDs(platforms []Platform) []string {
	ids := make([]string, 0, len(platforms))
	for _, p := range platforms {
		ids = append(ids, p.ID)
	}
	return ids
}
