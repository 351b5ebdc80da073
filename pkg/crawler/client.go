package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lizouzt/TrendRadar/pkg/debug"
	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Config holds client construction settings.
type Config struct {
	// BaseURL is the NewsNow-compatible API root, e.g.
	// "https://newsnow.busiyi.world/api/s".
	BaseURL string

	// Timeout bounds each platform request. Zero means 10 seconds.
	Timeout time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// Proxy is an optional proxy URL for outbound requests.
	Proxy string
}

// Client performs HTTP requests against a NewsNow-compatible hot-list API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new Client for a NewsNow-compatible backend.
func NewClient(cfg Config) (*Client, error) {
	// Normalize: remove trailing slash from base URL.
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	var transport http.RoundTripper
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy URL: %w", err)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		baseURL:   baseURL,
		userAgent: cfg.UserAgent,
	}, nil
}

// platformResponse is the upstream wire format for one platform's hot list.
type platformResponse struct {
	Status string         `json:"status"`
	Items  []platformItem `json:"items"`
}

type platformItem struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	MobileURL string `json:"mobileUrl"`
	Extra     struct {
		Info string `json:"info"`
	} `json:"extra"`
}

// FetchPlatform fetches one platform's current hot list and converts it into
// a snapshot. Items are ranked in list order; hot values are parsed from the
// upstream info strings.
func (c *Client) FetchPlatform(ctx context.Context, platform news.Platform) (*news.Snapshot, error) {
	reqURL := fmt.Sprintf("%s?id=%s&latest", c.baseURL, url.QueryEscape(platform.ID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", platform.ID, err)
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", platform.ID, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", platform.ID, httpResp.StatusCode)
	}

	var resp platformResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", platform.ID, err)
	}

	// "cache" means the upstream served a cached list, which is still a
	// valid capture.
	if resp.Status != "success" && resp.Status != "cache" {
		return nil, fmt.Errorf("fetching %s: upstream status %q", platform.ID, resp.Status)
	}

	now := time.Now()
	items := make([]news.Item, 0, len(resp.Items))
	for i, it := range resp.Items {
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		items = append(items, news.Item{
			Title:        title,
			URL:          it.URL,
			MobileURL:    it.MobileURL,
			Platform:     platform.ID,
			PlatformName: platform.Name,
			Rank:         i + 1,
			Hot:          ParseHot(it.Extra.Info),
			CapturedAt:   now,
		})
	}

	debug.Log("crawler", "fetched platform",
		"platform", platform.ID, "status", resp.Status, "items", len(items))

	return &news.Snapshot{
		ID:           news.NewSnapshotID(),
		Platform:     platform.ID,
		PlatformName: platform.Name,
		Day:          news.DayOf(now),
		FetchedAt:    now,
		Items:        items,
	}, nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
