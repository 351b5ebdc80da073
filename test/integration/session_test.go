package integration

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestQueryAuthenticatedSession(t *testing.T) {
	session := connect(t, queryTransport(testPassword))

	var names []string
	for tool, err := range session.Tools(context.Background(), nil) {
		if err != nil {
			t.Fatalf("listing tools: %v", err)
		}
		names = append(names, tool.Name)
	}
	if len(names) != 13 {
		t.Errorf("len(tools) = %d, want 13", len(names))
	}
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	for _, name := range []string{"get_latest_news", "search_news", "analyze_topic_trend", "trigger_crawl"} {
		if !have[name] {
			t.Errorf("tool %q not registered", name)
		}
	}

	result := callTool(t, session, "get_system_status", nil)
	if result.IsError {
		t.Fatalf("get_system_status returned error: %s", resultText(t, result))
	}
	var status struct {
		Version        string `json:"version"`
		AuthEnabled    bool   `json:"auth_enabled"`
		StorageHealthy bool   `json:"storage_healthy"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &status); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if status.Version != "integration" {
		t.Errorf("version = %q, want %q", status.Version, "integration")
	}
	if !status.AuthEnabled {
		t.Error("auth_enabled = false, want true")
	}
	if !status.StorageHealthy {
		t.Error("storage_healthy = false, want true")
	}
}

func TestHeaderAuthenticatedSession(t *testing.T) {
	session := connect(t, headerClientTransport(testPassword))

	// The by-date view aggregates every snapshot of the day, so the
	// seeded titles stay visible no matter what other tests crawl.
	result := callTool(t, session, "get_news_by_date", nil)
	if result.IsError {
		t.Fatalf("get_news_by_date returned error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	for _, title := range []string{"华为发布新手机", "如何评价华为新手机"} {
		if !strings.Contains(text, title) {
			t.Errorf("today's news missing seeded title %q", title)
		}
	}
}

func TestTriggerCrawlFetchesUpstream(t *testing.T) {
	session := connect(t, queryTransport(testPassword))

	result := callTool(t, session, "trigger_crawl", map[string]any{
		"platforms":     []string{"weibo"},
		"save_to_local": true,
	})
	if result.IsError {
		t.Fatalf("trigger_crawl returned error: %s", resultText(t, result))
	}
	var crawl struct {
		TotalNews       int      `json:"total_news"`
		Stored          int      `json:"stored"`
		FailedPlatforms []string `json:"failed_platforms"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &crawl); err != nil {
		t.Fatalf("decoding crawl result: %v", err)
	}
	if crawl.TotalNews != 2 {
		t.Errorf("total_news = %d, want 2", crawl.TotalNews)
	}
	if crawl.Stored != 1 {
		t.Errorf("stored = %d, want 1", crawl.Stored)
	}
	if len(crawl.FailedPlatforms) != 0 {
		t.Errorf("failed_platforms = %v, want none", crawl.FailedPlatforms)
	}

	// The crawled titles are now part of today's archive.
	latest := callTool(t, session, "get_latest_news", map[string]any{"platforms": []string{"weibo"}})
	if text := resultText(t, latest); !strings.Contains(text, "微博爆款话题") {
		t.Errorf("latest news missing crawled title, got: %s", text)
	}
}

func TestConfigToolNeverExposesPassword(t *testing.T) {
	session := connect(t, headerClientTransport(testPassword))

	result := callTool(t, session, "get_current_config", nil)
	if result.IsError {
		t.Fatalf("get_current_config returned error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if strings.Contains(text, testPassword) {
		t.Error("config output contains the gate password")
	}
	if !strings.Contains(text, testEnv.Upstream.URL) {
		t.Error("config output missing crawler base_url")
	}
}
