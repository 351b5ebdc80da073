package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestHealthEndpointsSkipGate(t *testing.T) {
	for _, path := range []string{"/healthz", "/readyz"} {
		resp := getURL(t, testEnv.Server.URL+path)
		body := readBody(t, resp)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusOK)
		}
		if body != "ok\n" {
			t.Errorf("GET %s body = %q, want %q", path, body, "ok\n")
		}
	}
}

func TestMetricsExposedWithoutCredentials(t *testing.T) {
	// Force at least one rejected and one served request so both
	// counters exist before scraping.
	readBody(t, postMCP(t, testEnv.Endpoint(), nil))
	readBody(t, getURL(t, testEnv.Server.URL+"/healthz"))

	resp := getURL(t, testEnv.Server.URL+"/metrics")
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	for _, metric := range []string{"trendradar_requests_total", "trendradar_auth_rejected_total"} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics output missing %s", metric)
		}
	}
}
