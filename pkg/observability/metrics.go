// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the TrendRadar server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// CrawlBuckets defines histogram buckets suited for upstream hot-list
// fetches, ranging from 50ms to 30s.
var CrawlBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// RequestBuckets defines histogram buckets for HTTP request handling,
// including long-lived MCP tool calls.
var RequestBuckets = []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendradar_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trendradar_request_duration_seconds",
			Help:    "Request duration",
			Buckets: RequestBuckets,
		},
		[]string{"method"},
	)

	// StreamingConnections tracks active SSE streaming connections on the
	// MCP endpoint.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trendradar_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// AuthRejectedTotal counts requests rejected by the password gate.
	AuthRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trendradar_auth_rejected_total",
			Help: "Gate rejections",
		},
	)

	// CrawlsTotal counts platform hot-list fetches by platform and outcome.
	CrawlsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendradar_crawls_total",
			Help: "Platform crawls",
		},
		[]string{"platform", "status"},
	)

	// CrawlDuration records per-platform fetch latency in seconds.
	CrawlDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trendradar_crawl_duration_seconds",
			Help:    "Crawl latency",
			Buckets: CrawlBuckets,
		},
		[]string{"platform"},
	)

	// SnapshotsStoredTotal counts snapshots persisted to the archive.
	SnapshotsStoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendradar_snapshots_stored_total",
			Help: "Snapshots stored",
		},
		[]string{"platform"},
	)

	// ToolExecutionsTotal counts MCP tool executions by name and outcome.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendradar_tool_executions_total",
			Help: "Tool executions",
		},
		[]string{"tool_name", "status"},
	)

	// PushDeliveriesTotal counts webhook push deliveries by target type and
	// outcome.
	PushDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trendradar_push_deliveries_total",
			Help: "Webhook deliveries",
		},
		[]string{"target", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		AuthRejectedTotal,
		CrawlsTotal,
		CrawlDuration,
		SnapshotsStoredTotal,
		ToolExecutionsTotal,
		PushDeliveriesTotal,
	)
}
