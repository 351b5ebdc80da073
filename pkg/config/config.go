// Package config provides unified configuration for the TrendRadar server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (TRENDRADAR_ prefix, MCP_SERVER_PASSWORD)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import (
	"time"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Config holds all configuration for the TrendRadar server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Auth          AuthConfig          `yaml:"auth"`
	Crawler       CrawlerConfig       `yaml:"crawler"`
	Keywords      KeywordsConfig      `yaml:"keywords"`
	Weights       news.Weights        `yaml:"weights"`
	Storage       StorageConfig       `yaml:"storage"`
	Push          PushConfig          `yaml:"push"`
	Observability ObservabilityConfig `yaml:"observability"`
	Log           LogConfig           `yaml:"log"`
}

// ServerConfig holds MCP transport and HTTP server settings.
type ServerConfig struct {
	Transport       string        `yaml:"transport"`        // "stdio" or "http", default: "stdio"
	Host            string        `yaml:"host"`             // default: "0.0.0.0"
	Port            int           `yaml:"port"`             // default: 3333
	Path            string        `yaml:"path"`             // MCP endpoint path, default: "/mcp"
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // 0 (default) keeps event streams open indefinitely
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`   // default: 4 MiB
}

// AuthConfig holds the password gate settings. The password is resolved once
// during startup; an empty password leaves the MCP endpoint open.
type AuthConfig struct {
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"password_file"` // _file variant for password
}

// CrawlerConfig holds hot-list fetching settings.
type CrawlerConfig struct {
	BaseURL   string          `yaml:"base_url"`   // NewsNow-compatible API root
	Timeout   time.Duration   `yaml:"timeout"`    // per-request timeout, default: 10s
	UserAgent string          `yaml:"user_agent"`
	Proxy     string          `yaml:"proxy"`    // optional proxy URL
	Interval  time.Duration   `yaml:"interval"` // periodic crawl interval, 0 disables
	Platforms []news.Platform `yaml:"platforms"`
}

// KeywordsConfig points at the frequency words file used for topic grouping.
type KeywordsConfig struct {
	File string `yaml:"file"` // default: "config/frequency_words.txt"
}

// StorageConfig holds snapshot archive settings.
type StorageConfig struct {
	Type     string         `yaml:"type"`     // "memory" or "postgres", default: "memory"
	MaxDays  int            `yaml:"max_days"` // for memory store, default: 30
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"`         // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`        // default: 10
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: true
}

// PushConfig holds webhook notification settings.
type PushConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// WebhookConfig describes a single push target.
type WebhookConfig struct {
	Type string `yaml:"type"` // "slack", "feishu", or "http"
	URL  string `yaml:"url"`
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string   `yaml:"level"`      // "debug", "info", "warn", "error", default: "info"
	Categories []string `yaml:"categories"` // debug log categories, empty enables none
}

// defaultUserAgent is sent on crawler requests unless overridden.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultPlatforms returns the stock hot-list platform set.
func DefaultPlatforms() []news.Platform {
	return []news.Platform{
		{ID: "toutiao", Name: "今日头条"},
		{ID: "baidu", Name: "百度热搜"},
		{ID: "wallstreetcn-hot", Name: "华尔街见闻"},
		{ID: "thepaper", Name: "澎湃新闻"},
		{ID: "bilibili-hot-search", Name: "bilibili 热搜"},
		{ID: "cls-hot", Name: "财联社热门"},
		{ID: "ifeng", Name: "凤凰网"},
		{ID: "tieba", Name: "贴吧"},
		{ID: "weibo", Name: "微博"},
		{ID: "douyin", Name: "抖音"},
		{ID: "zhihu", Name: "知乎"},
	}
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Transport:       "stdio",
			Host:            "0.0.0.0",
			Port:            3333,
			Path:            "/mcp",
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    4 << 20,
		},
		Crawler: CrawlerConfig{
			BaseURL:   "https://newsnow.busiyi.world/api/s",
			Timeout:   10 * time.Second,
			UserAgent: defaultUserAgent,
			Platforms: DefaultPlatforms(),
		},
		Keywords: KeywordsConfig{
			File: "config/frequency_words.txt",
		},
		Weights: news.DefaultWeights,
		Storage: StorageConfig{
			Type:    "memory",
			MaxDays: 30,
			Postgres: PostgresConfig{
				MaxConns:       10,
				MigrateOnStart: true,
			},
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
