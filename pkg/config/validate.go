package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// server.transport must be a known value.
	switch c.Server.Transport {
	case "http", "stdio":
		// valid
	default:
		errs = append(errs, fmt.Errorf("server.transport must be \"http\" or \"stdio\", got %q", c.Server.Transport))
	}

	// server.port must be a valid TCP port.
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	// server.path must be rooted.
	if !strings.HasPrefix(c.Server.Path, "/") {
		errs = append(errs, fmt.Errorf("server.path must start with \"/\", got %q", c.Server.Path))
	}

	// crawler.base_url is required.
	if c.Crawler.BaseURL == "" {
		errs = append(errs, fmt.Errorf("crawler.base_url is required"))
	}

	// crawler.platforms must name at least one platform, each with an id.
	if len(c.Crawler.Platforms) == 0 {
		errs = append(errs, fmt.Errorf("crawler.platforms must list at least one platform"))
	}
	for i, p := range c.Crawler.Platforms {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("crawler.platforms[%d].id is required", i))
		}
	}

	// weights must be non-negative and carry some mass.
	if c.Weights.Rank < 0 || c.Weights.Frequency < 0 || c.Weights.Hotness < 0 {
		errs = append(errs, fmt.Errorf("weights must not be negative"))
	}
	if c.Weights.Rank+c.Weights.Frequency+c.Weights.Hotness == 0 {
		errs = append(errs, fmt.Errorf("weights must not all be zero"))
	}

	// storage.type must be a known value.
	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	// If storage.type is "postgres", DSN or DSNFile must be set.
	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// push.webhooks entries need a known type and a URL.
	for i, wh := range c.Push.Webhooks {
		switch wh.Type {
		case "slack", "feishu", "http":
			// valid
		default:
			errs = append(errs, fmt.Errorf("push.webhooks[%d].type must be \"slack\", \"feishu\", or \"http\", got %q", i, wh.Type))
		}
		if wh.URL == "" {
			errs = append(errs, fmt.Errorf("push.webhooks[%d].url is required", i))
		}
	}

	// log.level must be a known value.
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
