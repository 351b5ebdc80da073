package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lizouzt/TrendRadar/pkg/news"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, TRENDRADAR_CONFIG env, ./config.yaml, /etc/trendradar/config.yaml)
//  3. Environment variable mapping
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// MCP_SERVER_PASSWORD wins over any YAML or file-sourced password.
	// A set-but-empty value deliberately disables the gate.
	if v, ok := os.LookupEnv("MCP_SERVER_PASSWORD"); ok {
		cfg.Auth.Password = v
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. TRENDRADAR_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/trendradar/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check TRENDRADAR_CONFIG env var.
	if envPath := os.Getenv("TRENDRADAR_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.yaml",
		"/etc/trendradar/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. These are
// convenience overrides for containerized deployments where editing the YAML
// file is awkward.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TRENDRADAR_TRANSPORT"); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv("TRENDRADAR_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TRENDRADAR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TRENDRADAR_BASE_URL"); v != "" {
		cfg.Crawler.BaseURL = v
	}
	if v := os.Getenv("TRENDRADAR_CRAWL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Crawler.Interval = d
		}
	}
	if v := os.Getenv("TRENDRADAR_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("TRENDRADAR_STORAGE_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Storage.MaxDays = days
		}
	}
	if v := os.Getenv("TRENDRADAR_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// TRENDRADAR_PLATFORMS: JSON array of platform configs.
	if v := os.Getenv("TRENDRADAR_PLATFORMS"); v != "" {
		platforms, err := parsePlatformsJSON(v)
		if err == nil && len(platforms) > 0 {
			cfg.Crawler.Platforms = platforms
		}
	}
}

// parsePlatformsJSON parses a JSON array of platform configurations.
func parsePlatformsJSON(jsonStr string) ([]news.Platform, error) {
	var platforms []news.Platform
	if err := json.Unmarshal([]byte(jsonStr), &platforms); err != nil {
		return nil, fmt.Errorf("parsing platforms JSON: %w", err)
	}
	return platforms, nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// auth.password_file -> auth.password
	if cfg.Auth.PasswordFile != "" && cfg.Auth.Password == "" {
		val, err := readSecretFile(cfg.Auth.PasswordFile)
		if err != nil {
			return fmt.Errorf("auth.password_file: %w", err)
		}
		cfg.Auth.Password = val
	}

	// storage.postgres.dsn_file -> storage.postgres.dsn
	if cfg.Storage.Postgres.DSNFile != "" && cfg.Storage.Postgres.DSN == "" {
		val, err := readSecretFile(cfg.Storage.Postgres.DSNFile)
		if err != nil {
			return fmt.Errorf("storage.postgres.dsn_file: %w", err)
		}
		cfg.Storage.Postgres.DSN = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
