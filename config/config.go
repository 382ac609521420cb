// Package config loads tool configuration from an optional YAML file with
// environment overrides. Flags still win over both; precedence is wired in
// the command layer.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultWorkers bounds extractor parallelism when nothing is configured.
const DefaultWorkers = 4

// Config holds all tool configuration.
type Config struct {
	// Workers sets extractor parallelism. Values below 2 run the
	// extractors sequentially.
	Workers int `yaml:"workers"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// CachePath enables the result cache when set.
	CachePath string `yaml:"cache_path"`

	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

// ClickHouseConfig holds export target settings.
type ClickHouseConfig struct {
	// Addr is the native protocol address, host:port. Empty disables
	// the export.
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// TracingConfig holds OTLP exporter settings.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Protocol string `yaml:"protocol"`
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Workers:  DefaultWorkers,
		LogLevel: "info",
		ClickHouse: ClickHouseConfig{
			Database: "sma",
		},
		Tracing: TracingConfig{
			Protocol: "grpc",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides fields from SMA_* environment variables.
func (c *Config) applyEnv() {
	c.Workers = getEnvInt("SMA_WORKERS", c.Workers)
	c.LogLevel = getEnv("SMA_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("SMA_LOG_FILE", c.LogFile)
	c.CachePath = getEnv("SMA_CACHE_PATH", c.CachePath)

	c.ClickHouse.Addr = getEnv("SMA_CLICKHOUSE_ADDR", c.ClickHouse.Addr)
	c.ClickHouse.Database = getEnv("SMA_CLICKHOUSE_DB", c.ClickHouse.Database)
	c.ClickHouse.Username = getEnv("SMA_CLICKHOUSE_USER", c.ClickHouse.Username)
	c.ClickHouse.Password = getEnv("SMA_CLICKHOUSE_PASSWORD", c.ClickHouse.Password)

	c.Tracing.Enabled = getEnvBool("SMA_TRACING_ENABLED", c.Tracing.Enabled)
	c.Tracing.Endpoint = getEnv("SMA_TRACING_ENDPOINT", c.Tracing.Endpoint)
	c.Tracing.Protocol = getEnv("SMA_TRACING_PROTOCOL", c.Tracing.Protocol)
}

// Validate checks the configuration for values the tool cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.ClickHouse.Addr != "" && c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse database is required when an address is set")
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Protocol {
		case "grpc", "http":
		default:
			return fmt.Errorf("tracing protocol must be 'grpc' or 'http', got %q", c.Tracing.Protocol)
		}
	}
	return nil
}

// getEnv gets an environment variable or returns the fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets an integer environment variable or returns the fallback.
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvBool gets a boolean environment variable or returns the fallback.
func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
