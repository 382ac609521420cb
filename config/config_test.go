package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.ClickHouse.Addr != "" {
		t.Error("clickhouse export should be disabled by default")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sma.yaml")
	content := `workers: 2
log_level: debug
cache_path: /tmp/sma-cache.db
clickhouse:
  addr: ch.example.com:9000
  database: metrics
tracing:
  enabled: true
  protocol: http
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.ClickHouse.Addr != "ch.example.com:9000" {
		t.Errorf("ClickHouse.Addr = %q", cfg.ClickHouse.Addr)
	}
	if cfg.ClickHouse.Database != "metrics" {
		t.Errorf("ClickHouse.Database = %q", cfg.ClickHouse.Database)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Protocol != "http" {
		t.Errorf("Tracing = %+v", cfg.Tracing)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sma.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("SMA_LOG_LEVEL", "error")
	t.Setenv("SMA_WORKERS", "8")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want env override error", cfg.LogLevel)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d, want 8", cfg.Workers)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"clickhouse without database", func(c *Config) {
			c.ClickHouse.Addr = "localhost:9000"
			c.ClickHouse.Database = ""
		}},
		{"bad tracing protocol", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Protocol = "udp"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mut(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/sma.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
