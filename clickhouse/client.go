// Package clickhouse exports extraction results to a ClickHouse database
// for cross-run dashboards.
package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

const (
	samplesTable  = "sma_samples"
	metadataTable = "sma_metadata"

	pingAttempts     = 3
	pingInitialDelay = 100 * time.Millisecond
	pingMaxDelay     = 5 * time.Second
)

// Client wraps a ClickHouse connection for result export.
type Client struct {
	conn     clickhouse.Conn
	database string
	log      zerolog.Logger
}

// Connect opens a native-protocol connection and verifies it with a
// bounded, backed-off ping.
func Connect(ctx context.Context, addr, database, username, password string, log zerolog.Logger) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to clickhouse %s: %w", addr, err)
	}

	delay := pingInitialDelay
	for attempt := 1; ; attempt++ {
		err = conn.Ping(ctx)
		if err == nil {
			break
		}
		if attempt >= pingAttempts {
			conn.Close()
			return nil, fmt.Errorf("ping clickhouse %s: %w", addr, err)
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("clickhouse ping failed, retrying")
		select {
		case <-ctx.Done():
			conn.Close()
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > pingMaxDelay {
			delay = pingMaxDelay
		}
	}

	log.Info().Str("addr", addr).Str("database", database).Msg("connected to clickhouse")
	return &Client{conn: conn, database: database, log: log}, nil
}

// EnsureSchema creates the export tables when they do not exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			run_id String,
			source String,
			section String,
			series String,
			ts DateTime64(3),
			value Float64
		) ENGINE = MergeTree ORDER BY (run_id, section, series, ts)`, c.database, samplesTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			run_id String,
			source String,
			section String,
			name String,
			value String
		) ENGINE = MergeTree ORDER BY (run_id, section, name)`, c.database, metadataTable),
	}
	for _, stmt := range ddl {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create export table: %w", err)
		}
	}
	return nil
}

// ExportRun batch-inserts every sample and metadata entry of one run.
// Metadata values are stored as JSON strings, mirroring the report export.
func (c *Client) ExportRun(ctx context.Context, runID, source string, results analysis.Results) error {
	if err := c.EnsureSchema(ctx); err != nil {
		return err
	}

	samples, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s", c.database, samplesTable))
	if err != nil {
		return fmt.Errorf("prepare samples batch: %w", err)
	}

	var sampleCount int
	for _, section := range results.Sections() {
		for name, values := range section.Series.Series {
			for i, v := range values {
				if err := samples.Append(runID, source, section.Name, name, section.Series.Timestamps[i], v); err != nil {
					return fmt.Errorf("append sample: %w", err)
				}
				sampleCount++
			}
		}
	}
	if err := samples.Send(); err != nil {
		return fmt.Errorf("send samples batch: %w", err)
	}

	meta, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s.%s", c.database, metadataTable))
	if err != nil {
		return fmt.Errorf("prepare metadata batch: %w", err)
	}

	var metaCount int
	for _, section := range results.Sections() {
		for name, value := range section.Series.Metadata {
			encoded, err := json.Marshal(value)
			if err != nil {
				c.log.Warn().Err(err).Str("section", section.Name).Str("name", name).Msg("skipping unencodable metadata entry")
				continue
			}
			if err := meta.Append(runID, source, section.Name, name, string(encoded)); err != nil {
				return fmt.Errorf("append metadata: %w", err)
			}
			metaCount++
		}
	}
	if err := meta.Send(); err != nil {
		return fmt.Errorf("send metadata batch: %w", err)
	}

	c.log.Info().
		Str("runId", runID).
		Int("samples", sampleCount).
		Int("metadataRows", metaCount).
		Msg("results exported to clickhouse")
	return nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
