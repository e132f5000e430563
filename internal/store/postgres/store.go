// Package postgres provides a Postgres-backed scrape audit store.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagegraph/smart-scraper/internal/scraper"
)

// Config controls the Postgres connection pool used for audit rows.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store writes scrape and page rows into Postgres.
//
// Expected schema:
//
//	CREATE TABLE scrapes (
//	    id UUID PRIMARY KEY,
//	    urls TEXT NOT NULL,
//	    submitted_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE scrape_pages (
//	    scrape_id UUID NOT NULL,
//	    url TEXT NOT NULL,
//	    status_code INT NOT NULL,
//	    succeeded BOOLEAN NOT NULL,
//	    error_text TEXT,
//	    fetched_at TIMESTAMPTZ NOT NULL,
//	    duration_ms BIGINT NOT NULL,
//	    blob_uri TEXT
//	);
type Store struct {
	pool execCloser
}

// New creates a Postgres-backed Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// RecordScrape inserts one row per scrape request.
func (s *Store) RecordScrape(ctx context.Context, scrapeID string, urls []string, submitted time.Time) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("result store is not configured")
	}
	if scrapeID == "" {
		return fmt.Errorf("scrape id is required")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrapes (id, urls, submitted_at) VALUES ($1, $2, $3)`,
		scrapeID, strings.Join(urls, ","), submitted,
	)
	if err != nil {
		return fmt.Errorf("insert scrape row: %w", err)
	}
	return nil
}

// RecordPage inserts one row per processed URL.
func (s *Store) RecordPage(ctx context.Context, outcome scraper.PageOutcome) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("result store is not configured")
	}
	if outcome.ScrapeID == "" {
		return fmt.Errorf("scrape id is required")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_pages (scrape_id, url, status_code, succeeded, error_text, fetched_at, duration_ms, blob_uri)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		outcome.ScrapeID,
		outcome.URL,
		outcome.StatusCode,
		outcome.Succeeded,
		outcome.ErrorText,
		outcome.FetchedAt,
		outcome.DurationMs,
		outcome.BlobURI,
	)
	if err != nil {
		return fmt.Errorf("insert page row: %w", err)
	}
	return nil
}
