// Package store provides scrape-audit persistence implementations.
package store

import (
	"context"
	"time"

	"github.com/pagegraph/smart-scraper/internal/scraper"
)

// Noop discards all records. It is the default when no database is
// configured; scrape auditing is best-effort by design.
type Noop struct{}

// NewNoop returns a Noop store.
func NewNoop() *Noop {
	return &Noop{}
}

// RecordScrape discards the record.
func (Noop) RecordScrape(context.Context, string, []string, time.Time) error {
	return nil
}

// RecordPage discards the record.
func (Noop) RecordPage(context.Context, scraper.PageOutcome) error {
	return nil
}
