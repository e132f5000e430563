package scraper

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Extractor turns readable page content into raw project records.
type Extractor interface {
	Extract(ctx context.Context, content string) ([]RawProject, error)
}

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// ResultStore persists scrape metadata and per-URL outcomes.
type ResultStore interface {
	RecordScrape(ctx context.Context, scrapeID string, urls []string, submitted time.Time) error
	RecordPage(ctx context.Context, outcome PageOutcome) error
}

// Publisher pushes scrape-completed events to Pub/Sub (or similar).
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
}

// Hasher produces content digests used for blob object names.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces scrape IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
