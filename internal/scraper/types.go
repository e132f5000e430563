// Package scraper defines the record shapes and collaborator interfaces
// shared across the service.
package scraper

import (
	"net/http"
	"time"
)

// Project is the normalized output unit for one scraped page.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	Author      string   `json:"author"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	URL         string   `json:"url"`
}

// Projects is the full response payload returned by the endpoint.
type Projects struct {
	Projects []Project `json:"projects"`
}

// RawProject mirrors Project as the LLM emits it: any field may be null
// or absent. Normalize converts it into a Project with defaults applied.
type RawProject struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Author      *string  `json:"author"`
	Content     *string  `json:"content"`
	Tags        []string `json:"tags"`
	URL         *string  `json:"url"`
}

// RawProjects is the loosely-typed payload decoded from the LLM response.
type RawProjects struct {
	Projects []RawProject `json:"projects"`
}

// FetchRequest captures everything needed to fetch a page.
type FetchRequest struct {
	ScrapeID      string
	URL           string
	Headers       http.Header
	RespectRobots bool
	UseHeadless   bool
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL          string
	StatusCode   int
	Headers      http.Header
	Body         []byte
	Duration     time.Duration
	UsedHeadless bool
}

// PageOutcome is persisted per URL for scrape auditing.
type PageOutcome struct {
	ScrapeID   string    `json:"scrape_id"`
	URL        string    `json:"url"`
	StatusCode int       `json:"status_code"`
	Succeeded  bool      `json:"succeeded"`
	ErrorText  string    `json:"error_text,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
	DurationMs int64     `json:"duration_ms"`
	BlobURI    string    `json:"blob_uri,omitempty"`
}
