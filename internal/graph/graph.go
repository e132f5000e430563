// Package graph implements the smart-scraper pipeline: fetch each URL,
// distill the page to readable markdown, hand it to the LLM extractor,
// and merge the per-page results into a single normalized payload.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pagegraph/smart-scraper/internal/content"
	"github.com/pagegraph/smart-scraper/internal/metrics"
	"github.com/pagegraph/smart-scraper/internal/scraper"
)

// Config controls SmartScraper behavior.
type Config struct {
	Concurrency      int
	UserAgent        string
	RespectRobots    bool
	UseHeadless      bool
	SnapshotsEnabled bool
	ContentType      string
	BlobPrefix       string
	Topic            string
}

// SmartScraper executes the per-URL extraction pipeline.
type SmartScraper struct {
	fetcher         scraper.Fetcher
	headlessFetcher scraper.Fetcher
	docs            *content.Extractor
	extractor       scraper.Extractor
	blobStore       scraper.BlobStore
	resultStore     scraper.ResultStore
	publisher       scraper.Publisher
	hasher          scraper.Hasher
	clock           scraper.Clock
	ids             scraper.IDGenerator
	cfg             Config
	logger          *zap.Logger
}

// New constructs a SmartScraper.
func New(
	fetcher scraper.Fetcher,
	headless scraper.Fetcher,
	docs *content.Extractor,
	extractor scraper.Extractor,
	blobStore scraper.BlobStore,
	resultStore scraper.ResultStore,
	publisher scraper.Publisher,
	hasher scraper.Hasher,
	clock scraper.Clock,
	ids scraper.IDGenerator,
	cfg Config,
	logger *zap.Logger,
) *SmartScraper {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.ContentType == "" {
		cfg.ContentType = "text/html; charset=utf-8"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SmartScraper{
		fetcher:         fetcher,
		headlessFetcher: headless,
		docs:            docs,
		extractor:       extractor,
		blobStore:       blobStore,
		resultStore:     resultStore,
		publisher:       publisher,
		hasher:          hasher,
		clock:           clock,
		ids:             ids,
		cfg:             cfg,
		logger:          logger,
	}
}

// Run scrapes every URL concurrently and returns the merged projects.
// A single failing URL is dropped from the result; Run only errors when
// no URL produced a usable extraction.
func (s *SmartScraper) Run(ctx context.Context, urls []string) (scraper.Projects, error) {
	if s.fetcher == nil {
		return scraper.Projects{}, fmt.Errorf("no fetcher configured")
	}
	if s.extractor == nil {
		return scraper.Projects{}, fmt.Errorf("no extractor configured")
	}

	started := s.now()
	scrapeID, err := s.newScrapeID()
	if err != nil {
		return scraper.Projects{}, fmt.Errorf("generate scrape id: %w", err)
	}

	if s.resultStore != nil {
		if err := s.resultStore.RecordScrape(ctx, scrapeID, urls, started); err != nil {
			s.logger.Warn("record scrape failed", zap.String("scrape_id", scrapeID), zap.Error(err))
		}
	}

	perURL := make([]scraper.Projects, len(urls))
	errs := make([]error, len(urls))

	// A failed URL must not cancel its siblings, so tasks never return
	// errors to the group; failures land in errs by index.
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i, u := range urls {
		g.Go(func() error {
			projects, err := s.processURL(ctx, scrapeID, u)
			if err != nil {
				errs[i] = err
				metrics.ObservePage("failed")
				s.logger.Error("url extraction failed",
					zap.String("scrape_id", scrapeID),
					zap.String("url", u),
					zap.Error(err),
				)
				return nil
			}
			perURL[i] = projects
			metrics.ObservePage("succeeded")
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	var lastErr error
	for i := range urls {
		if errs[i] != nil {
			lastErr = errs[i]
			continue
		}
		succeeded++
	}
	if succeeded == 0 {
		metrics.ObserveScrape("failed", s.now().Sub(started))
		return scraper.Projects{}, fmt.Errorf("all %d urls failed: %w", len(urls), lastErr)
	}

	merged := scraper.Merge(perURL)
	if err := scraper.Validate(merged); err != nil {
		metrics.ObserveScrape("failed", s.now().Sub(started))
		return scraper.Projects{}, fmt.Errorf("validate merged projects: %w", err)
	}

	s.publishCompleted(ctx, scrapeID, urls, merged, started)
	metrics.ObserveScrape("succeeded", s.now().Sub(started))
	s.logger.Info("scrape completed",
		zap.String("scrape_id", scrapeID),
		zap.Int("urls", len(urls)),
		zap.Int("urls_succeeded", succeeded),
		zap.Int("projects", len(merged.Projects)),
		zap.Duration("duration", s.now().Sub(started)),
	)
	return merged, nil
}

func (s *SmartScraper) processURL(ctx context.Context, scrapeID, url string) (scraper.Projects, error) {
	fetchedAt := s.now()
	resp, err := s.fetch(ctx, scrapeID, url)
	if err != nil {
		s.recordPage(ctx, scraper.PageOutcome{
			ScrapeID:  scrapeID,
			URL:       url,
			Succeeded: false,
			ErrorText: err.Error(),
			FetchedAt: fetchedAt,
		})
		return scraper.Projects{}, fmt.Errorf("fetch %s: %w", url, err)
	}

	blobURI := s.snapshot(ctx, scrapeID, resp)

	doc, err := s.docs.Extract(resp.URL, resp.Body)
	if err != nil {
		s.recordPage(ctx, scraper.PageOutcome{
			ScrapeID:   scrapeID,
			URL:        url,
			StatusCode: resp.StatusCode,
			Succeeded:  false,
			ErrorText:  err.Error(),
			FetchedAt:  fetchedAt,
			DurationMs: resp.Duration.Milliseconds(),
			BlobURI:    blobURI,
		})
		return scraper.Projects{}, fmt.Errorf("distill %s: %w", url, err)
	}

	llmStart := s.now()
	raw, err := s.extractor.Extract(ctx, promptContent(doc))
	metrics.ObserveLLMExtract(s.now().Sub(llmStart))
	if err != nil {
		s.recordPage(ctx, scraper.PageOutcome{
			ScrapeID:   scrapeID,
			URL:        url,
			StatusCode: resp.StatusCode,
			Succeeded:  false,
			ErrorText:  err.Error(),
			FetchedAt:  fetchedAt,
			DurationMs: resp.Duration.Milliseconds(),
			BlobURI:    blobURI,
		})
		return scraper.Projects{}, fmt.Errorf("extract %s: %w", url, err)
	}

	projects := scraper.Normalize(scraper.RawProjects{Projects: raw}, url)
	backfillFromDocument(&projects, doc)

	s.recordPage(ctx, scraper.PageOutcome{
		ScrapeID:   scrapeID,
		URL:        url,
		StatusCode: resp.StatusCode,
		Succeeded:  true,
		FetchedAt:  fetchedAt,
		DurationMs: resp.Duration.Milliseconds(),
		BlobURI:    blobURI,
	})
	return projects, nil
}

func (s *SmartScraper) fetch(ctx context.Context, scrapeID, url string) (scraper.FetchResponse, error) {
	req := scraper.FetchRequest{
		ScrapeID:      scrapeID,
		URL:           url,
		RespectRobots: s.cfg.RespectRobots,
		UseHeadless:   s.cfg.UseHeadless,
	}
	if s.cfg.UseHeadless && s.headlessFetcher != nil {
		return s.headlessFetcher.Fetch(ctx, req)
	}
	return s.fetcher.Fetch(ctx, req)
}

// snapshot stores the raw page body when a blob store is configured.
// Snapshot failures never fail the URL.
func (s *SmartScraper) snapshot(ctx context.Context, scrapeID string, resp scraper.FetchResponse) string {
	if !s.cfg.SnapshotsEnabled || s.blobStore == nil || s.hasher == nil {
		return ""
	}
	digest, err := s.hasher.Hash(resp.Body)
	if err != nil {
		s.logger.Warn("hash page body failed", zap.String("url", resp.URL), zap.Error(err))
		return ""
	}
	uri, err := s.blobStore.PutObject(ctx, s.buildBlobPath(scrapeID, digest), s.cfg.ContentType, resp.Body)
	if err != nil {
		s.logger.Warn("snapshot upload failed", zap.String("url", resp.URL), zap.Error(err))
		return ""
	}
	return uri
}

func (s *SmartScraper) buildBlobPath(scrapeID, hash string) string {
	prefix := strings.Trim(s.cfg.BlobPrefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%s/%s.html", scrapeID, hash)
	}
	return fmt.Sprintf("%s/%s/%s.html", prefix, scrapeID, hash)
}

func (s *SmartScraper) recordPage(ctx context.Context, outcome scraper.PageOutcome) {
	if s.resultStore == nil {
		return
	}
	if err := s.resultStore.RecordPage(ctx, outcome); err != nil {
		s.logger.Warn("record page failed",
			zap.String("scrape_id", outcome.ScrapeID),
			zap.String("url", outcome.URL),
			zap.Error(err),
		)
	}
}

func (s *SmartScraper) publishCompleted(
	ctx context.Context,
	scrapeID string,
	urls []string,
	merged scraper.Projects,
	started time.Time,
) {
	if s.publisher == nil || s.cfg.Topic == "" {
		return
	}
	payload := map[string]any{
		"scrape_id":    scrapeID,
		"urls":         len(urls),
		"projects":     len(merged.Projects),
		"submitted_at": started.Format(time.RFC3339),
	}
	if _, err := s.publisher.Publish(ctx, s.cfg.Topic, payload); err != nil {
		s.logger.Warn("publish scrape event failed", zap.String("scrape_id", scrapeID), zap.Error(err))
	}
}

func (s *SmartScraper) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock.Now()
}

func (s *SmartScraper) newScrapeID() (string, error) {
	if s.ids == nil {
		return "", fmt.Errorf("no id generator configured")
	}
	return s.ids.NewID()
}

// promptContent frames the distilled page for the extraction model:
// page metadata first, then the markdown body.
func promptContent(doc content.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", doc.URL)
	if doc.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", doc.Title)
	}
	if doc.Author != "" {
		fmt.Fprintf(&b, "Author: %s\n", doc.Author)
	}
	if doc.Published != "" {
		fmt.Fprintf(&b, "Published: %s\n", doc.Published)
	}
	if doc.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", doc.Description)
	}
	b.WriteString("\n")
	b.WriteString(doc.Markdown)
	return b.String()
}

// backfillFromDocument fills project fields the model left empty with
// metadata recovered from the page itself.
func backfillFromDocument(projects *scraper.Projects, doc content.Document) {
	for i := range projects.Projects {
		p := &projects.Projects[i]
		if p.Title == "" {
			p.Title = doc.Title
		}
		if p.Description == "" {
			p.Description = doc.Description
		}
		if p.Author == "" {
			p.Author = doc.Author
		}
		if p.Date == "" {
			p.Date = doc.Published
		}
	}
}
