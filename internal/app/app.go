// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pagegraph/smart-scraper/internal/config"
	"github.com/pagegraph/smart-scraper/internal/publisher"
	memoryPublisher "github.com/pagegraph/smart-scraper/internal/publisher/memory"
	pubsubPublisher "github.com/pagegraph/smart-scraper/internal/publisher/pubsub"
	"github.com/pagegraph/smart-scraper/internal/scraper"
	"github.com/pagegraph/smart-scraper/internal/storage"
	"github.com/pagegraph/smart-scraper/internal/storage/gcs"
	memoryStorage "github.com/pagegraph/smart-scraper/internal/storage/memory"
	"github.com/pagegraph/smart-scraper/internal/store"
	"github.com/pagegraph/smart-scraper/internal/store/postgres"
)

// App holds the provider-backed services selected by configuration:
// blob storage for page snapshots, the scrape audit store, and the
// scrape-completed event publisher. It is initialized once at startup
// and fails fast if any configured provider cannot be reached.
type App struct {
	logger    *zap.Logger
	blobStore scraper.BlobStore
	results   scraper.ResultStore
	publisher scraper.Publisher
	closers   []func()
}

// BlobStore exposes the configured snapshot store.
func (a *App) BlobStore() scraper.BlobStore {
	return a.blobStore
}

// ResultStore exposes the configured scrape audit store.
func (a *App) ResultStore() scraper.ResultStore {
	return a.results
}

// Publisher exposes the configured event publisher.
func (a *App) Publisher() scraper.Publisher {
	return a.publisher
}

// New instantiates the providers named in cfg.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{logger: logger}

	if err := a.initBlobStore(ctx, cfg); err != nil {
		return nil, err
	}
	if err := a.initResultStore(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}
	if err := a.initPublisher(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initBlobStore(ctx context.Context, cfg config.Config) error {
	switch cfg.Storage.Provider {
	case "gcs":
		if cfg.Storage.GCSBucket == "" {
			return fmt.Errorf("storage provider is 'gcs' but storage.gcs_bucket is not set")
		}
		a.logger.Info("using GCS blob store", zap.String("bucket", cfg.Storage.GCSBucket))
		blobs, err := gcs.New(ctx, gcs.Config{Bucket: cfg.Storage.GCSBucket})
		if err != nil {
			return fmt.Errorf("initialize gcs blob store: %w", err)
		}
		a.blobStore = blobs
		a.closers = append(a.closers, func() {
			if err := blobs.Close(); err != nil {
				a.logger.Warn("close gcs client", zap.Error(err))
			}
		})
	case "memory":
		a.logger.Info("using in-memory blob store")
		a.blobStore = memoryStorage.NewBlobStore()
	case "noop":
		a.logger.Info("using no-op blob store, page snapshots will be discarded")
		a.blobStore = storage.NewNoOp()
	default:
		return fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
	return nil
}

func (a *App) initResultStore(ctx context.Context, cfg config.Config) error {
	switch cfg.Database.Provider {
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database provider is 'postgres' but database.dsn is not set")
		}
		a.logger.Info("connecting to PostgreSQL")
		results, err := postgres.New(ctx, postgres.Config{
			DSN:      cfg.Database.DSN,
			MaxConns: int32(cfg.Database.MaxOpenConns),
			MinConns: int32(cfg.Database.MinOpenConns),
		})
		if err != nil {
			return fmt.Errorf("initialize postgres store: %w", err)
		}
		a.results = results
		a.closers = append(a.closers, results.Close)
	case "noop":
		a.logger.Info("using no-op result store, scrape metadata will be discarded")
		a.results = store.NewNoop()
	default:
		return fmt.Errorf("unknown database provider: %s", cfg.Database.Provider)
	}
	return nil
}

func (a *App) initPublisher(ctx context.Context, cfg config.Config) error {
	switch cfg.Publisher.Provider {
	case "pubsub":
		if cfg.Publisher.ProjectID == "" || cfg.Publisher.TopicName == "" {
			return fmt.Errorf("publisher provider is 'pubsub' but project_id or topic_name is not set")
		}
		a.logger.Info("connecting to GCP Pub/Sub", zap.String("topic", cfg.Publisher.TopicName))
		pub, err := pubsubPublisher.New(ctx, pubsubPublisher.Config{
			ProjectID: cfg.Publisher.ProjectID,
			TopicID:   cfg.Publisher.TopicName,
		})
		if err != nil {
			return fmt.Errorf("initialize pubsub publisher: %w", err)
		}
		a.publisher = pub
		a.closers = append(a.closers, func() {
			if err := pub.Close(); err != nil {
				a.logger.Warn("close pubsub client", zap.Error(err))
			}
		})
	case "memory":
		a.logger.Info("using in-memory publisher")
		a.publisher = memoryPublisher.New()
	case "noop":
		a.logger.Info("using no-op publisher, scrape events will be dropped")
		a.publisher = publisher.NewNoOp()
	default:
		return fmt.Errorf("unknown publisher provider: %s", cfg.Publisher.Provider)
	}
	return nil
}

// Close shuts down every provider that holds a connection.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
