// Package main wires together the smart-scraper service binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pagegraph/smart-scraper/internal/api"
	"github.com/pagegraph/smart-scraper/internal/app"
	"github.com/pagegraph/smart-scraper/internal/clock/system"
	"github.com/pagegraph/smart-scraper/internal/config"
	"github.com/pagegraph/smart-scraper/internal/content"
	collyfetcher "github.com/pagegraph/smart-scraper/internal/fetcher/colly"
	headlessfetcher "github.com/pagegraph/smart-scraper/internal/fetcher/headless"
	"github.com/pagegraph/smart-scraper/internal/graph"
	"github.com/pagegraph/smart-scraper/internal/hash/sha256"
	"github.com/pagegraph/smart-scraper/internal/id/uuid"
	"github.com/pagegraph/smart-scraper/internal/llm"
	"github.com/pagegraph/smart-scraper/internal/logging"
	"github.com/pagegraph/smart-scraper/internal/metrics"
	"github.com/pagegraph/smart-scraper/internal/scraper"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()

	services, err := app.New(ctx, cfg, logger.Named("app"))
	if err != nil {
		logger.Fatal("service init failed", zap.Error(err))
	}
	defer services.Close()

	probeFetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent:     cfg.Scrape.UserAgent,
		RespectRobots: cfg.Scrape.RespectRobots,
		Timeout:       cfg.FetchTimeout(),
	})
	var headless scraper.Fetcher
	if cfg.Scrape.Headless {
		headlessFetcher, err := headlessfetcher.NewChromedp(headlessfetcher.Config{
			MaxParallel:       cfg.Headless.MaxParallel,
			UserAgent:         cfg.Scrape.UserAgent,
			NavigationTimeout: time.Duration(cfg.Headless.NavTimeoutSec) * time.Second,
		})
		if err != nil {
			logger.Warn("headless fetcher init failed", zap.Error(err))
		} else {
			headless = headlessFetcher
			defer headlessFetcher.Close()
		}
	}

	extractor := llm.NewClient(llm.Config{
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	}, logger.Named("llm"))

	pipeline := graph.New(
		probeFetcher,
		headless,
		content.NewExtractor(cfg.Scrape.MaxContentBytes),
		extractor,
		services.BlobStore(),
		services.ResultStore(),
		services.Publisher(),
		sha256.New(),
		system.New(),
		uuid.NewGenerator(),
		graph.Config{
			Concurrency:      cfg.Scrape.Concurrency,
			UserAgent:        cfg.Scrape.UserAgent,
			RespectRobots:    cfg.Scrape.RespectRobots,
			UseHeadless:      cfg.Scrape.Headless && headless != nil,
			SnapshotsEnabled: cfg.Scrape.SnapshotsEnabled,
			ContentType:      cfg.Storage.ContentType,
			BlobPrefix:       cfg.Storage.Prefix,
			Topic:            cfg.Publisher.TopicName,
		},
		logger.Named("graph"),
	)

	apiServer := api.NewServer(pipeline, cfg, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
