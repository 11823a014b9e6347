package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newswatchhq/newswatch/internal/analytics"
	"github.com/newswatchhq/newswatch/internal/analyzer"
	"github.com/newswatchhq/newswatch/internal/api"
	"github.com/newswatchhq/newswatch/internal/cache"
	"github.com/newswatchhq/newswatch/internal/config"
	"github.com/newswatchhq/newswatch/internal/gnews"
	"github.com/newswatchhq/newswatch/internal/metrics"
	"github.com/newswatchhq/newswatch/internal/pipeline"
	"github.com/newswatchhq/newswatch/internal/queue"
	"github.com/newswatchhq/newswatch/internal/tracing"
	"github.com/newswatchhq/newswatch/pkg/logging"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("newswatch service initializing", "version", "1.0.0")

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize tracing
	tp, err := tracing.InitTracer("newswatch")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	m := metrics.New("newswatch")

	newsClient, err := gnews.New(cfg.GNewsBaseURL, cfg.GNewsAPIKey)
	if err != nil {
		logger.Error("failed to initialize news client", "error", err)
		os.Exit(1)
	}

	annotator := analyzer.NewWithConfig(cfg.AnalyzerConfig())
	aggregator := analytics.NewWithConfig(cfg.Lexicon.StopWords, cfg.Thresholds())
	responseCache := cache.New(cfg.CacheTTL)
	pipe := pipeline.New(newsClient, annotator, aggregator, cfg.Query, cfg.MaxArticles, m)

	// Background refresh runs only when Redis is configured; without it
	// the cache TTL alone drives refreshes.
	var worker *queue.Worker
	var scheduler *queue.Scheduler
	var enqueuer api.Enqueuer
	if cfg.RedisAddr != "" {
		queueClient := queue.NewClient(queue.ClientConfig{RedisAddr: cfg.RedisAddr})
		defer queueClient.Close()
		enqueuer = queueClient

		worker = queue.NewWorker(queue.WorkerConfig{RedisAddr: cfg.RedisAddr, Concurrency: 1}, pipe, responseCache)
		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("queue worker stopped", "error", err)
			}
		}()

		scheduler, err = queue.NewScheduler(queue.ClientConfig{RedisAddr: cfg.RedisAddr}, cfg.RefreshCron)
		if err != nil {
			logger.Error("failed to initialize refresh scheduler", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := scheduler.Run(); err != nil {
				logger.Error("refresh scheduler stopped", "error", err)
			}
		}()
		logger.Info("background refresh enabled", "redis", cfg.RedisAddr, "cron", cfg.RefreshCron)
	} else {
		logger.Info("background refresh disabled, relying on cache TTL")
	}

	apiHandler := api.NewHandler(responseCache, pipe, enqueuer, m)

	// Middleware chain: HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware("newswatch")(apiHandler),
	)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("newswatch service starting",
			"addr", cfg.ListenAddr,
			"query", cfg.Query,
			"cache_ttl", cfg.CacheTTL.String(),
			"max_articles", cfg.MaxArticles,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	if scheduler != nil {
		scheduler.Shutdown()
	}
	if worker != nil {
		worker.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
