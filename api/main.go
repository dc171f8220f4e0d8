package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DeafMist/livewise-insights/internal/cache"
	"github.com/DeafMist/livewise-insights/internal/config"
	"github.com/DeafMist/livewise-insights/internal/elasticsearch"
	"github.com/DeafMist/livewise-insights/internal/events"
	"github.com/DeafMist/livewise-insights/internal/logger"
	"github.com/DeafMist/livewise-insights/internal/processing"
	"github.com/DeafMist/livewise-insights/internal/ratelimit"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	payloadCache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		log.Error("init cache", slog.Any("err", err))
		os.Exit(1)
	}
	defer closeCache()

	srv := &server{
		log:        log,
		cfg:        cfg,
		snapshots:  esClient,
		cache:      payloadCache,
		normalizer: processing.NewNormalizer(),
		limiter:    ratelimit.New(cfg.RateLimit, cfg.RateBurst, ratelimit.WithIdleTTL(cfg.RateIdleTTL)),
		now:        time.Now,
		started:    time.Now(),
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)
		defer publisher.Close()
		srv.publisher = publisher
		log.Info("saved snapshots go to kafka", slog.String("topic", cfg.KafkaTopic))
	} else {
		log.Info("KAFKA_BROKERS empty, saved snapshots are indexed directly")
		indexCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := esClient.EnsureIndex(indexCtx); err != nil {
			log.Warn("ensure snapshot index", slog.Any("err", err))
		}
		cancel()
	}

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr), slog.String("cache", cfg.CacheBackend))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}

func newCache(ctx context.Context, cfg *config.API) (cache.Cache, func(), error) {
	switch cfg.CacheBackend {
	case config.CacheRedis:
		rc, err := cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { _ = rc.Close() }, nil
	case config.CacheNone:
		return cache.Nop{}, func() {}, nil
	default:
		return cache.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL), func() {}, nil
	}
}
