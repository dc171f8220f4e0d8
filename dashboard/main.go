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

	"github.com/DeafMist/livewise-insights/internal/config"
	"github.com/DeafMist/livewise-insights/internal/dashboard"
	"github.com/DeafMist/livewise-insights/internal/logger"
	"github.com/DeafMist/livewise-insights/internal/provider"
)

func main() {
	log := logger.New("dashboard")
	cfg, err := config.LoadDashboard()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	scope, err := dashboard.ParseErrorScope(cfg.ErrorScope)
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	client := provider.New(cfg.ProviderURL, cfg.ProviderTimeout, log)
	srv := newServer(log, client, cfg.SessionTTL, func() *dashboard.Service {
		store := dashboard.NewStore(dashboard.WithErrorScope(scope))
		return dashboard.NewService(store, client, cfg.DefaultLocation, log)
	})

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.ProviderTimeout + 5*time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		log.Info("dashboard server starting",
			slog.String("addr", cfg.BindAddr),
			slog.String("provider", cfg.ProviderURL),
			slog.String("error_scope", cfg.ErrorScope),
		)
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
