package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/gauntlet/internal/api"
	"github.com/vytor/gauntlet/internal/app"
	"github.com/vytor/gauntlet/internal/config"
	"github.com/vytor/gauntlet/internal/logger"
)

const purgeInterval = time.Minute

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Gauntlet Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("storage_backend=%s", cfg.StorageBackend)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("stats_key=%s", cfg.StatsKey)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("save_worker_count=%d", cfg.SaveWorkerCount)
	log.Debug("save_queue_size=%d", cfg.SaveQueueSize)
	log.Debug("decks_dir=%s", cfg.DecksDir)
	log.Debug("pick_option_count=%d", cfg.PickOptionCount)
	log.Debug("run_retention_minutes=%d", cfg.RunRetentionMinutes)

	application, err := app.New(cfg)
	if err != nil {
		log.Error("failed to initialize: %v", err)
		os.Exit(1)
	}

	srv := &api.Server{
		GauntletService: application.Runs,
		StatsService:    application.Stats,
		Catalog:         application.Catalog,
		ReadyCheck:      application.Ready,
	}

	ctx, cancel := context.WithCancel(context.Background())
	application.Start(ctx)
	go purgeRuns(ctx, application, log)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop taking requests before draining saves so no run finishes after the pool closes.
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	application.Close()
	cancel()

	log.Info("===========================================")
	log.Info("Gauntlet Server Stopped")
	log.Info("===========================================")
}

// purgeRuns drops idle runs from the registry until ctx is cancelled.
func purgeRuns(ctx context.Context, application *app.App, log *logger.Logger) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := application.Runs.PurgeExpired(ctx); n > 0 {
				log.Debug("purged %d idle runs", n)
			}
		}
	}
}
