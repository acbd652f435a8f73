// Package app wires storage, the stats store, the save pool and the run
// registry from a Config. Both the HTTP server and the CLI start from here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vytor/gauntlet/internal/catalog"
	"github.com/vytor/gauntlet/internal/config"
	"github.com/vytor/gauntlet/internal/db"
	"github.com/vytor/gauntlet/internal/jobs"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/repository"
	"github.com/vytor/gauntlet/internal/repository/memory"
	"github.com/vytor/gauntlet/internal/repository/sqlite"
	"github.com/vytor/gauntlet/internal/services"
	"github.com/vytor/gauntlet/internal/worker"
)

type App struct {
	Config   config.Config
	Catalog  *catalog.Catalog
	Stats    services.GauntletStatsService
	Runs     services.GauntletService
	SavePool *worker.Pool

	db  *db.DB
	log *logger.Logger
}

// New builds every component but starts nothing.
func New(cfg config.Config) (*App, error) {
	log := logger.Default().WithPrefix("app")
	a := &App{Config: cfg, log: log}

	cat, err := catalog.Load(cfg.DecksDir)
	if err != nil {
		return nil, fmt.Errorf("load decks: %w", err)
	}
	a.Catalog = cat

	var repo repository.KVRepository
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn("using in-memory storage; stats are lost on exit")
		repo = memory.NewKVRepository()
	default:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.db = database
		repo = sqlite.NewKVRepository(database.DB)
	}

	a.Stats = services.NewGauntletStatsService(repo, cfg.StatsKey)
	a.SavePool = worker.NewPool(cfg.SaveWorkerCount, cfg.SaveQueueSize)
	a.Runs = services.NewGauntletService(cat, jobs.NewWorkerQueue(a.SavePool, a.Stats), services.GauntletServiceConfig{
		OptionCount: cfg.PickOptionCount,
		Retention:   time.Duration(cfg.RunRetentionMinutes) * time.Minute,
	})
	return a, nil
}

// Start launches the save workers.
func (a *App) Start(ctx context.Context) {
	a.SavePool.Start(ctx)
}

// Ready pings the database when one is in use.
func (a *App) Ready(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Ready(ctx)
}

// Close drains pending saves, then releases storage.
func (a *App) Close() {
	a.log.Debug("stopping save pool")
	a.SavePool.Stop()
	if a.db != nil {
		a.log.Debug("closing database connection")
		if err := a.db.Close(); err != nil {
			a.log.Warn("failed to close database: %v", err)
		}
	}
}
