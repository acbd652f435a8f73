package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	Addr                string
	DBPath              string
	StorageBackend      string
	StatsKey            string
	LogLevel            string
	SaveWorkerCount     int
	SaveQueueSize       int
	DecksDir            string
	PickOptionCount     int
	RunRetentionMinutes int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:gauntlet.db"),
		StorageBackend:      strings.ToLower(envOr("STORAGE_BACKEND", BackendSQLite)),
		StatsKey:            envOr("STATS_KEY", "kanadojo-gauntlet-stats"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		SaveWorkerCount:     envIntOr("SAVE_WORKER_COUNT", 1),
		SaveQueueSize:       envIntOr("SAVE_QUEUE_SIZE", 32),
		DecksDir:            os.Getenv("DECKS_DIR"),
		PickOptionCount:     envIntOr("PICK_OPTION_COUNT", 3),
		RunRetentionMinutes: envIntOr("RUN_RETENTION_MINUTES", 30),
	}
}

// Validate reports every violated constraint at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	switch c.StorageBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", BackendSQLite, BackendMemory, c.StorageBackend))
	}
	if c.StatsKey == "" {
		errs = append(errs, errors.New("STATS_KEY cannot be empty"))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if c.SaveWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("SAVE_WORKER_COUNT must be at least 1, got %d", c.SaveWorkerCount))
	}
	if c.SaveQueueSize < 1 {
		errs = append(errs, fmt.Errorf("SAVE_QUEUE_SIZE must be at least 1, got %d", c.SaveQueueSize))
	}
	if c.PickOptionCount < 2 {
		errs = append(errs, fmt.Errorf("PICK_OPTION_COUNT must be at least 2, got %d", c.PickOptionCount))
	}
	if c.RunRetentionMinutes < 1 {
		errs = append(errs, fmt.Errorf("RUN_RETENTION_MINUTES must be at least 1, got %d", c.RunRetentionMinutes))
	}
	if c.DecksDir != "" {
		if info, err := os.Stat(c.DecksDir); err != nil || !info.IsDir() {
			errs = append(errs, fmt.Errorf("DECKS_DIR %q is not a readable directory", c.DecksDir))
		}
	}
	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
