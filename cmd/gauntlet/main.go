// Package main provides the terminal host for gauntlet runs and stats.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vytor/gauntlet/internal/app"
	"github.com/vytor/gauntlet/internal/config"
	"github.com/vytor/gauntlet/internal/logger"
)

// cliLogLevel keeps engine chatter off the terminal unless asked for.
const cliLogLevel = "WARN"

var (
	flagDBPath      string
	flagStorage     string
	flagDecksDir    string
	flagLogLevel    string
	flagStatsKey    string
	flagOptionCount int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "gauntlet",
		Short:        "Survival quiz for kana, kanji and vocabulary",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDBPath, "db", "", "SQLite database path (overrides DB_PATH)")
	pf.StringVar(&flagStorage, "storage", "", "storage backend: sqlite or memory (overrides STORAGE_BACKEND)")
	pf.StringVar(&flagDecksDir, "decks", "", "directory of TOML decks (overrides DECKS_DIR)")
	pf.StringVar(&flagLogLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR (overrides LOG_LEVEL)")
	pf.StringVar(&flagStatsKey, "stats-key", "", "key of the stats document (overrides STATS_KEY)")
	pf.IntVar(&flagOptionCount, "option-count", 0, "choices shown in Pick mode (overrides PICK_OPTION_COUNT)")

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSetsCmd())
	return rootCmd
}

// loadConfig reads the environment and lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.LogLevel = cliLogLevel
	}
	applyStringFlag(cmd, "db", &cfg.DBPath, flagDBPath)
	applyStringFlag(cmd, "storage", &cfg.StorageBackend, flagStorage)
	applyStringFlag(cmd, "decks", &cfg.DecksDir, flagDecksDir)
	applyStringFlag(cmd, "log-level", &cfg.LogLevel, flagLogLevel)
	applyStringFlag(cmd, "stats-key", &cfg.StatsKey, flagStatsKey)
	applyIntFlag(cmd, "option-count", &cfg.PickOptionCount, flagOptionCount)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

func applyIntFlag(cmd *cobra.Command, name string, target *int, value int) {
	if cmd.Flags().Changed(name) {
		*target = value
	}
}

// openApp configures logging and builds the application for a subcommand.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithOutput(os.Stderr),
	))
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return a, nil
}
