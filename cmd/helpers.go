package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/docnav/internal/config"
	"github.com/ziadkadry99/docnav/internal/db"
	"github.com/ziadkadry99/docnav/internal/history"
	"github.com/ziadkadry99/docnav/internal/logging"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docnav init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger returns the stderr logger honouring --verbose.
func newLogger() *slog.Logger {
	return logging.New(os.Stderr, verbose)
}

// openHistory opens the session history database named by the config.
// Close the returned database when done.
func openHistory(cfg *config.Config) (*history.Store, *db.DB, error) {
	path, err := cfg.HistoryPath()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	return history.NewStore(database), database, nil
}
