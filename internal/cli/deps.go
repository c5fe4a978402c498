package cli

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/13pathak/AI-Popup-Infopedia/internal/backup"
	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
	"github.com/13pathak/AI-Popup-Infopedia/internal/services/generation"
	"github.com/13pathak/AI-Popup-Infopedia/internal/store"
)

// LogFile is the name of the JSON log written under the log directory
const LogFile = "infopedia.log"

// Dependencies holds all the services needed for CLI commands
type Dependencies struct {
	Config  *config.Provider
	Store   *store.Store
	Definer *generation.Client
	Backup  *backup.Service
	Logger  *slog.Logger

	closers []io.Closer
}

// NewDependencies loads the config at path and opens the services built on it
func NewDependencies(path string, debug bool) (*Dependencies, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	logger, closer, err := OpenLog(cfg.LogDir, debug)
	if err != nil {
		return nil, err
	}
	deps.closers = append(deps.closers, closer)
	deps.Logger = logger

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		_ = deps.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	deps.closers = append(deps.closers, st)

	deps.Config = config.NewProvider(path, cfg, logger)
	deps.Store = st
	deps.Definer = generation.NewClient(deps.Config, &http.Client{
		Timeout: time.Duration(cfg.Request.TimeoutMs) * time.Millisecond,
	}, logger)
	deps.Backup = backup.NewService(st, backup.DesktopNotifier{}, logger)

	logger.Debug("dependencies ready", "config", path, "db", cfg.DBPath())
	return deps, nil
}

// Close releases the database and the log file
func (d *Dependencies) Close() error {
	var first error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	d.closers = nil
	return first
}

// OpenLog opens the JSON log file in dir. The terminal belongs to the reader,
// so nothing is logged to stderr.
func OpenLog(dir string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, LogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}
