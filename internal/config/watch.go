package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 250 * time.Millisecond

// Provider holds the live configuration. Snapshots are replaced, never
// mutated, so callers may keep a snapshot for the duration of one operation.
type Provider struct {
	mu     sync.RWMutex
	cfg    *Config
	path   string
	logger *slog.Logger
}

// NewProvider creates a provider serving cfg, loaded from path
func NewProvider(path string, cfg *Config, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{cfg: cfg, path: path, logger: logger}
}

// Snapshot returns the current configuration
func (p *Provider) Snapshot() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// Path returns the config file path
func (p *Provider) Path() string {
	return p.path
}

// Reload re-reads the config file and swaps the snapshot.
// On error the previous snapshot stays in place.
func (p *Provider) Reload() (*Config, error) {
	cfg, err := LoadConfig(p.path)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.cfg = cfg
	p.mu.Unlock()
	return cfg, nil
}

// Watch reloads the configuration whenever the file changes and sends every
// new snapshot on the returned channel until ctx is done.
func (p *Provider) Watch(ctx context.Context) (<-chan *Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// watch the directory so editors that replace the file are seen
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = watcher.Close()
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan *Config, 1)
	go p.watchLoop(ctx, watcher, out)
	return out, nil
}

func (p *Provider) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan *Config) {
	defer close(out)
	defer watcher.Close()

	name := filepath.Base(p.path)
	var debounce <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				debounce = time.After(reloadDebounce)
			}

		case <-debounce:
			debounce = nil
			cfg, err := p.Reload()
			if err != nil {
				p.logger.Warn("config reload failed", "path", p.path, "error", err)
				continue
			}
			p.logger.Debug("config reloaded", "path", p.path, "models", len(cfg.Models))

			// keep only the newest snapshot if the reader is behind
			select {
			case <-out:
			default:
			}
			select {
			case out <- cfg:
			case <-ctx.Done():
				return
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Debug("config watcher error", "error", err)
		}
	}
}
