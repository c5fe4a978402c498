// Package backup exports saved definitions, word lists and settings to a
// JSON file and decides when an automatic backup is due.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/13pathak/AI-Popup-Infopedia/internal/store"
)

// FormatVersion is written into every export
const FormatVersion = "1.1"

// Backup types
const (
	TypeAuto   = "Auto"
	TypeManual = "Manual"
)

// Source is the data an export reads and the place outcomes are recorded.
// *store.Store implements it.
type Source interface {
	History(ctx context.Context, filter store.HistoryFilter) ([]store.HistoryItem, error)
	Lists(ctx context.Context) (engine.ListsResponse, error)
	LastBackup(ctx context.Context) (time.Time, error)
	RecordBackup(ctx context.Context, t time.Time, backupType string, backupErr error) error
}

// Notifier shows a desktop notification
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier notifies through the OS notification service
type DesktopNotifier struct{}

// Notify implements Notifier
func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Export is the on-disk backup document
type Export struct {
	History                 []store.HistoryItem   `json:"history"`
	WordLists               []engine.WordList     `json:"wordLists"`
	Models                  []config.ModelConfig  `json:"models"`
	CustomPrompts           []config.PromptConfig `json:"customPrompts"`
	DefaultModelID          string                `json:"defaultModelId"`
	DefaultPromptID         string                `json:"defaultPromptId"`
	TTSSettings             config.TTSConfig      `json:"ttsSettings"`
	BackupReminderFrequency int                   `json:"backupReminderFrequency"`
	BackupSubfolder         string                `json:"backupSubfolder"`
	ExportedAt              time.Time             `json:"exportedAt"`
	BackupType              string                `json:"backupType"`
	Version                 string                `json:"version"`
}

// Result describes a completed check
type Result struct {
	Due  bool
	Path string
	Err  error
}

// Service exports backups
type Service struct {
	source   Source
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a backup service. notifier may be nil.
func NewService(source Source, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		source:   source,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Export writes a backup file and records the outcome
func (s *Service) Export(ctx context.Context, cfg *config.Config, backupType string) (string, error) {
	now := s.now()

	path, err := s.write(ctx, cfg, backupType, now)
	if err != nil {
		s.logger.Error("backup failed", "type", backupType, "error", err)
		if recErr := s.source.RecordBackup(ctx, now, backupType, err); recErr != nil {
			s.logger.Warn("failed to record backup error", "error", recErr)
		}
		return "", err
	}

	s.logger.Info("backup written", "type", backupType, "path", path)
	if err := s.source.RecordBackup(ctx, now, backupType, nil); err != nil {
		return path, err
	}
	return path, nil
}

func (s *Service) write(ctx context.Context, cfg *config.Config, backupType string, now time.Time) (string, error) {
	history, err := s.source.History(ctx, store.HistoryFilter{})
	if err != nil {
		return "", &domain.BackupError{Op: "read-history", Err: err}
	}
	lists, err := s.source.Lists(ctx)
	if err != nil {
		return "", &domain.BackupError{Op: "read-lists", Err: err}
	}

	doc := Export{
		History:                 history,
		WordLists:               lists.Lists,
		Models:                  cfg.Models,
		CustomPrompts:           cfg.CustomPrompts,
		DefaultModelID:          cfg.DefaultModelID,
		DefaultPromptID:         cfg.DefaultPromptID,
		TTSSettings:             cfg.TTS,
		BackupReminderFrequency: cfg.Backup.ReminderFrequencyDays,
		BackupSubfolder:         cfg.Backup.Subfolder,
		ExportedAt:              now.UTC(),
		BackupType:              backupType,
		Version:                 FormatVersion,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", &domain.BackupError{Op: "encode", Err: err}
	}

	path := filepath.Join(Dir(cfg), FileName(now))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", &domain.BackupError{Op: "mkdir", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", &domain.BackupError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}

// Due reports whether an automatic backup should run. A frequency of zero
// disables automatic backups.
func (s *Service) Due(ctx context.Context, cfg *config.Config) (bool, error) {
	days := cfg.Backup.ReminderFrequencyDays
	if days <= 0 {
		return false, nil
	}

	last, err := s.source.LastBackup(ctx)
	if err != nil {
		return false, err
	}
	if last.IsZero() {
		return true, nil
	}
	return s.now().Sub(last) >= time.Duration(days)*24*time.Hour, nil
}

// Check runs an automatic backup when one is due and sends a desktop
// notification with the outcome when enabled.
func (s *Service) Check(ctx context.Context, cfg *config.Config) Result {
	due, err := s.Due(ctx, cfg)
	if err != nil || !due {
		return Result{Err: err}
	}

	path, err := s.Export(ctx, cfg, TypeAuto)
	result := Result{Due: true, Path: path, Err: err}

	if cfg.Backup.Notify && s.notifier != nil {
		title, message := "Infopedia backup saved", path
		if err != nil {
			title, message = "Infopedia backup failed", err.Error()
		}
		if nerr := s.notifier.Notify(title, message); nerr != nil {
			s.logger.Debug("backup notification failed", "error", nerr)
		}
	}
	return result
}

// Dir returns the directory backups are written to
func Dir(cfg *config.Config) string {
	if folder := SanitizeFolder(cfg.Backup.Subfolder); folder != "" {
		return filepath.Join(cfg.Backup.Dir, folder)
	}
	return cfg.Backup.Dir
}

// FileName returns the export file name for t
func FileName(t time.Time) string {
	return fmt.Sprintf("infopedia_backup_%s_%d.json", t.UTC().Format("2006-01-02"), t.UnixMilli())
}

// SanitizeFolder trims a subfolder name and removes characters that are
// not allowed in file names
func SanitizeFolder(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
}
