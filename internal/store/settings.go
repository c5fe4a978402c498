package store

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
)

// Setting keys
const (
	SettingLastUsedList   = "lastUsedListId"
	SettingLastBackupTime = "lastBackupTime"
	SettingLastBackupErr  = "lastBackupError"
	SettingLastBackupType = "lastBackupType"
)

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setSetting(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return &domain.StoreError{Op: "set-setting", Key: key, Err: err}
	}
	return nil
}

// Setting returns a setting value, or "" when unset
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return "", nil
		}
		return "", &domain.StoreError{Op: "setting", Key: key, Err: err}
	}
	return value, nil
}

// SetSetting stores a setting value
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	return setSetting(ctx, s.db, key, value)
}

// LastBackup returns when the last backup succeeded; zero if never
func (s *Store) LastBackup(ctx context.Context) (time.Time, error) {
	v, err := s.Setting(ctx, SettingLastBackupTime)
	if err != nil || v == "" {
		return time.Time{}, err
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, &domain.StoreError{Op: "setting", Key: SettingLastBackupTime, Err: err}
	}
	return time.UnixMilli(ms), nil
}

// RecordBackup stores the outcome of a backup attempt. A nil err marks
// success at t and clears the previous error.
func (s *Store) RecordBackup(ctx context.Context, t time.Time, backupType string, backupErr error) error {
	if backupErr != nil {
		return s.SetSetting(ctx, SettingLastBackupErr, backupErr.Error())
	}
	if err := s.SetSetting(ctx, SettingLastBackupTime, strconv.FormatInt(t.UnixMilli(), 10)); err != nil {
		return err
	}
	if err := s.SetSetting(ctx, SettingLastBackupType, backupType); err != nil {
		return err
	}
	return s.SetSetting(ctx, SettingLastBackupErr, "")
}
