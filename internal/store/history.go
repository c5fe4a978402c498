package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/gobwas/glob"
)

// HistoryItem is one saved definition as stored and exported
type HistoryItem struct {
	ID          int64     `json:"-"`
	Word        string    `json:"word"`
	Definition  string    `json:"definition"`
	Timestamp   time.Time `json:"timestamp"`
	ListID      string    `json:"listId"`
	ModelName   string    `json:"modelName"`
	PromptName  string    `json:"promptName"`
	SourceURL   string    `json:"sourceUrl"`
	SourceTitle string    `json:"sourceTitle"`
}

// HistoryFilter narrows a history query. Match is a glob applied to the
// word, case-insensitively.
type HistoryFilter struct {
	ListID string
	Match  string
	Limit  int
}

// Save stores an entry and remembers its list as the last used one
func (s *Store) Save(ctx context.Context, entry engine.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "save", Key: entry.Word, Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO history (word, definition, list_id, model_name, prompt_name, source_url, source_title, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.Word, entry.Definition, entry.ListID, entry.ModelName, entry.PromptName,
		entry.SourceURL, entry.SourceTitle, time.Now().UnixMilli())
	if err != nil {
		return &domain.StoreError{Op: "save", Key: entry.Word, Err: err}
	}

	if err := setSetting(ctx, tx, SettingLastUsedList, entry.ListID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "save", Key: entry.Word, Err: err}
	}
	return nil
}

// History returns saved definitions, newest first
func (s *Store) History(ctx context.Context, filter HistoryFilter) ([]HistoryItem, error) {
	var matcher glob.Glob
	if filter.Match != "" {
		m, err := glob.Compile(strings.ToLower(filter.Match))
		if err != nil {
			return nil, &domain.StoreError{Op: "history", Key: filter.Match, Err: err}
		}
		matcher = m
	}

	query := `SELECT id, word, definition, COALESCE(list_id, ''), COALESCE(model_name, ''),
		COALESCE(prompt_name, ''), source_url, source_title, created_at FROM history`
	var args []any
	if filter.ListID != "" {
		query += ` WHERE list_id = ?`
		args = append(args, filter.ListID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreError{Op: "history", Err: err}
	}
	defer rows.Close()

	items := []HistoryItem{}
	for rows.Next() {
		var item HistoryItem
		var created int64
		if err := rows.Scan(&item.ID, &item.Word, &item.Definition, &item.ListID, &item.ModelName,
			&item.PromptName, &item.SourceURL, &item.SourceTitle, &created); err != nil {
			return nil, &domain.StoreError{Op: "history", Err: err}
		}
		item.Timestamp = time.UnixMilli(created).UTC()

		if matcher != nil && !matcher.Match(strings.ToLower(item.Word)) {
			continue
		}
		items = append(items, item)
		if filter.Limit > 0 && len(items) >= filter.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreError{Op: "history", Err: err}
	}
	return items, nil
}

// ClearHistory deletes every saved definition
func (s *Store) ClearHistory(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, &domain.StoreError{Op: "clear-history", Err: err}
	}
	return result.RowsAffected()
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
