package store

import (
	"context"
	"strings"
	"time"

	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/google/uuid"
)

// Lists returns every word list in creation order and the last used list
func (s *Store) Lists(ctx context.Context) (engine.ListsResponse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM word_lists ORDER BY created_at, rowid`)
	if err != nil {
		return engine.ListsResponse{}, &domain.StoreError{Op: "lists", Err: err}
	}
	defer rows.Close()

	lists := []engine.WordList{}
	for rows.Next() {
		var l engine.WordList
		if err := rows.Scan(&l.ID, &l.Name); err != nil {
			return engine.ListsResponse{}, &domain.StoreError{Op: "lists", Err: err}
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return engine.ListsResponse{}, &domain.StoreError{Op: "lists", Err: err}
	}

	lastUsed, err := s.Setting(ctx, SettingLastUsedList)
	if err != nil {
		return engine.ListsResponse{}, err
	}
	return engine.ListsResponse{Lists: lists, LastUsedListID: lastUsed}, nil
}

// CreateList adds a list. Names are trimmed and must be unique.
func (s *Store) CreateList(ctx context.Context, name string) (engine.WordList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return engine.WordList{}, &domain.StoreError{Op: "create-list", Err: domain.ErrInvalidListName}
	}

	l := engine.WordList{ID: "list_" + uuid.NewString(), Name: name}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO word_lists (id, name, created_at) VALUES (?, ?, ?)`,
		l.ID, l.Name, time.Now().UnixMilli(),
	)
	if err != nil {
		if isConstraintError(err) {
			return engine.WordList{}, &domain.StoreError{Op: "create-list", Key: name, Err: domain.ErrDuplicateList}
		}
		return engine.WordList{}, &domain.StoreError{Op: "create-list", Key: name, Err: err}
	}
	return l, nil
}

// ListByName returns the list with the given name
func (s *Store) ListByName(ctx context.Context, name string) (engine.WordList, error) {
	var l engine.WordList
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM word_lists WHERE name = ?`, strings.TrimSpace(name)).
		Scan(&l.ID, &l.Name)
	if err != nil {
		if isNoRows(err) {
			return l, &domain.StoreError{Op: "list", Key: name, Err: domain.ErrNotFound}
		}
		return l, &domain.StoreError{Op: "list", Key: name, Err: err}
	}
	return l, nil
}
