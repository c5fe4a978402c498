package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateList   = errors.New("List already exists")
	ErrInvalidListName = errors.New("Invalid list name")
	ErrNoModel         = errors.New("No default AI model configured. Please set one in the config file.")
	ErrModelNotFound   = errors.New("Model not found. Please check your settings.")
	ErrUserCanceled    = errors.New("user canceled")
)

// FetchPrefix is prepended to backend failures shown in an overlay
const FetchPrefix = "Failed to fetch definition: "

// GenerationError represents a failed definition request
type GenerationError struct {
	Op      string // Operation: "define", "resolve-model", etc.
	Model   string // Optional: model display name
	Message string // Message extracted from the backend response
	Err     error  // Underlying error
}

func (e *GenerationError) Error() string {
	if e.Model != "" && e.Message != "" {
		return fmt.Sprintf("generation %s [%s]: %s", e.Op, e.Model, e.Message)
	}
	if e.Message != "" {
		return fmt.Sprintf("generation %s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("generation %s failed", e.Op)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Display returns the text shown in place of a definition.
// Configuration errors are shown verbatim, everything else with FetchPrefix.
func (e *GenerationError) Display() string {
	switch {
	case errors.Is(e.Err, ErrNoModel):
		return ErrNoModel.Error()
	case errors.Is(e.Err, ErrModelNotFound):
		return ErrModelNotFound.Error()
	}
	if e.Message != "" {
		return FetchPrefix + e.Message
	}
	if e.Err != nil {
		return FetchPrefix + e.Err.Error()
	}
	return FetchPrefix + "unknown error"
}

// StoreError represents an error from the word list and history store
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s [%s]: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Display returns the underlying message for user-facing notices
func (e *StoreError) Display() string {
	if e.Err == nil {
		return e.Op + " failed"
	}
	return e.Err.Error()
}

// SpeechError represents an error from the speech channel
type SpeechError struct {
	Op  string
	Err error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speech %s: %v", e.Op, e.Err)
}

func (e *SpeechError) Unwrap() error {
	return e.Err
}

// BackupError represents an error while exporting a backup
type BackupError struct {
	Op   string
	Path string
	Err  error
}

func (e *BackupError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("backup %s [%s]: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("backup %s: %v", e.Op, e.Err)
}

func (e *BackupError) Unwrap() error {
	return e.Err
}
