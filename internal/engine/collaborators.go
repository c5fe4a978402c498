package engine

import (
	"context"
	"errors"
)

// Model is a generation model the user can pick
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Prompt is a user-defined prompt template
type Prompt struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// WordList is a named list saved definitions are filed under
type WordList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefineRequest asks for an explanation of Word. Empty ModelID and
// PromptContent select the backend defaults.
type DefineRequest struct {
	Word          string
	ModelID       string
	PromptContent string
}

// DefineResponse carries the definition and the catalog the pickers are built
// from. The catalog fields are filled in even when Define returns an error.
type DefineResponse struct {
	Definition      string
	Models          []Model
	DefaultModelID  string
	CustomPrompts   []Prompt
	DefaultPromptID string
	PromptName      string
}

// ListsResponse is the set of word lists and the one used last
type ListsResponse struct {
	Lists          []WordList
	LastUsedListID string
}

// HistoryEntry is one saved definition
type HistoryEntry struct {
	Word        string
	Definition  string
	ListID      string
	ModelName   string
	PromptName  string
	SourceURL   string
	SourceTitle string
}

// SpeechOptions are hints for the speech channel
type SpeechOptions struct {
	Rate  float64
	Voice string
}

// Definer produces explanations
type Definer interface {
	Define(ctx context.Context, req DefineRequest) (DefineResponse, error)
}

// WordLists reads and creates word lists
type WordLists interface {
	Lists(ctx context.Context) (ListsResponse, error)
	CreateList(ctx context.Context, name string) (WordList, error)
}

// History stores saved definitions
type History interface {
	Save(ctx context.Context, entry HistoryEntry) error
}

// Speaker is the single global speech channel. Calls are fire-and-forget;
// Speak replaces whatever is currently being spoken.
type Speaker interface {
	Speak(text string, opts SpeechOptions)
	Stop()
}

// Measurer reports how large an instance renders in its current state
type Measurer interface {
	Measure(inst *Instance) Size
}

// displayer is implemented by errors that carry text meant for the overlay body
type displayer interface {
	Display() string
}

// DisplayText returns the text shown in an overlay for err
func DisplayText(err error) string {
	var d displayer
	if errors.As(err, &d) {
		return d.Display()
	}
	return err.Error()
}
