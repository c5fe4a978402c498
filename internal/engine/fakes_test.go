package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
)

// fakeSurface implements Surface with fixed selections
type fakeSurface struct {
	host   Selection
	nested map[ID]Selection
}

func (s *fakeSurface) HostSelection() Selection { return s.host }

func (s *fakeSurface) NestedSelection(id ID) Selection { return s.nested[id] }

// fakeDefiner implements Definer, recording requests
type fakeDefiner struct {
	mu       sync.Mutex
	resp     DefineResponse
	err      error
	requests []DefineRequest
}

func (d *fakeDefiner) Define(ctx context.Context, req DefineRequest) (DefineResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	resp := d.resp
	resp.Definition = "def of " + req.Word
	return resp, d.err
}

// fakeLists implements WordLists
type fakeLists struct {
	resp      ListsResponse
	err       error
	created   WordList
	createErr error
	names     []string
}

func (l *fakeLists) Lists(ctx context.Context) (ListsResponse, error) {
	return l.resp, l.err
}

func (l *fakeLists) CreateList(ctx context.Context, name string) (WordList, error) {
	l.names = append(l.names, name)
	return l.created, l.createErr
}

// fakeHistory implements History
type fakeHistory struct {
	entries []HistoryEntry
	err     error
}

func (h *fakeHistory) Save(ctx context.Context, entry HistoryEntry) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, entry)
	return nil
}

// fakeSpeaker implements Speaker
type fakeSpeaker struct {
	spoken []string
	stops  int
}

func (s *fakeSpeaker) Speak(text string, opts SpeechOptions) { s.spoken = append(s.spoken, text) }

func (s *fakeSpeaker) Stop() { s.stops++ }

// fixedMeasurer reports the same size for every instance
type fixedMeasurer struct {
	size Size
}

func (m fixedMeasurer) Measure(*Instance) Size { return m.size }

// displayErr is an error carrying overlay text
type displayErr struct {
	msg string
}

func (e *displayErr) Error() string   { return "backend: " + e.msg }
func (e *displayErr) Display() string { return e.msg }

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() DefineResponse {
	return DefineResponse{
		Models: []Model{
			{ID: "m1", Name: "Model One"},
			{ID: "m2", Name: "Model Two"},
		},
		DefaultModelID: "m1",
		CustomPrompts: []Prompt{
			{ID: "p1", Name: "Short", Content: "Briefly: {word}"},
			{ID: "p2", Name: "Kids", Content: "Explain to a child: {word}"},
		},
		DefaultPromptID: "p1",
		PromptName:      "Short",
	}
}
