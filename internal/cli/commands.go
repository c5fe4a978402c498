// Package cli implements the infopedia command line. Each command is a plain
// function over Dependencies that writes to an io.Writer, and root.go binds
// them to cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/13pathak/AI-Popup-Infopedia/internal/app"
	"github.com/13pathak/AI-Popup-Infopedia/internal/backup"
	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
	"github.com/13pathak/AI-Popup-Infopedia/internal/document"
	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/13pathak/AI-Popup-Infopedia/internal/services/network"
	"github.com/13pathak/AI-Popup-Infopedia/internal/services/speech"
	"github.com/13pathak/AI-Popup-Infopedia/internal/store"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/popup"
)

// defineWidth is the wrap width of definitions printed by define
const defineWidth = 72

// DefineOptions configures a one-shot definition
type DefineOptions struct {
	ModelID  string
	PromptID string
	SaveTo   string
}

// ReadCommand opens src in the interactive reader
func ReadCommand(ctx context.Context, deps *Dependencies, src string, stdin io.Reader) error {
	cfg := deps.Config.Snapshot()

	doc, err := document.Load(ctx, &http.Client{Timeout: 30 * time.Second}, src, stdin)
	if err != nil {
		return err
	}
	deps.Logger.Info("opening document", "source", src, "title", doc.Title, "paragraphs", len(doc.Paragraphs))

	updates, err := deps.Config.Watch(ctx)
	if err != nil {
		// live reload is optional
		deps.Logger.Warn("config watch unavailable", "error", err)
	}

	checker := network.NewStatusChecker(func() string {
		if m, ok := deps.Config.Snapshot().DefaultModel(); ok {
			return m.EndpointURL
		}
		return ""
	}, time.Duration(cfg.Network.CheckTimeout)*time.Second)

	model := app.New(app.Deps{
		Document:      doc,
		Config:        deps.Config,
		ConfigUpdates: updates,
		Definer:       deps.Definer,
		Store:         deps.Store,
		Speech:        speech.NewService(speech.ExecLauncher{}, cfg.TTS.Command, deps.Logger),
		Network:       checker,
		Backups:       deps.Backup,
		Logger:        deps.Logger,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("reader failed: %w", err)
	}
	return nil
}

// DefineCommand prints an explanation of word and optionally saves it
func DefineCommand(ctx context.Context, deps *Dependencies, w io.Writer, word string, opts DefineOptions) error {
	word = strings.Join(strings.Fields(word), " ")
	if word == "" {
		return errors.New("nothing to define")
	}
	cfg := deps.Config.Snapshot()

	if n := engine.WordCount(word); cfg.Overlay.MaxWords > 0 && n > cfg.Overlay.MaxWords {
		return fmt.Errorf("%q has %d words, the limit is %d", word, n, cfg.Overlay.MaxWords)
	}

	req := engine.DefineRequest{Word: word, ModelID: opts.ModelID}
	if opts.PromptID != "" {
		prompt, ok := findPrompt(cfg, opts.PromptID)
		if !ok {
			return fmt.Errorf("prompt not found: %s", opts.PromptID)
		}
		req.PromptContent = prompt.Content
	}

	resp, err := deps.Definer.Define(ctx, req)
	if err != nil {
		var genErr *domain.GenerationError
		if errors.As(err, &genErr) {
			return errors.New(genErr.Display())
		}
		return err
	}

	model := modelName(resp, opts.ModelID)
	_, _ = wordColor.Fprintln(w, word)
	_, _ = dimColor.Fprintf(w, "%s · %s\n\n", model, resp.PromptName)
	bold := lipgloss.NewStyle().Bold(true)
	fmt.Fprintln(w, popup.Markdown(wordwrap.String(resp.Definition, defineWidth), lipgloss.NewStyle(), bold))

	if opts.SaveTo == "" {
		return nil
	}
	list, err := deps.Store.ListByName(ctx, opts.SaveTo)
	if errors.Is(err, domain.ErrNotFound) {
		list, err = deps.Store.CreateList(ctx, opts.SaveTo)
	}
	if err != nil {
		return err
	}

	err = deps.Store.Save(ctx, engine.HistoryEntry{
		Word:       word,
		Definition: resp.Definition,
		ListID:     list.ID,
		ModelName:  model,
		PromptName: resp.PromptName,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	PrintSuccess(w, fmt.Sprintf("Saved to %s", list.Name))
	return nil
}

func findPrompt(cfg *config.Config, id string) (config.PromptConfig, bool) {
	for _, p := range cfg.CustomPrompts {
		if p.ID == id {
			return p, true
		}
	}
	return config.PromptConfig{}, false
}

func modelName(resp engine.DefineResponse, id string) string {
	if id == "" {
		id = resp.DefaultModelID
	}
	for _, m := range resp.Models {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

// ListsCommand prints the word lists, marking the last used one
func ListsCommand(ctx context.Context, deps *Dependencies, w io.Writer) error {
	resp, err := deps.Store.Lists(ctx)
	if err != nil {
		return err
	}

	PrintSection(w, "Word Lists")
	if len(resp.Lists) == 0 {
		PrintEmptyState(w, "No lists yet. Create one with: infopedia lists create <name>")
		return nil
	}

	rows := make([][]string, 0, len(resp.Lists))
	for _, l := range resp.Lists {
		mark := ""
		if l.ID == resp.LastUsedListID {
			mark = "last used"
		}
		rows = append(rows, []string{l.Name, l.ID, mark})
	}
	PrintTable(w, []string{"NAME", "ID", ""}, rows)
	return nil
}

// CreateListCommand creates a word list
func CreateListCommand(ctx context.Context, deps *Dependencies, w io.Writer, name string) error {
	list, err := deps.Store.CreateList(ctx, name)
	if err != nil {
		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) {
			return errors.New(storeErr.Display())
		}
		return err
	}
	PrintSuccess(w, fmt.Sprintf("Created list %s", list.Name))
	return nil
}

// HistoryOptions narrows the history listing
type HistoryOptions struct {
	List  string
	Match string
	Limit int
}

// HistoryCommand prints saved definitions, newest first
func HistoryCommand(ctx context.Context, deps *Dependencies, w io.Writer, opts HistoryOptions) error {
	filter := store.HistoryFilter{Match: opts.Match, Limit: opts.Limit}
	names := map[string]string{}

	resp, err := deps.Store.Lists(ctx)
	if err != nil {
		return err
	}
	for _, l := range resp.Lists {
		names[l.ID] = l.Name
	}
	if opts.List != "" {
		list, err := deps.Store.ListByName(ctx, opts.List)
		if err != nil {
			return err
		}
		filter.ListID = list.ID
	}

	items, err := deps.Store.History(ctx, filter)
	if err != nil {
		return err
	}

	PrintSection(w, "History")
	if len(items) == 0 {
		PrintEmptyState(w, "Nothing saved yet")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.Word,
			names[it.ListID],
			truncate(popup.StripMarkdown(it.Definition), 48),
			humanize.Time(it.Timestamp),
		})
	}
	PrintTable(w, []string{"WORD", "LIST", "DEFINITION", "SAVED"}, rows)
	return nil
}

// ClearHistoryCommand deletes every saved definition
func ClearHistoryCommand(ctx context.Context, deps *Dependencies, w io.Writer) error {
	n, err := deps.Store.ClearHistory(ctx)
	if err != nil {
		return err
	}
	PrintSuccess(w, fmt.Sprintf("Removed %s entries", humanize.Comma(n)))
	return nil
}

// BackupExportCommand writes a manual backup
func BackupExportCommand(ctx context.Context, deps *Dependencies, w io.Writer) error {
	path, err := deps.Backup.Export(ctx, deps.Config.Snapshot(), backup.TypeManual)
	if err != nil {
		return err
	}
	PrintSuccess(w, "Backup written")
	PrintLabelValue(w, "Path", path)
	return nil
}

// BackupStatusCommand reports when the last backup ran and whether an
// automatic one is due. With run set, a due backup is exported.
func BackupStatusCommand(ctx context.Context, deps *Dependencies, w io.Writer, run bool) error {
	cfg := deps.Config.Snapshot()

	last, err := deps.Store.LastBackup(ctx)
	if err != nil {
		return err
	}

	PrintSection(w, "Backup")
	lastText := "never"
	if !last.IsZero() {
		lastText = humanize.Time(last)
	}
	PrintLabelValue(w, "Last backup", lastText)
	PrintLabelValue(w, "Directory", backup.Dir(cfg))
	if cfg.Backup.ReminderFrequencyDays <= 0 {
		PrintLabelValue(w, "Automatic", "disabled")
	} else {
		PrintLabelValue(w, "Automatic", fmt.Sprintf("every %d days", cfg.Backup.ReminderFrequencyDays))
	}
	fmt.Fprintln(w)

	if !run {
		due, err := deps.Backup.Due(ctx, cfg)
		if err != nil {
			return err
		}
		if due {
			PrintWarning(w, "A backup is due")
		}
		return nil
	}

	result := deps.Backup.Check(ctx, cfg)
	switch {
	case result.Err != nil:
		return result.Err
	case result.Due:
		PrintSuccess(w, fmt.Sprintf("Backup written to %s", result.Path))
	default:
		PrintSuccess(w, "No backup due")
	}
	return nil
}

// ConfigPathCommand prints the config file in use
func ConfigPathCommand(w io.Writer, path string) {
	fmt.Fprintln(w, path)
}

// ConfigInitCommand writes the default config to path
func ConfigInitCommand(w io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.SaveConfig(config.DefaultConfig(), path); err != nil {
		return err
	}
	PrintSuccess(w, fmt.Sprintf("Wrote %s", path))
	return nil
}
