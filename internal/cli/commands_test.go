package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/13pathak/AI-Popup-Infopedia/internal/store"
)

// fakeCompletions serves OpenAI-style chat completions and records prompts
type fakeCompletions struct {
	prompts []string
	reply   string
	status  int
}

func (f *fakeCompletions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if len(req.Messages) > 0 {
		f.prompts = append(f.prompts, req.Messages[0].Content)
	}

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": f.reply}}},
	})
}

func setupDeps(t *testing.T, endpoint string) (*Dependencies, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.LogDir = filepath.Join(dir, "logs")
	cfg.Backup.Dir = filepath.Join(dir, "backups")
	cfg.Backup.Notify = false
	if endpoint != "" {
		cfg.Models = []config.ModelConfig{{ID: "a", Name: "Alpha", EndpointURL: endpoint, ModelName: "alpha-1"}}
		cfg.DefaultModelID = "a"
	}
	cfg.CustomPrompts = []config.PromptConfig{{ID: "kid", Name: "For Kids", Content: "Explain {word} to a child"}}

	path := filepath.Join(dir, "config.json")
	require.NoError(t, config.SaveConfig(cfg, path))

	deps, err := NewDependencies(path, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })
	return deps, path
}

func plain(b *bytes.Buffer) string {
	return ansi.Strip(b.String())
}

func TestNewDependencies_WritesLog(t *testing.T) {
	deps, _ := setupDeps(t, "")
	cfg := deps.Config.Snapshot()

	_, err := os.Stat(filepath.Join(cfg.LogDir, LogFile))
	assert.NoError(t, err)
	_, err = os.Stat(cfg.DBPath())
	assert.NoError(t, err)
}

func TestDefineCommand(t *testing.T) {
	srv := &fakeCompletions{reply: "**Photosynthesis** turns light into sugar."}
	server := httptest.NewServer(srv)
	defer server.Close()
	deps, _ := setupDeps(t, server.URL)
	ctx := context.Background()

	var out bytes.Buffer
	err := DefineCommand(ctx, deps, &out, "  photosynthesis ", DefineOptions{})
	require.NoError(t, err)

	text := plain(&out)
	assert.Contains(t, text, "photosynthesis")
	assert.Contains(t, text, "Alpha · System Default")
	assert.Contains(t, text, "Photosynthesis turns light into sugar.")
	assert.NotContains(t, text, "**")
	require.Len(t, srv.prompts, 1)
	assert.Equal(t, "Explain the following word or concept in a concise paragraph: photosynthesis", srv.prompts[0])

	items, err := deps.Store.History(ctx, store.HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, items, "nothing saved without --save")
}

func TestDefineCommand_PromptAndSave(t *testing.T) {
	srv := &fakeCompletions{reply: "Plants eat sunlight."}
	server := httptest.NewServer(srv)
	defer server.Close()
	deps, _ := setupDeps(t, server.URL)
	ctx := context.Background()

	var out bytes.Buffer
	err := DefineCommand(ctx, deps, &out, "leaf", DefineOptions{PromptID: "kid", SaveTo: "Biology"})
	require.NoError(t, err)

	require.Len(t, srv.prompts, 1)
	assert.Equal(t, "Explain leaf to a child", srv.prompts[0])
	assert.Contains(t, plain(&out), "Saved to Biology")

	list, err := deps.Store.ListByName(ctx, "Biology")
	require.NoError(t, err, "list created on demand")
	items, err := deps.Store.History(ctx, store.HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "leaf", items[0].Word)
	assert.Equal(t, list.ID, items[0].ListID)
	assert.Equal(t, "Alpha", items[0].ModelName)
	assert.Equal(t, "For Kids", items[0].PromptName)

	// the second save reuses the list
	require.NoError(t, DefineCommand(ctx, deps, &out, "stem", DefineOptions{SaveTo: "Biology"}))
	resp, err := deps.Store.Lists(ctx)
	require.NoError(t, err)
	assert.Len(t, resp.Lists, 1)
}

func TestDefineCommand_Errors(t *testing.T) {
	srv := &fakeCompletions{status: http.StatusTooManyRequests}
	server := httptest.NewServer(srv)
	defer server.Close()
	deps, _ := setupDeps(t, server.URL)
	ctx := context.Background()
	var out bytes.Buffer

	err := DefineCommand(ctx, deps, &out, "leaf", DefineOptions{})
	require.Error(t, err)
	assert.Equal(t, domain.FetchPrefix+"quota exceeded", err.Error())

	err = DefineCommand(ctx, deps, &out, "leaf", DefineOptions{PromptID: "missing"})
	assert.ErrorContains(t, err, "prompt not found")

	err = DefineCommand(ctx, deps, &out, "one two three four five six seven", DefineOptions{})
	assert.ErrorContains(t, err, "limit is 6")

	err = DefineCommand(ctx, deps, &out, "   ", DefineOptions{})
	assert.Error(t, err)
	assert.Len(t, srv.prompts, 1, "only the first call reached the endpoint")
}

func TestDefineCommand_NoModel(t *testing.T) {
	deps, _ := setupDeps(t, "")

	err := DefineCommand(context.Background(), deps, &bytes.Buffer{}, "leaf", DefineOptions{})
	require.Error(t, err)
	assert.Equal(t, domain.ErrNoModel.Error(), err.Error())
}

func TestListsCommands(t *testing.T) {
	deps, _ := setupDeps(t, "")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, ListsCommand(ctx, deps, &out))
	assert.Contains(t, plain(&out), "No lists yet")

	out.Reset()
	require.NoError(t, CreateListCommand(ctx, deps, &out, "Biology"))
	assert.Contains(t, plain(&out), "Created list Biology")

	err := CreateListCommand(ctx, deps, &out, "Biology")
	require.Error(t, err)
	assert.Equal(t, domain.ErrDuplicateList.Error(), err.Error())

	list, err := deps.Store.ListByName(ctx, "Biology")
	require.NoError(t, err)
	require.NoError(t, deps.Store.Save(ctx, engine.HistoryEntry{Word: "leaf", Definition: "d", ListID: list.ID}))

	out.Reset()
	require.NoError(t, ListsCommand(ctx, deps, &out))
	text := plain(&out)
	assert.Contains(t, text, "Biology")
	assert.Contains(t, text, list.ID)
	assert.Contains(t, text, "last used")
}

func TestHistoryCommand(t *testing.T) {
	deps, _ := setupDeps(t, "")
	ctx := context.Background()

	bio, err := deps.Store.CreateList(ctx, "Biology")
	require.NoError(t, err)
	chem, err := deps.Store.CreateList(ctx, "Chemistry")
	require.NoError(t, err)
	for _, e := range []engine.HistoryEntry{
		{Word: "photosynthesis", Definition: "**Light** into sugar", ListID: bio.ID},
		{Word: "photon", Definition: "A particle of light", ListID: chem.ID},
		{Word: "leaf", Definition: "Green organ", ListID: bio.ID},
	} {
		require.NoError(t, deps.Store.Save(ctx, e))
	}

	var out bytes.Buffer
	require.NoError(t, HistoryCommand(ctx, deps, &out, HistoryOptions{}))
	text := plain(&out)
	for _, w := range []string{"photosynthesis", "photon", "leaf", "Chemistry", "Light into sugar"} {
		assert.Contains(t, text, w)
	}
	assert.NotContains(t, text, "**")

	out.Reset()
	require.NoError(t, HistoryCommand(ctx, deps, &out, HistoryOptions{List: "Biology", Match: "photo*"}))
	text = plain(&out)
	assert.Contains(t, text, "photosynthesis")
	assert.NotContains(t, text, "photon ")
	assert.NotContains(t, text, "leaf")

	out.Reset()
	require.NoError(t, HistoryCommand(ctx, deps, &out, HistoryOptions{Match: "zzz*"}))
	assert.Contains(t, plain(&out), "Nothing saved yet")

	err = HistoryCommand(ctx, deps, &out, HistoryOptions{List: "Physics"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out.Reset()
	require.NoError(t, ClearHistoryCommand(ctx, deps, &out))
	assert.Contains(t, plain(&out), "Removed 3 entries")
}

func TestBackupCommands(t *testing.T) {
	deps, _ := setupDeps(t, "")
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, BackupStatusCommand(ctx, deps, &out, false))
	text := plain(&out)
	assert.Contains(t, text, "Last backup: never")
	assert.Contains(t, text, "Automatic: disabled")
	assert.NotContains(t, text, "due")

	out.Reset()
	require.NoError(t, BackupExportCommand(ctx, deps, &out))
	assert.Contains(t, plain(&out), "Backup written")

	entries, err := os.ReadDir(deps.Config.Snapshot().Backup.Dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "infopedia_backup_"))

	out.Reset()
	require.NoError(t, BackupStatusCommand(ctx, deps, &out, true))
	text = plain(&out)
	assert.NotContains(t, text, "never")
	assert.Contains(t, text, "No backup due")
}

func TestConfigCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	var out bytes.Buffer
	ConfigPathCommand(&out, path)
	assert.Equal(t, path+"\n", out.String())

	out.Reset()
	require.NoError(t, ConfigInitCommand(&out, path, false))
	assert.Contains(t, plain(&out), "Wrote")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Overlay, cfg.Overlay)

	err = ConfigInitCommand(&out, path, false)
	assert.ErrorContains(t, err, "already exists")
	assert.NoError(t, ConfigInitCommand(&out, path, true))
}

func TestRootCommand(t *testing.T) {
	srv := &fakeCompletions{reply: "A green organ."}
	server := httptest.NewServer(srv)
	defer server.Close()
	_, path := setupDeps(t, server.URL)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", path, "define", "green", "leaf", "--save", "Botany"})

	require.NoError(t, root.Execute())
	text := plain(&out)
	assert.Contains(t, text, "green leaf")
	assert.Contains(t, text, "Saved to Botany")

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, n := range []string{"read", "define", "lists", "history", "backup", "config"} {
		assert.True(t, names[n], "missing %s", n)
	}
}

func TestPrintTable(t *testing.T) {
	var out bytes.Buffer
	PrintTable(&out, []string{"A", "LONGER"}, [][]string{{"wide cell", "x"}})

	lines := strings.Split(strings.TrimRight(plain(&out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  A          LONGER", lines[0])
	assert.Equal(t, "  wide cell  x     ", lines[2])

	out.Reset()
	PrintTable(&out, []string{"A"}, nil)
	assert.Empty(t, out.String())
}
