// Package app contains the reader application model and TEA implementation.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/13pathak/AI-Popup-Infopedia/internal/backup"
	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
	"github.com/13pathak/AI-Popup-Infopedia/internal/document"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/13pathak/AI-Popup-Infopedia/internal/services/network"
	"github.com/13pathak/AI-Popup-Infopedia/internal/services/speech"
	"github.com/13pathak/AI-Popup-Infopedia/internal/store"
	"github.com/13pathak/AI-Popup-Infopedia/internal/types"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/overlay"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/popup"
	"github.com/13pathak/AI-Popup-Infopedia/internal/ui/styles"
)

// Re-export Toast type and constants for convenience
type Toast = types.Toast

const (
	ToastInfo    = types.ToastInfo
	ToastSuccess = types.ToastSuccess
	ToastWarning = types.ToastWarning
	ToastError   = types.ToastError
)

// Store is the persistence the popups save into and the saved panel reads
type Store interface {
	engine.WordLists
	engine.History
	History(ctx context.Context, filter store.HistoryFilter) ([]store.HistoryItem, error)
}

// Speech is the global speech channel
type Speech interface {
	engine.Speaker
	Listen() tea.Cmd
	SetCommand(command string)
}

// Backups exports and checks backups
type Backups interface {
	Export(ctx context.Context, cfg *config.Config, backupType string) (string, error)
	Check(ctx context.Context, cfg *config.Config) backup.Result
}

// Deps are the collaborators the reader is built from. Only Document and
// Config are required.
type Deps struct {
	Document      *document.Document
	Config        *config.Provider
	ConfigUpdates <-chan *config.Config
	Definer       engine.Definer
	Store         Store
	Speech        Speech
	Network       *network.StatusChecker
	Backups       Backups
	Clipboard     func(string) error
	Logger        *slog.Logger
}

// Model is the reader application state
type Model struct {
	// Document
	doc       *document.Document
	lines     []string
	titleRows int
	scroll    int

	// Find
	query   string
	matches []int

	// Selection and overlays
	sel          selection
	engine       *engine.Controller
	popups       *popup.Renderer
	overlayStack *overlay.Stack
	mode         types.Mode

	// Toasts
	toasts []Toast

	// Terminal size
	width  int
	height int

	styles *styles.Styles
	zones  *zone.Manager

	// Services
	store         Store
	config        *config.Provider
	configUpdates <-chan *config.Config
	speech        Speech
	network       *network.StatusChecker
	isOnline      bool
	host          string
	backups       Backups
	clipboard     func(string) error

	logger *slog.Logger
}

// New creates the reader model
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clip := deps.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}

	cfg := deps.Config.Snapshot()
	s := styles.New()
	renderer := popup.New(s, cfg.Overlay.MaxWidth)

	engineDeps := engine.Dependencies{
		Definer:  deps.Definer,
		Measurer: renderer,
		Logger:   logger,
	}
	if deps.Store != nil {
		engineDeps.Lists = deps.Store
		engineDeps.History = deps.Store
	}
	if deps.Speech != nil {
		engineDeps.Speaker = deps.Speech
	}
	controller := engine.NewController(engineDeps, EngineOptions(cfg))
	controller.SetSource(deps.Document.SourceURL, deps.Document.Title)

	return Model{
		doc:           deps.Document,
		engine:        controller,
		popups:        renderer,
		overlayStack:  overlay.NewStack(),
		mode:          types.ModeRead,
		toasts:        []Toast{},
		styles:        s,
		zones:         zone.New(),
		store:         deps.Store,
		config:        deps.Config,
		configUpdates: deps.ConfigUpdates,
		speech:        deps.Speech,
		network:       deps.Network,
		isOnline:      true, // Optimistically assume online
		backups:       deps.Backups,
		clipboard:     clip,
		logger:        logger,
	}
}

// EngineOptions maps the overlay settings onto controller options
func EngineOptions(cfg *config.Config) engine.Options {
	opts := engine.DefaultOptions()
	o := cfg.Overlay
	if o.BaseZ > 0 {
		opts.BaseZ = o.BaseZ
	}
	if o.MaxWords > 0 {
		opts.MaxWords = o.MaxWords
	}
	if o.Margin >= 0 {
		opts.Margin = o.Margin
	}
	if o.NoListsDelayMs > 0 {
		opts.NoListsDelay = time.Duration(o.NoListsDelayMs) * time.Millisecond
	}
	if cfg.Request.TimeoutMs > 0 {
		opts.RequestTimeout = time.Duration(cfg.Request.TimeoutMs) * time.Millisecond
	}
	opts.ClampBottom = o.ClampBottom
	opts.Speech = speechOptions(cfg)
	return opts
}

func speechOptions(cfg *config.Config) engine.SpeechOptions {
	rate := cfg.TTS.Rate
	if rate <= 0 {
		rate = 1.0
	}
	return engine.SpeechOptions{Rate: rate, Voice: cfg.TTS.Voice}
}

// Init returns the initial command for the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickEvery(time.Second),
		m.backupCheckCmd(),
	}
	if m.network != nil {
		cmds = append(cmds, m.network.CheckCmd())
	}
	if m.speech != nil {
		cmds = append(cmds, m.speech.Listen())
	}
	if m.configUpdates != nil {
		cmds = append(cmds, waitForConfig(m.configUpdates))
	}
	return tea.Batch(cmds...)
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// If overlay is open, route to overlay stack
		if !m.overlayStack.IsEmpty() {
			return m.handleOverlayKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	// Engine collaborator results
	case engine.DefinitionMsg, engine.ListsMsg, engine.ListCreatedMsg, engine.SavedMsg, engine.SelfCloseMsg:
		return m, m.engine.Update(msg)

	case engine.NoticeMsg:
		m.addToast(types.NewToast(noticeLevel(msg.Level), msg.Text))
		return m, nil

	case engine.ListPromptMsg:
		m.mode = types.ModeInput
		return m, m.overlayStack.Push(overlay.NewListPrompt(msg.ID))

	// Overlay messages
	case overlay.CloseOverlayMsg:
		m.overlayStack.Pop()
		m.syncMode()
		return m, nil

	case overlay.FindMsg:
		m.find(msg.Query)
		return m, nil

	case savedLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("failed to load saved explanations", "error", msg.err)
			m.addToast(types.NewToast(ToastError, engine.DisplayText(msg.err)))
			return m, nil
		}
		m.mode = types.ModeInput
		return m, m.overlayStack.Push(overlay.NewSavedPanel(msg.entries))

	case overlay.ListNameMsg:
		m.overlayStack.Pop()
		m.syncMode()
		if msg.Canceled {
			m.engine.CancelListPrompt(msg.ID)
			return m, nil
		}
		return m, m.engine.SubmitListName(msg.ID, msg.Name)

	// Speech channel
	case speech.EndedMsg:
		m.engine.SpeechEnded()
		return m, m.speech.Listen()

	case speech.ErrorMsg:
		m.engine.SpeechEnded()
		m.logger.Warn("speech failed", "error", msg.Err)
		m.addToast(types.NewToast(ToastError, engine.DisplayText(msg.Err)))
		return m, m.speech.Listen()

	case network.StatusMsg:
		if msg.Online != m.isOnline {
			m.logger.Debug("network status changed", "online", msg.Online, "host", msg.Host)
		}
		m.isOnline = msg.Online
		m.host = msg.Host
		return m, m.network.PollCmd(m.checkInterval())

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		m.addToast(types.NewToast(ToastInfo, "Configuration reloaded"))
		return m, waitForConfig(m.configUpdates)

	case backupResultMsg:
		return m.handleBackupResult(msg)

	case copiedMsg:
		if msg.err != nil {
			m.logger.Warn("clipboard copy failed", "error", msg.err)
			m.addToast(types.NewToast(ToastError, "Copy failed: "+msg.err.Error()))
			return m, nil
		}
		m.addToast(types.NewToast(ToastSuccess, "Copied to clipboard"))
		return m, nil

	case tickMsg:
		m.expireToasts()
		return m, tickEvery(time.Second)
	}

	return m, nil
}

// handleKey processes keyboard input while no modal overlay is open
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.engine.CloseAll()
		return m, tea.Quit

	case "ctrl+l":
		// Force redraw
		return m, tea.ClearScreen

	case "?":
		m.mode = types.ModeInput
		return m, m.overlayStack.Push(overlay.NewHelpOverlay())

	case "esc":
		return m, m.engine.Key("esc")

	case "ctrl+d":
		return m, m.engine.Trigger(m.surface())

	case "X":
		m.engine.CloseAll()
		return m, nil

	case "b":
		return m, m.backupCmd(backup.TypeManual)

	case "H":
		return m, m.savedCmd()

	case "/":
		m.mode = types.ModeInput
		bar := overlay.NewFindBar(m.query)
		bar.SetMatches(len(m.matches))
		return m, m.overlayStack.Push(bar)

	case "n":
		m.jumpToMatch(1)
	case "N":
		m.jumpToMatch(-1)

	// Document navigation
	case "j", "down":
		m.scrollBy(1)
	case "k", "up":
		m.scrollBy(-1)
	case "ctrl+f", "pgdown", " ":
		m.scrollBy(m.docHeight())
	case "ctrl+b", "pgup":
		m.scrollBy(-m.docHeight())
	case "g", "home":
		m.scrollBy(-len(m.lines))
	case "G", "end":
		m.scrollBy(len(m.lines))

	default:
		return m.handlePopupKey(msg)
	}
	return m, nil
}

// handlePopupKey drives the top-most popup's action panel
func (m Model) handlePopupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.engine.Top()
	if top == nil {
		return m, nil
	}

	switch msg.String() {
	case "m":
		return m, m.engine.CycleModel(top.ID, 1)
	case "M":
		return m, m.engine.CycleModel(top.ID, -1)
	case "p":
		return m, m.engine.CyclePrompt(top.ID, 1)
	case "P":
		return m, m.engine.CyclePrompt(top.ID, -1)
	case "l":
		return m, m.engine.CycleList(top.ID, 1)
	case "L":
		return m, m.engine.CycleList(top.ID, -1)
	case "s":
		return m, m.engine.Save(top.ID)
	case "v":
		m.engine.ToggleSpeech(top.ID)
	case "c":
		return m, m.copyCmd(top)
	}
	return m, nil
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmd := m.overlayStack.Update(msg)
	return m, cmd
}

// syncMode returns to reading once the last modal overlay is closed
func (m *Model) syncMode() {
	if m.overlayStack.IsEmpty() {
		m.mode = types.ModeRead
	}
}

// resize rewraps the document and bounds popups to the new terminal size
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.lines, m.titleRows = layoutDocument(m.doc, width)
	m.sel = selection{}
	m.matches = findLines(m.lines, m.query)
	m.scrollBy(0)

	m.engine.SetViewport(engine.Size{Width: width, Height: m.docHeight()})
	m.popups.SetMaxWidth(m.popupWidth())
}

// layoutDocument wraps the document to width, title first
func layoutDocument(doc *document.Document, width int) (lines []string, titleRows int) {
	if doc.Title != "" {
		title := (&document.Document{Paragraphs: []string{doc.Title}}).Lines(width)
		lines = append(lines, title...)
		lines = append(lines, "")
		titleRows = len(title)
	}
	return append(lines, doc.Lines(width)...), titleRows
}

func (m Model) popupWidth() int {
	limit := m.config.Snapshot().Overlay.MaxWidth
	if limit <= 0 {
		limit = popup.DefaultMaxWidth
	}
	if m.width > 0 {
		limit = min(limit, m.width)
	}
	return limit
}

// docHeight is the number of rows the document occupies above the status bar
func (m Model) docHeight() int {
	return max(m.height-1, 1)
}

func (m Model) maxScroll() int {
	return max(len(m.lines)-m.docHeight(), 0)
}

func (m *Model) scrollBy(delta int) {
	m.scroll = min(max(m.scroll+delta, 0), m.maxScroll())
}

// percent is how far through the document the view is
func (m Model) percent() int {
	if m.maxScroll() == 0 {
		return 100
	}
	return m.scroll * 100 / m.maxScroll()
}

func (m Model) checkInterval() time.Duration {
	secs := m.config.Snapshot().Network.CheckInterval
	if secs <= 0 {
		secs = 60
	}
	return time.Duration(secs) * time.Second
}

// applyConfig pushes a reloaded configuration into the running reader.
// Options that shape the engine itself apply on the next start.
func (m *Model) applyConfig(cfg *config.Config) {
	m.popups.SetMaxWidth(m.popupWidth())
	m.engine.SetSpeechOptions(speechOptions(cfg))
	if m.speech != nil {
		m.speech.SetCommand(cfg.TTS.Command)
	}
	m.logger.Debug("config applied", "models", len(cfg.Models), "prompts", len(cfg.CustomPrompts))
}

func (m Model) handleBackupResult(msg backupResultMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		m.logger.Error("backup failed", "type", msg.backupType, "error", msg.err)
		m.addToast(types.NewToast(ToastError, "Backup failed: "+msg.err.Error()))
	case msg.path != "":
		m.addToast(types.NewToast(ToastSuccess, "Backup saved to "+msg.path))
	case msg.backupType == backup.TypeManual:
		m.addToast(types.NewToast(ToastWarning, "Backups are not configured"))
	}
	return m, nil
}

// addToast adds a toast notification to the list
func (m *Model) addToast(toast Toast) {
	m.toasts = append(m.toasts, toast)
}

// expireToasts removes expired toasts from the list
func (m *Model) expireToasts() {
	now := time.Now()
	filtered := make([]Toast, 0, len(m.toasts))

	for _, toast := range m.toasts {
		if toast.Expires.After(now) {
			filtered = append(filtered, toast)
		}
	}

	m.toasts = filtered
}

func noticeLevel(level engine.NoticeLevel) types.ToastLevel {
	switch level {
	case engine.NoticeSuccess:
		return ToastSuccess
	case engine.NoticeError:
		return ToastError
	default:
		return ToastInfo
	}
}

// Message types for async operations

type tickMsg time.Time

type configReloadedMsg struct {
	cfg *config.Config
}

type backupResultMsg struct {
	backupType string
	path       string
	err        error
}

type copiedMsg struct {
	err error
}

type savedLoadedMsg struct {
	entries []overlay.SavedEntry
	err     error
}

// Commands

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForConfig waits for the next reloaded configuration. It returns nil
// once the watcher has stopped.
func waitForConfig(updates <-chan *config.Config) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-updates
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}

// backupCheckCmd runs the reminder check and exports when a backup is due
func (m Model) backupCheckCmd() tea.Cmd {
	if m.backups == nil {
		return nil
	}
	backups, cfg := m.backups, m.config.Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res := backups.Check(ctx, cfg)
		if !res.Due {
			return nil
		}
		return backupResultMsg{backupType: backup.TypeAuto, path: res.Path, err: res.Err}
	}
}

// backupCmd exports a backup now
func (m Model) backupCmd(backupType string) tea.Cmd {
	if m.backups == nil {
		return func() tea.Msg { return backupResultMsg{backupType: backupType} }
	}
	backups, cfg := m.backups, m.config.Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		path, err := backups.Export(ctx, cfg, backupType)
		return backupResultMsg{backupType: backupType, path: path, err: err}
	}
}

// savedCmd loads the most recent saved explanations for the saved panel
func (m Model) savedCmd() tea.Cmd {
	if m.store == nil {
		return func() tea.Msg {
			return engine.NoticeMsg{Level: engine.NoticeInfo, Text: "Saving is not available"}
		}
	}
	st, sourceURL := m.store, m.doc.SourceURL
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		lists, err := st.Lists(ctx)
		if err != nil {
			return savedLoadedMsg{err: err}
		}
		names := make(map[string]string, len(lists.Lists))
		for _, l := range lists.Lists {
			names[l.ID] = l.Name
		}

		items, err := st.History(ctx, store.HistoryFilter{Limit: savedLimit})
		if err != nil {
			return savedLoadedMsg{err: err}
		}
		entries := make([]overlay.SavedEntry, 0, len(items))
		for _, it := range items {
			entries = append(entries, overlay.SavedEntry{
				Word:       it.Word,
				Definition: strings.TrimSpace(popup.StripMarkdown(it.Definition)),
				List:       names[it.ListID],
				Saved:      it.Timestamp,
				Here:       sourceURL != "" && it.SourceURL == sourceURL,
			})
		}
		return savedLoadedMsg{entries: entries}
	}
}

// copyCmd copies the popup's text without markdown markers
func (m Model) copyCmd(inst *engine.Instance) tea.Cmd {
	if inst.State == engine.StateLoading {
		return nil
	}
	text := inst.Content
	if inst.Panel != nil && inst.Panel.Definition != "" {
		text = inst.Panel.Definition
	}
	text = strings.TrimSpace(popup.StripMarkdown(text))
	write := m.clipboard
	return func() tea.Msg {
		return copiedMsg{err: write(text)}
	}
}
