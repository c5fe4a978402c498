package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Defaults for controller options
const (
	DefaultBaseZ        = 2100000000
	DefaultNoListsDelay = 2500 * time.Millisecond
)

// Options tunes the controller
type Options struct {
	BaseZ          int
	MaxWords       int
	Margin         int
	ClampBottom    bool
	NoListsDelay   time.Duration
	RequestTimeout time.Duration
	Speech         SpeechOptions
}

// DefaultOptions returns the default controller options
func DefaultOptions() Options {
	return Options{
		BaseZ:          DefaultBaseZ,
		MaxWords:       DefaultMaxWords,
		Margin:         DefaultMargin,
		NoListsDelay:   DefaultNoListsDelay,
		RequestTimeout: DefaultRequestTimeout,
		Speech:         SpeechOptions{Rate: 1.0},
	}
}

// Dependencies are the collaborators the controller talks to
type Dependencies struct {
	Definer  Definer
	Lists    WordLists
	History  History
	Speaker  Speaker
	Measurer Measurer
	Logger   *slog.Logger
}

// Controller owns the registry and arbitrates every event that can touch an
// overlay. All methods must be called from the Bubble Tea update loop; the
// returned commands run collaborators off-loop and report back as messages
// that are fed to Update.
type Controller struct {
	registry *Registry
	tracker  *Tracker
	fetcher  *Coordinator
	placer   Placer
	opts     Options

	lists    WordLists
	history  History
	speaker  Speaker
	measurer Measurer
	logger   *slog.Logger

	viewport    Size
	sourceURL   string
	sourceTitle string
	speaking    ID
}

// NewController wires a controller from its collaborators
func NewController(deps Dependencies, opts Options) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.NoListsDelay <= 0 {
		opts.NoListsDelay = DefaultNoListsDelay
	}

	reg := NewRegistry(opts.BaseZ)
	return &Controller{
		registry: reg,
		tracker:  NewTracker(reg, opts.MaxWords),
		fetcher:  NewCoordinator(reg, deps.Definer, opts.RequestTimeout),
		placer:   NewPlacer(opts.Margin, opts.ClampBottom),
		opts:     opts,
		lists:    deps.Lists,
		history:  deps.History,
		speaker:  deps.Speaker,
		measurer: deps.Measurer,
		logger:   logger,
	}
}

// SetViewport records the host viewport size used for placement
func (c *Controller) SetViewport(size Size) {
	c.viewport = size
}

// SetSource records where the host document came from; saved entries carry it
func (c *Controller) SetSource(url, title string) {
	c.sourceURL = url
	c.sourceTitle = title
}

// SetSpeechOptions replaces the rate and voice hints used by ToggleSpeech
func (c *Controller) SetSpeechOptions(opts SpeechOptions) {
	c.opts.Speech = opts
}

// Instances returns the live instances in stack order, bottom first
func (c *Controller) Instances() []*Instance {
	return c.registry.All()
}

// Instance returns a live instance by ID
func (c *Controller) Instance(id ID) (*Instance, bool) {
	return c.registry.Get(id)
}

// Top returns the top-most instance, or nil
func (c *Controller) Top() *Instance {
	return c.registry.Top()
}

// Len returns the number of live instances
func (c *Controller) Len() int {
	return c.registry.Len()
}

// Speaking returns the instance whose definition is being spoken, or 0
func (c *Controller) Speaking() ID {
	return c.speaking
}

// PointerDown handles the start of a pointer gesture at p
func (c *Controller) PointerDown(p Point) tea.Cmd {
	return c.Dispatch(c.tracker.PointerDown(p))
}

// PointerUp handles the end of a pointer gesture
func (c *Controller) PointerUp(s Surface) tea.Cmd {
	return c.Dispatch(c.tracker.PointerUp(s))
}

// Key handles a key press not consumed by the host
func (c *Controller) Key(key string) tea.Cmd {
	return c.Dispatch(c.tracker.Key(key))
}

// Trigger opens an overlay for the host selection on explicit request
func (c *Controller) Trigger(s Surface) tea.Cmd {
	return c.Dispatch(c.tracker.Trigger(s))
}

// Dispatch applies a classified intent
func (c *Controller) Dispatch(intent Intent) tea.Cmd {
	switch intent.Kind {
	case IntentOpen, IntentReselectNested:
		return c.open(intent.Selection)

	case IntentDismissOne:
		c.remove(intent.Target)

	case IntentDismissAll:
		for _, inst := range c.registry.All() {
			if inst.Interacting() {
				c.logger.Debug("overlay kept on outside click", "instance", inst.ID, "state", inst.State)
				continue
			}
			c.remove(inst.ID)
		}

	case IntentInteractInside, IntentNone:
	}
	return nil
}

// CloseAll removes every overlay regardless of interaction locks
func (c *Controller) CloseAll() {
	for _, inst := range c.registry.All() {
		c.remove(inst.ID)
	}
}

func (c *Controller) open(sel Selection) tea.Cmd {
	inst := c.registry.Create(sel)
	c.measure(inst)
	c.logger.Debug("overlay opened",
		"instance", inst.ID,
		"text", inst.SourceText,
		"priority", inst.StackPriority,
	)
	return c.fetcher.Fetch(inst)
}

func (c *Controller) remove(id ID) {
	if !c.registry.Remove(id) {
		return
	}
	c.logger.Debug("overlay removed", "instance", id, "remaining", c.registry.Len())

	if c.registry.IsEmpty() && c.speaker != nil {
		c.speaker.Stop()
		c.speaking = 0
	}
}

func (c *Controller) measure(inst *Instance) {
	if c.measurer == nil {
		return
	}
	inst.Size = c.measurer.Measure(inst)
}

func (c *Controller) place(inst *Instance) {
	if inst.Interacting() {
		return
	}
	inst.Position = c.placer.Place(inst.Anchor, inst.Size, c.viewport)
}

// Update applies collaborator results. Results for removed instances or
// superseded fetches are dropped without touching any state.
func (c *Controller) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DefinitionMsg:
		return c.applyDefinition(msg)
	case ListsMsg:
		return c.applyLists(msg)
	case ListCreatedMsg:
		return c.applyListCreated(msg)
	case SavedMsg:
		return c.applySaved(msg)
	case SelfCloseMsg:
		if _, ok := c.fetcher.Resolve(msg.Ticket); ok {
			c.remove(msg.Ticket.ID)
		}
	}
	return nil
}

func (c *Controller) applyDefinition(msg DefinitionMsg) tea.Cmd {
	inst, ok := c.fetcher.Resolve(msg.Ticket)
	if !ok {
		c.logger.Debug("stale definition dropped", "instance", msg.Ticket.ID)
		return nil
	}

	event, content := EventResolved, msg.Response.Definition
	if msg.Err != nil {
		event, content = EventFailed, DisplayText(msg.Err)
	}
	next, err := Transition(inst.State, event)
	if err != nil {
		c.logger.Warn("definition ignored", "instance", inst.ID, "error", err)
		return nil
	}

	redefining := inst.State == StateInteracting
	inst.State = next
	inst.Content = content

	resp := msg.Response
	inst.Panel = nil
	if len(resp.Models) > 0 {
		inst.Panel = BuildPanel(resp, inst.ModelID, inst.PromptContent)
	}

	var cmd tea.Cmd
	if msg.Err == nil && inst.Panel != nil {
		modelID := inst.ModelID
		if modelID == "" {
			modelID = resp.DefaultModelID
		}
		inst.Panel.beginActions(content, ModelName(resp.Models, modelID), resp.PromptName)
		cmd = c.fetchLists(inst)
	}
	if msg.Err != nil {
		c.logger.Debug("definition failed", "instance", inst.ID, "error", msg.Err)
	}

	c.measure(inst)
	if !redefining {
		c.place(inst)
	}
	return cmd
}

func (c *Controller) fetchLists(inst *Instance) tea.Cmd {
	if c.lists == nil {
		return nil
	}
	ticket := c.fetcher.Ticket(inst)
	timeout := c.fetcher.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		resp, err := c.lists.Lists(ctx)
		return ListsMsg{Ticket: ticket, Response: resp, Err: err}
	}
}

func (c *Controller) applyLists(msg ListsMsg) tea.Cmd {
	inst, ok := c.fetcher.Resolve(msg.Ticket)
	if !ok || inst.Panel == nil || inst.Panel.Actions != ActionsPending {
		return nil
	}

	// only the first fetch may move the overlay; redefinitions stay put
	initial := inst.Generation() == 1

	if msg.Err != nil || len(msg.Response.Lists) == 0 {
		if msg.Err != nil {
			c.logger.Warn("word lists unavailable", "instance", inst.ID, "error", msg.Err)
		}
		inst.Panel.Actions = ActionsNoLists
		c.measure(inst)
		if initial {
			c.place(inst)
		}
		ticket := msg.Ticket
		return tea.Tick(c.opts.NoListsDelay, func(time.Time) tea.Msg {
			return SelfCloseMsg{Ticket: ticket}
		})
	}

	inst.Panel.AttachLists(msg.Response.Lists, msg.Response.LastUsedListID)
	c.measure(inst)
	if initial {
		c.place(inst)
	}
	return nil
}

// CycleModel moves the model picker of an instance and redefines
func (c *Controller) CycleModel(id ID, delta int) tea.Cmd {
	inst, ok := c.editable(id)
	if !ok || !inst.Panel.Models.Cycle(delta) {
		return nil
	}
	return c.redefine(inst)
}

// CyclePrompt moves the prompt picker of an instance and redefines
func (c *Controller) CyclePrompt(id ID, delta int) tea.Cmd {
	inst, ok := c.editable(id)
	if !ok || !inst.Panel.Prompts.Cycle(delta) {
		return nil
	}
	return c.redefine(inst)
}

// editable returns an instance whose pickers may be changed right now
func (c *Controller) editable(id ID) (*Instance, bool) {
	inst, err := c.registry.Lookup(id)
	if err != nil {
		c.logger.Debug("picker change ignored", "error", err)
		return nil, false
	}
	if inst.Panel == nil || inst.Interacting() || inst.Panel.Actions == ActionsSaving {
		return nil, false
	}
	return inst, true
}

func (c *Controller) redefine(inst *Instance) tea.Cmd {
	next, err := Transition(inst.State, EventRedefine)
	if err != nil {
		c.logger.Debug("redefine ignored", "instance", inst.ID, "error", err)
		return nil
	}
	inst.State = next
	inst.ModelID = inst.Panel.Models.Value()
	inst.PromptContent = inst.Panel.Prompts.Value()
	inst.Content = LoadingText
	inst.Panel.clearActions()
	c.measure(inst)

	c.logger.Debug("overlay redefining",
		"instance", inst.ID,
		"model", inst.ModelID,
		"customPrompt", inst.PromptContent != "",
	)
	return c.fetcher.Fetch(inst)
}

// CycleList moves the list picker. Landing on the create option locks the
// instance and asks the host for a list name.
func (c *Controller) CycleList(id ID, delta int) tea.Cmd {
	inst, ok := c.registry.Get(id)
	if !ok || inst.Panel == nil || inst.Panel.Actions != ActionsControls || inst.Interacting() {
		return nil
	}
	if !inst.Panel.Lists.Cycle(delta) {
		return nil
	}
	if inst.Panel.Lists.Value() != CreateListOption {
		return nil
	}

	inst.promptOpen = true
	return func() tea.Msg { return ListPromptMsg{ID: id} }
}

// CancelListPrompt releases the lock taken by the list-name prompt
func (c *Controller) CancelListPrompt(id ID) {
	inst, ok := c.registry.Get(id)
	if !ok || !inst.promptOpen {
		return
	}
	inst.promptOpen = false
	if inst.Panel != nil {
		inst.Panel.ResetListSelection()
	}
}

// SubmitListName releases the prompt lock and creates the named list.
// A blank name behaves like a cancel.
func (c *Controller) SubmitListName(id ID, name string) tea.Cmd {
	inst, ok := c.registry.Get(id)
	if !ok || !inst.promptOpen {
		return nil
	}
	inst.promptOpen = false

	name = strings.TrimSpace(name)
	if name == "" || c.lists == nil || inst.Panel == nil {
		if inst.Panel != nil {
			inst.Panel.ResetListSelection()
		}
		return nil
	}

	ticket := c.fetcher.Ticket(inst)
	timeout := c.fetcher.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		list, err := c.lists.CreateList(ctx, name)
		return ListCreatedMsg{Ticket: ticket, List: list, Err: err}
	}
}

func (c *Controller) applyListCreated(msg ListCreatedMsg) tea.Cmd {
	inst, ok := c.fetcher.Resolve(msg.Ticket)
	if !ok || inst.Panel == nil || inst.Panel.Actions != ActionsControls {
		return nil
	}

	if msg.Err != nil {
		inst.Panel.ResetListSelection()
		return notice(NoticeError, "Failed to create list: "+DisplayText(msg.Err))
	}

	inst.Panel.AddList(msg.List)
	c.measure(inst)
	return notice(NoticeSuccess, "Created list "+msg.List.Name)
}

// Save stores the instance's definition in the selected list
func (c *Controller) Save(id ID) tea.Cmd {
	inst, ok := c.registry.Get(id)
	if !ok || inst.State != StateReady || inst.Panel == nil || inst.Panel.Actions != ActionsControls {
		return nil
	}
	if c.history == nil || inst.Interacting() {
		return nil
	}
	listID := inst.Panel.SelectedListID()
	if listID == "" {
		return nil
	}

	inst.Panel.Actions = ActionsSaving
	entry := HistoryEntry{
		Word:        inst.SourceText,
		Definition:  inst.Panel.Definition,
		ListID:      listID,
		ModelName:   inst.Panel.ModelName,
		PromptName:  inst.Panel.PromptName,
		SourceURL:   c.sourceURL,
		SourceTitle: c.sourceTitle,
	}
	ticket := c.fetcher.Ticket(inst)
	timeout := c.fetcher.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return SavedMsg{Ticket: ticket, Err: c.history.Save(ctx, entry)}
	}
}

func (c *Controller) applySaved(msg SavedMsg) tea.Cmd {
	inst, ok := c.fetcher.Resolve(msg.Ticket)
	if !ok || inst.Panel == nil || inst.Panel.Actions != ActionsSaving {
		return nil
	}

	if msg.Err != nil {
		inst.Panel.Actions = ActionsControls
		c.logger.Warn("save failed", "instance", inst.ID, "error", msg.Err)
		return notice(NoticeError, "Failed to save: "+DisplayText(msg.Err))
	}

	next, err := Transition(inst.State, EventSaved)
	if err != nil {
		inst.Panel.Actions = ActionsControls
		return nil
	}
	inst.State = next
	inst.Panel.Actions = ActionsSaved
	c.measure(inst)
	return notice(NoticeSuccess, "Saved "+inst.SourceText)
}

// ToggleSpeech starts speaking the instance's definition, or stops the
// global speech channel if anything is being spoken.
func (c *Controller) ToggleSpeech(id ID) {
	if c.speaker == nil {
		return
	}
	if c.speaking != 0 {
		c.speaker.Stop()
		c.speaking = 0
		return
	}

	inst, ok := c.registry.Get(id)
	if !ok || inst.Panel == nil || inst.Panel.Actions != ActionsControls {
		return
	}
	c.speaker.Speak(inst.Panel.Definition, c.opts.Speech)
	c.speaking = id
}

// SpeechEnded clears the speaking marker when the speech channel finishes
func (c *Controller) SpeechEnded() {
	c.speaking = 0
}

func notice(level NoticeLevel, text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Level: level, Text: text} }
}
