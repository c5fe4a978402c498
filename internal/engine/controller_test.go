package engine

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sizeMeasurer returns whatever size is currently set
type sizeMeasurer struct {
	size Size
}

func (m *sizeMeasurer) Measure(*Instance) Size { return m.size }

type harness struct {
	ctrl     *Controller
	definer  *fakeDefiner
	lists    *fakeLists
	history  *fakeHistory
	speaker  *fakeSpeaker
	measurer *sizeMeasurer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		definer: &fakeDefiner{resp: testCatalog()},
		lists: &fakeLists{resp: ListsResponse{
			Lists:          []WordList{{ID: "l1", Name: "Biology"}, {ID: "l2", Name: "Misc"}},
			LastUsedListID: "l2",
		}},
		history:  &fakeHistory{},
		speaker:  &fakeSpeaker{},
		measurer: &sizeMeasurer{size: Size{Width: 40, Height: 8}},
	}

	opts := DefaultOptions()
	opts.NoListsDelay = time.Millisecond
	h.ctrl = NewController(Dependencies{
		Definer:  h.definer,
		Lists:    h.lists,
		History:  h.history,
		Speaker:  h.speaker,
		Measurer: h.measurer,
		Logger:   discardLogger(),
	}, opts)
	h.ctrl.SetViewport(Size{Width: 200, Height: 60})
	h.ctrl.SetSource("https://example.com/leaf", "Leaves")
	return h
}

// run executes cmd and feeds each resulting message back into the controller
// until the chain ends, stopping at the first notice or prompt request.
func (h *harness) run(cmd tea.Cmd) []NoticeMsg {
	var notices []NoticeMsg
	for cmd != nil {
		msg := cmd()
		if n, ok := msg.(NoticeMsg); ok {
			notices = append(notices, n)
			return notices
		}
		if _, ok := msg.(ListPromptMsg); ok {
			return notices
		}
		cmd = h.ctrl.Update(msg)
	}
	return notices
}

func (h *harness) open(t *testing.T, text string, rect Rect) *Instance {
	t.Helper()
	cmd := h.ctrl.PointerUp(&fakeSurface{host: Selection{Text: text, Rect: rect}})
	require.NotNil(t, cmd)
	top := h.ctrl.Top()
	require.NotNil(t, top)
	h.run(cmd)
	return top
}

func TestController_OpenResolvesToReady(t *testing.T) {
	h := newHarness(t)

	cmd := h.ctrl.PointerUp(&fakeSurface{host: sel("photosynthesis")})
	require.NotNil(t, cmd)

	inst := h.ctrl.Top()
	require.NotNil(t, inst)
	assert.Equal(t, StateLoading, inst.State)
	assert.Equal(t, LoadingText, inst.Content)

	h.run(cmd)

	assert.Equal(t, StateReady, inst.State)
	assert.Equal(t, "def of photosynthesis", inst.Content)
	require.NotNil(t, inst.Panel)
	assert.Equal(t, ActionsControls, inst.Panel.Actions)
	assert.Equal(t, "m1", inst.Panel.Models.Value())
	assert.Equal(t, "Short (Default)", inst.Panel.Prompts.Label())
	assert.Equal(t, "l2", inst.Panel.SelectedListID())
	assert.Equal(t, "Model One", inst.Panel.ModelName)
	assert.Equal(t, "Short", inst.Panel.PromptName)

	// room above the anchor (20 > 8+10); left edge pulled in to the margin
	assert.Equal(t, Position{Left: 10, Top: 2}, inst.Position)
}

func TestController_ErrorHasNoActions(t *testing.T) {
	h := newHarness(t)
	h.definer.err = &displayErr{msg: "No default AI model configured."}

	inst := h.open(t, "photosynthesis", sel("photosynthesis").Rect)

	assert.Equal(t, StateError, inst.State)
	assert.Equal(t, "No default AI model configured.", inst.Content)
	require.NotNil(t, inst.Panel, "pickers stay so the user can retry")
	assert.Equal(t, ActionsNone, inst.Panel.Actions)
}

func TestController_ErrorWithoutModelsHasNoPanel(t *testing.T) {
	h := newHarness(t)
	h.definer.resp = DefineResponse{}
	h.definer.err = errBoom

	inst := h.open(t, "photosynthesis", sel("photosynthesis").Rect)

	assert.Equal(t, StateError, inst.State)
	assert.Equal(t, "boom", inst.Content)
	assert.Nil(t, inst.Panel)
}

func TestController_IndependentInstances(t *testing.T) {
	h := newHarness(t)

	first := h.open(t, "chlorophyll", Rect{Left: 30, Top: 40, Width: 11, Height: 1})
	second := h.open(t, "stomata", Rect{Left: 34, Top: 40, Width: 7, Height: 1})

	require.Equal(t, 2, h.ctrl.Len())
	assert.NotEqual(t, first.ID, second.ID)
	assert.Greater(t, second.StackPriority, first.StackPriority)
	assert.Equal(t, StateReady, first.State)
	assert.Equal(t, StateReady, second.State)

	firstBefore := *first
	require.Nil(t, h.ctrl.Key("esc"))

	assert.Equal(t, 1, h.ctrl.Len())
	assert.Equal(t, first, h.ctrl.Top())
	assert.Equal(t, firstBefore.State, first.State)
	assert.Equal(t, firstBefore.Position, first.Position)
	assert.Equal(t, firstBefore.StackPriority, first.StackPriority)
}

func TestController_DismissOneLeavesSiblingUntouched(t *testing.T) {
	h := newHarness(t)

	first := h.open(t, "chlorophyll", Rect{Left: 30, Top: 40, Width: 11, Height: 1})
	second := h.open(t, "stomata", Rect{Left: 34, Top: 40, Width: 7, Height: 1})
	secondBefore := *second

	h.ctrl.Dispatch(Intent{Kind: IntentDismissOne, Target: first.ID})

	_, ok := h.ctrl.Instance(first.ID)
	assert.False(t, ok)
	assert.Equal(t, secondBefore.State, second.State)
	assert.Equal(t, secondBefore.Position, second.Position)
}

func TestController_StaleDefinitionIsDiscarded(t *testing.T) {
	h := newHarness(t)

	cmd := h.ctrl.PointerUp(&fakeSurface{host: sel("photosynthesis")})
	inst := h.ctrl.Top()
	require.Nil(t, h.ctrl.Key("esc"))

	msg := cmd()
	before := *inst
	assert.Nil(t, h.ctrl.Update(msg))

	assert.Equal(t, 0, h.ctrl.Len())
	assert.Equal(t, before.State, inst.State)
	assert.Equal(t, before.Content, inst.Content)
	assert.Nil(t, inst.Panel)
}

func TestController_RedefineDoesNotReposition(t *testing.T) {
	h := newHarness(t)

	inst := h.open(t, "photosynthesis", Rect{Left: 50, Top: 40, Width: 14, Height: 1})
	require.Equal(t, StateReady, inst.State)
	placed := inst.Position

	h.measurer.size = Size{Width: 60, Height: 20}
	cmd := h.ctrl.CycleModel(inst.ID, 1)
	require.NotNil(t, cmd)

	assert.Equal(t, StateInteracting, inst.State)
	assert.True(t, inst.Interacting())
	assert.Equal(t, LoadingText, inst.Content)
	assert.Equal(t, ActionsNone, inst.Panel.Actions)
	assert.Equal(t, placed, inst.Position)

	assert.Nil(t, h.ctrl.CycleModel(inst.ID, 1), "no second fetch while one is outstanding")

	h.run(cmd)

	assert.Equal(t, StateReady, inst.State)
	assert.Equal(t, placed, inst.Position)
	assert.Equal(t, "m2", inst.Panel.Models.Value())
	assert.Equal(t, "Model Two", inst.Panel.ModelName)
	assert.Equal(t, ActionsControls, inst.Panel.Actions)

	last := h.definer.requests[len(h.definer.requests)-1]
	assert.Equal(t, "m2", last.ModelID)
	assert.Equal(t, "Briefly: {word}", last.PromptContent)
}

func TestController_SupersededFetchIsDiscarded(t *testing.T) {
	h := newHarness(t)

	inst := h.open(t, "photosynthesis", sel("photosynthesis").Rect)
	first := h.ctrl.CyclePrompt(inst.ID, 1)
	require.NotNil(t, first)
	staleMsg := first()

	// simulate the first redefinition failing and the user retrying
	h.ctrl.Update(DefinitionMsg{Ticket: staleMsg.(DefinitionMsg).Ticket, Err: errBoom, Response: testCatalog()})
	require.Equal(t, StateError, inst.State)
	second := h.ctrl.CyclePrompt(inst.ID, 1)
	require.NotNil(t, second)

	assert.Nil(t, h.ctrl.Update(staleMsg))
	assert.Equal(t, StateInteracting, inst.State)

	h.run(second)
	assert.Equal(t, StateReady, inst.State)
}

func TestController_OutsideClickKeepsLockedInstances(t *testing.T) {
	h := newHarness(t)

	free := h.open(t, "chlorophyll", Rect{Left: 10, Top: 40, Width: 11, Height: 1})
	locked := h.open(t, "stomata", Rect{Left: 100, Top: 40, Width: 7, Height: 1})

	// walk the list picker to the create option: l1, l2 (last used), create
	cmd := h.ctrl.CycleList(locked.ID, 1)
	require.NotNil(t, cmd)
	assert.Equal(t, ListPromptMsg{ID: locked.ID}, cmd())
	assert.True(t, locked.PromptOpen())

	h.ctrl.PointerDown(Point{X: 0, Y: 0})

	_, ok := h.ctrl.Instance(free.ID)
	assert.False(t, ok)
	_, ok = h.ctrl.Instance(locked.ID)
	assert.True(t, ok)
}

func TestController_CreateListFromPrompt(t *testing.T) {
	h := newHarness(t)
	h.lists.created = WordList{ID: "l3", Name: "Botany"}

	inst := h.open(t, "stomata", sel("stomata").Rect)
	require.NotNil(t, h.ctrl.CycleList(inst.ID, 1))

	notices := h.run(h.ctrl.SubmitListName(inst.ID, "  Botany "))

	assert.False(t, inst.Interacting())
	assert.Equal(t, []string{"Botany"}, h.lists.names)
	assert.Equal(t, "l3", inst.Panel.SelectedListID())
	assert.Equal(t, CreateListOption, inst.Panel.Lists.Options[len(inst.Panel.Lists.Options)-1].Value)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeSuccess, notices[0].Level)
}

func TestController_CancelListPromptRestoresSelection(t *testing.T) {
	h := newHarness(t)

	inst := h.open(t, "stomata", sel("stomata").Rect)
	require.NotNil(t, h.ctrl.CycleList(inst.ID, 1))

	h.ctrl.CancelListPrompt(inst.ID)

	assert.False(t, inst.PromptOpen())
	assert.Equal(t, "l2", inst.Panel.SelectedListID())
	assert.Nil(t, h.ctrl.SubmitListName(inst.ID, "late"))
}

func TestController_CreateListFailure(t *testing.T) {
	h := newHarness(t)
	h.lists.createErr = &displayErr{msg: "List already exists"}

	inst := h.open(t, "stomata", sel("stomata").Rect)
	require.NotNil(t, h.ctrl.CycleList(inst.ID, 1))

	notices := h.run(h.ctrl.SubmitListName(inst.ID, "Misc"))

	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Level)
	assert.Equal(t, "Failed to create list: List already exists", notices[0].Text)
	assert.Equal(t, "l2", inst.Panel.SelectedListID())
}

func TestController_NoListsSelfCloses(t *testing.T) {
	h := newHarness(t)
	h.lists.resp = ListsResponse{}

	cmd := h.ctrl.PointerUp(&fakeSurface{host: sel("stomata")})
	inst := h.ctrl.Top()

	// definition, then lists
	cmd = h.ctrl.Update(cmd())
	require.NotNil(t, cmd)
	tick := h.ctrl.Update(cmd())
	require.NotNil(t, tick)
	assert.Equal(t, ActionsNoLists, inst.Panel.Actions)
	assert.Equal(t, 1, h.ctrl.Len())

	h.ctrl.Update(tick())

	assert.Equal(t, 0, h.ctrl.Len())
	assert.Equal(t, 1, h.speaker.stops)
}

func TestController_Save(t *testing.T) {
	h := newHarness(t)

	inst := h.open(t, "photosynthesis", sel("photosynthesis").Rect)
	cmd := h.ctrl.Save(inst.ID)
	require.NotNil(t, cmd)
	assert.Equal(t, ActionsSaving, inst.Panel.Actions)
	assert.Nil(t, h.ctrl.CycleModel(inst.ID, 1), "pickers are locked while saving")

	notices := h.run(cmd)

	assert.Equal(t, StateSaved, inst.State)
	assert.Equal(t, ActionsSaved, inst.Panel.Actions)
	require.Len(t, notices, 1)
	require.Len(t, h.history.entries, 1)
	assert.Equal(t, HistoryEntry{
		Word:        "photosynthesis",
		Definition:  "def of photosynthesis",
		ListID:      "l2",
		ModelName:   "Model One",
		PromptName:  "Short",
		SourceURL:   "https://example.com/leaf",
		SourceTitle: "Leaves",
	}, h.history.entries[0])

	// saved overlays stay until dismissed and may still be redefined
	assert.Equal(t, 1, h.ctrl.Len())
	assert.NotNil(t, h.ctrl.CycleModel(inst.ID, 1))
}

func TestController_SaveFailureKeepsControls(t *testing.T) {
	h := newHarness(t)
	h.history.err = errBoom

	inst := h.open(t, "photosynthesis", sel("photosynthesis").Rect)
	notices := h.run(h.ctrl.Save(inst.ID))

	assert.Equal(t, StateReady, inst.State)
	assert.Equal(t, ActionsControls, inst.Panel.Actions)
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Level)
}

func TestController_Speech(t *testing.T) {
	h := newHarness(t)

	a := h.open(t, "chlorophyll", Rect{Left: 10, Top: 40, Width: 11, Height: 1})
	b := h.open(t, "stomata", Rect{Left: 100, Top: 40, Width: 7, Height: 1})

	h.ctrl.ToggleSpeech(a.ID)
	assert.Equal(t, []string{"def of chlorophyll"}, h.speaker.spoken)
	assert.Equal(t, a.ID, h.ctrl.Speaking())

	h.ctrl.ToggleSpeech(b.ID)
	assert.Equal(t, 1, h.speaker.stops)
	assert.Equal(t, ID(0), h.ctrl.Speaking())

	h.ctrl.ToggleSpeech(b.ID)
	assert.Equal(t, b.ID, h.ctrl.Speaking())

	h.ctrl.Key("esc")
	assert.Equal(t, 1, h.speaker.stops, "speech continues while overlays remain")
	h.ctrl.Key("esc")
	assert.Equal(t, 2, h.speaker.stops)
	assert.Equal(t, ID(0), h.ctrl.Speaking())
}

func TestController_ReselectNestedOpensNewInstance(t *testing.T) {
	h := newHarness(t)

	owner := h.open(t, "photosynthesis", sel("photosynthesis").Rect)
	owner.ClickOriginInside = true

	cmd := h.ctrl.PointerUp(&fakeSurface{
		host:   sel("photosynthesis"),
		nested: map[ID]Selection{owner.ID: sel("chlorophyll")},
	})
	require.NotNil(t, cmd)

	assert.Equal(t, 2, h.ctrl.Len())
	assert.Equal(t, "chlorophyll", h.ctrl.Top().SourceText)
	assert.False(t, owner.ClickOriginInside)
}

func TestController_CloseAll(t *testing.T) {
	h := newHarness(t)

	h.open(t, "chlorophyll", Rect{Left: 10, Top: 40, Width: 11, Height: 1})
	locked := h.open(t, "stomata", Rect{Left: 100, Top: 40, Width: 7, Height: 1})
	require.NotNil(t, h.ctrl.CycleList(locked.ID, 1))

	h.ctrl.CloseAll()

	assert.Equal(t, 0, h.ctrl.Len())
}
