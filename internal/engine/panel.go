package engine

// Fixed labels and values used by the action panel
const (
	CreateListOption = "__create_new__"
	CreateListLabel  = "+ Create New List..."
	NoPromptsLabel   = "No Custom Prompts"
	DefaultSuffix    = " (Default)"
	UnknownModel     = "Unknown Model"
	SavedText        = "Saved!"
	NoListsText      = "Please create a list first (infopedia lists create <name>)."
)

// ActionsMode is what the bottom row of the action panel currently shows
type ActionsMode int

const (
	ActionsNone ActionsMode = iota
	ActionsPending
	ActionsControls
	ActionsSaving
	ActionsSaved
	ActionsNoLists
)

// String returns the string representation of the actions mode
func (m ActionsMode) String() string {
	switch m {
	case ActionsNone:
		return "none"
	case ActionsPending:
		return "pending"
	case ActionsControls:
		return "controls"
	case ActionsSaving:
		return "saving"
	case ActionsSaved:
		return "saved"
	case ActionsNoLists:
		return "no-lists"
	default:
		return "unknown"
	}
}

// Option is one entry of a selector
type Option struct {
	Value    string
	Label    string
	Disabled bool
}

// Selector is a single-choice picker
type Selector struct {
	Options  []Option
	Selected int
	Disabled bool
}

// Value returns the selected option's value, or "" when nothing is selectable
func (s *Selector) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	if s.Options[s.Selected].Disabled {
		return ""
	}
	return s.Options[s.Selected].Value
}

// Label returns the selected option's label
func (s *Selector) Label() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected].Label
}

// Select picks the option with the given value.
// Returns false if no enabled option has it.
func (s *Selector) Select(value string) bool {
	for i, opt := range s.Options {
		if opt.Value == value && !opt.Disabled {
			s.Selected = i
			return true
		}
	}
	return false
}

// Cycle moves the selection by delta, wrapping and skipping disabled options.
// Returns true if the selection changed.
func (s *Selector) Cycle(delta int) bool {
	n := len(s.Options)
	if s.Disabled || n < 2 || delta == 0 {
		return false
	}

	step := 1
	if delta < 0 {
		step = -1
	}
	i := s.Selected
	for range n {
		i = ((i+step)%n + n) % n
		if i == s.Selected {
			return false
		}
		if !s.Options[i].Disabled {
			s.Selected = i
			return true
		}
	}
	return false
}

// ActionPanel is the set of per-overlay controls. The selectors stay attached
// whenever the backend reported at least one model; the actions row only
// exists after a successful definition.
type ActionPanel struct {
	Models  Selector
	Prompts Selector
	Lists   Selector
	Actions ActionsMode

	// Definition, ModelName and PromptName describe the content a save would store
	Definition string
	ModelName  string
	PromptName string

	lastUsedListID string
}

// BuildPanel creates the selectors for a resolved fetch. currentModelID and
// currentPromptContent are the picks in effect; empty picks fall back to the
// backend defaults.
func BuildPanel(resp DefineResponse, currentModelID, currentPromptContent string) *ActionPanel {
	p := &ActionPanel{}

	if currentModelID == "" {
		currentModelID = resp.DefaultModelID
	}
	for i, m := range resp.Models {
		p.Models.Options = append(p.Models.Options, Option{Value: m.ID, Label: m.Name})
		if m.ID == currentModelID {
			p.Models.Selected = i
		}
	}

	if len(resp.CustomPrompts) == 0 {
		p.Prompts.Options = []Option{{Label: NoPromptsLabel, Disabled: true}}
		p.Prompts.Disabled = true
		return p
	}
	for i, pr := range resp.CustomPrompts {
		label := pr.Name
		if pr.ID == resp.DefaultPromptID {
			label += DefaultSuffix
		}
		p.Prompts.Options = append(p.Prompts.Options, Option{Value: pr.Content, Label: label})

		switch {
		case currentPromptContent != "" && pr.Content == currentPromptContent:
			p.Prompts.Selected = i
		case currentPromptContent == "" && pr.ID == resp.DefaultPromptID:
			p.Prompts.Selected = i
		}
	}
	return p
}

// ModelName returns the display name of a model id, or UnknownModel
func ModelName(models []Model, id string) string {
	for _, m := range models {
		if m.ID == id {
			return m.Name
		}
	}
	return UnknownModel
}

// beginActions records the content a save would store and waits for lists
func (p *ActionPanel) beginActions(definition, modelName, promptName string) {
	p.Definition = definition
	p.ModelName = modelName
	p.PromptName = promptName
	p.Actions = ActionsPending
	p.Lists = Selector{}
}

// clearActions drops the actions row
func (p *ActionPanel) clearActions() {
	p.Actions = ActionsNone
	p.Lists = Selector{}
}

// AttachLists fills the list selector, preselecting the last used list,
// followed by the synthetic create option.
func (p *ActionPanel) AttachLists(lists []WordList, lastUsedListID string) {
	p.lastUsedListID = lastUsedListID
	p.Lists = Selector{}
	for _, l := range lists {
		p.Lists.Options = append(p.Lists.Options, Option{Value: l.ID, Label: l.Name})
	}
	p.Lists.Options = append(p.Lists.Options, Option{Value: CreateListOption, Label: CreateListLabel})
	p.ResetListSelection()
	p.Actions = ActionsControls
}

// AddList inserts a newly created list before the create option and selects it
func (p *ActionPanel) AddList(l WordList) {
	create := Option{Value: CreateListOption, Label: CreateListLabel}
	opts := make([]Option, 0, len(p.Lists.Options)+1)
	for _, o := range p.Lists.Options {
		if o.Value != CreateListOption {
			opts = append(opts, o)
		}
	}
	p.Lists.Options = append(opts, Option{Value: l.ID, Label: l.Name}, create)
	p.Lists.Select(l.ID)
}

// ResetListSelection restores the last used list, or the first list
func (p *ActionPanel) ResetListSelection() {
	if p.Lists.Select(p.lastUsedListID) {
		return
	}
	p.Lists.Selected = 0
}

// SelectedListID returns the list a save would go to, or "" when the create
// option is selected
func (p *ActionPanel) SelectedListID() string {
	v := p.Lists.Value()
	if v == CreateListOption {
		return ""
	}
	return v
}
