package engine

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultRequestTimeout bounds a single collaborator call
const DefaultRequestTimeout = 60 * time.Second

// Ticket ties an asynchronous result to the instance and fetch that issued it.
// A ticket is stale once the instance is removed or a newer fetch is issued.
type Ticket struct {
	ID         ID
	Generation uint64
}

// Coordinator issues definition requests for instances and validates
// completions against the registry before they are applied.
type Coordinator struct {
	registry *Registry
	definer  Definer
	timeout  time.Duration
}

// NewCoordinator creates a fetch coordinator
func NewCoordinator(registry *Registry, definer Definer, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Coordinator{
		registry: registry,
		definer:  definer,
		timeout:  timeout,
	}
}

// Fetch starts a new fetch for inst using its current model and prompt picks.
// Any result still outstanding for an earlier fetch becomes stale.
func (c *Coordinator) Fetch(inst *Instance) tea.Cmd {
	inst.generation++
	ticket := c.Ticket(inst)
	req := DefineRequest{
		Word:          inst.SourceText,
		ModelID:       inst.ModelID,
		PromptContent: inst.PromptContent,
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		resp, err := c.definer.Define(ctx, req)
		return DefinitionMsg{Ticket: ticket, Response: resp, Err: err}
	}
}

// Ticket returns a ticket for the instance's current fetch
func (c *Coordinator) Ticket(inst *Instance) Ticket {
	return Ticket{ID: inst.ID, Generation: inst.generation}
}

// Resolve returns the instance a ticket refers to, or false when the ticket
// is stale. Callers must drop stale results without side effects.
func (c *Coordinator) Resolve(t Ticket) (*Instance, bool) {
	inst, ok := c.registry.Get(t.ID)
	if !ok || inst.generation != t.Generation {
		return nil, false
	}
	return inst, true
}

// Timeout returns the per-call deadline used for collaborator requests
func (c *Coordinator) Timeout() time.Duration {
	return c.timeout
}
