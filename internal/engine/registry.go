package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownInstance is returned when an ID does not name a live instance
var ErrUnknownInstance = errors.New("unknown overlay instance")

// Selection is a snapshot of selected text and its bounding rectangle
type Selection struct {
	Text string
	Rect Rect
}

// Registry is the ordered collection of live overlay instances, oldest first.
// The last instance is the top of the visual stack.
type Registry struct {
	overlays     []*Instance
	index        map[ID]*Instance
	baseZ        int
	lastID       ID
	lastPriority int
}

// NewRegistry creates an empty registry whose priorities start at baseZ
func NewRegistry(baseZ int) *Registry {
	return &Registry{
		overlays:     make([]*Instance, 0),
		index:        make(map[ID]*Instance),
		baseZ:        baseZ,
		lastPriority: baseZ - 1,
	}
}

// Create registers a new Loading instance for sel and returns it.
// The stack priority is baseZ plus the current size, bumped when needed so
// priorities keep increasing after siblings are removed.
func (r *Registry) Create(sel Selection) *Instance {
	r.lastID++

	priority := r.baseZ + len(r.overlays)
	if priority <= r.lastPriority {
		priority = r.lastPriority + 1
	}
	r.lastPriority = priority

	inst := &Instance{
		ID:            r.lastID,
		Anchor:        sel.Rect,
		SourceText:    strings.TrimSpace(sel.Text),
		StackPriority: priority,
		State:         StateLoading,
		Content:       LoadingText,
		Position:      Position{Left: sel.Rect.Left, Top: sel.Rect.Top},
	}

	r.overlays = append(r.overlays, inst)
	r.index[inst.ID] = inst
	return inst
}

// Get returns the registered instance with the given ID
func (r *Registry) Get(id ID) (*Instance, bool) {
	inst, ok := r.index[id]
	return inst, ok
}

// Lookup is Get returning ErrUnknownInstance for missing IDs
func (r *Registry) Lookup(id ID) (*Instance, error) {
	inst, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownInstance, id)
	}
	return inst, nil
}

// Contains reports whether an instance is still registered
func (r *Registry) Contains(id ID) bool {
	_, ok := r.index[id]
	return ok
}

// Remove unregisters the instance with the given ID.
// Returns false if it was not registered.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.index[id]; !ok {
		return false
	}
	delete(r.index, id)

	for i, inst := range r.overlays {
		if inst.ID == id {
			r.overlays = append(r.overlays[:i], r.overlays[i+1:]...)
			break
		}
	}
	return true
}

// Pop removes and returns the top instance.
// Returns nil if the registry is empty.
func (r *Registry) Pop() *Instance {
	top := r.Top()
	if top == nil {
		return nil
	}
	r.Remove(top.ID)
	return top
}

// Top returns the most recently created instance without removing it.
// Returns nil if the registry is empty.
func (r *Registry) Top() *Instance {
	if len(r.overlays) == 0 {
		return nil
	}
	return r.overlays[len(r.overlays)-1]
}

// All returns the live instances, oldest first
func (r *Registry) All() []*Instance {
	out := make([]*Instance, len(r.overlays))
	copy(out, r.overlays)
	return out
}

// Len returns the number of live instances
func (r *Registry) Len() int {
	return len(r.overlays)
}

// IsEmpty returns true if no instance is registered
func (r *Registry) IsEmpty() bool {
	return len(r.overlays) == 0
}

// Clear removes every instance
func (r *Registry) Clear() {
	r.overlays = make([]*Instance, 0)
	r.index = make(map[ID]*Instance)
}
