package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event does not apply to the current state
var ErrInvalidTransition = errors.New("invalid state transition")

// State is the content state of an overlay instance
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
	StateInteracting
	StateSaved
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	case StateInteracting:
		return "interacting"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Event drives an instance from one state to the next
type Event int

const (
	// EventResolved means a definition arrived
	EventResolved Event = iota
	// EventFailed means the definition request failed
	EventFailed
	// EventRedefine means the user changed the model or prompt
	EventRedefine
	// EventSaved means the history collaborator stored the definition
	EventSaved
)

// String returns the string representation of the event
func (e Event) String() string {
	switch e {
	case EventResolved:
		return "resolved"
	case EventFailed:
		return "failed"
	case EventRedefine:
		return "redefine"
	case EventSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Transition returns the state reached from s on event e.
// Removal is not a state: any instance can be dropped from the registry.
func Transition(s State, e Event) (State, error) {
	switch s {
	case StateLoading, StateInteracting:
		switch e {
		case EventResolved:
			return StateReady, nil
		case EventFailed:
			return StateError, nil
		}
	case StateReady:
		switch e {
		case EventRedefine:
			return StateInteracting, nil
		case EventSaved:
			return StateSaved, nil
		}
	case StateError, StateSaved:
		// pickers stay attached, so the user can still ask again
		if e == EventRedefine {
			return StateInteracting, nil
		}
	}
	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
}
