package eligibility

import (
	"slices"
	"sync"
)

// State is a request lifecycle state.
type State string

const (
	StateReceived   State = "received"
	StateChecked    State = "checked"
	StateAllowed    State = "allowed"
	StateDenied     State = "denied"
	StateGenerating State = "generating"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

// transitions is the full request state machine. DENIED, COMMITTED, and
// ROLLED_BACK are terminal.
var transitions = map[State][]State{
	StateReceived:   {StateChecked},
	StateChecked:    {StateAllowed, StateDenied},
	StateAllowed:    {StateGenerating},
	StateGenerating: {StateCommitted, StateRolledBack},
}

// Terminal reports whether the state admits no further transitions.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// lifecycle tracks one request's progress through the state machine.
// Transitions are validated, so an illegal step (commit after rollback,
// double commit) is structurally impossible rather than merely logged.
type lifecycle struct {
	mu      sync.Mutex
	current State
}

func newLifecycle() *lifecycle {
	return &lifecycle{current: StateReceived}
}

func (l *lifecycle) Current() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// to advances the lifecycle or returns an InvalidTransitionError.
func (l *lifecycle) to(next State) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !slices.Contains(transitions[l.current], next) {
		return &InvalidTransitionError{From: l.current, To: next}
	}
	l.current = next
	return nil
}
