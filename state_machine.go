package session

// TransitionOption customizes a single transition request.
type TransitionOption func(*transitionOptions)

type transitionOptions struct {
	force bool
}

// WithForce bypasses the transition table. Logout and the 401 teardown use it
// because they are unconditional from any state.
func WithForce() TransitionOption {
	return func(opts *transitionOptions) {
		opts.force = true
	}
}

// StateMachine validates session status changes against a fixed transition
// graph. The Manager owns one; it is exported so embedding UIs can reuse the
// same rules for their own bookkeeping.
type StateMachine struct {
	transitions map[Status]map[Status]struct{}
}

// NewStateMachine returns the default session lifecycle graph:
//
//	anonymous      -> authenticating
//	authenticating -> authenticated | anonymous
//	authenticated  -> authenticating | anonymous
func NewStateMachine() *StateMachine {
	return &StateMachine{
		transitions: map[Status]map[Status]struct{}{
			StatusAnonymous: {
				StatusAuthenticating: {},
			},
			StatusAuthenticating: {
				StatusAuthenticated: {},
				StatusAnonymous:     {},
			},
			StatusAuthenticated: {
				StatusAuthenticating: {},
				StatusAnonymous:      {},
			},
		},
	}
}

// Can reports whether the graph allows moving from one status to another.
// Self transitions are always allowed; they are no-ops for callers.
func (sm *StateMachine) Can(from, to Status) bool {
	if from == to {
		return true
	}
	if allowed, ok := sm.transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

// Transition validates and returns the target status.
func (sm *StateMachine) Transition(from, to Status, opts ...TransitionOption) (Status, error) {
	options := &transitionOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	if to == "" {
		return from, ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"reason": "target status is empty",
		})
	}

	if !options.force && !sm.Can(from, to) {
		return from, ErrInvalidTransition.WithMetadata(map[string]any{
			"from": from,
			"to":   to,
		})
	}

	return to, nil
}
