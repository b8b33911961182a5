package fsm

import (
	"errors"
	"fmt"
)

// Domain errors for state machine operations.
var (
	// ErrInvalidTransition indicates a trigger that is illegal for the
	// current state. State is left unchanged.
	ErrInvalidTransition = errors.New("fsm: invalid transition")

	// ErrInconsistentState indicates self-validation found the machine
	// outside its documented transition table.
	ErrInconsistentState = errors.New("fsm: inconsistent state")

	// ErrTransitionFailure indicates an unexpected fault while committing
	// a transition. Recovery runs before this is surfaced.
	ErrTransitionFailure = errors.New("fsm: transition failure")
)

// TransitionError carries the rejected trigger and the state it was
// fired from.
type TransitionError struct {
	From    State
	Trigger Trigger
	Err     error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: trigger %q in state %q", e.Err, e.Trigger, e.From)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
