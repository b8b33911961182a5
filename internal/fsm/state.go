package fsm

// State is the interaction state of a simulated ball.
type State int

const (
	StateIdle State = iota
	StateHeld
	StateThrown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeld:
		return "held"
	case StateThrown:
		return "thrown"
	default:
		return "unknown"
	}
}

// Valid reports whether the state is inside the enum domain.
func (s State) Valid() bool {
	return s >= StateIdle && s <= StateThrown
}

// Trigger is a named event requesting a state transition.
type Trigger int

const (
	TriggerGrab Trigger = iota
	TriggerRelease
	TriggerVelocityBelowThreshold
	TriggerReset
)

func (t Trigger) String() string {
	switch t {
	case TriggerGrab:
		return "grab"
	case TriggerRelease:
		return "release"
	case TriggerVelocityBelowThreshold:
		return "velocity_below_threshold"
	case TriggerReset:
		return "reset"
	default:
		return "unknown"
	}
}

var allTriggers = []Trigger{TriggerGrab, TriggerRelease, TriggerVelocityBelowThreshold, TriggerReset}

type transitionKey struct {
	from    State
	trigger Trigger
}

// transitions is the complete table. There is no wildcard fallback:
// every legal (state, trigger) pair is listed. Grab from Thrown is the
// intentional mid-flight re-grab, not a shortcut.
var transitions = map[transitionKey]State{
	{StateIdle, TriggerGrab}:                     StateHeld,
	{StateIdle, TriggerReset}:                    StateIdle,
	{StateHeld, TriggerRelease}:                  StateThrown,
	{StateHeld, TriggerReset}:                    StateIdle,
	{StateThrown, TriggerGrab}:                   StateHeld,
	{StateThrown, TriggerVelocityBelowThreshold}: StateIdle,
	{StateThrown, TriggerReset}:                  StateIdle,
}
