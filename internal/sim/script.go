package sim

import "sort"

// ActionKind names a scripted interaction.
type ActionKind int

const (
	// ActionGrab fires the grab trigger.
	ActionGrab ActionKind = iota
	// ActionDrag moves a held ball to (X, Y). Ignored unless held.
	ActionDrag
	// ActionRelease sets the throw velocity (VX, VY) and fires release.
	ActionRelease
	// ActionReset fires reset and stops the ball in place.
	ActionReset
)

// Action is one timed interaction in a headless run.
type Action struct {
	At   float64
	Kind ActionKind
	X, Y float64
	VX   float64
	VY   float64
}

// Script is a time-ordered interaction schedule.
type Script []Action

// Sorted returns a copy ordered by time, preserving the relative order
// of simultaneous actions.
func (s Script) Sorted() Script {
	out := make(Script, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

// ThrowScript is the canonical grab-drag-release schedule: grab at
// grabAt, release at releaseAt with the given velocity.
func ThrowScript(grabAt, releaseAt, vx, vy float64) Script {
	return Script{
		{At: grabAt, Kind: ActionGrab},
		{At: releaseAt, Kind: ActionRelease, VX: vx, VY: vy},
	}
}
