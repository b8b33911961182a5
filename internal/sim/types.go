package sim

import (
	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/fsm"
	"github.com/san-kum/ballsim/internal/physics"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(b ball.Body, state fsm.State, res physics.Result, t float64)
	Value() float64
	Reset()
}

// Observer is called after every tick with a snapshot of the body.
type Observer interface {
	OnTick(b ball.Body, state fsm.State, res physics.Result, t float64)
}

// Result is the recorded trajectory of one run.
type Result struct {
	Times  []float64
	Xs     []float64
	Ys     []float64
	VXs    []float64
	VYs    []float64
	States []fsm.State

	Transitions []fsm.Change
	Bounces     int
	StepsTaken  int
	Metrics     map[string]float64
}

func (r *Result) append(b *ball.Body, state fsm.State, t float64) {
	r.Times = append(r.Times, t)
	r.Xs = append(r.Xs, b.X)
	r.Ys = append(r.Ys, b.Y)
	r.VXs = append(r.VXs, b.VX)
	r.VYs = append(r.VYs, b.VY)
	r.States = append(r.States, state)
}

// FinalState returns the last recorded interaction state.
func (r *Result) FinalState() fsm.State {
	if len(r.States) == 0 {
		return fsm.StateIdle
	}
	return r.States[len(r.States)-1]
}
