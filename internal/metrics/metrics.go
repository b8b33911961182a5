// Package metrics provides per-run scalar metrics for ball simulations.
// Each type satisfies the sim.Metric interface.
package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/fsm"
	"github.com/san-kum/ballsim/internal/physics"
)

// KineticEnergy averages 0.5*m*v^2 over the run.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(b ball.Body, state fsm.State, res physics.Result, t float64) {
	speed := b.Speed()
	k.total += 0.5 * b.Mass * speed * speed
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// PeakSpeed tracks the maximum velocity magnitude seen.
type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(b ball.Body, state fsm.State, res physics.Result, t float64) {
	p.peak = math.Max(p.peak, b.Speed())
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// BounceCount counts ticks on which any boundary was hit.
type BounceCount struct {
	count int
}

func NewBounceCount() *BounceCount { return &BounceCount{} }

func (c *BounceCount) Name() string { return "bounces" }

func (c *BounceCount) Observe(b ball.Body, state fsm.State, res physics.Result, t float64) {
	if res.HitAny() {
		c.count++
	}
}

func (c *BounceCount) Value() float64 { return float64(c.count) }

func (c *BounceCount) Reset() { c.count = 0 }

// TimeInState accumulates the fraction of ticks spent in one state.
type TimeInState struct {
	target  fsm.State
	inState int
	samples int
}

func NewTimeInState(target fsm.State) *TimeInState {
	return &TimeInState{target: target}
}

func (m *TimeInState) Name() string { return "time_in_" + m.target.String() }

func (m *TimeInState) Observe(b ball.Body, state fsm.State, res physics.Result, t float64) {
	if state == m.target {
		m.inState++
	}
	m.samples++
}

func (m *TimeInState) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.inState) / float64(m.samples)
}

func (m *TimeInState) Reset() {
	m.inState = 0
	m.samples = 0
}
