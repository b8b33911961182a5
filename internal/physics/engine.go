package physics

import (
	"errors"
	"math"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/fsm"
)

// ErrNilBody indicates Update was handed a nil body. Every other
// numeric edge case degrades by stopping the body instead of erroring.
var ErrNilBody = errors.New("physics: nil body")

const (
	fallbackDt = 1.0 / 60.0

	// idleGravityScale damps gravity while the ball settles so a resting
	// ball does not creep.
	idleGravityScale = 0.1
)

// Result reports what one update did to the body.
type Result struct {
	IsMoving bool

	HitLeft   bool
	HitRight  bool
	HitTop    bool
	HitBottom bool

	// VelocityBelowThreshold is set when a Thrown body has decayed below
	// the configured stop threshold. The body still advances this frame
	// so the caller observes its final resting position before firing
	// the stop trigger.
	VelocityBelowThreshold bool
}

func (r Result) HitAny() bool {
	return r.HitLeft || r.HitRight || r.HitTop || r.HitBottom
}

// Engine integrates ball motion. It keeps no per-body state: every call
// is a pure function of its arguments, so one engine may serve any
// number of bodies as long as each body is updated from one goroutine.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Update advances the body by one sanitized timestep, gated on the
// interaction state:
//
//   - Held: the hand owns the body; nothing is integrated.
//   - Idle: gravity at 10% strength, immediate stop below half the
//     configured threshold.
//   - Thrown: full gravity, exponential friction decay, stop threshold
//     reported without cutting the frame short.
func (e *Engine) Update(b *ball.Body, dt float64, bounds ball.Bounds, state fsm.State, cfg *config.Config) (Result, error) {
	if b == nil {
		return Result{}, ErrNilBody
	}
	dt = sanitizeDt(dt)

	switch state {
	case fsm.StateHeld:
		return Result{}, nil
	case fsm.StateIdle:
		return e.updateIdle(b, dt, bounds, cfg), nil
	case fsm.StateThrown:
		return e.updateThrown(b, dt, bounds, cfg), nil
	default:
		// Unknown state: treat like Held and let the machine recover.
		return Result{}, nil
	}
}

func (e *Engine) updateIdle(b *ball.Body, dt float64, bounds ball.Bounds, cfg *config.Config) Result {
	vy := b.VY + cfg.Gravity*idleGravityScale*dt
	if !b.SetVelocity(b.VX, vy) {
		return stopUnstable(b)
	}

	if b.Speed() < cfg.VelocityThreshold/2 {
		b.Stop()
		return Result{}
	}

	res := Result{}
	e.advance(b, dt, bounds, cfg, &res)
	if !b.Valid() {
		return stopUnstable(b)
	}
	res.IsMoving = b.Moving()
	return res
}

func (e *Engine) updateThrown(b *ball.Body, dt float64, bounds ball.Bounds, cfg *config.Config) Result {
	vx := b.VX
	vy := b.VY + cfg.Gravity*dt

	// Exponential decay keeps friction frame-rate independent: the same
	// fraction of velocity survives one real second regardless of dt.
	decay := math.Pow(cfg.FrictionCoefficient, dt*60)
	vx *= decay
	vy *= decay

	if !b.SetVelocity(vx, vy) {
		return stopUnstable(b)
	}

	res := Result{
		VelocityBelowThreshold: b.Speed() < cfg.VelocityThreshold,
	}

	// One more position update even when below threshold, so the caller
	// sees an accurate final resting position before stopping the body.
	e.advance(b, dt, bounds, cfg, &res)
	if !b.Valid() {
		return stopUnstable(b)
	}
	res.IsMoving = b.Moving()
	return res
}

// advance integrates position and resolves boundary collision per axis
// against [min+radius, max-radius]. Overshoot is reflected about the
// boundary scaled by restitution, and the velocity component is negated
// and scaled by the same factor.
func (e *Engine) advance(b *ball.Body, dt float64, bounds ball.Bounds, cfg *config.Config, res *Result) {
	x := b.X + b.VX*dt
	y := b.Y + b.VY*dt
	vx, vy := b.VX, b.VY
	restitution := cfg.BounceFactor

	minX := bounds.MinX + b.Radius
	maxX := bounds.MaxX - b.Radius
	if minX <= maxX {
		if x < minX {
			x = minX + (minX-x)*restitution
			vx = -vx * restitution
			res.HitLeft = true
		} else if x > maxX {
			x = maxX - (x-maxX)*restitution
			vx = -vx * restitution
			res.HitRight = true
		}
	} else {
		// Ball wider than the bounds: pin to center, kill the axis.
		x = (bounds.MinX + bounds.MaxX) / 2
		vx = 0
	}

	minY := bounds.MinY + b.Radius
	maxY := bounds.MaxY - b.Radius
	if minY <= maxY {
		if y < minY {
			y = minY + (minY-y)*restitution
			vy = -vy * restitution
			res.HitTop = true
		} else if y > maxY {
			y = maxY - (y-maxY)*restitution
			vy = -vy * restitution
			res.HitBottom = true
		}
	} else {
		y = (bounds.MinY + bounds.MaxY) / 2
		vy = 0
	}

	if !b.SetPosition(x, y) || !b.SetVelocity(vx, vy) {
		b.Stop()
	}
}

// stopUnstable is the numeric-instability response: zero the velocity,
// report not-moving, raise nothing.
func stopUnstable(b *ball.Body) Result {
	b.Stop()
	return Result{}
}

func sanitizeDt(dt float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 || dt > 1 {
		return fallbackDt
	}
	return dt
}
