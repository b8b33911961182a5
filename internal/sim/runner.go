package sim

import (
	"context"
	"sync"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/fsm"
	"github.com/san-kum/ballsim/internal/physics"
)

// Runner is the reference simulation loop: each tick it reads the
// current interaction state, updates the physics with it, and feeds the
// returned stop signal back into the state machine. The runner owns the
// body exclusively for the duration of a run.
type Runner struct {
	engine  *physics.Engine
	machine *fsm.Machine
	body    *ball.Body
	bounds  ball.Bounds
	cfg     *config.Config

	metrics   []Metric
	observers []Observer
}

func New(cfg *config.Config) *Runner {
	machine := fsm.NewMachine(fsm.Options{
		ValidateTransitions: cfg.ValidateTransitions,
		LogTransitions:      cfg.LogTransitions,
		AsyncNotifications:  cfg.AsyncNotifications,
	})
	return &Runner{
		engine:  physics.NewEngine(),
		machine: machine,
		body:    ball.New(cfg.Ball.X, cfg.Ball.Y, cfg.Ball.Radius, cfg.Ball.Mass),
		bounds:  ball.NewBounds(cfg.Bounds.MinX, cfg.Bounds.MinY, cfg.Bounds.MaxX, cfg.Bounds.MaxY),
		cfg:     cfg,
	}
}

func (r *Runner) Machine() *fsm.Machine { return r.machine }
func (r *Runner) Body() *ball.Body      { return r.body }

// Close stops the machine's notification dispatcher. The runner must
// not be used afterwards.
func (r *Runner) Close() { r.machine.Close() }

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// transitionLog collects committed transitions during a run.
type transitionLog struct {
	mu      sync.Mutex
	changes []fsm.Change
}

func (l *transitionLog) OnStateChanged(prev, next fsm.State, trigger fsm.Trigger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.changes = append(l.changes, fsm.Change{From: prev, To: next, Trigger: trigger})
}

func (l *transitionLog) snapshot() []fsm.Change {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]fsm.Change, len(l.changes))
	copy(out, l.changes)
	return out
}

// Run executes the schedule until the configured duration elapses or
// the context is canceled. The partial result is returned alongside the
// context error on cancellation.
func (r *Runner) Run(ctx context.Context, script Script) (*Result, error) {
	steps := int(r.cfg.Duration / r.cfg.Dt)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Xs:      make([]float64, 0, steps+1),
		Ys:      make([]float64, 0, steps+1),
		VXs:     make([]float64, 0, steps+1),
		VYs:     make([]float64, 0, steps+1),
		States:  make([]fsm.State, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	log := &transitionLog{}
	r.machine.Subscribe(log)
	defer r.machine.Unsubscribe(log)

	// Async notifications are delivered on the machine's dispatcher;
	// flush it before snapshotting so the result never misses a
	// committed transition.
	finish := func() []fsm.Change {
		r.machine.Drain()
		return log.snapshot()
	}

	pending := script.Sorted()
	t := 0.0
	dt := r.cfg.Dt

	result.append(r.body, r.machine.State(), t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Transitions = finish()
			return result, ctx.Err()
		default:
		}

		for len(pending) > 0 && pending[0].At <= t {
			r.apply(pending[0])
			pending = pending[1:]
		}

		state := r.machine.State()
		res, err := r.engine.Update(r.body, dt, r.bounds, state, r.cfg)
		if err != nil {
			result.Transitions = finish()
			return result, err
		}

		if res.HitAny() {
			result.Bounces++
		}
		if res.VelocityBelowThreshold && state == fsm.StateThrown {
			// The engine already granted the final position update; the
			// loop stops the body and commits the transition.
			if err := r.machine.Fire(fsm.TriggerVelocityBelowThreshold); err == nil {
				r.body.Stop()
			}
		}

		for _, m := range r.metrics {
			m.Observe(*r.body, r.machine.State(), res, t)
		}
		for _, o := range r.observers {
			o.OnTick(*r.body, r.machine.State(), res, t)
		}

		t += dt
		result.StepsTaken++
		result.append(r.body, r.machine.State(), t)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Transitions = finish()
	return result, nil
}

// apply executes one scripted action. Illegal triggers are skipped so a
// sloppy schedule cannot corrupt the run.
func (r *Runner) apply(a Action) {
	switch a.Kind {
	case ActionGrab:
		if r.machine.CanFire(fsm.TriggerGrab) {
			if err := r.machine.Fire(fsm.TriggerGrab); err == nil {
				r.body.Stop()
			}
		}
	case ActionDrag:
		if r.machine.State() == fsm.StateHeld {
			r.body.SetPosition(a.X, a.Y)
		}
	case ActionRelease:
		if r.machine.CanFire(fsm.TriggerRelease) {
			r.body.SetVelocity(a.VX, a.VY)
			r.machine.Fire(fsm.TriggerRelease)
		}
	case ActionReset:
		if err := r.machine.Fire(fsm.TriggerReset); err == nil {
			r.body.Stop()
		}
	}
}
