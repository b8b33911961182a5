package fsm

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Observer receives committed transitions. Rejected triggers are never
// reported. Callbacks run outside the machine's locks, so an observer
// may safely call back into the machine.
type Observer interface {
	OnStateChanged(previous, next State, trigger Trigger)
}

// Logger is the printf-style sink for transition and failure logging.
type Logger func(format string, args ...any)

// Options configures a Machine.
type Options struct {
	// ValidateTransitions makes Fire return ErrInvalidTransition for
	// illegal triggers. When false, illegal triggers are ignored.
	ValidateTransitions bool

	// LogTransitions logs every committed transition.
	LogTransitions bool

	// AsyncNotifications dispatches observer callbacks on a background
	// goroutine with no cross-observer ordering guarantee.
	AsyncNotifications bool

	// Logf defaults to log.Printf.
	Logf Logger

	// QueueSize bounds the async notification queue. Defaults to 64.
	QueueSize int
}

// Change records one committed transition. At is stamped when the
// transition commits; asynchronous observers may run after a queue
// delay, so At is the commit time, not the delivery time.
type Change struct {
	From    State
	To      State
	Trigger Trigger
	At      time.Time
}

// notification is one queued dispatch. A non-nil flush marks a Drain
// barrier instead of a delivery.
type notification struct {
	observers []Observer
	change    Change
	flush     chan struct{}
}

// Machine is the ball interaction state machine. The zero value is not
// usable; construct with NewMachine. All methods are safe for
// concurrent use.
//
// Two locks are held independently: mu guards the current state and
// transition commit, obsMu guards the subscriber list. Neither is ever
// held while observer code runs.
type Machine struct {
	mu    sync.Mutex
	state State
	last  Change

	obsMu     sync.Mutex
	observers []Observer

	opts Options
	logf Logger

	queue     chan notification
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewMachine returns a machine in StateIdle.
func NewMachine(opts Options) *Machine {
	if opts.Logf == nil {
		opts.Logf = log.Printf
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	m := &Machine{
		state: StateIdle,
		opts:  opts,
		logf:  opts.Logf,
		queue: make(chan notification, opts.QueueSize),
		done:  make(chan struct{}),
	}
	if opts.AsyncNotifications {
		m.wg.Add(1)
		go m.dispatchLoop()
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastChange returns the most recently committed transition.
func (m *Machine) LastChange() Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// CanFire reports whether the trigger is legal in the current state.
func (m *Machine) CanFire(trigger Trigger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := transitions[transitionKey{m.state, trigger}]
	return ok
}

// Fire requests a transition. Legal triggers commit atomically and then
// notify observers outside the lock. Illegal triggers return
// ErrInvalidTransition when validation is enabled and are ignored
// otherwise. An unexpected fault during commit triggers consistency
// validation and, if needed, recovery, before the fault is surfaced as
// ErrTransitionFailure.
func (m *Machine) Fire(trigger Trigger) error {
	change, err := m.transition(trigger)
	if err != nil {
		if errors.Is(err, ErrTransitionFailure) && !m.ValidateStateConsistency() {
			m.logf("%v after failed transition, recovering", ErrInconsistentState)
			m.RecoverToSafeState()
		}
		return err
	}
	if change == nil {
		return nil
	}
	if m.opts.LogTransitions {
		m.logf("fsm: %s -> %s on %s", change.From, change.To, change.Trigger)
	}
	m.notify(*change)
	return nil
}

func (m *Machine) transition(trigger Trigger) (ch *Change, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			ch = nil
			err = fmt.Errorf("%w: %v", ErrTransitionFailure, r)
		}
	}()

	from := m.state
	to, ok := transitions[transitionKey{from, trigger}]
	if !ok {
		if m.opts.ValidateTransitions {
			return nil, &TransitionError{From: from, Trigger: trigger, Err: ErrInvalidTransition}
		}
		return nil, nil
	}

	m.state = to
	change := Change{From: from, To: to, Trigger: trigger, At: time.Now()}
	m.last = change
	return &change, nil
}

// Subscribe appends the observer to the registration-order list. The
// machine holds a non-owning reference until Unsubscribe.
func (m *Machine) Subscribe(o Observer) {
	if o == nil {
		return
	}
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

// Unsubscribe removes the first registration of the observer.
func (m *Machine) Unsubscribe(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	for i, reg := range m.observers {
		if reg == o {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// ValidateStateConsistency recomputes which triggers should be fireable
// for the current state and compares against live CanFire results. A
// state outside the enum domain, any mismatch, or Reset not being
// fireable returns false.
func (m *Machine) ValidateStateConsistency() bool {
	m.mu.Lock()
	cur := m.state
	m.mu.Unlock()

	if !cur.Valid() {
		return false
	}
	for _, tr := range allTriggers {
		_, inTable := transitions[transitionKey{cur, tr}]
		if m.CanFire(tr) != inTable {
			return false
		}
	}
	return m.CanFire(TriggerReset)
}

// RecoverToSafeState drives the machine back to Idle. It first tries a
// legal in-table path; only if none exists does it force-set the state
// through the internal recovery entry point, recording the change with
// TriggerReset.
func (m *Machine) RecoverToSafeState() bool {
	if m.State() == StateIdle && m.ValidateStateConsistency() {
		return true
	}
	for _, tr := range []Trigger{TriggerVelocityBelowThreshold, TriggerReset} {
		if !m.CanFire(tr) {
			continue
		}
		if err := m.Fire(tr); err == nil && m.State() == StateIdle {
			return true
		}
	}
	change := m.forceIdle()
	m.logf("fsm: forced recovery from %s to %s", change.From, change.To)
	m.notify(change)
	return m.State() == StateIdle
}

// forceIdle is the privileged recovery entry point. It bypasses the
// transition table and must only be reached from RecoverToSafeState.
func (m *Machine) forceIdle() Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	change := Change{From: m.state, To: StateIdle, Trigger: TriggerReset, At: time.Now()}
	m.state = StateIdle
	m.last = change
	return change
}

func (m *Machine) notify(change Change) {
	m.obsMu.Lock()
	if len(m.observers) == 0 {
		m.obsMu.Unlock()
		return
	}
	snapshot := make([]Observer, len(m.observers))
	copy(snapshot, m.observers)
	m.obsMu.Unlock()

	if !m.opts.AsyncNotifications {
		for _, o := range snapshot {
			m.invoke(o, change)
		}
		return
	}

	// Never block the caller of Fire: drop when the queue is full.
	select {
	case m.queue <- notification{observers: snapshot, change: change}:
	default:
		m.logf("fsm: notification queue full, dropping %s -> %s", change.From, change.To)
	}
}

// invoke runs one callback under its own recover so a panicking
// observer never affects committed state or remaining subscribers.
func (m *Machine) invoke(o Observer, change Change) {
	defer func() {
		if r := recover(); r != nil {
			m.logf("fsm: observer failure on %s -> %s (%s): %v", change.From, change.To, change.Trigger, r)
		}
	}()
	o.OnStateChanged(change.From, change.To, change.Trigger)
}

func (m *Machine) dispatchLoop() {
	defer m.wg.Done()
	for {
		select {
		case n := <-m.queue:
			m.deliver(n)
		case <-m.done:
			for {
				select {
				case n := <-m.queue:
					m.deliver(n)
				default:
					return
				}
			}
		}
	}
}

func (m *Machine) deliver(n notification) {
	if n.flush != nil {
		close(n.flush)
		return
	}
	for _, o := range n.observers {
		m.invoke(o, n.change)
	}
}

// Drain blocks until every notification enqueued before the call has
// been dispatched. Unlike Close it may be called repeatedly, so a
// caller can flush between runs. No-op for synchronous machines.
func (m *Machine) Drain() {
	if !m.opts.AsyncNotifications {
		return
	}
	flushed := make(chan struct{})
	select {
	case m.queue <- notification{flush: flushed}:
	case <-m.done:
		return
	}
	select {
	case <-flushed:
	case <-m.done:
	}
}

// Close stops the async dispatcher after draining queued notifications.
// It is a no-op for synchronous machines and safe to call more than
// once.
func (m *Machine) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
	})
	m.wg.Wait()
}
