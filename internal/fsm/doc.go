// Package fsm implements the ball interaction state machine.
//
// A [Machine] owns exactly one ball's interaction state and enforces
// the legal lifecycle:
//
//	Idle --grab--> Held --release--> Thrown --velocity_below_threshold--> Idle
//
// Reset returns to Idle from every state, and Grab is legal from Thrown
// so a flying ball can be caught mid-air.
//
// Subscribers implementing [Observer] are notified of every committed
// transition, either synchronously in registration order or on a
// background dispatcher when [Options].AsyncNotifications is set.
// Observer panics are isolated and logged; they never corrupt the
// machine or suppress other subscribers.
//
// [Machine.ValidateStateConsistency] and [Machine.RecoverToSafeState]
// provide self-checking and best-effort recovery: a machine that is
// ever detected outside its documented table is driven back to Idle.
package fsm
