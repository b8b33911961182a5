// Package sim runs headless ball simulations.
//
// A [Runner] couples one [fsm.Machine], one [physics.Engine], and one
// body: every tick reads the interaction state, integrates with it, and
// fires the stop trigger when the engine reports the velocity fell
// below threshold. Interactions are supplied as a timed [Script], so
// the full grab/drag/release lifecycle is reproducible without a UI.
package sim
