// Package physics integrates ball motion conditioned on the interaction
// state.
//
// The [Engine] is stateless per call: it mutates the body it is handed
// and returns a [Result] of motion, boundary-hit, and stop-threshold
// flags that the simulation loop feeds back into the state machine.
// Friction uses exponential decay (coefficient^(dt*60)) so behavior is
// identical across frame rates, and every computation is guarded
// against NaN/Inf: numeric instability stops the body rather than
// propagating.
//
// [ResolveCollision] handles two-body contact with impulse-based
// response, and [ThrowDetector] classifies throws from a
// recency-weighted velocity history.
package physics
