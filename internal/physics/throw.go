package physics

import (
	"math"
	"time"
)

// DefaultThrowThreshold is the speed above which a release counts as a
// throw, in units per second.
const DefaultThrowThreshold = 200.0

// IsThrow classifies an instantaneous velocity. A non-positive
// threshold selects the default.
func IsThrow(vx, vy, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultThrowThreshold
	}
	return math.Hypot(vx, vy) > threshold
}

type throwSample struct {
	x, y float64
	at   time.Time
}

// ThrowDetector is the history-based classifier: it averages velocity
// over a short window of position samples, weighting recent deltas more,
// so one erratic final input sample does not decide the throw.
type ThrowDetector struct {
	threshold float64
	window    int
	samples   []throwSample
}

// NewThrowDetector keeps up to window samples. Non-positive arguments
// select the defaults (threshold 200, window 8).
func NewThrowDetector(threshold float64, window int) *ThrowDetector {
	if threshold <= 0 {
		threshold = DefaultThrowThreshold
	}
	if window <= 1 {
		window = 8
	}
	return &ThrowDetector{
		threshold: threshold,
		window:    window,
		samples:   make([]throwSample, 0, window),
	}
}

// Record appends a position sample, evicting the oldest past the window.
func (d *ThrowDetector) Record(x, y float64, at time.Time) {
	if len(d.samples) == d.window {
		copy(d.samples, d.samples[1:])
		d.samples = d.samples[:d.window-1]
	}
	d.samples = append(d.samples, throwSample{x: x, y: y, at: at})
}

// AverageVelocity computes the recency-weighted average velocity over
// the recorded window. Delta i of n carries weight i, so the newest
// movement dominates without standing alone.
func (d *ThrowDetector) AverageVelocity() (vx, vy float64) {
	if len(d.samples) < 2 {
		return 0, 0
	}

	var sumX, sumY, sumW float64
	for i := 1; i < len(d.samples); i++ {
		prev, cur := d.samples[i-1], d.samples[i]
		dt := cur.at.Sub(prev.at).Seconds()
		if dt <= 0 {
			continue
		}
		w := float64(i)
		sumX += w * (cur.x - prev.x) / dt
		sumY += w * (cur.y - prev.y) / dt
		sumW += w
	}
	if sumW == 0 {
		return 0, 0
	}
	return sumX / sumW, sumY / sumW
}

// IsThrow applies the threshold test to the averaged velocity.
func (d *ThrowDetector) IsThrow() bool {
	vx, vy := d.AverageVelocity()
	return math.Hypot(vx, vy) > d.threshold
}

// Reset drops the sample history.
func (d *ThrowDetector) Reset() {
	d.samples = d.samples[:0]
}
