package physics

import (
	"math"
	"testing"
	"time"
)

func TestIsThrow(t *testing.T) {
	tests := []struct {
		name      string
		vx, vy    float64
		threshold float64
		want      bool
	}{
		{"fast horizontal", 300, 0, 0, true},
		{"slow", 50, 50, 0, false},
		{"exactly default threshold", 200, 0, 0, false},
		{"just above default", 201, 0, 0, true},
		{"diagonal above", 150, 150, 0, true},
		{"custom threshold", 120, 0, 100, true},
		{"below custom threshold", 80, 0, 100, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsThrow(tt.vx, tt.vy, tt.threshold); got != tt.want {
				t.Errorf("IsThrow(%f, %f, %f) = %v", tt.vx, tt.vy, tt.threshold, got)
			}
		})
	}
}

func TestDetectorConstantVelocity(t *testing.T) {
	d := NewThrowDetector(0, 0)
	start := time.Now()
	// 300 units/s along x, sampled every 10ms.
	for i := 0; i < 5; i++ {
		d.Record(float64(i)*3, 0, start.Add(time.Duration(i)*10*time.Millisecond))
	}

	vx, vy := d.AverageVelocity()
	if math.Abs(vx-300) > 1e-6 {
		t.Errorf("vx = %f, want 300", vx)
	}
	if vy != 0 {
		t.Errorf("vy = %f", vy)
	}
	if !d.IsThrow() {
		t.Error("300 units/s should classify as throw")
	}
}

func TestDetectorWeighsRecentSamplesMore(t *testing.T) {
	// Slow start, fast finish: weighted average must exceed the plain
	// mean of the two delta velocities.
	d := NewThrowDetector(0, 0)
	start := time.Now()
	d.Record(0, 0, start)
	d.Record(1, 0, start.Add(10*time.Millisecond))   // 100/s
	d.Record(6, 0, start.Add(20*time.Millisecond))   // 500/s
	vx, _ := d.AverageVelocity()
	if vx <= 300 {
		t.Errorf("vx = %f, recent delta should dominate", vx)
	}

	// Mirrored: fast start, slow finish drags the average down.
	d.Reset()
	d.Record(0, 0, start)
	d.Record(5, 0, start.Add(10*time.Millisecond))   // 500/s
	d.Record(6, 0, start.Add(20*time.Millisecond))   // 100/s
	vx, _ = d.AverageVelocity()
	if vx >= 300 {
		t.Errorf("vx = %f, older delta should be discounted", vx)
	}
}

func TestDetectorDampsErraticFinalSample(t *testing.T) {
	d := NewThrowDetector(0, 0)
	start := time.Now()
	// Steady slow drag with one wild last sample.
	for i := 0; i < 7; i++ {
		d.Record(float64(i), 0, start.Add(time.Duration(i)*10*time.Millisecond))
	}
	d.Record(60, 0, start.Add(70*time.Millisecond))

	vx, _ := d.AverageVelocity()
	instant := 5400.0 // the last delta alone
	if vx >= instant/2 {
		t.Errorf("vx = %f, erratic last sample should not dominate", vx)
	}
}

func TestDetectorInsufficientSamples(t *testing.T) {
	d := NewThrowDetector(0, 0)
	if d.IsThrow() {
		t.Error("empty detector classified a throw")
	}
	d.Record(0, 0, time.Now())
	if vx, vy := d.AverageVelocity(); vx != 0 || vy != 0 {
		t.Errorf("single sample velocity = (%f, %f)", vx, vy)
	}
}

func TestDetectorWindowEviction(t *testing.T) {
	d := NewThrowDetector(0, 4)
	start := time.Now()
	// Early fast movement falls out of the window, leaving stillness.
	d.Record(0, 0, start)
	d.Record(100, 0, start.Add(10*time.Millisecond))
	for i := 2; i < 10; i++ {
		d.Record(100, 0, start.Add(time.Duration(i)*10*time.Millisecond))
	}

	if vx, _ := d.AverageVelocity(); vx != 0 {
		t.Errorf("vx = %f, evicted samples still counted", vx)
	}
}

func TestDetectorReset(t *testing.T) {
	d := NewThrowDetector(0, 0)
	start := time.Now()
	d.Record(0, 0, start)
	d.Record(100, 0, start.Add(10*time.Millisecond))
	d.Reset()
	if vx, vy := d.AverageVelocity(); vx != 0 || vy != 0 {
		t.Errorf("velocity after reset = (%f, %f)", vx, vy)
	}
}

func TestDetectorIgnoresZeroDt(t *testing.T) {
	d := NewThrowDetector(0, 0)
	now := time.Now()
	d.Record(0, 0, now)
	d.Record(50, 0, now) // same timestamp
	if vx, _ := d.AverageVelocity(); vx != 0 {
		t.Errorf("vx = %f, zero-dt delta should be skipped", vx)
	}
}
