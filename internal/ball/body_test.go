package ball

import (
	"math"
	"testing"
)

func TestNewClampsMinimums(t *testing.T) {
	b := New(0, 0, 0.01, 0.0)
	if b.Radius < MinRadius {
		t.Errorf("radius %f below minimum %f", b.Radius, MinRadius)
	}
	if b.Mass < MinMass {
		t.Errorf("mass %f below minimum %f", b.Mass, MinMass)
	}
}

func TestSetPositionRejectsNonFinite(t *testing.T) {
	b := New(10, 20, 5, 1)

	tests := []struct {
		name string
		x, y float64
	}{
		{"nan x", math.NaN(), 30},
		{"inf x", math.Inf(1), 30},
		{"nan y", 30, math.NaN()},
		{"neg inf y", 30, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b.SetPosition(10, 20)
			if ok := b.SetPosition(tt.x, tt.y); ok {
				t.Error("expected rejection")
			}
			if !b.Valid() {
				t.Errorf("body corrupted: %+v", b)
			}
		})
	}
}

func TestSetPositionPartialAccept(t *testing.T) {
	b := New(1, 2, 5, 1)
	if ok := b.SetPosition(7, math.NaN()); ok {
		t.Error("expected rejection report")
	}
	if b.X != 7 {
		t.Errorf("finite component should apply, got x=%f", b.X)
	}
	if b.Y != 2 {
		t.Errorf("invalid component should keep previous value, got y=%f", b.Y)
	}
}

func TestSetVelocityRejectsNonFinite(t *testing.T) {
	b := New(0, 0, 5, 1)
	b.SetVelocity(3, 4)
	if ok := b.SetVelocity(math.Inf(1), math.NaN()); ok {
		t.Error("expected rejection")
	}
	if b.VX != 3 || b.VY != 4 {
		t.Errorf("velocity changed to (%f, %f)", b.VX, b.VY)
	}
}

func TestSpeedAndStop(t *testing.T) {
	b := New(0, 0, 5, 1)
	b.SetVelocity(3, 4)
	if got := b.Speed(); math.Abs(got-5) > 1e-12 {
		t.Errorf("speed = %f, want 5", got)
	}
	if !b.Moving() {
		t.Error("expected moving")
	}
	b.Stop()
	if b.Speed() != 0 || b.Moving() {
		t.Error("expected stopped")
	}
}

func TestBoundsContains(t *testing.T) {
	bounds := NewBounds(0, 0, 100, 50)
	if !bounds.Contains(50, 25) {
		t.Error("center should be contained")
	}
	if bounds.Contains(101, 25) {
		t.Error("outside x should not be contained")
	}
	if bounds.Width() != 100 || bounds.Height() != 50 {
		t.Errorf("dims = %f x %f", bounds.Width(), bounds.Height())
	}
}
