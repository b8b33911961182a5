package ball

import "math"

const (
	// MinRadius and MinMass are floors applied on construction so that
	// collision response never divides by a degenerate radius or mass.
	MinRadius = 1.0
	MinMass   = 0.1
)

// Body is the mutable physical state of one simulated ball. It is owned
// by the simulation loop and passed by pointer into every physics update.
type Body struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Mass   float64
}

func New(x, y, radius, mass float64) *Body {
	b := &Body{
		X:      0,
		Y:      0,
		Radius: math.Max(radius, MinRadius),
		Mass:   math.Max(mass, MinMass),
	}
	b.SetPosition(x, y)
	return b
}

// SetPosition assigns the position, rejecting NaN/Inf components. A
// rejected component keeps its previous value; the report is whether the
// full assignment was accepted.
func (b *Body) SetPosition(x, y float64) bool {
	ok := true
	if finite(x) {
		b.X = x
	} else {
		ok = false
	}
	if finite(y) {
		b.Y = y
	} else {
		ok = false
	}
	return ok
}

// SetVelocity assigns the velocity with the same NaN/Inf rejection as
// SetPosition.
func (b *Body) SetVelocity(vx, vy float64) bool {
	ok := true
	if finite(vx) {
		b.VX = vx
	} else {
		ok = false
	}
	if finite(vy) {
		b.VY = vy
	} else {
		ok = false
	}
	return ok
}

// Speed returns the velocity magnitude.
func (b *Body) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Stop zeroes the velocity.
func (b *Body) Stop() {
	b.VX = 0
	b.VY = 0
}

// Moving reports whether either velocity component is nonzero.
func (b *Body) Moving() bool {
	return b.VX != 0 || b.VY != 0
}

// Valid reports whether every field is finite.
func (b *Body) Valid() bool {
	return finite(b.X) && finite(b.Y) && finite(b.VX) && finite(b.VY) &&
		finite(b.Radius) && finite(b.Mass)
}

// Clone returns a copy of the body.
func (b *Body) Clone() Body {
	return *b
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
