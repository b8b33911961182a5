package physics

import (
	"math"

	"github.com/san-kum/ballsim/internal/ball"
)

// ResolveCollision applies impulse-based response between two bodies
// when their circles overlap. Velocity changes only while the bodies
// approach each other; overlap is always corrected by moving each body
// half the penetration depth apart along the contact normal. Reports
// whether a collision was resolved.
func ResolveCollision(a, b *ball.Body, restitution float64) bool {
	if a == nil || b == nil || a == b {
		return false
	}

	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	sum := a.Radius + b.Radius
	if dist >= sum {
		return false
	}

	var nx, ny float64
	if dist > 0 {
		nx, ny = dx/dist, dy/dist
	} else {
		// Coincident centers: separate along x.
		nx, ny = 1, 0
	}

	relNormal := (b.VX-a.VX)*nx + (b.VY-a.VY)*ny
	if relNormal < 0 {
		j := -(1 + restitution) * relNormal / (1/a.Mass + 1/b.Mass)
		a.SetVelocity(a.VX-j*nx/a.Mass, a.VY-j*ny/a.Mass)
		b.SetVelocity(b.VX+j*nx/b.Mass, b.VY+j*ny/b.Mass)
	}

	half := (sum - dist) / 2
	a.SetPosition(a.X-nx*half, a.Y-ny*half)
	b.SetPosition(b.X+nx*half, b.Y+ny*half)
	return true
}
