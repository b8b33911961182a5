package ball

// Bounds is the axis-aligned region a body is confined to. Collision is
// resolved against the inset rectangle [Min+radius, Max-radius] per axis.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

func NewBounds(minX, minY, maxX, maxY float64) Bounds {
	return Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether the point lies inside the bounds.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}
