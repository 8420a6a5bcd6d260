// Package physics provides axis-aligned overlap tests and clamping utilities.
package physics

// Clamp limits v to the closed range [lo, hi].
// If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// RangesOverlap checks if the closed intervals [a0, a1] and [b0, b1] overlap.
// Touching endpoints count as overlap.
func RangesOverlap(a0, a1, b0, b1 float64) bool {
	return a1 >= b0 && a0 <= b1
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// RectsOverlap checks if two rectangles overlap, touching edges included.
func RectsOverlap(a, b Rect) bool {
	return RangesOverlap(a.X, a.Right(), b.X, b.Right()) &&
		RangesOverlap(a.Y, a.Bottom(), b.Y, b.Bottom())
}

// Penetration returns how far a reaches into b horizontally and vertically.
// Both values are zero or negative when the rectangles only touch or are apart.
func Penetration(a, b Rect) (dx, dy float64) {
	dx = min(a.Right(), b.Right()) - max(a.X, b.X)
	dy = min(a.Bottom(), b.Bottom()) - max(a.Y, b.Y)
	return dx, dy
}
