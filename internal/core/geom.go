// Package core provides fundamental value types for the engine.
// It contains no external dependencies to keep level and scripting
// logic pure and testable.
package core

// Rect is an axis-aligned rectangle in world coordinates.
// World coordinates grow upward: a level's boundaries rect usually has a
// negative height because the top edge of the playfield has a lower Y
// value than the bottom edge.
type Rect struct {
	X, Y float64
	W, H float64
}

// NewRect creates a rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Top returns the y-coordinate of the upper edge. With the inverted
// vertical axis this is the smaller of the two edge coordinates.
func (r Rect) Top() float64 {
	if r.H < 0 {
		return r.Y + r.H
	}
	return r.Y
}

// Contains reports whether the point (x, y) lies inside the rectangle,
// regardless of the sign of the height.
func (r Rect) Contains(x, y float64) bool {
	y0, y1 := r.Y, r.Y+r.H
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return x >= r.X && x < r.Right() && y >= y0 && y < y1
}

// Point is a position in world coordinates.
type Point struct {
	X, Y float64
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
