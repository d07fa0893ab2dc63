package vgr

import "github.com/chewxy/math32"

// Point is a position in the caller's 2D coordinate space.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Add returns the point offset by a vector.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the distance between two points.
func (p Point) Distance(q Point) float32 {
	return p.Sub(q).Length()
}

// Vector is a displacement in 2D space.
type Vector struct {
	X, Y float32
}

// Vec is shorthand for Vector{x, y}.
func Vec(x, y float32) Vector { return Vector{X: x, Y: y} }

// Add returns the sum of two vectors.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

// Scale returns the vector scaled by s.
func (v Vector) Scale(s float32) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negated vector.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Dot returns the dot product of two vectors.
func (v Vector) Dot(w Vector) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product (z-component of the 3D cross).
func (v Vector) Cross(w Vector) float32 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vector) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Perp returns the vector rotated 90 degrees counter-clockwise.
func (v Vector) Perp() Vector {
	return Vector{X: -v.Y, Y: v.X}
}

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	MinX, MinY float32
	MaxX, MaxY float32
}

// Width returns the horizontal extent.
func (r Rect) Width() float32 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float32 { return r.MaxY - r.MinY }

// Union returns the smallest rectangle containing both r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		MinX: math32.Min(r.MinX, s.MinX),
		MinY: math32.Min(r.MinY, s.MinY),
		MaxX: math32.Max(r.MaxX, s.MaxX),
		MaxY: math32.Max(r.MaxY, s.MaxY),
	}
}
