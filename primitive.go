package vgr

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Primitive is a closed set of shape variants. Geometric identity is
// structural equality: same variant, same field bit patterns. Two visually
// identical primitives whose coordinates differ in the last bit are distinct
// cache entries (documented limitation, not a bug).
type Primitive interface {
	// Bounds returns the axis-aligned bounding rectangle of the shape,
	// before any geom transform is applied.
	Bounds() Rect

	isPrimitive()
}

// Circle is a circle given by center and radius.
type Circle struct {
	Center Point
	Radius float32
}

func (Circle) isPrimitive() {}

// Bounds returns the bounding rectangle.
func (c Circle) Bounds() Rect {
	return Rect{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

// Rectangle is an axis-aligned rectangle given by two opposite corners.
// The corners may be given in any order.
type Rectangle struct {
	A, B Point
}

func (Rectangle) isPrimitive() {}

// Bounds returns the bounding rectangle with normalized corners.
func (r Rectangle) Bounds() Rect {
	return Rect{
		MinX: math32.Min(r.A.X, r.B.X),
		MinY: math32.Min(r.A.Y, r.B.Y),
		MaxX: math32.Max(r.A.X, r.B.X),
		MaxY: math32.Max(r.A.Y, r.B.Y),
	}
}

// Ellipse is an ellipse given by center, per-axis radii and a rotation
// in degrees.
type Ellipse struct {
	Center   Point
	Radii    Vector
	Rotation float32
}

func (Ellipse) isPrimitive() {}

// Bounds returns the bounding rectangle of the rotated ellipse.
func (e Ellipse) Bounds() Rect {
	// Extent of a rotated ellipse along each axis.
	rad := e.Rotation * (math.Pi / 180)
	cos := math32.Cos(rad)
	sin := math32.Sin(rad)
	ex := math32.Sqrt(e.Radii.X*e.Radii.X*cos*cos + e.Radii.Y*e.Radii.Y*sin*sin)
	ey := math32.Sqrt(e.Radii.X*e.Radii.X*sin*sin + e.Radii.Y*e.Radii.Y*cos*cos)
	return Rect{
		MinX: e.Center.X - ex,
		MinY: e.Center.Y - ey,
		MaxX: e.Center.X + ex,
		MaxY: e.Center.Y + ey,
	}
}

// Line is a straight segment between two points. Lines have no area and can
// only be stroked, not filled.
type Line struct {
	A, B Point
}

func (Line) isPrimitive() {}

// Bounds returns the bounding rectangle of the segment.
func (l Line) Bounds() Rect {
	return Rect{
		MinX: math32.Min(l.A.X, l.B.X),
		MinY: math32.Min(l.A.Y, l.B.Y),
		MaxX: math32.Max(l.A.X, l.B.X),
		MaxY: math32.Max(l.A.Y, l.B.Y),
	}
}

// Polygon is a closed polygon given by its vertices in order.
// Fill tessellation assumes a convex outline (documented limitation).
type Polygon struct {
	Points []Point
}

func (Polygon) isPrimitive() {}

// Bounds returns the bounding rectangle of all vertices.
func (p Polygon) Bounds() Rect {
	if len(p.Points) == 0 {
		return Rect{}
	}
	r := Rect{MinX: p.Points[0].X, MinY: p.Points[0].Y, MaxX: p.Points[0].X, MaxY: p.Points[0].Y}
	for _, pt := range p.Points[1:] {
		r.MinX = math32.Min(r.MinX, pt.X)
		r.MinY = math32.Min(r.MinY, pt.Y)
		r.MaxX = math32.Max(r.MaxX, pt.X)
		r.MaxY = math32.Max(r.MaxY, pt.Y)
	}
	return r
}

// Primitive kind tags for mesh cache keys.
const (
	keyKindCircle byte = iota + 1
	keyKindRectangle
	keyKindEllipse
	keyKindLine
	keyKindPolygon
)

// meshKey is the mesh cache key: an exact binary encoding of the primitive's
// variant and field bit patterns plus the tessellation options. Using the
// full encoding (rather than a 64-bit hash) gives true structural equality,
// so a cache hit can never alias a different shape.
type meshKey string

// appendF32 appends the IEEE-754 bit pattern of f.
func appendF32(buf []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
}

// appendPoint appends the bit patterns of both coordinates.
func appendPoint(buf []byte, p Point) []byte {
	return appendF32(appendF32(buf, p.X), p.Y)
}

// keyFor builds the mesh cache key for a (primitive, options) pair.
func keyFor(p Primitive, opts TessellationOptions) meshKey {
	buf := make([]byte, 0, 64)
	switch s := p.(type) {
	case Circle:
		buf = append(buf, keyKindCircle)
		buf = appendPoint(buf, s.Center)
		buf = appendF32(buf, s.Radius)
	case Rectangle:
		buf = append(buf, keyKindRectangle)
		buf = appendPoint(buf, s.A)
		buf = appendPoint(buf, s.B)
	case Ellipse:
		buf = append(buf, keyKindEllipse)
		buf = appendPoint(buf, s.Center)
		buf = appendF32(buf, s.Radii.X)
		buf = appendF32(buf, s.Radii.Y)
		buf = appendF32(buf, s.Rotation)
	case Line:
		buf = append(buf, keyKindLine)
		buf = appendPoint(buf, s.A)
		buf = appendPoint(buf, s.B)
	case Polygon:
		buf = append(buf, keyKindPolygon)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Points)))
		for _, pt := range s.Points {
			buf = appendPoint(buf, pt)
		}
	}
	buf = opts.appendKey(buf)
	return meshKey(buf)
}
