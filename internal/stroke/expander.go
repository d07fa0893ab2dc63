package stroke

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrDegenerate is returned when the input cannot produce a visible
// stroke: non-positive width, fewer than two distinct points, or all
// points coincident.
var ErrDegenerate = errors.New("stroke: degenerate input")

// Point represents a 2D point.
type Point struct {
	X, Y float32
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns the point offset by v.
func (p Point) Add(v Vec2) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Scale returns the vector scaled by s.
func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negated vector.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(w Vec2) float32 {
	return v.X*w.X + v.Y*w.Y
}

// Cross returns the 2D cross product (z-component of 3D cross).
func (v Vec2) Cross(w Vec2) float32 {
	return v.X*w.Y - v.Y*w.X
}

// Length returns the length of the vector.
func (v Vec2) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns a unit vector in the same direction, or the zero
// vector for near-zero input.
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length < 1e-7 {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Perp returns the perpendicular vector (rotated 90 degrees counter-clockwise).
func (v Vec2) Perp() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

// Angle returns the angle of the vector in radians.
func (v Vec2) Angle() float32 {
	return math32.Atan2(v.Y, v.X)
}

// Cap specifies the shape of line endpoints.
type Cap int

const (
	// CapButt specifies a flat line cap.
	CapButt Cap = iota
	// CapSquare specifies a square line cap extending half the width.
	CapSquare
	// CapRound specifies a rounded line cap.
	CapRound
)

// Join specifies the shape of line joins.
type Join int

const (
	// JoinMiter specifies a sharp (mitered) join.
	JoinMiter Join = iota
	// JoinBevel specifies a beveled join.
	JoinBevel
	// JoinRound specifies a rounded join.
	JoinRound
)

// Options defines the style for stroke expansion.
type Options struct {
	Width      float32
	Cap        Cap
	Join       Join
	MiterLimit float32

	// Tolerance bounds the deviation of round join and cap arcs from
	// a true circle. Zero selects the default of 0.25.
	Tolerance float32
}

// Mesh holds the triangles produced by stroke expansion.
type Mesh struct {
	Vertices []Point
	Indices  []uint32
}

const (
	defaultTolerance  = 0.25
	defaultMiterLimit = 4.0
	coincidentEps     = 1e-6
)

// Expand converts a stroked polyline into a triangle mesh.
//
// For closed polylines every vertex gets join geometry and no caps are
// emitted; a trailing point equal to the first is dropped. Consecutive
// coincident points are merged before expansion.
func Expand(points []Point, closed bool, opts Options) (Mesh, error) {
	if opts.Width <= 0 {
		return Mesh{}, ErrDegenerate
	}
	if opts.MiterLimit <= 0 {
		opts.MiterLimit = defaultMiterLimit
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = defaultTolerance
	}

	pts := dedup(points, closed)
	if len(pts) < 2 {
		return Mesh{}, ErrDegenerate
	}

	e := expander{
		half:  opts.Width / 2,
		opts:  opts,
		pts:   pts,
		close: closed,
	}
	e.run()
	return Mesh{Vertices: e.vertices, Indices: e.indices}, nil
}

// dedup merges consecutive coincident points. For closed polylines a
// trailing point equal to the first is also dropped.
func dedup(points []Point, closed bool) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && coincident(out[len(out)-1], p) {
			continue
		}
		out = append(out, p)
	}
	if closed && len(out) > 1 && coincident(out[0], out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func coincident(a, b Point) bool {
	return a.Sub(b).Length() < coincidentEps
}

type expander struct {
	half  float32
	opts  Options
	pts   []Point
	close bool

	vertices []Point
	indices  []uint32
}

func (e *expander) run() {
	n := len(e.pts)
	segs := n - 1
	if e.close {
		segs = n
	}

	// One quad per segment.
	for i := 0; i < segs; i++ {
		p0 := e.pts[i]
		p1 := e.pts[(i+1)%n]
		dir := p1.Sub(p0).Normalize()
		norm := dir.Perp().Scale(e.half)

		v0 := e.addVertex(p0.Add(norm.Neg()))
		v1 := e.addVertex(p0.Add(norm))
		v2 := e.addVertex(p1.Add(norm.Neg()))
		v3 := e.addVertex(p1.Add(norm))
		e.addTriangle(v0, v1, v2)
		e.addTriangle(v2, v1, v3)
	}

	// Joins at interior vertices (every vertex for closed polylines).
	if e.close {
		for i := 0; i < n; i++ {
			prev := e.pts[(i+n-1)%n]
			next := e.pts[(i+1)%n]
			e.doJoin(prev, e.pts[i], next)
		}
	} else {
		for i := 1; i < n-1; i++ {
			e.doJoin(e.pts[i-1], e.pts[i], e.pts[i+1])
		}
		e.doCaps()
	}
}

// doJoin fills the wedge on the outer side of the turn at p.
func (e *expander) doJoin(prev, p, next Point) {
	d0 := p.Sub(prev).Normalize()
	d1 := next.Sub(p).Normalize()
	cross := d0.Cross(d1)
	dot := d0.Dot(d1)

	// Collinear continuation leaves no wedge to fill.
	if dot > 0 && math32.Abs(cross) < 1e-6 {
		return
	}

	// Outer side of a left turn is the right side and vice versa.
	side := float32(1)
	if cross > 0 {
		side = -1
	}
	n0 := d0.Perp().Scale(e.half * side)
	n1 := d1.Perp().Scale(e.half * side)
	a := p.Add(n0)
	b := p.Add(n1)

	switch e.opts.Join {
	case JoinBevel:
		e.bevel(p, a, b)
	case JoinMiter:
		e.miter(p, a, b, n0, n1)
	case JoinRound:
		e.roundFan(p, a, b)
	}
}

func (e *expander) bevel(p, a, b Point) {
	vp := e.addVertex(p)
	va := e.addVertex(a)
	vb := e.addVertex(b)
	e.addTriangle(vp, va, vb)
}

// miter extends the join to a sharp tip unless the miter length
// exceeds the limit, in which case it falls back to bevel.
func (e *expander) miter(p, a, b Point, n0, n1 Vec2) {
	m := n0.Add(n1).Normalize()
	if m == (Vec2{}) {
		// 180 degree turn, miter length is unbounded.
		e.bevel(p, a, b)
		return
	}
	cosHalf := m.Dot(n0.Normalize())
	if cosHalf <= 0 || 1/cosHalf > e.opts.MiterLimit {
		e.bevel(p, a, b)
		return
	}

	tip := p.Add(m.Scale(e.half / cosHalf))
	vp := e.addVertex(p)
	va := e.addVertex(a)
	vb := e.addVertex(b)
	vt := e.addVertex(tip)
	e.addTriangle(vp, va, vt)
	e.addTriangle(vp, vt, vb)
}

// roundFan fills the wedge between a and b with an arc fan centered
// at p, sweeping the short way around.
func (e *expander) roundFan(p, a, b Point) {
	a0 := a.Sub(p).Angle()
	a1 := b.Sub(p).Angle()
	sweep := a1 - a0
	for sweep > math32.Pi {
		sweep -= 2 * math32.Pi
	}
	for sweep <= -math32.Pi {
		sweep += 2 * math32.Pi
	}
	e.arc(p, a0, sweep)
}

// arc emits a triangle fan approximating an arc of radius half around
// center, starting at angle a0 and sweeping by sweep radians.
func (e *expander) arc(center Point, a0, sweep float32) {
	steps := e.arcSteps(sweep)
	vc := e.addVertex(center)
	prev := e.addVertex(e.arcPoint(center, a0))
	for i := 1; i <= steps; i++ {
		angle := a0 + sweep*float32(i)/float32(steps)
		cur := e.addVertex(e.arcPoint(center, angle))
		e.addTriangle(vc, prev, cur)
		prev = cur
	}
}

func (e *expander) arcPoint(center Point, angle float32) Point {
	return Point{
		X: center.X + e.half*math32.Cos(angle),
		Y: center.Y + e.half*math32.Sin(angle),
	}
}

// arcSteps derives the arc segment count from the tolerance so the
// chord deviation stays below it.
func (e *expander) arcSteps(sweep float32) int {
	ratio := e.opts.Tolerance / e.half
	if ratio > 1 {
		ratio = 1
	}
	maxStep := 2 * math32.Acos(1-ratio)
	steps := int(math32.Ceil(math32.Abs(sweep) / maxStep))
	if steps < 2 {
		steps = 2
	}
	return steps
}

// doCaps emits cap geometry at both endpoints of an open polyline.
func (e *expander) doCaps() {
	n := len(e.pts)
	startDir := e.pts[1].Sub(e.pts[0]).Normalize()
	endDir := e.pts[n-1].Sub(e.pts[n-2]).Normalize()

	e.capAt(e.pts[0], startDir.Neg())
	e.capAt(e.pts[n-1], endDir)
}

// capAt emits a cap at p opening in direction out (pointing away from
// the polyline).
func (e *expander) capAt(p Point, out Vec2) {
	switch e.opts.Cap {
	case CapButt:
		// The segment quad already ends flush at p.

	case CapSquare:
		norm := out.Perp().Scale(e.half)
		ext := out.Scale(e.half)
		v0 := e.addVertex(p.Add(norm))
		v1 := e.addVertex(p.Add(norm.Neg()))
		v2 := e.addVertex(p.Add(norm).Add(ext))
		v3 := e.addVertex(p.Add(norm.Neg()).Add(ext))
		e.addTriangle(v0, v1, v2)
		e.addTriangle(v2, v1, v3)

	case CapRound:
		// Two quarter arcs from one offset edge to the other, meeting
		// at p + out*half so the cap's apex is an exact vertex.
		a0 := out.Angle() - math32.Pi/2
		e.arc(p, a0, math32.Pi/2)
		e.arc(p, a0+math32.Pi/2, math32.Pi/2)
	}
}

func (e *expander) addVertex(p Point) uint32 {
	e.vertices = append(e.vertices, p)
	return uint32(len(e.vertices) - 1)
}

func (e *expander) addTriangle(a, b, c uint32) {
	e.indices = append(e.indices, a, b, c)
}
