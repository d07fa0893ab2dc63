package vgr

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/gogpu/vgr/internal/cache"
	"github.com/gogpu/vgr/internal/stroke"
)

// DefaultTolerance is the default curve flattening tolerance in pixels.
// Curved outlines (circles, ellipses, round joins and caps) are segmented
// so that no chord deviates from the true curve by more than this.
const DefaultTolerance float32 = 0.25

// minArcSegments is the floor on curve segmentation, so tiny circles stay
// recognizably round.
const minArcSegments = 8

// Vertex is one tessellated mesh vertex in the primitive's own
// coordinate space.
type Vertex struct {
	X, Y float32
}

// Mesh is an indexed triangle list produced by tessellation. Meshes are
// immutable once built; their fingerprint never changes.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	id CacheID
	fp Fingerprint
}

// CacheID returns the mesh's stable cache identity. GPU vertex and index
// buffers are keyed by it.
func (m *Mesh) CacheID() CacheID { return m.id }

// Fingerprint returns the mesh's content version.
func (m *Mesh) Fingerprint() Fingerprint { return m.fp }

// IndexCount returns the number of indices to draw.
func (m *Mesh) IndexCount() int { return len(m.Indices) }

// vertexBytes encodes the vertices as packed little-endian float32 pairs,
// the layout the vertex shader consumes.
func (m *Mesh) vertexBytes() []byte {
	buf := make([]byte, 0, len(m.Vertices)*8)
	for _, v := range m.Vertices {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.X))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v.Y))
	}
	return buf
}

// indexBytes encodes the indices as packed little-endian uint32 values.
func (m *Mesh) indexBytes() []byte {
	buf := make([]byte, 0, len(m.Indices)*4)
	for _, i := range m.Indices {
		buf = binary.LittleEndian.AppendUint32(buf, i)
	}
	return buf
}

// Tessellator converts primitives into triangle meshes, caching results by
// the exact bit patterns of the primitive and its tessellation options.
// Repeating a frame with unchanged shapes performs no tessellation work.
//
// Tessellator is safe for concurrent use.
type Tessellator struct {
	meshes      *cache.Cache[meshKey, *Mesh]
	tolerance   float32
	invocations atomic.Uint64

	mu      sync.Mutex
	evicted []CacheID
}

// NewTessellator creates a tessellator. cacheLimit bounds the mesh cache
// entry count (0 means unbounded, the default retention policy). A
// tolerance of 0 selects DefaultTolerance.
func NewTessellator(cacheLimit int, tolerance float32) *Tessellator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	t := &Tessellator{
		meshes:    cache.New[meshKey, *Mesh](cacheLimit),
		tolerance: tolerance,
	}
	t.meshes.SetOnEvict(func(_ meshKey, m *Mesh) {
		t.mu.Lock()
		t.evicted = append(t.evicted, m.id)
		t.mu.Unlock()
	})
	return t
}

// Tessellate resolves the mesh for a (primitive, options) pair, from cache
// when possible. Degenerate primitives (zero radius, coincident endpoints,
// zero stroke width) return ErrDegenerateGeometry; such results are not
// cached.
func (t *Tessellator) Tessellate(p Primitive, opts TessellationOptions) (*Mesh, error) {
	key := keyFor(p, opts)
	if m, ok := t.meshes.Get(key); ok {
		return m, nil
	}

	t.invocations.Add(1)
	m, err := t.build(p, opts)
	if err != nil {
		return nil, err
	}
	if err := validateMesh(m); err != nil {
		return nil, err
	}
	t.meshes.Set(key, m)
	return m, nil
}

// Invocations returns how many times actual tessellation ran, as opposed
// to being served from cache.
func (t *Tessellator) Invocations() uint64 {
	return t.invocations.Load()
}

// CacheStats returns a snapshot of the mesh cache statistics.
func (t *Tessellator) CacheStats() cache.Stats {
	return t.meshes.Stats()
}

// TakeEvictedIDs returns and clears the cache identities of meshes
// evicted since the previous call. Holders of GPU resources keyed by
// mesh identity use this to release resources for meshes that can never
// be served from cache again.
func (t *Tessellator) TakeEvictedIDs() []CacheID {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.evicted
	t.evicted = nil
	return ids
}

// ClearCache drops all cached meshes. Subsequent Tessellate calls
// re-tessellate from scratch and produce equivalent meshes under fresh
// identities.
func (t *Tessellator) ClearCache() {
	t.meshes.Clear()
}

func (t *Tessellator) build(p Primitive, opts TessellationOptions) (*Mesh, error) {
	switch opts.Mode {
	case ModeFill:
		return t.buildFill(p)
	case ModeStroke:
		return t.buildStroke(p, opts.Stroke)
	}
	return nil, fmt.Errorf("%w: unknown tessellation mode %d", ErrInternalInvariant, opts.Mode)
}

func (t *Tessellator) buildFill(p Primitive) (*Mesh, error) {
	switch s := p.(type) {
	case Circle:
		if s.Radius <= 0 {
			return nil, fmt.Errorf("%w: circle radius %v", ErrDegenerateGeometry, s.Radius)
		}
		return newMesh(fan(circleRing(s, t.tolerance))), nil

	case Ellipse:
		if s.Radii.X <= 0 || s.Radii.Y <= 0 {
			return nil, fmt.Errorf("%w: ellipse radii %vx%v", ErrDegenerateGeometry, s.Radii.X, s.Radii.Y)
		}
		return newMesh(fan(ellipseRing(s, t.tolerance))), nil

	case Rectangle:
		b := s.Bounds()
		if b.Width() <= 0 || b.Height() <= 0 {
			return nil, fmt.Errorf("%w: rectangle %vx%v", ErrDegenerateGeometry, b.Width(), b.Height())
		}
		return newMesh(fan(rectangleRing(b))), nil

	case Polygon:
		if len(s.Points) < 3 {
			return nil, fmt.Errorf("%w: polygon with %d points", ErrDegenerateGeometry, len(s.Points))
		}
		return newMesh(fanPoints(s.Points)), nil

	case Line:
		// A line has no interior.
		return nil, fmt.Errorf("%w: fill of a line", ErrDegenerateGeometry)
	}
	return nil, fmt.Errorf("%w: unknown primitive %T", ErrInternalInvariant, p)
}

func (t *Tessellator) buildStroke(p Primitive, so StrokeOptions) (*Mesh, error) {
	outline, closed, err := t.outline(p)
	if err != nil {
		return nil, err
	}

	sm, err := stroke.Expand(outline, closed, stroke.Options{
		Width:      so.Width,
		Cap:        stroke.Cap(so.Cap),
		Join:       stroke.Join(so.Join),
		MiterLimit: so.MiterLimit,
		Tolerance:  t.tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}

	vertices := make([]Vertex, len(sm.Vertices))
	for i, v := range sm.Vertices {
		vertices[i] = Vertex{X: v.X, Y: v.Y}
	}
	return newMesh(vertices, sm.Indices), nil
}

// outline flattens a primitive's boundary into a polyline for stroke
// expansion.
func (t *Tessellator) outline(p Primitive) ([]stroke.Point, bool, error) {
	switch s := p.(type) {
	case Circle:
		if s.Radius <= 0 {
			return nil, false, fmt.Errorf("%w: circle radius %v", ErrDegenerateGeometry, s.Radius)
		}
		return toStrokePoints(circleRing(s, t.tolerance)), true, nil

	case Ellipse:
		if s.Radii.X <= 0 || s.Radii.Y <= 0 {
			return nil, false, fmt.Errorf("%w: ellipse radii %vx%v", ErrDegenerateGeometry, s.Radii.X, s.Radii.Y)
		}
		return toStrokePoints(ellipseRing(s, t.tolerance)), true, nil

	case Rectangle:
		b := s.Bounds()
		if b.Width() <= 0 || b.Height() <= 0 {
			return nil, false, fmt.Errorf("%w: rectangle %vx%v", ErrDegenerateGeometry, b.Width(), b.Height())
		}
		return toStrokePoints(rectangleRing(b)), true, nil

	case Polygon:
		if len(s.Points) < 3 {
			return nil, false, fmt.Errorf("%w: polygon with %d points", ErrDegenerateGeometry, len(s.Points))
		}
		pts := make([]stroke.Point, len(s.Points))
		for i, q := range s.Points {
			pts[i] = stroke.Point{X: q.X, Y: q.Y}
		}
		return pts, true, nil

	case Line:
		if s.A == s.B {
			return nil, false, fmt.Errorf("%w: line with coincident endpoints", ErrDegenerateGeometry)
		}
		return []stroke.Point{{X: s.A.X, Y: s.A.Y}, {X: s.B.X, Y: s.B.Y}}, false, nil
	}
	return nil, false, fmt.Errorf("%w: unknown primitive %T", ErrInternalInvariant, p)
}

// arcSegments derives the segment count for a full revolution of the given
// radius so chord deviation stays under the tolerance.
func arcSegments(radius, tolerance float32) int {
	if tolerance >= radius {
		return minArcSegments
	}
	theta := 2 * math32.Acos(1-tolerance/radius)
	segments := int(math32.Ceil(2 * math32.Pi / theta))
	if segments < minArcSegments {
		segments = minArcSegments
	}
	return segments
}

// circleRing returns the circle's boundary as a closed ring of vertices.
func circleRing(c Circle, tolerance float32) []Vertex {
	segments := arcSegments(c.Radius, tolerance)
	ring := make([]Vertex, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		ring[i] = Vertex{
			X: c.Center.X + c.Radius*math32.Cos(angle),
			Y: c.Center.Y + c.Radius*math32.Sin(angle),
		}
	}
	return ring
}

// ellipseRing returns the ellipse's boundary as a closed ring of vertices,
// rotated by the ellipse's rotation.
func ellipseRing(e Ellipse, tolerance float32) []Vertex {
	segments := arcSegments(math32.Max(e.Radii.X, e.Radii.Y), tolerance)
	rad := e.Rotation * (math32.Pi / 180)
	cos := math32.Cos(rad)
	sin := math32.Sin(rad)
	ring := make([]Vertex, segments)
	for i := 0; i < segments; i++ {
		angle := 2 * math32.Pi * float32(i) / float32(segments)
		x := e.Radii.X * math32.Cos(angle)
		y := e.Radii.Y * math32.Sin(angle)
		ring[i] = Vertex{
			X: e.Center.X + x*cos - y*sin,
			Y: e.Center.Y + x*sin + y*cos,
		}
	}
	return ring
}

// rectangleRing returns the rectangle's corners in counter-clockwise order.
func rectangleRing(b Rect) []Vertex {
	return []Vertex{
		{X: b.MinX, Y: b.MinY},
		{X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY},
		{X: b.MinX, Y: b.MaxY},
	}
}

// fan triangulates a convex ring as a triangle fan anchored at the first
// vertex.
func fan(ring []Vertex) ([]Vertex, []uint32) {
	indices := make([]uint32, 0, (len(ring)-2)*3)
	for i := 1; i < len(ring)-1; i++ {
		indices = append(indices, 0, uint32(i), uint32(i+1))
	}
	return ring, indices
}

// fanPoints triangulates a convex polygon's points as a triangle fan.
// Concave outlines produce incorrect coverage; convexity is the caller's
// contract.
func fanPoints(points []Point) ([]Vertex, []uint32) {
	ring := make([]Vertex, len(points))
	for i, p := range points {
		ring[i] = Vertex{X: p.X, Y: p.Y}
	}
	return fan(ring)
}

func toStrokePoints(ring []Vertex) []stroke.Point {
	pts := make([]stroke.Point, len(ring))
	for i, v := range ring {
		pts[i] = stroke.Point{X: v.X, Y: v.Y}
	}
	return pts
}

func newMesh(vertices []Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		id:       NewCacheID(),
		fp:       NewFingerprint(),
	}
}

// validateMesh guards against mesh-builder bugs before a mesh enters the
// cache: all indices must address an existing vertex and the index count
// must form whole triangles.
func validateMesh(m *Mesh) error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d not a multiple of 3", ErrInternalInvariant, len(m.Indices))
	}
	for _, i := range m.Indices {
		if int(i) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d out of range (%d vertices)", ErrInternalInvariant, i, len(m.Vertices))
		}
	}
	return nil
}
