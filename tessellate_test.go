package vgr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meshBounds(m *Mesh) (minX, minY, maxX, maxY float32) {
	minX, minY = m.Vertices[0].X, m.Vertices[0].Y
	maxX, maxY = minX, minY
	for _, v := range m.Vertices {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return
}

func TestTessellateCircleCached(t *testing.T) {
	ts := NewTessellator(0, 0)
	c := Circle{Center: Pt(0, 0), Radius: 100}

	m1, err := ts.Tessellate(c, Fill())
	require.NoError(t, err)
	m2, err := ts.Tessellate(c, Fill())
	require.NoError(t, err)

	assert.Same(t, m1, m2, "identical input must hit the cache")
	assert.Equal(t, uint64(1), ts.Invocations(), "second call must not tessellate")
}

func TestTessellateDistinctOptionsDistinctEntries(t *testing.T) {
	ts := NewTessellator(0, 0)
	c := Circle{Center: Pt(0, 0), Radius: 10}

	fill, err := ts.Tessellate(c, Fill())
	require.NoError(t, err)
	stroked, err := ts.Tessellate(c, SimpleLine(2))
	require.NoError(t, err)

	assert.NotSame(t, fill, stroked)
	assert.Equal(t, uint64(2), ts.Invocations())
}

func TestTessellateLastBitDistinct(t *testing.T) {
	ts := NewTessellator(0, 0)

	_, err := ts.Tessellate(Circle{Center: Pt(0, 0), Radius: 10}, Fill())
	require.NoError(t, err)
	_, err = ts.Tessellate(Circle{Center: Pt(0, 0), Radius: 10.000001}, Fill())
	require.NoError(t, err)

	assert.Equal(t, uint64(2), ts.Invocations(), "bit-distinct radii are distinct cache entries")
}

func TestTessellateDegenerate(t *testing.T) {
	ts := NewTessellator(0, 0)

	cases := []struct {
		name string
		p    Primitive
		opts TessellationOptions
	}{
		{"zero radius circle", Circle{Center: Pt(5, 5), Radius: 0}, Fill()},
		{"negative radius circle", Circle{Center: Pt(5, 5), Radius: -1}, Fill()},
		{"zero radii ellipse", Ellipse{Center: Pt(0, 0), Radii: Vec(0, 5)}, Fill()},
		{"zero area rectangle", Rectangle{A: Pt(1, 1), B: Pt(1, 9)}, Fill()},
		{"two point polygon", Polygon{Points: []Point{Pt(0, 0), Pt(1, 1)}}, Fill()},
		{"line fill", Line{A: Pt(0, 0), B: Pt(10, 0)}, Fill()},
		{"coincident line stroke", Line{A: Pt(3, 3), B: Pt(3, 3)}, SimpleLine(2)},
		{"zero width stroke", Line{A: Pt(0, 0), B: Pt(10, 0)}, SimpleLine(0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ts.Tessellate(tc.p, tc.opts)
			assert.ErrorIs(t, err, ErrDegenerateGeometry)
		})
	}
}

func TestTessellateDegenerateNotCached(t *testing.T) {
	ts := NewTessellator(0, 0)
	c := Circle{Center: Pt(0, 0), Radius: 0}

	_, err := ts.Tessellate(c, Fill())
	require.Error(t, err)
	_, err = ts.Tessellate(c, Fill())
	require.Error(t, err)

	assert.Equal(t, 0, ts.CacheStats().Len)
}

func TestTessellateRectangle(t *testing.T) {
	ts := NewTessellator(0, 0)
	m, err := ts.Tessellate(Rectangle{A: Pt(10, 30), B: Pt(2, 5)}, Fill())
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)

	minX, minY, maxX, maxY := meshBounds(m)
	assert.InDelta(t, 2, minX, 1e-4)
	assert.InDelta(t, 5, minY, 1e-4)
	assert.InDelta(t, 10, maxX, 1e-4)
	assert.InDelta(t, 30, maxY, 1e-4)
}

func TestTessellatePolygonFan(t *testing.T) {
	ts := NewTessellator(0, 0)
	pentagon := Polygon{Points: []Point{
		Pt(0, -10), Pt(9.5, -3), Pt(5.9, 8), Pt(-5.9, 8), Pt(-9.5, -3),
	}}
	m, err := ts.Tessellate(pentagon, Fill())
	require.NoError(t, err)

	assert.Len(t, m.Vertices, 5)
	assert.Len(t, m.Indices, 3*3, "n-gon fan emits n-2 triangles")
}

func TestTessellateCircleSegments(t *testing.T) {
	ts := NewTessellator(0, 0)

	tiny, err := ts.Tessellate(Circle{Center: Pt(0, 0), Radius: 0.1}, Fill())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(tiny.Vertices), minArcSegments)

	big, err := ts.Tessellate(Circle{Center: Pt(0, 0), Radius: 500}, Fill())
	require.NoError(t, err)
	assert.Greater(t, len(big.Vertices), len(tiny.Vertices),
		"larger radius needs more segments at equal tolerance")

	minX, minY, maxX, maxY := meshBounds(big)
	assert.InDelta(t, -500, minX, 1)
	assert.InDelta(t, -500, minY, 1)
	assert.InDelta(t, 500, maxX, 1)
	assert.InDelta(t, 500, maxY, 1)
}

func TestTessellateEllipseRotation(t *testing.T) {
	ts := NewTessellator(0, 0)
	e := Ellipse{Center: Pt(0, 0), Radii: Vec(10, 2), Rotation: 90}
	m, err := ts.Tessellate(e, Fill())
	require.NoError(t, err)

	// Rotated 90 degrees, the long axis lies along Y.
	minX, minY, maxX, maxY := meshBounds(m)
	assert.InDelta(t, -2, minX, 0.25)
	assert.InDelta(t, 2, maxX, 0.25)
	assert.InDelta(t, -10, minY, 0.25)
	assert.InDelta(t, 10, maxY, 0.25)
}

func TestTessellateLineStroke(t *testing.T) {
	ts := NewTessellator(0, 0)
	m, err := ts.Tessellate(Line{A: Pt(0, 0), B: Pt(10, 0)}, SimpleLine(4))
	require.NoError(t, err)

	minX, minY, maxX, maxY := meshBounds(m)
	assert.InDelta(t, 0, minX, 1e-4)
	assert.InDelta(t, 10, maxX, 1e-4)
	assert.InDelta(t, -2, minY, 1e-4)
	assert.InDelta(t, 2, maxY, 1e-4)
}

func TestTessellateStrokeCircleBand(t *testing.T) {
	ts := NewTessellator(0, 0)
	opts := TessellationOptions{
		Mode:   ModeStroke,
		Stroke: StrokeOptions{Width: 4, Join: JoinRound, MiterLimit: DefaultMiterLimit},
	}
	m, err := ts.Tessellate(Circle{Center: Pt(0, 0), Radius: 50}, opts)
	require.NoError(t, err)

	minX, minY, maxX, maxY := meshBounds(m)
	assert.InDelta(t, -52, minX, 0.2)
	assert.InDelta(t, -52, minY, 0.2)
	assert.InDelta(t, 52, maxX, 0.2)
	assert.InDelta(t, 52, maxY, 0.2)
}

func TestTessellateClearCacheRebuildsEquivalentMesh(t *testing.T) {
	ts := NewTessellator(0, 0)
	c := Circle{Center: Pt(3, 4), Radius: 25}

	m1, err := ts.Tessellate(c, Fill())
	require.NoError(t, err)

	ts.ClearCache()

	m2, err := ts.Tessellate(c, Fill())
	require.NoError(t, err)

	assert.NotSame(t, m1, m2)
	assert.NotEqual(t, m1.CacheID(), m2.CacheID())
	require.Equal(t, len(m1.Vertices), len(m2.Vertices))
	assert.Equal(t, m1.Vertices, m2.Vertices, "rebuilt mesh must be bit-identical")
	assert.Equal(t, m1.Indices, m2.Indices)
}

func TestTessellateCacheLimit(t *testing.T) {
	ts := NewTessellator(4, 0)
	for i := 0; i < 16; i++ {
		_, err := ts.Tessellate(Circle{Center: Pt(float32(i), 0), Radius: 5}, Fill())
		require.NoError(t, err)
	}
	assert.LessOrEqual(t, ts.CacheStats().Len, 4)
	assert.Greater(t, ts.CacheStats().Evictions, uint64(0))
}

func TestTessellateUnknownPrimitive(t *testing.T) {
	ts := NewTessellator(0, 0)
	_, err := ts.Tessellate(bogusPrimitive{}, Fill())
	assert.ErrorIs(t, err, ErrInternalInvariant)
}

type bogusPrimitive struct{}

func (bogusPrimitive) Bounds() Rect { return Rect{} }
func (bogusPrimitive) isPrimitive() {}

func BenchmarkTessellateCacheHit(b *testing.B) {
	ts := NewTessellator(0, 0)
	c := Circle{Center: Pt(0, 0), Radius: 100}
	if _, err := ts.Tessellate(c, Fill()); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ts.Tessellate(c, Fill()); err != nil {
			b.Fatal(err)
		}
	}
}
