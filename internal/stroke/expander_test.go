package stroke

import (
	"errors"
	"testing"
)

func bounds(m Mesh) (minX, minY, maxX, maxY float32) {
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

func approx(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}

func TestExpandDegenerate(t *testing.T) {
	line := []Point{{0, 0}, {10, 0}}

	if _, err := Expand(line, false, Options{Width: 0}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("zero width: err = %v, want ErrDegenerate", err)
	}
	if _, err := Expand(line, false, Options{Width: -2}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("negative width: err = %v, want ErrDegenerate", err)
	}
	if _, err := Expand([]Point{{5, 5}}, false, Options{Width: 2}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("single point: err = %v, want ErrDegenerate", err)
	}
	if _, err := Expand([]Point{{5, 5}, {5, 5}, {5, 5}}, false, Options{Width: 2}); !errors.Is(err, ErrDegenerate) {
		t.Errorf("coincident points: err = %v, want ErrDegenerate", err)
	}
}

func TestExpandButtLine(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {10, 0}}, false, Options{Width: 2})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(m.Vertices) != 4 {
		t.Errorf("len(Vertices) = %d, want 4", len(m.Vertices))
	}
	if len(m.Indices) != 6 {
		t.Errorf("len(Indices) = %d, want 6", len(m.Indices))
	}

	minX, minY, maxX, maxY := bounds(m)
	if !approx(minX, 0) || !approx(maxX, 10) || !approx(minY, -1) || !approx(maxY, 1) {
		t.Errorf("bounds = (%v,%v)-(%v,%v), want (0,-1)-(10,1)", minX, minY, maxX, maxY)
	}
}

func TestExpandSquareCap(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {10, 0}}, false, Options{Width: 2, Cap: CapSquare})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	// Square caps extend half the width past each endpoint.
	minX, minY, maxX, maxY := bounds(m)
	if !approx(minX, -1) || !approx(maxX, 11) || !approx(minY, -1) || !approx(maxY, 1) {
		t.Errorf("bounds = (%v,%v)-(%v,%v), want (-1,-1)-(11,1)", minX, minY, maxX, maxY)
	}
}

func TestExpandRoundCap(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {10, 0}}, false, Options{Width: 2, Cap: CapRound})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	minX, _, maxX, _ := bounds(m)
	if !approx(minX, -1) || !approx(maxX, 11) {
		t.Errorf("bounds X = %v..%v, want -1..11", minX, maxX)
	}
	if len(m.Vertices) <= 4 {
		t.Errorf("round caps produced no extra vertices: %d", len(m.Vertices))
	}

	// Each cap's apex, half a width beyond the endpoint, must be an
	// exact vertex regardless of the tolerance-derived arc step count.
	foundStart, foundEnd := false, false
	for _, v := range m.Vertices {
		if approx(v.X, -1) && approx(v.Y, 0) {
			foundStart = true
		}
		if approx(v.X, 11) && approx(v.Y, 0) {
			foundEnd = true
		}
	}
	if !foundStart || !foundEnd {
		t.Errorf("cap apex vertices missing: start=%v end=%v", foundStart, foundEnd)
	}
}

func TestExpandMiterJoin(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {10, 0}, {10, 10}}, false, Options{Width: 2, Join: JoinMiter})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	// The outer corner of a 90 degree turn miters out to (11, -1).
	found := false
	for _, v := range m.Vertices {
		if approx(v.X, 11) && approx(v.Y, -1) {
			found = true
			break
		}
	}
	if !found {
		t.Error("miter tip (11,-1) not found in vertices")
	}
}

func TestExpandMiterLimitFallsBack(t *testing.T) {
	// Near-reversal: the miter tip would shoot far out, so the limit
	// forces a bevel.
	pts := []Point{{0, 0}, {10, 0}, {0, 0.5}}
	m, err := Expand(pts, false, Options{Width: 2, Join: JoinMiter, MiterLimit: 2})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	_, _, maxX, _ := bounds(m)
	if maxX > 12 {
		t.Errorf("maxX = %v, expected bevel fallback to stay near 11", maxX)
	}
}

func TestExpandBevelJoinCounts(t *testing.T) {
	// Closed square: 4 segment quads plus 4 bevel triangles.
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	m, err := Expand(pts, true, Options{Width: 2, Join: JoinBevel})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if want := 4*6 + 4*3; len(m.Indices) != want {
		t.Errorf("len(Indices) = %d, want %d", len(m.Indices), want)
	}
	if want := 4*4 + 4*3; len(m.Vertices) != want {
		t.Errorf("len(Vertices) = %d, want %d", len(m.Vertices), want)
	}
}

func TestExpandClosedHasNoCaps(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	m, err := Expand(pts, true, Options{Width: 2, Join: JoinBevel})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	// All geometry stays within one half-width of the outline.
	minX, minY, maxX, maxY := bounds(m)
	if minX < -1.0001 || minY < -1.0001 || maxX > 11.0001 || maxY > 11.0001 {
		t.Errorf("bounds = (%v,%v)-(%v,%v), want within (-1,-1)-(11,11)", minX, minY, maxX, maxY)
	}
}

func TestExpandCollinearSkipsJoin(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {5, 0}, {10, 0}}, false, Options{Width: 2, Join: JoinMiter})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	// Two quads, no join geometry.
	if len(m.Indices) != 12 {
		t.Errorf("len(Indices) = %d, want 12", len(m.Indices))
	}
}

func TestExpandDedupsCoincidentPoints(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {0, 0}, {10, 0}, {10, 0}}, false, Options{Width: 2})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(m.Vertices) != 4 {
		t.Errorf("len(Vertices) = %d, want 4", len(m.Vertices))
	}
}

func TestExpandRoundJoinStaysWithinRadius(t *testing.T) {
	m, err := Expand([]Point{{0, 0}, {10, 0}, {10, 10}}, false, Options{Width: 2, Join: JoinRound})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	// Round join at (10,0) must stay within the half-width circle.
	for _, v := range m.Vertices {
		dx, dy := v.X-10, v.Y
		if dx > 0 && dy < 0 {
			if d := dx*dx + dy*dy; d > 1.0001 {
				t.Errorf("vertex (%v,%v) outside join radius", v.X, v.Y)
			}
		}
	}
}

func TestExpandDeterministic(t *testing.T) {
	pts := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	opts := Options{Width: 3, Join: JoinRound, Cap: CapRound}

	m1, err := Expand(pts, false, opts)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	m2, err := Expand(pts, false, opts)
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}

	if len(m1.Vertices) != len(m2.Vertices) || len(m1.Indices) != len(m2.Indices) {
		t.Fatal("repeated expansion produced different sizes")
	}
	for i := range m1.Vertices {
		if m1.Vertices[i] != m2.Vertices[i] {
			t.Fatalf("vertex %d differs: %v vs %v", i, m1.Vertices[i], m2.Vertices[i])
		}
	}
}
