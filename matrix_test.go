package vgr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixIdentity(t *testing.T) {
	m := Identity()
	assert.True(t, m.IsIdentity())

	p := m.TransformPoint(Point{X: 3, Y: -7})
	assert.Equal(t, Point{X: 3, Y: -7}, p)
}

func TestMatrixTranslateScale(t *testing.T) {
	p := Translate(10, 20).TransformPoint(Point{X: 1, Y: 2})
	assert.Equal(t, Point{X: 11, Y: 22}, p)

	p = Scale(2, 3).TransformPoint(Point{X: 1, Y: 2})
	assert.Equal(t, Point{X: 2, Y: 6}, p)
}

func TestMatrixRotateQuarterTurn(t *testing.T) {
	p := Rotate(math.Pi / 2).TransformPoint(Point{X: 1, Y: 0})
	assert.InDelta(t, 0, p.X, 1e-6)
	assert.InDelta(t, 1, p.Y, 1e-6)
}

func TestMatrixMultiplyAppliesRightFirst(t *testing.T) {
	// Translate then scale is not scale then translate.
	m := Scale(2, 2).Multiply(Translate(10, 0))
	p := m.TransformPoint(Point{X: 1, Y: 1})
	assert.Equal(t, Point{X: 22, Y: 2}, p)

	m = Translate(10, 0).Multiply(Scale(2, 2))
	p = m.TransformPoint(Point{X: 1, Y: 1})
	assert.Equal(t, Point{X: 12, Y: 2}, p)
}

func TestNDCProjectionCorners(t *testing.T) {
	m := NDCProjection(800, 600)

	tl := m.TransformPoint(Point{X: 0, Y: 0})
	assert.InDelta(t, -1, tl.X, 1e-6)
	assert.InDelta(t, 1, tl.Y, 1e-6)

	br := m.TransformPoint(Point{X: 800, Y: 600})
	assert.InDelta(t, 1, br.X, 1e-6)
	assert.InDelta(t, -1, br.Y, 1e-6)

	center := m.TransformPoint(Point{X: 400, Y: 300})
	assert.InDelta(t, 0, center.X, 1e-6)
	assert.InDelta(t, 0, center.Y, 1e-6)
}
