// Package stroke expands stroked polylines into triangle meshes.
//
// The expander walks a polyline segment by segment. Each segment
// contributes a quad (two triangles) offset by half the stroke width
// on each side. Interior vertices get join geometry on the outer side
// of the turn (miter, bevel or round), and open polylines get cap
// geometry at both endpoints (butt, square or round).
//
// Round joins and caps are approximated with triangle fans whose
// segment count is derived from the flattening tolerance, so thin
// strokes stay cheap and thick strokes stay smooth.
//
// The package has its own Point type rather than importing the parent
// module to keep it free of import cycles.
package stroke
