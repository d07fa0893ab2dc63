package vgr

import (
	"encoding/binary"
	"math"
)

// TessellationMode selects between filling a shape's interior and expanding
// its outline into a stroked band.
type TessellationMode uint8

const (
	// ModeFill triangulates the shape's interior.
	ModeFill TessellationMode = iota
	// ModeStroke expands the shape's outline by the stroke width.
	ModeStroke
)

// LineCap specifies the shape of stroke endpoints on open paths.
type LineCap uint8

const (
	// CapButt ends the stroke flat at the endpoint.
	CapButt LineCap = iota
	// CapSquare extends the stroke past the endpoint by half its width.
	CapSquare
	// CapRound ends the stroke with a semicircle.
	CapRound
)

// LineJoin specifies how stroke segments connect at corners.
type LineJoin uint8

const (
	// JoinMiter extends the outer edges to a sharp point, falling back to
	// bevel past the miter limit.
	JoinMiter LineJoin = iota
	// JoinBevel connects the outer edges with a single triangle.
	JoinBevel
	// JoinRound connects the outer edges with an arc.
	JoinRound
)

// DefaultMiterLimit is the ratio of miter length to stroke width above
// which a miter join falls back to a bevel.
const DefaultMiterLimit float32 = 4

// StrokeOptions describe the stroke expansion policy.
type StrokeOptions struct {
	Width      float32
	Cap        LineCap
	Join       LineJoin
	MiterLimit float32
}

// TessellationOptions selects fill or stroke tessellation for a primitive.
// Structural equality of the options (bit patterns included) is part of the
// mesh cache key. The zero value is plain fill.
type TessellationOptions struct {
	Mode   TessellationMode
	Stroke StrokeOptions
}

// Fill returns options that triangulate the shape's interior.
func Fill() TessellationOptions {
	return TessellationOptions{Mode: ModeFill}
}

// SimpleLine returns stroke options with the given width and the default
// policy: miter joins, butt caps.
func SimpleLine(width float32) TessellationOptions {
	return TessellationOptions{
		Mode: ModeStroke,
		Stroke: StrokeOptions{
			Width:      width,
			Cap:        CapButt,
			Join:       JoinMiter,
			MiterLimit: DefaultMiterLimit,
		},
	}
}

// appendKey appends the options' exact encoding to a mesh cache key.
func (o TessellationOptions) appendKey(buf []byte) []byte {
	buf = append(buf, byte(o.Mode))
	if o.Mode == ModeStroke {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(o.Stroke.Width))
		buf = append(buf, byte(o.Stroke.Cap), byte(o.Stroke.Join))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(o.Stroke.MiterLimit))
	}
	return buf
}
