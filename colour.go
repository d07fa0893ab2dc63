package vgr

import (
	"encoding/binary"
	"math"
)

// Colour is an RGBA color with 32-bit float components in the current color
// space. Cache identity uses the component bit patterns, so NaN and denormal
// payloads are distinguished rather than numerically compared.
type Colour struct {
	// R is the red component.
	R float32
	// G is the green component.
	G float32
	// B is the blue component.
	B float32
	// A is the alpha component.
	A float32
}

// NewColour creates a colour from its components.
func NewColour(r, g, b, a float32) Colour {
	return Colour{R: r, G: g, B: b, A: a}
}

// appendBytes appends the colour as 4 packed little-endian float32 values,
// the layout the color fragment shader expects.
func (c Colour) appendBytes(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c.R))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c.G))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c.B))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c.A))
	return buf
}
