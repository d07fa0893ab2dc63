package vgr

import (
	"encoding/binary"
	"math"
)

// MaterialType identifies a material variant. All geoms of the same variant
// share one GPU pipeline and differ only in their bound uniform contents.
type MaterialType uint8

const (
	// MaterialColor paints every pixel the same colour.
	MaterialColor MaterialType = iota
	// MaterialTexture samples a texture across the shape.
	MaterialTexture
	// MaterialGradient evaluates a gradient across the shape.
	MaterialGradient
)

// Name returns the material type's name.
func (t MaterialType) Name() string {
	switch t {
	case MaterialColor:
		return "Color"
	case MaterialTexture:
		return "Texture"
	case MaterialGradient:
		return "Gradient"
	}
	return "Unknown"
}

// HasTexture reports whether the material type binds a texture and sampler.
func (t MaterialType) HasTexture() bool {
	return t == MaterialTexture
}

// Uniform payload sizes in bytes. Uniform buffers are allocated at exactly
// these sizes and reused in place across content changes, so each variant's
// encoding is fixed-length.
const (
	colorUniformSize   = 16 // 4 x f32 RGBA
	textureUniformSize = 16 // 2 x u32 size modes + 2 x f32 size values
	// gradientUniformSize is the fixed gradient encoding: a 32-byte header,
	// MaxGradientStops colours (vec4 each) and MaxGradientStops offsets.
	gradientUniformSize = 32 + MaxGradientStops*16 + MaxGradientStops*4
)

// MaxGradientStops is the fixed capacity of the gradient uniform encoding.
// Materials with more stops fail preparation with ErrTooManyStops.
const MaxGradientStops = 8

// UniformSize returns the byte size of the variant's uniform payload.
func (t MaterialType) UniformSize() int {
	switch t {
	case MaterialColor:
		return colorUniformSize
	case MaterialTexture:
		return textureUniformSize
	case MaterialGradient:
		return gradientUniformSize
	}
	return 0
}

// Material defines how a tessellated shape is shaded. It is a closed set of
// variants dispatched by type switch; adding a variant is a controlled,
// exhaustive-match-checked change.
type Material interface {
	// Type returns the material variant.
	Type() MaterialType

	// UniformBytes encodes the per-shape uniform payload. The result is
	// always exactly Type().UniformSize() bytes.
	UniformBytes() ([]byte, error)

	isMaterial()
}

// ColorMaterial paints the shape with a single colour.
type ColorMaterial struct {
	Colour Colour
}

func (ColorMaterial) isMaterial() {}

// Type returns MaterialColor.
func (ColorMaterial) Type() MaterialType { return MaterialColor }

// UniformBytes encodes the colour as 4 packed float32 values.
func (m ColorMaterial) UniformBytes() ([]byte, error) {
	return m.Colour.appendBytes(make([]byte, 0, colorUniformSize)), nil
}

// StretchMode controls how a texture maps onto the shape it fills.
type StretchMode uint8

const (
	// StretchExact uses the texture's pixel extents starting from the
	// shape's top-left corner.
	StretchExact StretchMode = iota
	// StretchExactCenter uses the texture's pixel extents centered on
	// the shape.
	StretchExactCenter
	// StretchFit stretches the texture to fit the shape's bounds.
	StretchFit
)

// u32Repr returns the mode's shader-side encoding.
func (m StretchMode) u32Repr() uint32 { return uint32(m) }

// TextureMaterial samples a texture across the shape. The sampler
// configuration is derived from the stretch mode and is part of the bind
// group, not the texture cache key, so the same texture can be bound with
// different samplers by different materials.
type TextureMaterial struct {
	Texture *Texture
	Stretch StretchMode
}

func (TextureMaterial) isMaterial() {}

// Type returns MaterialTexture.
func (TextureMaterial) Type() MaterialType { return MaterialTexture }

// UniformBytes encodes the stretch mode per axis plus the texture's pixel
// extents.
func (m TextureMaterial) UniformBytes() ([]byte, error) {
	w, h := m.Texture.Size()
	buf := make([]byte, 0, textureUniformSize)
	buf = binary.LittleEndian.AppendUint32(buf, m.Stretch.u32Repr())
	buf = binary.LittleEndian.AppendUint32(buf, m.Stretch.u32Repr())
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(w)))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(h)))
	return buf, nil
}

// GradientKind selects the gradient evaluation function.
type GradientKind uint8

const (
	// GradientLinear interpolates along a rotated axis.
	GradientLinear GradientKind = iota
	// GradientRadial interpolates outward from the shape center.
	GradientRadial
	// GradientConic interpolates by angle around the shape center.
	GradientConic
)

// GradientRepeat controls behavior past the last stop.
type GradientRepeat uint8

const (
	// RepeatNone clamps to the edge colours.
	RepeatNone GradientRepeat = iota
	// RepeatLength repeats the gradient after RepeatLength pixels.
	RepeatLength
)

// GradientStop is a colour at a position within the gradient.
type GradientStop struct {
	// Offset is the position in the gradient, 0.0 to 1.0.
	Offset float32
	// Colour is the colour at this position.
	Colour Colour
}

// GradientMaterial shades the shape with a gradient of up to
// MaxGradientStops colour stops.
type GradientMaterial struct {
	Kind GradientKind
	// Stops must be ordered by ascending offset.
	Stops  []GradientStop
	Repeat GradientRepeat
	// Length is the repeat period in pixels when Repeat is RepeatLength.
	Length float32
	// Rotation is the gradient rotation in degrees.
	Rotation float32
}

func (GradientMaterial) isMaterial() {}

// Type returns MaterialGradient.
func (GradientMaterial) Type() MaterialType { return MaterialGradient }

// UniformBytes encodes the gradient with the fixed-capacity layout:
// header (kind, stop count, repeat mode, repeat length, rotation in radians),
// then MaxGradientStops colours and MaxGradientStops offsets. Unused slots
// are zero-filled.
func (m GradientMaterial) UniformBytes() ([]byte, error) {
	if len(m.Stops) > MaxGradientStops {
		return nil, ErrTooManyStops
	}
	buf := make([]byte, 0, gradientUniformSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Kind))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(m.Stops)))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(m.Repeat))
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(m.Length))
	rad := m.Rotation * (math.Pi / 180)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(rad))
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	for i := 0; i < MaxGradientStops; i++ {
		var c Colour
		if i < len(m.Stops) {
			c = m.Stops[i].Colour
		}
		buf = c.appendBytes(buf)
	}
	for i := 0; i < MaxGradientStops; i++ {
		var off float32
		if i < len(m.Stops) {
			off = m.Stops[i].Offset
		}
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(off))
	}
	return buf, nil
}

// materialTexture returns the texture referenced by a material, or nil.
func materialTexture(m Material) *Texture {
	if tm, ok := m.(TextureMaterial); ok {
		return tm.Texture
	}
	return nil
}
