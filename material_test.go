package vgr

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialUniformSizesMatchEncoding(t *testing.T) {
	tex, err := NewRawTexture(make([]byte, 8*8*4), 8, 8)
	require.NoError(t, err)

	materials := []Material{
		ColorMaterial{Colour: NewColour(1, 0, 0, 1)},
		TextureMaterial{Texture: tex, Stretch: StretchFit},
		GradientMaterial{
			Kind: GradientLinear,
			Stops: []GradientStop{
				{Offset: 0, Colour: NewColour(0, 0, 0, 1)},
				{Offset: 1, Colour: NewColour(1, 1, 1, 1)},
			},
		},
	}
	for _, m := range materials {
		buf, err := m.UniformBytes()
		require.NoError(t, err, m.Type().Name())
		assert.Len(t, buf, m.Type().UniformSize(), m.Type().Name())
	}
}

func TestColorMaterialEncoding(t *testing.T) {
	buf, err := ColorMaterial{Colour: NewColour(0.25, 0.5, 0.75, 1)}.UniformBytes()
	require.NoError(t, err)
	require.Len(t, buf, 16)

	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(0.75), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])))
}

func TestTextureMaterialEncodesStretchAndSize(t *testing.T) {
	tex := NewImageTexture(image.NewRGBA(image.Rect(0, 0, 64, 32)))
	buf, err := TextureMaterial{Texture: tex, Stretch: StretchExactCenter}.UniformBytes()
	require.NoError(t, err)
	require.Len(t, buf, textureUniformSize)

	assert.Equal(t, uint32(StretchExactCenter), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(StretchExactCenter), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, float32(64), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
	assert.Equal(t, float32(32), math.Float32frombits(binary.LittleEndian.Uint32(buf[12:])))
}

func TestGradientMaterialEncoding(t *testing.T) {
	m := GradientMaterial{
		Kind: GradientRadial,
		Stops: []GradientStop{
			{Offset: 0, Colour: NewColour(1, 0, 0, 1)},
			{Offset: 0.5, Colour: NewColour(0, 1, 0, 1)},
			{Offset: 1, Colour: NewColour(0, 0, 1, 1)},
		},
		Repeat:   RepeatLength,
		Length:   128,
		Rotation: 90,
	}
	buf, err := m.UniformBytes()
	require.NoError(t, err)
	require.Len(t, buf, gradientUniformSize)

	assert.Equal(t, uint32(GradientRadial), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[4:]))
	assert.Equal(t, uint32(RepeatLength), binary.LittleEndian.Uint32(buf[8:]))
	assert.Equal(t, float32(128), math.Float32frombits(binary.LittleEndian.Uint32(buf[16:])))

	// Rotation is stored in radians.
	rad := math.Float32frombits(binary.LittleEndian.Uint32(buf[20:]))
	assert.InDelta(t, math.Pi/2, rad, 1e-6)

	// Second stop's colour lands in the second vec4 slot.
	green := buf[32+16:]
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(green[4:])))

	// Offsets are packed after the colour array.
	offsets := buf[32+MaxGradientStops*16:]
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(offsets[4:])))

	// Unused stop slots stay zero.
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(offsets[3*4:]))
}

func TestGradientMaterialTooManyStops(t *testing.T) {
	stops := make([]GradientStop, MaxGradientStops+1)
	_, err := GradientMaterial{Kind: GradientConic, Stops: stops}.UniformBytes()
	assert.ErrorIs(t, err, ErrTooManyStops)
}

func TestMaterialTypeNames(t *testing.T) {
	assert.Equal(t, "Color", MaterialColor.Name())
	assert.Equal(t, "Texture", MaterialTexture.Name())
	assert.Equal(t, "Gradient", MaterialGradient.Name())
	assert.Equal(t, "Unknown", MaterialType(99).Name())

	assert.True(t, MaterialTexture.HasTexture())
	assert.False(t, MaterialColor.HasTexture())
	assert.False(t, MaterialGradient.HasTexture())
}
