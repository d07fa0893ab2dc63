package gpu

// Resource IDs
//
// These opaque IDs represent GPU resources. Each backend adapter maintains
// a mapping between IDs and actual backend resources. IDs are uint64 to
// accommodate various backend handle sizes.

// BufferID is an opaque handle to a GPU buffer.
type BufferID uint64

// TextureID is an opaque handle to a GPU texture.
type TextureID uint64

// SamplerID is an opaque handle to a texture sampler.
type SamplerID uint64

// ShaderModuleID is an opaque handle to a compiled shader module.
type ShaderModuleID uint64

// BindGroupLayoutID is an opaque handle to a bind group layout.
type BindGroupLayoutID uint64

// BindGroupID is an opaque handle to a bind group.
type BindGroupID uint64

// PipelineLayoutID is an opaque handle to a pipeline layout.
type PipelineLayoutID uint64

// RenderPipelineID is an opaque handle to a render pipeline.
type RenderPipelineID uint64

// InvalidID is the zero value, representing an invalid/null resource.
const InvalidID = 0

// BufferUsage is a bitmask specifying how a buffer will be used.
type BufferUsage uint32

// Buffer usage flags.
const (
	// BufferUsageCopySrc indicates the buffer can be used as a copy source.
	BufferUsageCopySrc BufferUsage = 1 << 0

	// BufferUsageCopyDst indicates the buffer can be used as a copy destination.
	BufferUsageCopyDst BufferUsage = 1 << 1

	// BufferUsageIndex indicates the buffer can be used as an index buffer.
	BufferUsageIndex BufferUsage = 1 << 2

	// BufferUsageVertex indicates the buffer can be used as a vertex buffer.
	BufferUsageVertex BufferUsage = 1 << 3

	// BufferUsageUniform indicates the buffer can be used as a uniform buffer.
	BufferUsageUniform BufferUsage = 1 << 4
)

// TextureFormat specifies the format of texture data.
type TextureFormat uint32

// Texture formats.
const (
	// TextureFormatRGBA8Unorm is 8-bit RGBA, normalized unsigned integer.
	TextureFormatRGBA8Unorm TextureFormat = iota + 1

	// TextureFormatRGBA8UnormSRGB is 8-bit RGBA in sRGB color space.
	TextureFormatRGBA8UnormSRGB

	// TextureFormatBGRA8Unorm is 8-bit BGRA, normalized unsigned integer.
	TextureFormatBGRA8Unorm

	// TextureFormatBGRA8UnormSRGB is 8-bit BGRA in sRGB color space.
	TextureFormatBGRA8UnormSRGB
)

// IndexFormat specifies the width of index buffer elements.
type IndexFormat uint32

// Index formats.
const (
	// IndexFormatUint16 is 16-bit indices.
	IndexFormatUint16 IndexFormat = iota + 1

	// IndexFormatUint32 is 32-bit indices.
	IndexFormatUint32
)

// ShaderStage is a bitmask of pipeline stages a binding is visible to.
type ShaderStage uint32

// Shader stages.
const (
	// ShaderStageVertex makes a binding visible to the vertex stage.
	ShaderStageVertex ShaderStage = 1 << 0

	// ShaderStageFragment makes a binding visible to the fragment stage.
	ShaderStageFragment ShaderStage = 1 << 1
)

// BindingType specifies the type of a shader binding.
type BindingType uint32

// Binding types.
const (
	// BindingTypeUniformBuffer is a uniform buffer binding.
	BindingTypeUniformBuffer BindingType = iota + 1

	// BindingTypeSampler is a texture sampler binding.
	BindingTypeSampler

	// BindingTypeSampledTexture is a sampled texture binding.
	BindingTypeSampledTexture
)

// FilterMode specifies texture sampling interpolation.
type FilterMode uint32

// Filter modes.
const (
	// FilterNearest samples the nearest texel.
	FilterNearest FilterMode = iota + 1

	// FilterLinear interpolates between texels.
	FilterLinear
)

// AddressMode specifies sampling behavior outside [0, 1] coordinates.
type AddressMode uint32

// Address modes.
const (
	// AddressClampToEdge clamps coordinates to the texture edge.
	AddressClampToEdge AddressMode = iota + 1

	// AddressRepeat wraps coordinates.
	AddressRepeat
)

// SamplerDesc describes a texture sampler.
type SamplerDesc struct {
	// Label is an optional debug label.
	Label string

	// MagFilter is the magnification filter.
	MagFilter FilterMode

	// MinFilter is the minification filter.
	MinFilter FilterMode

	// AddressModeU is the addressing mode along U.
	AddressModeU AddressMode

	// AddressModeV is the addressing mode along V.
	AddressModeV AddressMode
}

// BindGroupLayoutDesc describes a bind group layout.
type BindGroupLayoutDesc struct {
	// Label is an optional debug label.
	Label string

	// Entries defines the bindings in this layout.
	Entries []BindGroupLayoutEntry
}

// BindGroupLayoutEntry describes a single binding in a bind group layout.
type BindGroupLayoutEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Type is the type of resource bound at this index.
	Type BindingType

	// Visibility is the set of shader stages that can see the binding.
	Visibility ShaderStage

	// MinBindingSize is the minimum buffer size for buffer bindings.
	// Set to 0 for non-buffer bindings.
	MinBindingSize uint64
}

// BindGroupEntry describes a single binding in a bind group.
type BindGroupEntry struct {
	// Binding is the binding index.
	Binding uint32

	// Buffer is the buffer to bind (for buffer bindings).
	Buffer BufferID

	// Offset is the offset into the buffer.
	Offset uint64

	// Size is the size of the buffer range to bind.
	// Use 0 to bind the entire buffer from offset.
	Size uint64

	// Texture is the texture to bind (for texture bindings).
	Texture TextureID

	// Sampler is the sampler to bind (for sampler bindings).
	Sampler SamplerID
}

// VertexFormat specifies the type of a vertex attribute.
type VertexFormat uint32

// Vertex formats.
const (
	// VertexFormatFloat32x2 is two 32-bit floats.
	VertexFormatFloat32x2 VertexFormat = iota + 1

	// VertexFormatFloat32x4 is four 32-bit floats.
	VertexFormatFloat32x4
)

// VertexAttribute describes one attribute within a vertex buffer.
type VertexAttribute struct {
	// Format is the attribute's data type.
	Format VertexFormat

	// Offset is the byte offset within the vertex.
	Offset uint64

	// ShaderLocation is the @location index in the vertex shader.
	ShaderLocation uint32
}

// RenderPipelineDesc describes a render pipeline.
type RenderPipelineDesc struct {
	// Label is an optional debug label.
	Label string

	// Layout is the pipeline layout.
	Layout PipelineLayoutID

	// VertexShader contains the vertex stage.
	VertexShader ShaderModuleID

	// VertexEntryPoint is the vertex shader entry function name.
	VertexEntryPoint string

	// FragmentShader contains the fragment stage.
	FragmentShader ShaderModuleID

	// FragmentEntryPoint is the fragment shader entry function name.
	FragmentEntryPoint string

	// VertexStride is the byte stride between vertices.
	VertexStride uint64

	// VertexAttributes describe the vertex buffer layout.
	VertexAttributes []VertexAttribute

	// TargetFormat is the color attachment format the pipeline renders to.
	TargetFormat TextureFormat

	// AlphaBlend enables standard source-over alpha blending.
	AlphaBlend bool
}
