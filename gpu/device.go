package gpu

// Device is the capability surface the renderer requires from a GPU
// backend. Backend adapters (backend/webgpu, backend/wgpu) translate
// these calls into their native API, keeping the rest of the renderer
// free of backend imports.
//
// All methods return an error rather than panicking on failure.
// Destroy methods are idempotent: destroying an already-destroyed or
// invalid ID is a no-op.
type Device interface {
	// CreateBuffer allocates a GPU buffer of the given byte size.
	CreateBuffer(size uint64, usage BufferUsage) (BufferID, error)

	// WriteBuffer uploads data into a buffer at the given byte offset.
	WriteBuffer(id BufferID, offset uint64, data []byte) error

	// DestroyBuffer releases a buffer.
	DestroyBuffer(id BufferID)

	// CreateTexture allocates a 2D texture of the given pixel dimensions.
	CreateTexture(width, height uint32, format TextureFormat) (TextureID, error)

	// WriteTexture uploads tightly packed RGBA pixel data covering the
	// full texture extent.
	WriteTexture(id TextureID, data []byte) error

	// DestroyTexture releases a texture.
	DestroyTexture(id TextureID)

	// CreateSampler creates a texture sampler.
	CreateSampler(desc SamplerDesc) (SamplerID, error)

	// DestroySampler releases a sampler.
	DestroySampler(id SamplerID)

	// CreateShaderModule compiles WGSL source into a shader module.
	CreateShaderModule(wgsl string, label string) (ShaderModuleID, error)

	// DestroyShaderModule releases a shader module.
	DestroyShaderModule(id ShaderModuleID)

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreatePipelineLayout creates a pipeline layout from bind group layouts.
	CreatePipelineLayout(label string, layouts []BindGroupLayoutID) (PipelineLayoutID, error)

	// DestroyPipelineLayout releases a pipeline layout.
	DestroyPipelineLayout(id PipelineLayoutID)

	// CreateRenderPipeline creates a render pipeline.
	CreateRenderPipeline(desc RenderPipelineDesc) (RenderPipelineID, error)

	// DestroyRenderPipeline releases a render pipeline.
	DestroyRenderPipeline(id RenderPipelineID)

	// CreateBindGroup creates a bind group against a layout.
	CreateBindGroup(label string, layout BindGroupLayoutID, entries []BindGroupEntry) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)
}

// RenderPass records draw commands into an active render pass.
// Implementations wrap the backend's native pass encoder.
type RenderPass interface {
	// SetPipeline binds a render pipeline.
	SetPipeline(id RenderPipelineID)

	// SetBindGroup binds a bind group at the given group index.
	SetBindGroup(index uint32, id BindGroupID)

	// SetVertexBuffer binds a vertex buffer at the given slot.
	SetVertexBuffer(slot uint32, id BufferID)

	// SetIndexBuffer binds an index buffer.
	SetIndexBuffer(id BufferID, format IndexFormat)

	// DrawIndexed draws indexCount indices from the bound index buffer.
	DrawIndexed(indexCount uint32)
}
