// Package wgpu adapts the gogpu/wgpu HAL to the gpu.Device interface.
//
// WGSL sources are compiled to SPIR-V through gogpu/naga before module
// creation. Samplers and render pipelines are not yet supported by the
// HAL render path and return errors; the webgpu backend covers the full
// interface.
package wgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vgr/gpu"
)

// halTexture tracks a texture with the dimensions needed for
// full-extent uploads.
type halTexture struct {
	texture hal.Texture
	width   uint32
	height  uint32
}

// Adapter implements gpu.Device on top of hal.Device and hal.Queue.
//
// Thread Safety: Adapter is safe for concurrent use from multiple
// goroutines. All resource maps are protected by a mutex.
type Adapter struct {
	mu     sync.RWMutex
	device hal.Device
	queue  hal.Queue

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps opaque IDs to hal resources
	buffers          map[gpu.BufferID]hal.Buffer
	textures         map[gpu.TextureID]*halTexture
	shaderModules    map[gpu.ShaderModuleID]hal.ShaderModule
	bindGroupLayouts map[gpu.BindGroupLayoutID]hal.BindGroupLayout
	pipelineLayouts  map[gpu.PipelineLayoutID]hal.PipelineLayout
	bindGroups       map[gpu.BindGroupID]hal.BindGroup
}

var _ gpu.Device = (*Adapter)(nil)

// NewAdapter creates an Adapter wrapping the given device and queue.
func NewAdapter(device hal.Device, queue hal.Queue) *Adapter {
	a := &Adapter{
		device:           device,
		queue:            queue,
		buffers:          make(map[gpu.BufferID]hal.Buffer),
		textures:         make(map[gpu.TextureID]*halTexture),
		shaderModules:    make(map[gpu.ShaderModuleID]hal.ShaderModule),
		bindGroupLayouts: make(map[gpu.BindGroupLayoutID]hal.BindGroupLayout),
		pipelineLayouts:  make(map[gpu.PipelineLayoutID]hal.PipelineLayout),
		bindGroups:       make(map[gpu.BindGroupID]hal.BindGroup),
	}

	// Start ID generation at 1 (0 is invalid)
	a.nextID.Store(1)

	return a
}

// newID generates a unique resource ID.
func (a *Adapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// === Buffers ===

// CreateBuffer allocates a GPU buffer.
func (a *Adapter) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.BufferID, error) {
	if size == 0 {
		return gpu.InvalidID, fmt.Errorf("buffer size must be positive")
	}

	buffer, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Size:  size,
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create buffer: %w", err)
	}

	id := gpu.BufferID(a.newID())

	a.mu.Lock()
	a.buffers[id] = buffer
	a.mu.Unlock()

	return id, nil
}

// WriteBuffer uploads data into a buffer at the given byte offset.
func (a *Adapter) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) error {
	a.mu.RLock()
	buffer, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("buffer %d not found", id)
	}
	if len(data) == 0 {
		return nil
	}

	if err := a.queue.WriteBuffer(buffer, offset, data); err != nil {
		return fmt.Errorf("failed to write buffer %d: %w", id, err)
	}
	return nil
}

// DestroyBuffer releases a buffer.
func (a *Adapter) DestroyBuffer(id gpu.BufferID) {
	a.mu.Lock()
	buffer, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBuffer(buffer)
	}
}

// === Textures ===

// CreateTexture allocates a 2D texture.
func (a *Adapter) CreateTexture(width, height uint32, format gpu.TextureFormat) (gpu.TextureID, error) {
	if width == 0 || height == 0 {
		return gpu.InvalidID, fmt.Errorf("texture dimensions must be positive")
	}

	texture, err := a.device.CreateTexture(&hal.TextureDescriptor{
		Size: hal.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        convertTextureFormat(format),
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create texture: %w", err)
	}

	id := gpu.TextureID(a.newID())

	a.mu.Lock()
	a.textures[id] = &halTexture{
		texture: texture,
		width:   width,
		height:  height,
	}
	a.mu.Unlock()

	return id, nil
}

// WriteTexture uploads tightly packed RGBA pixels covering the full
// texture extent.
func (a *Adapter) WriteTexture(id gpu.TextureID, data []byte) error {
	a.mu.RLock()
	entry, ok := a.textures[id]
	a.mu.RUnlock()

	if !ok {
		return fmt.Errorf("texture %d not found", id)
	}
	if want := uint64(entry.width) * uint64(entry.height) * 4; uint64(len(data)) != want {
		return fmt.Errorf("texture %d upload: got %d bytes, want %d", id, len(data), want)
	}

	dst := &hal.ImageCopyTexture{
		Texture:  entry.texture,
		MipLevel: 0,
		Origin:   hal.Origin3D{},
		Aspect:   gputypes.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  entry.width * 4,
		RowsPerImage: entry.height,
	}
	size := &hal.Extent3D{
		Width:              entry.width,
		Height:             entry.height,
		DepthOrArrayLayers: 1,
	}

	if err := a.queue.WriteTexture(dst, data, layout, size); err != nil {
		return fmt.Errorf("failed to write texture %d: %w", id, err)
	}
	return nil
}

// DestroyTexture releases a texture.
func (a *Adapter) DestroyTexture(id gpu.TextureID) {
	a.mu.Lock()
	entry, ok := a.textures[id]
	if ok {
		delete(a.textures, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyTexture(entry.texture)
	}
}

// === Samplers ===

// CreateSampler is not yet available on the HAL render path.
func (a *Adapter) CreateSampler(desc gpu.SamplerDesc) (gpu.SamplerID, error) {
	return gpu.InvalidID, fmt.Errorf("samplers not supported by the hal backend")
}

// DestroySampler releases a sampler.
func (a *Adapter) DestroySampler(id gpu.SamplerID) {}

// === Shader Modules ===

// CreateShaderModule compiles WGSL to SPIR-V via naga and creates a
// shader module from the result.
func (a *Adapter) CreateShaderModule(wgsl string, label string) (gpu.ShaderModuleID, error) {
	spirv, err := compileWGSL(wgsl)
	if err != nil {
		return gpu.InvalidID, err
	}

	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: label,
		Source: hal.ShaderSource{
			SPIRV: spirv,
		},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create shader module: %w", err)
	}

	id := gpu.ShaderModuleID(a.newID())

	a.mu.Lock()
	a.shaderModules[id] = module
	a.mu.Unlock()

	return id, nil
}

// DestroyShaderModule releases a shader module.
func (a *Adapter) DestroyShaderModule(id gpu.ShaderModuleID) {
	a.mu.Lock()
	module, ok := a.shaderModules[id]
	if ok {
		delete(a.shaderModules, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyShaderModule(module)
	}
}

// === Bind Group Layouts ===

// CreateBindGroupLayout creates a bind group layout.
func (a *Adapter) CreateBindGroupLayout(desc gpu.BindGroupLayoutDesc) (gpu.BindGroupLayoutID, error) {
	halEntries := make([]gputypes.BindGroupLayoutEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		converted, err := convertBindGroupLayoutEntry(entry)
		if err != nil {
			return gpu.InvalidID, err
		}
		halEntries[i] = converted
	}

	layout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: halEntries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	id := gpu.BindGroupLayoutID(a.newID())

	a.mu.Lock()
	a.bindGroupLayouts[id] = layout
	a.mu.Unlock()

	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (a *Adapter) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) {
	a.mu.Lock()
	layout, ok := a.bindGroupLayouts[id]
	if ok {
		delete(a.bindGroupLayouts, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBindGroupLayout(layout)
	}
}

// === Pipeline Layouts ===

// CreatePipelineLayout creates a pipeline layout from bind group layouts.
func (a *Adapter) CreatePipelineLayout(label string, layouts []gpu.BindGroupLayoutID) (gpu.PipelineLayoutID, error) {
	a.mu.RLock()
	halLayouts := make([]hal.BindGroupLayout, len(layouts))
	for i, id := range layouts {
		layout, ok := a.bindGroupLayouts[id]
		if !ok {
			a.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("bind group layout %d not found", id)
		}
		halLayouts[i] = layout
	}
	a.mu.RUnlock()

	pipelineLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: halLayouts,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	id := gpu.PipelineLayoutID(a.newID())

	a.mu.Lock()
	a.pipelineLayouts[id] = pipelineLayout
	a.mu.Unlock()

	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (a *Adapter) DestroyPipelineLayout(id gpu.PipelineLayoutID) {
	a.mu.Lock()
	layout, ok := a.pipelineLayouts[id]
	if ok {
		delete(a.pipelineLayouts, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyPipelineLayout(layout)
	}
}

// === Render Pipelines ===

// CreateRenderPipeline is not yet available on the HAL render path.
func (a *Adapter) CreateRenderPipeline(desc gpu.RenderPipelineDesc) (gpu.RenderPipelineID, error) {
	return gpu.InvalidID, fmt.Errorf("render pipelines not supported by the hal backend")
}

// DestroyRenderPipeline releases a render pipeline.
func (a *Adapter) DestroyRenderPipeline(id gpu.RenderPipelineID) {}

// === Bind Groups ===

// CreateBindGroup creates a bind group.
func (a *Adapter) CreateBindGroup(label string, layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	a.mu.RLock()
	halLayout, ok := a.bindGroupLayouts[layout]
	if !ok {
		a.mu.RUnlock()
		return gpu.InvalidID, fmt.Errorf("bind group layout %d not found", layout)
	}

	halEntries := make([]gputypes.BindGroupEntry, len(entries))
	for i, entry := range entries {
		halEntry, err := a.convertBindGroupEntry(entry)
		if err != nil {
			a.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("failed to convert bind group entry %d: %w", entry.Binding, err)
		}
		halEntries[i] = halEntry
	}
	a.mu.RUnlock()

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   label,
		Layout:  halLayout,
		Entries: halEntries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create bind group: %w", err)
	}

	id := gpu.BindGroupID(a.newID())

	a.mu.Lock()
	a.bindGroups[id] = bindGroup
	a.mu.Unlock()

	return id, nil
}

// convertBindGroupEntry converts gpu.BindGroupEntry to gputypes.BindGroupEntry.
// Must be called with mu.RLock held.
//
// hal resources do not expose their native handles, so bindings carry
// the adapter's own IDs until hal grows handle accessors.
func (a *Adapter) convertBindGroupEntry(entry gpu.BindGroupEntry) (gputypes.BindGroupEntry, error) {
	result := gputypes.BindGroupEntry{
		Binding: entry.Binding,
	}

	switch {
	case entry.Buffer != gpu.InvalidID:
		if _, ok := a.buffers[entry.Buffer]; !ok {
			return result, fmt.Errorf("buffer %d not found", entry.Buffer)
		}
		result.Resource = gputypes.BufferBinding{
			Buffer: uintptr(entry.Buffer),
			Offset: entry.Offset,
			Size:   entry.Size,
		}
	case entry.Texture != gpu.InvalidID:
		if _, ok := a.textures[entry.Texture]; !ok {
			return result, fmt.Errorf("texture %d not found", entry.Texture)
		}
		result.Resource = gputypes.TextureViewBinding{
			TextureView: uintptr(entry.Texture),
		}
	default:
		return result, fmt.Errorf("entry binds no resource")
	}

	return result, nil
}

// DestroyBindGroup releases a bind group.
func (a *Adapter) DestroyBindGroup(id gpu.BindGroupID) {
	a.mu.Lock()
	group, ok := a.bindGroups[id]
	if ok {
		delete(a.bindGroups, id)
	}
	a.mu.Unlock()

	if ok {
		a.device.DestroyBindGroup(group)
	}
}

// === Type Conversion Helpers ===

// convertBufferUsage converts gpu.BufferUsage to gputypes.BufferUsage.
func convertBufferUsage(usage gpu.BufferUsage) gputypes.BufferUsage {
	var result gputypes.BufferUsage

	if usage&gpu.BufferUsageCopySrc != 0 {
		result |= gputypes.BufferUsageCopySrc
	}
	if usage&gpu.BufferUsageCopyDst != 0 {
		result |= gputypes.BufferUsageCopyDst
	}
	if usage&gpu.BufferUsageIndex != 0 {
		result |= gputypes.BufferUsageIndex
	}
	if usage&gpu.BufferUsageVertex != 0 {
		result |= gputypes.BufferUsageVertex
	}
	if usage&gpu.BufferUsageUniform != 0 {
		result |= gputypes.BufferUsageUniform
	}

	return result
}

// convertTextureFormat converts gpu.TextureFormat to gputypes.TextureFormat.
func convertTextureFormat(format gpu.TextureFormat) gputypes.TextureFormat {
	switch format {
	case gpu.TextureFormatRGBA8Unorm:
		return gputypes.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSRGB:
		return gputypes.TextureFormatRGBA8UnormSrgb
	case gpu.TextureFormatBGRA8Unorm:
		return gputypes.TextureFormatBGRA8Unorm
	case gpu.TextureFormatBGRA8UnormSRGB:
		return gputypes.TextureFormatBGRA8UnormSrgb
	default:
		return gputypes.TextureFormatRGBA8Unorm
	}
}

// convertBindGroupLayoutEntry converts gpu.BindGroupLayoutEntry to
// gputypes.BindGroupLayoutEntry.
func convertBindGroupLayoutEntry(entry gpu.BindGroupLayoutEntry) (gputypes.BindGroupLayoutEntry, error) {
	result := gputypes.BindGroupLayoutEntry{
		Binding:    entry.Binding,
		Visibility: convertShaderStage(entry.Visibility),
	}

	switch entry.Type {
	case gpu.BindingTypeUniformBuffer:
		result.Buffer = &gputypes.BufferBindingLayout{
			Type:           gputypes.BufferBindingTypeUniform,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeSampledTexture, gpu.BindingTypeSampler:
		return result, fmt.Errorf("binding type %d not supported by the hal backend", entry.Type)
	default:
		return result, fmt.Errorf("unknown binding type %d", entry.Type)
	}

	return result, nil
}

// convertShaderStage converts gpu.ShaderStage to gputypes.ShaderStage.
func convertShaderStage(stage gpu.ShaderStage) gputypes.ShaderStage {
	var result gputypes.ShaderStage

	if stage&gpu.ShaderStageVertex != 0 {
		result |= gputypes.ShaderStageVertex
	}
	if stage&gpu.ShaderStageFragment != 0 {
		result |= gputypes.ShaderStageFragment
	}

	return result
}
