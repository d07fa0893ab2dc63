// Package webgpu adapts a cogentcore/webgpu device and queue to the
// gpu.Device and gpu.RenderPass interfaces.
package webgpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/vgr/gpu"
)

// textureEntry tracks a texture together with the view bound into bind
// groups and the dimensions needed for full-extent uploads.
type textureEntry struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	width   uint32
	height  uint32
}

// Device implements gpu.Device on top of a cogentcore/webgpu device.
// The caller owns the underlying device and queue; Device only manages
// the resources it creates.
//
// Thread Safety: Device is safe for concurrent use from multiple
// goroutines. All resource maps are protected by a mutex.
type Device struct {
	mu     sync.RWMutex
	device *wgpu.Device
	queue  *wgpu.Queue

	// ID generation
	nextID atomic.Uint64

	// Resource tracking maps opaque IDs to native resources
	buffers          map[gpu.BufferID]*wgpu.Buffer
	textures         map[gpu.TextureID]*textureEntry
	samplers         map[gpu.SamplerID]*wgpu.Sampler
	shaderModules    map[gpu.ShaderModuleID]*wgpu.ShaderModule
	bindGroupLayouts map[gpu.BindGroupLayoutID]*wgpu.BindGroupLayout
	pipelineLayouts  map[gpu.PipelineLayoutID]*wgpu.PipelineLayout
	renderPipelines  map[gpu.RenderPipelineID]*wgpu.RenderPipeline
	bindGroups       map[gpu.BindGroupID]*wgpu.BindGroup
}

var _ gpu.Device = (*Device)(nil)

// NewDevice wraps an existing webgpu device and queue.
func NewDevice(device *wgpu.Device, queue *wgpu.Queue) *Device {
	d := &Device{
		device:           device,
		queue:            queue,
		buffers:          make(map[gpu.BufferID]*wgpu.Buffer),
		textures:         make(map[gpu.TextureID]*textureEntry),
		samplers:         make(map[gpu.SamplerID]*wgpu.Sampler),
		shaderModules:    make(map[gpu.ShaderModuleID]*wgpu.ShaderModule),
		bindGroupLayouts: make(map[gpu.BindGroupLayoutID]*wgpu.BindGroupLayout),
		pipelineLayouts:  make(map[gpu.PipelineLayoutID]*wgpu.PipelineLayout),
		renderPipelines:  make(map[gpu.RenderPipelineID]*wgpu.RenderPipeline),
		bindGroups:       make(map[gpu.BindGroupID]*wgpu.BindGroup),
	}

	// Start ID generation at 1 (0 is invalid)
	d.nextID.Store(1)

	return d
}

// newID generates a unique resource ID.
func (d *Device) newID() uint64 {
	return d.nextID.Add(1) - 1
}

// === Buffers ===

// CreateBuffer allocates a GPU buffer.
func (d *Device) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.BufferID, error) {
	if size == 0 {
		return gpu.InvalidID, fmt.Errorf("buffer size must be positive")
	}

	buffer, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: convertBufferUsage(usage),
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create buffer: %w", err)
	}

	id := gpu.BufferID(d.newID())

	d.mu.Lock()
	d.buffers[id] = buffer
	d.mu.Unlock()

	return id, nil
}

// WriteBuffer uploads data into a buffer at the given byte offset.
func (d *Device) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) error {
	d.mu.RLock()
	buffer, ok := d.buffers[id]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("buffer %d not found", id)
	}
	if len(data) == 0 {
		return nil
	}

	d.queue.WriteBuffer(buffer, offset, data)
	return nil
}

// DestroyBuffer releases a buffer.
func (d *Device) DestroyBuffer(id gpu.BufferID) {
	d.mu.Lock()
	buffer, ok := d.buffers[id]
	if ok {
		delete(d.buffers, id)
	}
	d.mu.Unlock()

	if ok {
		buffer.Release()
	}
}

// === Textures ===

// CreateTexture allocates a 2D texture and the view used for sampling.
func (d *Device) CreateTexture(width, height uint32, format gpu.TextureFormat) (gpu.TextureID, error) {
	if width == 0 || height == 0 {
		return gpu.InvalidID, fmt.Errorf("texture dimensions must be positive")
	}

	texture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        convertTextureFormat(format),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create texture: %w", err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return gpu.InvalidID, fmt.Errorf("failed to create texture view: %w", err)
	}

	id := gpu.TextureID(d.newID())

	d.mu.Lock()
	d.textures[id] = &textureEntry{
		texture: texture,
		view:    view,
		width:   width,
		height:  height,
	}
	d.mu.Unlock()

	return id, nil
}

// WriteTexture uploads tightly packed RGBA pixels covering the full
// texture extent.
func (d *Device) WriteTexture(id gpu.TextureID, data []byte) error {
	d.mu.RLock()
	entry, ok := d.textures[id]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("texture %d not found", id)
	}
	if want := uint64(entry.width) * uint64(entry.height) * 4; uint64(len(data)) != want {
		return fmt.Errorf("texture %d upload: got %d bytes, want %d", id, len(data), want)
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  entry.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		data,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  entry.width * 4,
			RowsPerImage: entry.height,
		},
		&wgpu.Extent3D{
			Width:              entry.width,
			Height:             entry.height,
			DepthOrArrayLayers: 1,
		},
	)
	return nil
}

// DestroyTexture releases a texture and its view.
func (d *Device) DestroyTexture(id gpu.TextureID) {
	d.mu.Lock()
	entry, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.mu.Unlock()

	if ok {
		entry.view.Release()
		entry.texture.Release()
	}
}

// === Samplers ===

// CreateSampler creates a texture sampler.
func (d *Device) CreateSampler(desc gpu.SamplerDesc) (gpu.SamplerID, error) {
	sampler, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         desc.Label,
		AddressModeU:  convertAddressMode(desc.AddressModeU),
		AddressModeV:  convertAddressMode(desc.AddressModeV),
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     convertFilterMode(desc.MagFilter),
		MinFilter:     convertFilterMode(desc.MinFilter),
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create sampler: %w", err)
	}

	id := gpu.SamplerID(d.newID())

	d.mu.Lock()
	d.samplers[id] = sampler
	d.mu.Unlock()

	return id, nil
}

// DestroySampler releases a sampler.
func (d *Device) DestroySampler(id gpu.SamplerID) {
	d.mu.Lock()
	sampler, ok := d.samplers[id]
	if ok {
		delete(d.samplers, id)
	}
	d.mu.Unlock()

	if ok {
		sampler.Release()
	}
}

// === Shader Modules ===

// CreateShaderModule compiles WGSL source into a shader module.
func (d *Device) CreateShaderModule(wgsl string, label string) (gpu.ShaderModuleID, error) {
	if wgsl == "" {
		return gpu.InvalidID, fmt.Errorf("empty WGSL source")
	}

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: wgsl,
		},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create shader module: %w", err)
	}

	id := gpu.ShaderModuleID(d.newID())

	d.mu.Lock()
	d.shaderModules[id] = module
	d.mu.Unlock()

	return id, nil
}

// DestroyShaderModule releases a shader module.
func (d *Device) DestroyShaderModule(id gpu.ShaderModuleID) {
	d.mu.Lock()
	module, ok := d.shaderModules[id]
	if ok {
		delete(d.shaderModules, id)
	}
	d.mu.Unlock()

	if ok {
		module.Release()
	}
}

// === Bind Group Layouts ===

// CreateBindGroupLayout creates a bind group layout.
func (d *Device) CreateBindGroupLayout(desc gpu.BindGroupLayoutDesc) (gpu.BindGroupLayoutID, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, entry := range desc.Entries {
		converted, err := convertBindGroupLayoutEntry(entry)
		if err != nil {
			return gpu.InvalidID, err
		}
		entries[i] = converted
	}

	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create bind group layout: %w", err)
	}

	id := gpu.BindGroupLayoutID(d.newID())

	d.mu.Lock()
	d.bindGroupLayouts[id] = layout
	d.mu.Unlock()

	return id, nil
}

// DestroyBindGroupLayout releases a bind group layout.
func (d *Device) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) {
	d.mu.Lock()
	layout, ok := d.bindGroupLayouts[id]
	if ok {
		delete(d.bindGroupLayouts, id)
	}
	d.mu.Unlock()

	if ok {
		layout.Release()
	}
}

// === Pipeline Layouts ===

// CreatePipelineLayout creates a pipeline layout from bind group layouts.
func (d *Device) CreatePipelineLayout(label string, layouts []gpu.BindGroupLayoutID) (gpu.PipelineLayoutID, error) {
	d.mu.RLock()
	nativeLayouts := make([]*wgpu.BindGroupLayout, len(layouts))
	for i, layoutID := range layouts {
		layout, ok := d.bindGroupLayouts[layoutID]
		if !ok {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("bind group layout %d not found", layoutID)
		}
		nativeLayouts[i] = layout
	}
	d.mu.RUnlock()

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: nativeLayouts,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	id := gpu.PipelineLayoutID(d.newID())

	d.mu.Lock()
	d.pipelineLayouts[id] = pipelineLayout
	d.mu.Unlock()

	return id, nil
}

// DestroyPipelineLayout releases a pipeline layout.
func (d *Device) DestroyPipelineLayout(id gpu.PipelineLayoutID) {
	d.mu.Lock()
	layout, ok := d.pipelineLayouts[id]
	if ok {
		delete(d.pipelineLayouts, id)
	}
	d.mu.Unlock()

	if ok {
		layout.Release()
	}
}

// === Render Pipelines ===

// CreateRenderPipeline creates a render pipeline.
func (d *Device) CreateRenderPipeline(desc gpu.RenderPipelineDesc) (gpu.RenderPipelineID, error) {
	d.mu.RLock()
	layout, layoutOK := d.pipelineLayouts[desc.Layout]
	vertexModule, vertexOK := d.shaderModules[desc.VertexShader]
	fragmentModule, fragmentOK := d.shaderModules[desc.FragmentShader]
	d.mu.RUnlock()

	if !layoutOK {
		return gpu.InvalidID, fmt.Errorf("pipeline layout %d not found", desc.Layout)
	}
	if !vertexOK {
		return gpu.InvalidID, fmt.Errorf("vertex shader module %d not found", desc.VertexShader)
	}
	if !fragmentOK {
		return gpu.InvalidID, fmt.Errorf("fragment shader module %d not found", desc.FragmentShader)
	}

	attributes := make([]wgpu.VertexAttribute, len(desc.VertexAttributes))
	for i, attr := range desc.VertexAttributes {
		attributes[i] = wgpu.VertexAttribute{
			Format:         convertVertexFormat(attr.Format),
			Offset:         attr.Offset,
			ShaderLocation: attr.ShaderLocation,
		}
	}

	target := wgpu.ColorTargetState{
		Format:    convertTextureFormat(desc.TargetFormat),
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if desc.AlphaBlend {
		// Premultiplied source-over blending.
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	pipeline, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     vertexModule,
			EntryPoint: desc.VertexEntryPoint,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: desc.VertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes:  attributes,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentModule,
			EntryPoint: desc.FragmentEntryPoint,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create render pipeline: %w", err)
	}

	id := gpu.RenderPipelineID(d.newID())

	d.mu.Lock()
	d.renderPipelines[id] = pipeline
	d.mu.Unlock()

	return id, nil
}

// DestroyRenderPipeline releases a render pipeline.
func (d *Device) DestroyRenderPipeline(id gpu.RenderPipelineID) {
	d.mu.Lock()
	pipeline, ok := d.renderPipelines[id]
	if ok {
		delete(d.renderPipelines, id)
	}
	d.mu.Unlock()

	if ok {
		pipeline.Release()
	}
}

// === Bind Groups ===

// CreateBindGroup creates a bind group against a layout.
func (d *Device) CreateBindGroup(label string, layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	d.mu.RLock()
	nativeLayout, ok := d.bindGroupLayouts[layout]
	if !ok {
		d.mu.RUnlock()
		return gpu.InvalidID, fmt.Errorf("bind group layout %d not found", layout)
	}

	nativeEntries := make([]wgpu.BindGroupEntry, len(entries))
	for i, entry := range entries {
		converted, err := d.convertBindGroupEntry(entry)
		if err != nil {
			d.mu.RUnlock()
			return gpu.InvalidID, fmt.Errorf("failed to convert bind group entry %d: %w", entry.Binding, err)
		}
		nativeEntries[i] = converted
	}
	d.mu.RUnlock()

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  nativeLayout,
		Entries: nativeEntries,
	})
	if err != nil {
		return gpu.InvalidID, fmt.Errorf("failed to create bind group: %w", err)
	}

	id := gpu.BindGroupID(d.newID())

	d.mu.Lock()
	d.bindGroups[id] = bindGroup
	d.mu.Unlock()

	return id, nil
}

// convertBindGroupEntry resolves IDs to native resources.
// Must be called with mu held.
func (d *Device) convertBindGroupEntry(entry gpu.BindGroupEntry) (wgpu.BindGroupEntry, error) {
	result := wgpu.BindGroupEntry{
		Binding: entry.Binding,
	}

	switch {
	case entry.Buffer != gpu.InvalidID:
		buffer, ok := d.buffers[entry.Buffer]
		if !ok {
			return result, fmt.Errorf("buffer %d not found", entry.Buffer)
		}
		result.Buffer = buffer
		result.Offset = entry.Offset
		if entry.Size == 0 {
			result.Size = wgpu.WholeSize
		} else {
			result.Size = entry.Size
		}
	case entry.Texture != gpu.InvalidID:
		texture, ok := d.textures[entry.Texture]
		if !ok {
			return result, fmt.Errorf("texture %d not found", entry.Texture)
		}
		result.TextureView = texture.view
	case entry.Sampler != gpu.InvalidID:
		sampler, ok := d.samplers[entry.Sampler]
		if !ok {
			return result, fmt.Errorf("sampler %d not found", entry.Sampler)
		}
		result.Sampler = sampler
	default:
		return result, fmt.Errorf("entry binds no resource")
	}

	return result, nil
}

// DestroyBindGroup releases a bind group.
func (d *Device) DestroyBindGroup(id gpu.BindGroupID) {
	d.mu.Lock()
	group, ok := d.bindGroups[id]
	if ok {
		delete(d.bindGroups, id)
	}
	d.mu.Unlock()

	if ok {
		group.Release()
	}
}
