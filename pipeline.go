package vgr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/vgr/gpu"
)

// geomUniformSize is the byte size of the per-geom uniform block: the
// composed transform as three vec4 columns plus the bounds vec4.
const geomUniformSize = 64

// pipelineKey identifies one render pipeline: a material variant rendered
// into a given surface format.
type pipelineKey struct {
	material MaterialType
	format   gpu.TextureFormat
}

// PipelineRegistry creates and caches GPU render pipelines, one per
// (material variant, surface format) pair, together with the shader
// modules, bind group layouts and samplers they depend on. All geoms of
// the same material variant share the registry's pipeline; per-geom state
// lives entirely in bind groups.
//
// PipelineRegistry is safe for concurrent use.
type PipelineRegistry struct {
	mu sync.Mutex

	vertex      gpu.ShaderModuleID
	frags       map[MaterialType]gpu.ShaderModuleID
	layouts     map[MaterialType]gpu.BindGroupLayoutID
	pipeLayouts map[MaterialType]gpu.PipelineLayoutID
	pipelines   map[pipelineKey]gpu.RenderPipelineID
	samplers    map[StretchMode]gpu.SamplerID

	creations atomic.Uint64
}

// NewPipelineRegistry creates an empty registry. All GPU objects are
// created lazily on first use.
func NewPipelineRegistry() *PipelineRegistry {
	return &PipelineRegistry{
		frags:       make(map[MaterialType]gpu.ShaderModuleID),
		layouts:     make(map[MaterialType]gpu.BindGroupLayoutID),
		pipeLayouts: make(map[MaterialType]gpu.PipelineLayoutID),
		pipelines:   make(map[pipelineKey]gpu.RenderPipelineID),
		samplers:    make(map[StretchMode]gpu.SamplerID),
	}
}

// Pipeline returns the render pipeline for a material variant and surface
// format, creating it on first request.
func (r *PipelineRegistry) Pipeline(dev gpu.Device, mt MaterialType, format gpu.TextureFormat) (gpu.RenderPipelineID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pipelineKey{material: mt, format: format}
	if id, ok := r.pipelines[key]; ok {
		return id, nil
	}

	vs, err := r.vertexModule(dev)
	if err != nil {
		return 0, err
	}
	fs, err := r.fragmentModule(dev, mt)
	if err != nil {
		return 0, err
	}
	layout, err := r.pipelineLayout(dev, mt)
	if err != nil {
		return 0, err
	}

	id, err := dev.CreateRenderPipeline(gpu.RenderPipelineDesc{
		Label:              fmt.Sprintf("vgr %s pipeline", mt.Name()),
		Layout:             layout,
		VertexShader:       vs,
		VertexEntryPoint:   "vs_main",
		FragmentShader:     fs,
		FragmentEntryPoint: "fs_main",
		VertexStride:       8,
		VertexAttributes: []gpu.VertexAttribute{
			{Format: gpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
		},
		TargetFormat: format,
		AlphaBlend:   true,
	})
	if err != nil {
		return 0, allocErr(fmt.Sprintf("%s pipeline", mt.Name()), err)
	}

	r.pipelines[key] = id
	r.creations.Add(1)
	Logger().Info("created render pipeline",
		"material", mt.Name(), "format", format)
	return id, nil
}

// Layout returns the bind group layout for a material variant, creating it
// on first request. Bind groups for geoms of this variant must be created
// against it.
func (r *PipelineRegistry) Layout(dev gpu.Device, mt MaterialType) (gpu.BindGroupLayoutID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layout(dev, mt)
}

// SamplerFor returns the sampler for a stretch mode, creating it on first
// request. Exact modes sample nearest to preserve pixel content; fit mode
// interpolates.
func (r *PipelineRegistry) SamplerFor(dev gpu.Device, stretch StretchMode) (gpu.SamplerID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.samplers[stretch]; ok {
		return id, nil
	}

	filter := gpu.FilterNearest
	if stretch == StretchFit {
		filter = gpu.FilterLinear
	}
	id, err := dev.CreateSampler(gpu.SamplerDesc{
		Label:        "vgr content sampler",
		MagFilter:    filter,
		MinFilter:    filter,
		AddressModeU: gpu.AddressClampToEdge,
		AddressModeV: gpu.AddressClampToEdge,
	})
	if err != nil {
		return 0, allocErr("sampler", err)
	}
	r.samplers[stretch] = id
	return id, nil
}

// Creations returns how many render pipelines were created.
func (r *PipelineRegistry) Creations() uint64 { return r.creations.Load() }

// Close destroys every GPU object the registry created.
func (r *PipelineRegistry) Close(dev gpu.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, id := range r.pipelines {
		dev.DestroyRenderPipeline(id)
		delete(r.pipelines, key)
	}
	for mt, id := range r.pipeLayouts {
		dev.DestroyPipelineLayout(id)
		delete(r.pipeLayouts, mt)
	}
	for mt, id := range r.layouts {
		dev.DestroyBindGroupLayout(id)
		delete(r.layouts, mt)
	}
	for mt, id := range r.frags {
		dev.DestroyShaderModule(id)
		delete(r.frags, mt)
	}
	if r.vertex != gpu.InvalidID {
		dev.DestroyShaderModule(r.vertex)
		r.vertex = gpu.InvalidID
	}
	for mode, id := range r.samplers {
		dev.DestroySampler(id)
		delete(r.samplers, mode)
	}
}

// Callers of the helpers below hold r.mu.

func (r *PipelineRegistry) vertexModule(dev gpu.Device) (gpu.ShaderModuleID, error) {
	if r.vertex != gpu.InvalidID {
		return r.vertex, nil
	}
	id, err := dev.CreateShaderModule(vertexShaderWGSL, "vgr vertex shader")
	if err != nil {
		return 0, allocErr("vertex shader", err)
	}
	r.vertex = id
	return id, nil
}

func (r *PipelineRegistry) fragmentModule(dev gpu.Device, mt MaterialType) (gpu.ShaderModuleID, error) {
	if id, ok := r.frags[mt]; ok {
		return id, nil
	}
	src := fragmentShaderFor(mt)
	if src == "" {
		return 0, fmt.Errorf("%w: no fragment shader for material %d", ErrInternalInvariant, mt)
	}
	id, err := dev.CreateShaderModule(src, fmt.Sprintf("vgr %s shader", mt.Name()))
	if err != nil {
		return 0, allocErr(fmt.Sprintf("%s shader", mt.Name()), err)
	}
	r.frags[mt] = id
	return id, nil
}

func (r *PipelineRegistry) layout(dev gpu.Device, mt MaterialType) (gpu.BindGroupLayoutID, error) {
	if id, ok := r.layouts[mt]; ok {
		return id, nil
	}

	entries := []gpu.BindGroupLayoutEntry{
		{
			Binding:        0,
			Type:           gpu.BindingTypeUniformBuffer,
			Visibility:     gpu.ShaderStageVertex | gpu.ShaderStageFragment,
			MinBindingSize: geomUniformSize,
		},
		{
			Binding:        1,
			Type:           gpu.BindingTypeUniformBuffer,
			Visibility:     gpu.ShaderStageFragment,
			MinBindingSize: uint64(mt.UniformSize()),
		},
	}
	if mt.HasTexture() {
		entries = append(entries,
			gpu.BindGroupLayoutEntry{
				Binding:    2,
				Type:       gpu.BindingTypeSampledTexture,
				Visibility: gpu.ShaderStageFragment,
			},
			gpu.BindGroupLayoutEntry{
				Binding:    3,
				Type:       gpu.BindingTypeSampler,
				Visibility: gpu.ShaderStageFragment,
			},
		)
	}

	id, err := dev.CreateBindGroupLayout(gpu.BindGroupLayoutDesc{
		Label:   fmt.Sprintf("vgr %s layout", mt.Name()),
		Entries: entries,
	})
	if err != nil {
		return 0, allocErr(fmt.Sprintf("%s bind group layout", mt.Name()), err)
	}
	r.layouts[mt] = id
	return id, nil
}

func (r *PipelineRegistry) pipelineLayout(dev gpu.Device, mt MaterialType) (gpu.PipelineLayoutID, error) {
	if id, ok := r.pipeLayouts[mt]; ok {
		return id, nil
	}
	bgl, err := r.layout(dev, mt)
	if err != nil {
		return 0, err
	}
	id, err := dev.CreatePipelineLayout(
		fmt.Sprintf("vgr %s pipeline layout", mt.Name()),
		[]gpu.BindGroupLayoutID{bgl},
	)
	if err != nil {
		return 0, allocErr(fmt.Sprintf("%s pipeline layout", mt.Name()), err)
	}
	r.pipeLayouts[mt] = id
	return id, nil
}
