package vgr

import (
	"errors"
	"fmt"

	"github.com/gogpu/vgr/gpu"
)

// mockDevice implements gpu.Device for tests, tracking resource
// allocations, uploads and destructions.
type mockDevice struct {
	nextID uint64

	buffers  map[gpu.BufferID]*mockBuffer
	textures map[gpu.TextureID]*mockTexture
	samplers map[gpu.SamplerID]gpu.SamplerDesc
	shaders  map[gpu.ShaderModuleID]string

	bindGroupLayouts map[gpu.BindGroupLayoutID]gpu.BindGroupLayoutDesc
	pipelineLayouts  map[gpu.PipelineLayoutID]struct{}
	pipelines        map[gpu.RenderPipelineID]gpu.RenderPipelineDesc
	bindGroups       map[gpu.BindGroupID][]gpu.BindGroupEntry

	bufferCreates  int
	bufferWrites   int
	textureCreates int
	textureWrites  int

	// Error injection.
	failBufferCreate  bool
	failTextureCreate bool
	failTextureWrite  bool
}

type mockBuffer struct {
	data  []byte
	usage gpu.BufferUsage
}

type mockTexture struct {
	width, height uint32
	format        gpu.TextureFormat
	data          []byte
	writes        int
}

func newMockDevice() *mockDevice {
	return &mockDevice{
		buffers:          make(map[gpu.BufferID]*mockBuffer),
		textures:         make(map[gpu.TextureID]*mockTexture),
		samplers:         make(map[gpu.SamplerID]gpu.SamplerDesc),
		shaders:          make(map[gpu.ShaderModuleID]string),
		bindGroupLayouts: make(map[gpu.BindGroupLayoutID]gpu.BindGroupLayoutDesc),
		pipelineLayouts:  make(map[gpu.PipelineLayoutID]struct{}),
		pipelines:        make(map[gpu.RenderPipelineID]gpu.RenderPipelineDesc),
		bindGroups:       make(map[gpu.BindGroupID][]gpu.BindGroupEntry),
	}
}

func (d *mockDevice) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *mockDevice) CreateBuffer(size uint64, usage gpu.BufferUsage) (gpu.BufferID, error) {
	if d.failBufferCreate {
		return 0, errors.New("mock: out of memory")
	}
	d.bufferCreates++
	id := gpu.BufferID(d.id())
	d.buffers[id] = &mockBuffer{data: make([]byte, size), usage: usage}
	return id, nil
}

func (d *mockDevice) WriteBuffer(id gpu.BufferID, offset uint64, data []byte) error {
	buf, ok := d.buffers[id]
	if !ok {
		return fmt.Errorf("mock: unknown buffer %d", id)
	}
	if int(offset)+len(data) > len(buf.data) {
		return fmt.Errorf("mock: write past end of buffer %d", id)
	}
	copy(buf.data[offset:], data)
	d.bufferWrites++
	return nil
}

func (d *mockDevice) DestroyBuffer(id gpu.BufferID) {
	delete(d.buffers, id)
}

func (d *mockDevice) CreateTexture(width, height uint32, format gpu.TextureFormat) (gpu.TextureID, error) {
	if d.failTextureCreate {
		return 0, errors.New("mock: out of memory")
	}
	d.textureCreates++
	id := gpu.TextureID(d.id())
	d.textures[id] = &mockTexture{width: width, height: height, format: format}
	return id, nil
}

func (d *mockDevice) WriteTexture(id gpu.TextureID, data []byte) error {
	if d.failTextureWrite {
		return errors.New("mock: upload failed")
	}
	tex, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("mock: unknown texture %d", id)
	}
	tex.data = append(tex.data[:0], data...)
	tex.writes++
	d.textureWrites++
	return nil
}

func (d *mockDevice) DestroyTexture(id gpu.TextureID) {
	delete(d.textures, id)
}

func (d *mockDevice) CreateSampler(desc gpu.SamplerDesc) (gpu.SamplerID, error) {
	id := gpu.SamplerID(d.id())
	d.samplers[id] = desc
	return id, nil
}

func (d *mockDevice) DestroySampler(id gpu.SamplerID) {
	delete(d.samplers, id)
}

func (d *mockDevice) CreateShaderModule(wgsl string, label string) (gpu.ShaderModuleID, error) {
	id := gpu.ShaderModuleID(d.id())
	d.shaders[id] = wgsl
	return id, nil
}

func (d *mockDevice) DestroyShaderModule(id gpu.ShaderModuleID) {
	delete(d.shaders, id)
}

func (d *mockDevice) CreateBindGroupLayout(desc gpu.BindGroupLayoutDesc) (gpu.BindGroupLayoutID, error) {
	id := gpu.BindGroupLayoutID(d.id())
	d.bindGroupLayouts[id] = desc
	return id, nil
}

func (d *mockDevice) DestroyBindGroupLayout(id gpu.BindGroupLayoutID) {
	delete(d.bindGroupLayouts, id)
}

func (d *mockDevice) CreatePipelineLayout(label string, layouts []gpu.BindGroupLayoutID) (gpu.PipelineLayoutID, error) {
	id := gpu.PipelineLayoutID(d.id())
	d.pipelineLayouts[id] = struct{}{}
	return id, nil
}

func (d *mockDevice) DestroyPipelineLayout(id gpu.PipelineLayoutID) {
	delete(d.pipelineLayouts, id)
}

func (d *mockDevice) CreateRenderPipeline(desc gpu.RenderPipelineDesc) (gpu.RenderPipelineID, error) {
	id := gpu.RenderPipelineID(d.id())
	d.pipelines[id] = desc
	return id, nil
}

func (d *mockDevice) DestroyRenderPipeline(id gpu.RenderPipelineID) {
	delete(d.pipelines, id)
}

func (d *mockDevice) CreateBindGroup(label string, layout gpu.BindGroupLayoutID, entries []gpu.BindGroupEntry) (gpu.BindGroupID, error) {
	id := gpu.BindGroupID(d.id())
	d.bindGroups[id] = append([]gpu.BindGroupEntry(nil), entries...)
	return id, nil
}

func (d *mockDevice) DestroyBindGroup(id gpu.BindGroupID) {
	delete(d.bindGroups, id)
}

var _ gpu.Device = (*mockDevice)(nil)

// mockPass records the draw command stream replayed into it.
type mockPass struct {
	pipeline  gpu.RenderPipelineID
	bindGroup gpu.BindGroupID
	vertex    gpu.BufferID
	index     gpu.BufferID

	draws []mockDraw
}

type mockDraw struct {
	pipeline  gpu.RenderPipelineID
	bindGroup gpu.BindGroupID
	vertex    gpu.BufferID
	index     gpu.BufferID
	count     uint32
}

func (p *mockPass) SetPipeline(id gpu.RenderPipelineID) { p.pipeline = id }

func (p *mockPass) SetBindGroup(index uint32, id gpu.BindGroupID) { p.bindGroup = id }

func (p *mockPass) SetVertexBuffer(slot uint32, id gpu.BufferID) { p.vertex = id }

func (p *mockPass) SetIndexBuffer(id gpu.BufferID, format gpu.IndexFormat) { p.index = id }

func (p *mockPass) DrawIndexed(indexCount uint32) {
	p.draws = append(p.draws, mockDraw{
		pipeline:  p.pipeline,
		bindGroup: p.bindGroup,
		vertex:    p.vertex,
		index:     p.index,
		count:     indexCount,
	})
}

var _ gpu.RenderPass = (*mockPass)(nil)
