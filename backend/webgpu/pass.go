package webgpu

import (
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/vgr/gpu"
)

// Pass implements gpu.RenderPass over an active webgpu render pass
// encoder. The caller begins and ends the native pass; Pass only
// translates resource IDs while recording.
type Pass struct {
	device  *Device
	encoder *wgpu.RenderPassEncoder
}

var _ gpu.RenderPass = (*Pass)(nil)

// BeginPass wraps an active render pass encoder created on the same
// underlying device.
func (d *Device) BeginPass(encoder *wgpu.RenderPassEncoder) *Pass {
	return &Pass{device: d, encoder: encoder}
}

// SetPipeline binds a render pipeline.
func (p *Pass) SetPipeline(id gpu.RenderPipelineID) {
	p.device.mu.RLock()
	pipeline, ok := p.device.renderPipelines[id]
	p.device.mu.RUnlock()

	if ok {
		p.encoder.SetPipeline(pipeline)
	}
}

// SetBindGroup binds a bind group at the given group index.
func (p *Pass) SetBindGroup(index uint32, id gpu.BindGroupID) {
	p.device.mu.RLock()
	group, ok := p.device.bindGroups[id]
	p.device.mu.RUnlock()

	if ok {
		p.encoder.SetBindGroup(index, group, nil)
	}
}

// SetVertexBuffer binds a vertex buffer at the given slot.
func (p *Pass) SetVertexBuffer(slot uint32, id gpu.BufferID) {
	p.device.mu.RLock()
	buffer, ok := p.device.buffers[id]
	p.device.mu.RUnlock()

	if ok {
		p.encoder.SetVertexBuffer(slot, buffer, 0, wgpu.WholeSize)
	}
}

// SetIndexBuffer binds an index buffer.
func (p *Pass) SetIndexBuffer(id gpu.BufferID, format gpu.IndexFormat) {
	p.device.mu.RLock()
	buffer, ok := p.device.buffers[id]
	p.device.mu.RUnlock()

	if ok {
		p.encoder.SetIndexBuffer(buffer, convertIndexFormat(format), 0, wgpu.WholeSize)
	}
}

// DrawIndexed draws indexCount indices from the bound index buffer.
func (p *Pass) DrawIndexed(indexCount uint32) {
	p.encoder.DrawIndexed(indexCount, 1, 0, 0, 0)
}
