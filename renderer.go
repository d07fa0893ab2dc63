package vgr

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/gogpu/vgr/gpu"
	"github.com/gogpu/vgr/internal/cache"
)

// RendererConfig configures a Renderer. The zero value is valid: an
// unbounded mesh cache and the default tolerance.
type RendererConfig struct {
	// MeshCacheLimit bounds the mesh cache entry count. 0 means
	// unbounded, the default retention policy: tessellations live for
	// the renderer's lifetime.
	MeshCacheLimit int

	// Tolerance is the curve flattening tolerance in pixels.
	// 0 selects DefaultTolerance.
	Tolerance float32
}

// Renderer converts geom lists into GPU draw commands, reusing cached
// tessellations and GPU resources across frames.
//
// A Renderer is driven from a single render thread: one Prepare/Render
// pair per frame. The caller's root transforms are expected to include the
// projection into clip space (see [NDCProjection]).
type Renderer struct {
	tess      *Tessellator
	textures  *TextureCache
	pipelines *PipelineRegistry

	// GPU buffers for tessellated meshes, keyed by mesh cache identity.
	meshBuffers map[CacheID]*meshBufferEntry

	// Per-geom GPU state, keyed by geom cache identity so caller-side
	// mutations reuse the same allocations.
	geomState map[CacheID]*geomStateEntry

	closed bool
}

type meshBufferEntry struct {
	vbuf       gpu.BufferID
	ibuf       gpu.BufferID
	vcap       int
	icap       int
	fp         Fingerprint
	indexCount uint32
}

type geomStateEntry struct {
	geomBuf  gpu.BufferID
	matBuf   gpu.BufferID
	matCap   int
	lastGeom []byte
	lastMat  []byte

	bindGroup gpu.BindGroupID
	bindKey   bindKey
}

// bindKey captures everything a geom's bind group references. When any
// component changes the bind group is rebuilt.
type bindKey struct {
	material MaterialType
	geomBuf  gpu.BufferID
	matBuf   gpu.BufferID
	matSize  int
	texture  gpu.TextureID
	sampler  gpu.SamplerID
}

// Draw is one recorded draw command. Draws carry their pipeline so that
// Render is pure replay.
type Draw struct {
	Pipeline   gpu.RenderPipelineID
	BindGroup  gpu.BindGroupID
	Vertex     gpu.BufferID
	Index      gpu.BufferID
	IndexCount uint32
}

// RenderData is the ordered draw bundle produced by Prepare for one frame.
// Draw order equals the depth-first input order, so later geoms paint over
// earlier ones.
type RenderData struct {
	Draws []Draw

	// Skipped counts geoms dropped from this frame by recoverable
	// per-geom failures (degenerate geometry, oversized gradients).
	Skipped int
}

// NewRenderer creates a renderer with the given configuration.
func NewRenderer(cfg RendererConfig) *Renderer {
	return &Renderer{
		tess:        NewTessellator(cfg.MeshCacheLimit, cfg.Tolerance),
		textures:    NewTextureCache(),
		pipelines:   NewPipelineRegistry(),
		meshBuffers: make(map[CacheID]*meshBufferEntry),
		geomState:   make(map[CacheID]*geomStateEntry),
	}
}

// Prepare resolves GPU resources for every geom in the list (depth-first,
// children after their parent, parent transforms composed onto children)
// and returns the frame's ordered draw bundle.
//
// Per-geom failures are isolated: the offending geom is logged, counted in
// RenderData.Skipped and dropped from the frame while every other geom
// renders normally. Allocation failures are frame-fatal: Prepare aborts
// with an error wrapping ErrAllocationFailed and the caller may retry next
// frame.
func (r *Renderer) Prepare(dev gpu.Device, format gpu.TextureFormat, geoms []*Geom) (*RenderData, error) {
	if r.closed {
		return nil, ErrRendererClosed
	}

	r.releaseEvictedMeshes(dev)

	rd := &RenderData{}
	idx := 0
	if err := r.prepareList(dev, format, geoms, Identity(), &idx, rd); err != nil {
		return nil, err
	}
	return rd, nil
}

func (r *Renderer) prepareList(dev gpu.Device, format gpu.TextureFormat, geoms []*Geom, parent Matrix, idx *int, rd *RenderData) error {
	for _, g := range geoms {
		if g == nil {
			continue
		}
		transform := parent
		if g.Transform != nil {
			transform = parent.Multiply(*g.Transform)
		}

		if err := r.prepareGeom(dev, format, g, transform, rd); err != nil {
			gerr := &GeomError{Index: *idx, Err: err}
			if errors.Is(err, ErrAllocationFailed) {
				return gerr
			}
			Logger().Warn("skipping geom", "index", *idx, "err", err)
			rd.Skipped++
		}
		*idx++

		if err := r.prepareList(dev, format, g.Children, transform, idx, rd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) prepareGeom(dev gpu.Device, format gpu.TextureFormat, g *Geom, transform Matrix, rd *RenderData) error {
	mesh, err := r.tess.Tessellate(g.Primitive, g.Options)
	if err != nil {
		return err
	}

	mb, err := r.resolveMeshBuffers(dev, mesh)
	if err != nil {
		return err
	}

	matBytes, err := g.Material.UniformBytes()
	if err != nil {
		return err
	}
	geomBytes := encodeGeomUniforms(transform, g.Primitive.Bounds())

	state := r.geomState[g.CacheID()]
	if state == nil {
		state = &geomStateEntry{}
		r.geomState[g.CacheID()] = state
	}

	if err := r.resolveGeomBuffer(dev, state, geomBytes); err != nil {
		return err
	}
	if err := r.resolveMaterialBuffer(dev, state, matBytes); err != nil {
		return err
	}

	mt := g.Material.Type()
	var texID gpu.TextureID
	var samplerID gpu.SamplerID
	if tex := materialTexture(g.Material); tex != nil {
		texID, err = r.textures.Resolve(dev, tex)
		if err != nil {
			return err
		}
		samplerID, err = r.pipelines.SamplerFor(dev, g.Material.(TextureMaterial).Stretch)
		if err != nil {
			return err
		}
	}

	if err := r.resolveBindGroup(dev, state, mt, texID, samplerID, len(matBytes)); err != nil {
		return err
	}

	pipeline, err := r.pipelines.Pipeline(dev, mt, format)
	if err != nil {
		return err
	}

	rd.Draws = append(rd.Draws, Draw{
		Pipeline:   pipeline,
		BindGroup:  state.bindGroup,
		Vertex:     mb.vbuf,
		Index:      mb.ibuf,
		IndexCount: mb.indexCount,
	})
	return nil
}

// releaseEvictedMeshes destroys the GPU buffers of meshes the mesh cache
// has evicted. Destruction is deferred to the start of the next frame so
// draws recorded in the evicting frame stay valid through Render.
func (r *Renderer) releaseEvictedMeshes(dev gpu.Device) {
	for _, id := range r.tess.TakeEvictedIDs() {
		mb, ok := r.meshBuffers[id]
		if !ok {
			continue
		}
		dev.DestroyBuffer(mb.vbuf)
		dev.DestroyBuffer(mb.ibuf)
		delete(r.meshBuffers, id)
	}
}

// resolveMeshBuffers returns GPU vertex and index buffers for a mesh,
// uploading on first sight. Meshes are immutable, so an existing entry
// with a matching fingerprint is reused untouched.
func (r *Renderer) resolveMeshBuffers(dev gpu.Device, mesh *Mesh) (*meshBufferEntry, error) {
	entry, ok := r.meshBuffers[mesh.CacheID()]
	if ok && entry.fp == mesh.Fingerprint() {
		return entry, nil
	}

	vbytes := mesh.vertexBytes()
	ibytes := mesh.indexBytes()

	if entry == nil {
		entry = &meshBufferEntry{}
	}
	// Grow-only reuse: reallocate only when the existing capacity is
	// too small.
	if entry.vbuf == gpu.InvalidID || entry.vcap < len(vbytes) {
		if entry.vbuf != gpu.InvalidID {
			dev.DestroyBuffer(entry.vbuf)
			entry.vbuf = gpu.InvalidID
		}
		vbuf, err := dev.CreateBuffer(uint64(len(vbytes)), gpu.BufferUsageVertex|gpu.BufferUsageCopyDst)
		if err != nil {
			return nil, allocErr("vertex buffer", err)
		}
		entry.vbuf = vbuf
		entry.vcap = len(vbytes)
	}
	if entry.ibuf == gpu.InvalidID || entry.icap < len(ibytes) {
		if entry.ibuf != gpu.InvalidID {
			dev.DestroyBuffer(entry.ibuf)
			entry.ibuf = gpu.InvalidID
		}
		ibuf, err := dev.CreateBuffer(uint64(len(ibytes)), gpu.BufferUsageIndex|gpu.BufferUsageCopyDst)
		if err != nil {
			return nil, allocErr("index buffer", err)
		}
		entry.ibuf = ibuf
		entry.icap = len(ibytes)
	}

	if err := dev.WriteBuffer(entry.vbuf, 0, vbytes); err != nil {
		return nil, allocErr("vertex upload", err)
	}
	if err := dev.WriteBuffer(entry.ibuf, 0, ibytes); err != nil {
		return nil, allocErr("index upload", err)
	}

	entry.fp = mesh.Fingerprint()
	entry.indexCount = uint32(mesh.IndexCount())
	r.meshBuffers[mesh.CacheID()] = entry
	return entry, nil
}

// resolveGeomBuffer keeps the per-geom uniform buffer current, writing
// only when the encoded contents changed.
func (r *Renderer) resolveGeomBuffer(dev gpu.Device, state *geomStateEntry, geomBytes []byte) error {
	if state.geomBuf == gpu.InvalidID {
		buf, err := dev.CreateBuffer(geomUniformSize, gpu.BufferUsageUniform|gpu.BufferUsageCopyDst)
		if err != nil {
			return allocErr("geom uniform buffer", err)
		}
		state.geomBuf = buf
	}
	if bytes.Equal(state.lastGeom, geomBytes) {
		return nil
	}
	if err := dev.WriteBuffer(state.geomBuf, 0, geomBytes); err != nil {
		return allocErr("geom uniform upload", err)
	}
	state.lastGeom = append(state.lastGeom[:0], geomBytes...)
	return nil
}

// resolveMaterialBuffer keeps the per-geom material uniform buffer
// current. The buffer is reused in place across content changes and
// reallocated only when the payload outgrows it (a material variant
// swap).
func (r *Renderer) resolveMaterialBuffer(dev gpu.Device, state *geomStateEntry, matBytes []byte) error {
	if state.matBuf == gpu.InvalidID || state.matCap < len(matBytes) {
		if state.matBuf != gpu.InvalidID {
			dev.DestroyBuffer(state.matBuf)
			state.matBuf = gpu.InvalidID
		}
		buf, err := dev.CreateBuffer(uint64(len(matBytes)), gpu.BufferUsageUniform|gpu.BufferUsageCopyDst)
		if err != nil {
			return allocErr("material uniform buffer", err)
		}
		state.matBuf = buf
		state.matCap = len(matBytes)
		state.lastMat = nil
	}
	if bytes.Equal(state.lastMat, matBytes) {
		return nil
	}
	if err := dev.WriteBuffer(state.matBuf, 0, matBytes); err != nil {
		return allocErr("material uniform upload", err)
	}
	state.lastMat = append(state.lastMat[:0], matBytes...)
	return nil
}

// resolveBindGroup rebuilds the geom's bind group when any bound resource
// changed.
func (r *Renderer) resolveBindGroup(dev gpu.Device, state *geomStateEntry, mt MaterialType, texID gpu.TextureID, samplerID gpu.SamplerID, matSize int) error {
	key := bindKey{
		material: mt,
		geomBuf:  state.geomBuf,
		matBuf:   state.matBuf,
		matSize:  matSize,
		texture:  texID,
		sampler:  samplerID,
	}
	if state.bindGroup != gpu.InvalidID && state.bindKey == key {
		return nil
	}

	layout, err := r.pipelines.Layout(dev, mt)
	if err != nil {
		return err
	}

	entries := []gpu.BindGroupEntry{
		{Binding: 0, Buffer: state.geomBuf, Size: geomUniformSize},
		{Binding: 1, Buffer: state.matBuf, Size: uint64(matSize)},
	}
	if mt.HasTexture() {
		entries = append(entries,
			gpu.BindGroupEntry{Binding: 2, Texture: texID},
			gpu.BindGroupEntry{Binding: 3, Sampler: samplerID},
		)
	}

	bg, err := dev.CreateBindGroup("vgr geom bind group", layout, entries)
	if err != nil {
		return allocErr("bind group", err)
	}
	if state.bindGroup != gpu.InvalidID {
		dev.DestroyBindGroup(state.bindGroup)
	}
	state.bindGroup = bg
	state.bindKey = key
	return nil
}

// Render replays a prepared draw bundle into a render pass. It makes no
// decisions of its own; an empty bundle is a no-op.
func (r *Renderer) Render(pass gpu.RenderPass, rd *RenderData) {
	if rd == nil {
		return
	}
	for _, d := range rd.Draws {
		pass.SetPipeline(d.Pipeline)
		pass.SetBindGroup(0, d.BindGroup)
		pass.SetVertexBuffer(0, d.Vertex)
		pass.SetIndexBuffer(d.Index, gpu.IndexFormatUint32)
		pass.DrawIndexed(d.IndexCount)
	}
}

// Stats is a snapshot of the renderer's cache and allocation counters.
type Stats struct {
	// MeshCache is the mesh cache snapshot.
	MeshCache cache.Stats

	// TessellationInvocations counts actual tessellations (cache
	// misses).
	TessellationInvocations uint64

	// TextureAllocations counts GPU texture creations.
	TextureAllocations uint64

	// TextureUploads counts pixel uploads, initial uploads included.
	TextureUploads uint64

	// PipelineCreations counts render pipeline creations.
	PipelineCreations uint64

	// MeshBuffers is the number of resident mesh buffer pairs.
	MeshBuffers int

	// GeomStates is the number of geoms with resident GPU state.
	GeomStates int
}

// Stats returns a snapshot of the renderer's counters.
func (r *Renderer) Stats() Stats {
	return Stats{
		MeshCache:               r.tess.CacheStats(),
		TessellationInvocations: r.tess.Invocations(),
		TextureAllocations:      r.textures.Allocations(),
		TextureUploads:          r.textures.Uploads(),
		PipelineCreations:       r.pipelines.Creations(),
		MeshBuffers:             len(r.meshBuffers),
		GeomStates:              len(r.geomState),
	}
}

// ClearCaches drops all cached tessellations and releases their GPU
// buffers. Subsequent frames re-tessellate and re-upload; rendered output
// is unchanged.
func (r *Renderer) ClearCaches(dev gpu.Device) {
	r.tess.ClearCache()
	for id, mb := range r.meshBuffers {
		dev.DestroyBuffer(mb.vbuf)
		dev.DestroyBuffer(mb.ibuf)
		delete(r.meshBuffers, id)
	}
}

// Close releases every GPU resource the renderer owns. The renderer is
// unusable afterwards; Prepare returns ErrRendererClosed.
func (r *Renderer) Close(dev gpu.Device) {
	if r.closed {
		return
	}
	r.closed = true

	for id, mb := range r.meshBuffers {
		dev.DestroyBuffer(mb.vbuf)
		dev.DestroyBuffer(mb.ibuf)
		delete(r.meshBuffers, id)
	}
	for id, state := range r.geomState {
		if state.bindGroup != gpu.InvalidID {
			dev.DestroyBindGroup(state.bindGroup)
		}
		if state.geomBuf != gpu.InvalidID {
			dev.DestroyBuffer(state.geomBuf)
		}
		if state.matBuf != gpu.InvalidID {
			dev.DestroyBuffer(state.matBuf)
		}
		delete(r.geomState, id)
	}
	r.textures.Close(dev)
	r.pipelines.Close(dev)
}

// encodeGeomUniforms packs the composed transform (three vec4 columns)
// and the primitive's untransformed bounds into the 64-byte geom uniform
// block.
func encodeGeomUniforms(m Matrix, b Rect) []byte {
	buf := make([]byte, 0, geomUniformSize)
	for _, f := range [16]float32{
		m.A, m.D, 0, 0,
		m.B, m.E, 0, 0,
		m.C, m.F, 0, 1,
		b.MinX, b.MinY, b.MaxX, b.MaxY,
	} {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}

