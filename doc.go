// Package vgr is a retained-mode 2D vector-graphics renderer.
//
// vgr converts declarative shape descriptions ([Geom] values built from a
// [Primitive], a [Material] and an optional transform) into GPU draw commands,
// reusing previously computed tessellations and previously uploaded GPU
// resources across frames whenever the underlying content has not changed.
//
// # Frame model
//
// Each frame, the host hands the renderer the current list of geoms and a
// render pass:
//
//	rd, err := renderer.Prepare(device, format, geoms)
//	if err != nil {
//	    // frame-level failure (e.g. GPU memory exhausted): skip this frame
//	}
//	renderer.Render(pass, rd)
//
// [Renderer.Prepare] resolves a triangle mesh for every geom (cached by the
// exact bit patterns of the primitive and tessellation options), resolves
// material resources (uniform payloads, textures, samplers, pipelines) and
// emits an ordered [RenderData] bundle. [Renderer.Render] replays that bundle
// without making any decisions of its own, so draw order always equals input
// order and later geoms paint over earlier ones.
//
// # Caching
//
// Three cache layers keep per-frame work proportional to what changed:
//
//   - The mesh cache maps (primitive, options) to tessellated geometry.
//     Identical inputs are never tessellated twice.
//   - The texture cache maps a [Texture]'s stable [CacheID] to an uploaded
//     GPU texture. Pixel content is re-uploaded only when the texture's
//     [Fingerprint] changes, and the GPU allocation is reused in place as
//     long as the dimensions are unchanged.
//   - The pipeline registry creates one GPU pipeline per material variant and
//     surface format, shared by every geom using that variant.
//
// # Backends
//
// The renderer talks to the GPU only through the [gpu.Device] and
// [gpu.RenderPass] interfaces. Adapters live under backend/:
//
//   - backend/webgpu adapts github.com/cogentcore/webgpu
//   - backend/wgpu adapts the pure Go github.com/gogpu/wgpu HAL
//
// # Concurrency
//
// A Renderer is driven from a single render thread: one Prepare/Render pair
// per frame, no concurrent calls. The internal caches are individually
// thread-safe so that a future worker-pool tessellator does not require
// structural changes, but the Renderer itself is not a synchronization point.
//
// By default vgr produces no log output; call [SetLogger] to enable
// diagnostics.
package vgr
