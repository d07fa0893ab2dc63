// Package gpu defines the abstract GPU capability the renderer depends on.
//
// The renderer never talks to a concrete graphics API. It consumes the
// [Device] interface to allocate and write buffers and textures and to
// create pipelines, and the [RenderPass] interface to replay draw commands.
// Adapters under backend/ translate these calls onto real GPU stacks:
//
//   - backend/webgpu wraps github.com/cogentcore/webgpu
//   - backend/wgpu wraps the pure Go github.com/gogpu/wgpu HAL
//
// # Resource management
//
// GPU resources are addressed by opaque uint64 IDs ([BufferID], [TextureID],
// and so on). Each adapter maintains the mapping between IDs and its actual
// backend handles. Resources are created via Create* methods and must be
// explicitly released via Destroy* methods; IDs become invalid after
// destruction and are never reused.
//
// # Threading
//
// The renderer drives a Device from a single render thread. Adapters are
// nevertheless expected to guard their internal ID tables, since host
// applications may create and destroy auxiliary resources from other
// goroutines during setup.
package gpu
