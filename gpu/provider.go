package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host application owns the device and surface; the renderer
// receives them through this handle and never creates its own. This
// keeps GPU resources shared between the renderer and the host.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so host
// applications already integrated with the gpucontext ecosystem can
// pass their provider directly.
type DeviceHandle = gpucontext.DeviceProvider

// SurfaceFormat converts the host surface format reported by a
// DeviceHandle into the renderer's TextureFormat. Unknown formats fall
// back to RGBA8Unorm.
func SurfaceFormat(handle DeviceHandle) TextureFormat {
	if handle == nil {
		return TextureFormatRGBA8Unorm
	}
	return convertSurfaceFormat(handle.SurfaceFormat())
}

func convertSurfaceFormat(format gputypes.TextureFormat) TextureFormat {
	switch format {
	case gputypes.TextureFormatRGBA8Unorm:
		return TextureFormatRGBA8Unorm
	case gputypes.TextureFormatBGRA8Unorm:
		return TextureFormatBGRA8Unorm
	default:
		return TextureFormatRGBA8Unorm
	}
}
