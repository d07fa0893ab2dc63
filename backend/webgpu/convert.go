package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/gogpu/vgr/gpu"
)

// === Type Conversion Helpers ===

// convertBufferUsage converts gpu.BufferUsage to wgpu.BufferUsage.
func convertBufferUsage(usage gpu.BufferUsage) wgpu.BufferUsage {
	var result wgpu.BufferUsage

	if usage&gpu.BufferUsageCopySrc != 0 {
		result |= wgpu.BufferUsageCopySrc
	}
	if usage&gpu.BufferUsageCopyDst != 0 {
		result |= wgpu.BufferUsageCopyDst
	}
	if usage&gpu.BufferUsageIndex != 0 {
		result |= wgpu.BufferUsageIndex
	}
	if usage&gpu.BufferUsageVertex != 0 {
		result |= wgpu.BufferUsageVertex
	}
	if usage&gpu.BufferUsageUniform != 0 {
		result |= wgpu.BufferUsageUniform
	}

	return result
}

// convertTextureFormat converts gpu.TextureFormat to wgpu.TextureFormat.
func convertTextureFormat(format gpu.TextureFormat) wgpu.TextureFormat {
	switch format {
	case gpu.TextureFormatRGBA8Unorm:
		return wgpu.TextureFormatRGBA8Unorm
	case gpu.TextureFormatRGBA8UnormSRGB:
		return wgpu.TextureFormatRGBA8UnormSrgb
	case gpu.TextureFormatBGRA8Unorm:
		return wgpu.TextureFormatBGRA8Unorm
	case gpu.TextureFormatBGRA8UnormSRGB:
		return wgpu.TextureFormatBGRA8UnormSrgb
	default:
		return wgpu.TextureFormatRGBA8Unorm
	}
}

// convertIndexFormat converts gpu.IndexFormat to wgpu.IndexFormat.
func convertIndexFormat(format gpu.IndexFormat) wgpu.IndexFormat {
	if format == gpu.IndexFormatUint16 {
		return wgpu.IndexFormatUint16
	}
	return wgpu.IndexFormatUint32
}

// convertFilterMode converts gpu.FilterMode to wgpu.FilterMode.
func convertFilterMode(mode gpu.FilterMode) wgpu.FilterMode {
	if mode == gpu.FilterLinear {
		return wgpu.FilterModeLinear
	}
	return wgpu.FilterModeNearest
}

// convertAddressMode converts gpu.AddressMode to wgpu.AddressMode.
func convertAddressMode(mode gpu.AddressMode) wgpu.AddressMode {
	if mode == gpu.AddressRepeat {
		return wgpu.AddressModeRepeat
	}
	return wgpu.AddressModeClampToEdge
}

// convertVertexFormat converts gpu.VertexFormat to wgpu.VertexFormat.
func convertVertexFormat(format gpu.VertexFormat) wgpu.VertexFormat {
	if format == gpu.VertexFormatFloat32x4 {
		return wgpu.VertexFormatFloat32x4
	}
	return wgpu.VertexFormatFloat32x2
}

// convertShaderStage converts gpu.ShaderStage to wgpu.ShaderStage.
func convertShaderStage(stage gpu.ShaderStage) wgpu.ShaderStage {
	var result wgpu.ShaderStage

	if stage&gpu.ShaderStageVertex != 0 {
		result |= wgpu.ShaderStageVertex
	}
	if stage&gpu.ShaderStageFragment != 0 {
		result |= wgpu.ShaderStageFragment
	}

	return result
}

// convertBindGroupLayoutEntry converts gpu.BindGroupLayoutEntry to
// wgpu.BindGroupLayoutEntry.
func convertBindGroupLayoutEntry(entry gpu.BindGroupLayoutEntry) (wgpu.BindGroupLayoutEntry, error) {
	result := wgpu.BindGroupLayoutEntry{
		Binding:    entry.Binding,
		Visibility: convertShaderStage(entry.Visibility),
	}

	switch entry.Type {
	case gpu.BindingTypeUniformBuffer:
		result.Buffer = wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: entry.MinBindingSize,
		}
	case gpu.BindingTypeSampler:
		result.Sampler = wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		}
	case gpu.BindingTypeSampledTexture:
		result.Texture = wgpu.TextureBindingLayout{
			SampleType:    wgpu.TextureSampleTypeFloat,
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	default:
		return result, fmt.Errorf("unknown binding type %d", entry.Type)
	}

	return result, nil
}
