package vgr

// WGSL shader sources. All materials share one vertex shader; each material
// variant has its own fragment shader. Every shader sees the same group(0)
// layout: geom uniforms at binding 0, material uniforms at binding 1 and,
// for texture materials, the texture view and sampler at bindings 2 and 3.
//
// The geom uniform block carries the composed transform as three vec4
// columns (an affine 2x3 matrix padded to std140-friendly vec4 columns)
// plus the primitive's untransformed bounds.

const vertexShaderWGSL = `
struct GeomUniforms {
    col0: vec4<f32>,
    col1: vec4<f32>,
    col2: vec4<f32>,
    bounds: vec4<f32>,
};

@group(0) @binding(0) var<uniform> geom: GeomUniforms;

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) local: vec2<f32>,
};

@vertex
fn vs_main(@location(0) pos: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    let x = geom.col0.x * pos.x + geom.col1.x * pos.y + geom.col2.x;
    let y = geom.col0.y * pos.x + geom.col1.y * pos.y + geom.col2.y;
    out.position = vec4<f32>(x, y, 0.0, 1.0);
    out.local = pos;
    return out;
}
`

const colorShaderWGSL = `
struct ColorUniforms {
    colour: vec4<f32>,
};

@group(0) @binding(1) var<uniform> material: ColorUniforms;

@fragment
fn fs_main(@location(0) local: vec2<f32>) -> @location(0) vec4<f32> {
    return material.colour;
}
`

const textureShaderWGSL = `
struct GeomUniforms {
    col0: vec4<f32>,
    col1: vec4<f32>,
    col2: vec4<f32>,
    bounds: vec4<f32>,
};

struct TextureUniforms {
    mode: vec2<u32>,
    size: vec2<f32>,
};

@group(0) @binding(0) var<uniform> geom: GeomUniforms;
@group(0) @binding(1) var<uniform> material: TextureUniforms;
@group(0) @binding(2) var content: texture_2d<f32>;
@group(0) @binding(3) var content_sampler: sampler;

@fragment
fn fs_main(@location(0) local: vec2<f32>) -> @location(0) vec4<f32> {
    let origin = geom.bounds.xy;
    let extent = geom.bounds.zw - geom.bounds.xy;
    var uv: vec2<f32>;
    if (material.mode.x == 2u) {
        // Fit: stretch the texture over the shape bounds.
        uv = (local - origin) / max(extent, vec2<f32>(1e-6, 1e-6));
    } else if (material.mode.x == 1u) {
        // Exact, centered on the shape.
        let center = (geom.bounds.xy + geom.bounds.zw) * 0.5;
        uv = (local - center) / material.size + vec2<f32>(0.5, 0.5);
    } else {
        // Exact, anchored at the shape's top-left corner.
        uv = (local - origin) / material.size;
    }
    return textureSample(content, content_sampler, uv);
}
`

const gradientShaderWGSL = `
struct GeomUniforms {
    col0: vec4<f32>,
    col1: vec4<f32>,
    col2: vec4<f32>,
    bounds: vec4<f32>,
};

struct GradientUniforms {
    kind: u32,
    stop_count: u32,
    repeat_mode: u32,
    pad0: u32,
    len: f32,
    rotation: f32,
    pad1: f32,
    pad2: f32,
    colours: array<vec4<f32>, 8>,
    offsets: array<vec4<f32>, 2>,
};

@group(0) @binding(0) var<uniform> geom: GeomUniforms;
@group(0) @binding(1) var<uniform> material: GradientUniforms;

const TWO_PI: f32 = 6.28318530718;

fn stop_offset(i: u32) -> f32 {
    return material.offsets[i / 4u][i % 4u];
}

fn gradient_colour(t: f32) -> vec4<f32> {
    let n = material.stop_count;
    if (n == 0u) {
        return vec4<f32>(0.0);
    }
    if (n == 1u || t <= stop_offset(0u)) {
        return material.colours[0];
    }
    for (var i: u32 = 1u; i < n; i = i + 1u) {
        let o1 = stop_offset(i);
        if (t <= o1) {
            let o0 = stop_offset(i - 1u);
            let f = clamp((t - o0) / max(o1 - o0, 1e-6), 0.0, 1.0);
            return mix(material.colours[i - 1u], material.colours[i], f);
        }
    }
    return material.colours[n - 1u];
}

@fragment
fn fs_main(@location(0) local: vec2<f32>) -> @location(0) vec4<f32> {
    let origin = geom.bounds.xy;
    let extent = geom.bounds.zw - origin;
    let center = origin + extent * 0.5;

    var t: f32;
    if (material.kind == 2u) {
        // Conic: angular fraction around the shape center.
        let d = local - center;
        t = fract((atan2(d.y, d.x) - material.rotation) / TWO_PI + 1.0);
    } else {
        var s: f32;
        var span: f32;
        if (material.kind == 1u) {
            // Radial: distance from the shape center.
            s = distance(local, center);
            span = max(length(extent) * 0.5, 1e-6);
        } else {
            // Linear: projection onto the rotated axis.
            let dir = vec2<f32>(cos(material.rotation), sin(material.rotation));
            s = dot(local - origin, dir);
            span = max(abs(dot(extent, dir)), 1e-6);
        }
        if (material.repeat_mode == 1u && material.len > 0.0) {
            t = fract(s / material.len);
        } else {
            t = clamp(s / span, 0.0, 1.0);
        }
    }
    return gradient_colour(t);
}
`

// fragmentShaderFor returns the WGSL fragment source for a material variant.
func fragmentShaderFor(t MaterialType) string {
	switch t {
	case MaterialColor:
		return colorShaderWGSL
	case MaterialTexture:
		return textureShaderWGSL
	case MaterialGradient:
		return gradientShaderWGSL
	}
	return ""
}
