package gpu

import (
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// stubProvider reports a fixed surface format.
type stubProvider struct {
	format gputypes.TextureFormat
}

func (p *stubProvider) Device() gpucontext.Device             { return nil }
func (p *stubProvider) Queue() gpucontext.Queue               { return nil }
func (p *stubProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *stubProvider) Adapter() gpucontext.Adapter           { return nil }
func (p *stubProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

func TestSurfaceFormat(t *testing.T) {
	cases := []struct {
		name string
		in   gputypes.TextureFormat
		want TextureFormat
	}{
		{"rgba", gputypes.TextureFormatRGBA8Unorm, TextureFormatRGBA8Unorm},
		{"bgra", gputypes.TextureFormatBGRA8Unorm, TextureFormatBGRA8Unorm},
		{"undefined falls back", gputypes.TextureFormatUndefined, TextureFormatRGBA8Unorm},
		{"unmapped falls back", gputypes.TextureFormatRGBA16Float, TextureFormatRGBA8Unorm},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := SurfaceFormat(&stubProvider{format: c.in})
			if got != c.want {
				t.Errorf("SurfaceFormat(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestSurfaceFormatNilHandle(t *testing.T) {
	if got := SurfaceFormat(nil); got != TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat(nil) = %v, want RGBA8Unorm", got)
	}
}
