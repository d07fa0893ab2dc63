package vgr

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// textureKind discriminates the texture variants.
type textureKind uint8

const (
	textureImage textureKind = iota
	textureRaw
)

// Texture is pixel content that a TextureMaterial can sample. It comes in
// two variants: image-backed (converted from any image.Image) and raw-backed
// (a tightly packed RGBA byte buffer).
//
// A Texture carries two pieces of cache metadata with different lifetimes:
// its CacheID is assigned once at construction and never changes, while its
// Fingerprint is re-randomized on every content mutation. The texture cache
// uses the pair to decide between reuse, in-place overwrite and re-upload.
//
// The pixel buffer is shared, not copied, between the texture and any
// in-flight GPU upload: UpdateImage installs a freshly converted buffer
// rather than mutating the current one, so a reader holding a previous
// Data() slice keeps a consistent view.
type Texture struct {
	kind textureKind

	// Image-backed content.
	img *image.RGBA

	// Raw-backed content.
	buf    []byte
	width  int
	height int

	id CacheID
	fp Fingerprint
}

// toRGBA converts an arbitrary image into tightly packed RGBA pixels.
// Images that are already *image.RGBA with a zero-origin, stride-packed
// layout are reused as-is.
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	if rgba, ok := src.(*image.RGBA); ok {
		if b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
			return rgba
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

// NewImageTexture creates an image-backed texture from any image.Image.
// Non-RGBA images are converted once at construction.
func NewImageTexture(src image.Image) *Texture {
	return &Texture{
		kind: textureImage,
		img:  toRGBA(src),
		id:   NewCacheID(),
		fp:   NewFingerprint(),
	}
}

// NewRawTexture creates a texture from a tightly packed RGBA byte buffer.
// The buffer length must be exactly width*height*4.
func NewRawTexture(buf []byte, width, height int) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: raw texture %dx%d", ErrDegenerateGeometry, width, height)
	}
	if len(buf) != width*height*4 {
		return nil, fmt.Errorf("vgr: raw texture buffer is %d bytes, want %d", len(buf), width*height*4)
	}
	return &Texture{
		kind:   textureRaw,
		buf:    buf,
		width:  width,
		height: height,
		id:     NewCacheID(),
		fp:     NewFingerprint(),
	}, nil
}

// UpdateImage replaces the pixel content of an image-backed texture.
// The new image must have the same dimensions as the current content;
// otherwise ErrDimensionMismatch is returned and the previous content is
// left intact. On success the fingerprint changes while the cache identity
// stays the same, signalling the texture cache to overwrite the existing
// GPU allocation in place.
func (t *Texture) UpdateImage(src image.Image) error {
	if t.kind != textureImage {
		return fmt.Errorf("vgr: texture is not image-backed")
	}
	next := toRGBA(src)
	ob := t.img.Bounds()
	nb := next.Bounds()
	if ob.Dx() != nb.Dx() || ob.Dy() != nb.Dy() {
		return fmt.Errorf("%w: have %dx%d, got %dx%d",
			ErrDimensionMismatch, ob.Dx(), ob.Dy(), nb.Dx(), nb.Dy())
	}
	t.img = next
	t.fp = NewFingerprint()
	return nil
}

// UpdateRaw replaces the pixel content of a raw-backed texture. The buffer
// must match the texture's current size; otherwise ErrDimensionMismatch is
// returned and the previous content is left intact.
func (t *Texture) UpdateRaw(buf []byte) error {
	if t.kind != textureRaw {
		return fmt.Errorf("vgr: texture is not raw-backed")
	}
	if len(buf) != t.width*t.height*4 {
		return fmt.Errorf("%w: buffer is %d bytes, want %d",
			ErrDimensionMismatch, len(buf), t.width*t.height*4)
	}
	t.buf = buf
	t.fp = NewFingerprint()
	return nil
}

// Size returns the texture dimensions in pixels.
func (t *Texture) Size() (width, height int) {
	if t.kind == textureImage {
		b := t.img.Bounds()
		return b.Dx(), b.Dy()
	}
	return t.width, t.height
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int {
	w, _ := t.Size()
	return w
}

// Height returns the texture height in pixels.
func (t *Texture) Height() int {
	_, h := t.Size()
	return h
}

// Data returns the pixel content as tightly packed RGBA bytes. The slice is
// valid until the next content update; updates install a new buffer rather
// than mutating this one.
func (t *Texture) Data() []byte {
	if t.kind == textureImage {
		return t.img.Pix
	}
	return t.buf
}

// Fingerprint returns the current content version.
func (t *Texture) Fingerprint() Fingerprint { return t.fp }

// CacheID returns the texture's stable cache identity.
func (t *Texture) CacheID() CacheID { return t.id }
