package vgr

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/vgr/gpu"
)

// TextureCache maps texture cache identities to uploaded GPU textures.
// Pixel content is uploaded only when a texture's fingerprint changes, and
// the GPU allocation is reused in place as long as the dimensions match.
//
// TextureCache is safe for concurrent use.
type TextureCache struct {
	mu      sync.Mutex
	entries map[CacheID]*textureEntry

	allocs  atomic.Uint64
	uploads atomic.Uint64
}

type textureEntry struct {
	tex    gpu.TextureID
	fp     Fingerprint
	width  int
	height int
}

// NewTextureCache creates an empty texture cache.
func NewTextureCache() *TextureCache {
	return &TextureCache{entries: make(map[CacheID]*textureEntry)}
}

// Resolve returns the GPU texture for t, creating or refreshing it as
// needed:
//
//   - unknown identity: allocate a GPU texture and upload the content
//   - known identity, unchanged fingerprint: return the existing texture
//   - known identity, changed fingerprint, same dimensions: overwrite the
//     existing allocation in place
//   - known identity, changed dimensions: ErrDimensionMismatch; the
//     existing texture and its content stay valid
func (tc *TextureCache) Resolve(dev gpu.Device, t *Texture) (gpu.TextureID, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	w, h := t.Size()
	entry, ok := tc.entries[t.CacheID()]
	if !ok {
		id, err := dev.CreateTexture(uint32(w), uint32(h), gpu.TextureFormatRGBA8Unorm)
		if err != nil {
			return 0, allocErr(fmt.Sprintf("texture %dx%d", w, h), err)
		}
		if err := dev.WriteTexture(id, t.Data()); err != nil {
			dev.DestroyTexture(id)
			return 0, allocErr("texture upload", err)
		}
		tc.allocs.Add(1)
		tc.uploads.Add(1)
		tc.entries[t.CacheID()] = &textureEntry{tex: id, fp: t.Fingerprint(), width: w, height: h}
		return id, nil
	}

	if entry.fp == t.Fingerprint() {
		return entry.tex, nil
	}
	if entry.width != w || entry.height != h {
		return 0, fmt.Errorf("%w: have %dx%d, got %dx%d",
			ErrDimensionMismatch, entry.width, entry.height, w, h)
	}

	if err := dev.WriteTexture(entry.tex, t.Data()); err != nil {
		return 0, allocErr("texture upload", err)
	}
	entry.fp = t.Fingerprint()
	tc.uploads.Add(1)
	return entry.tex, nil
}

// Len returns the number of resident GPU textures.
func (tc *TextureCache) Len() int {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	return len(tc.entries)
}

// Allocations returns how many GPU textures were created.
func (tc *TextureCache) Allocations() uint64 { return tc.allocs.Load() }

// Uploads returns how many pixel uploads were performed, including the
// initial upload of each texture.
func (tc *TextureCache) Uploads() uint64 { return tc.uploads.Load() }

// Close destroys all resident GPU textures and empties the cache.
func (tc *TextureCache) Close(dev gpu.Device) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for id, entry := range tc.entries {
		dev.DestroyTexture(entry.tex)
		delete(tc.entries, id)
	}
}
