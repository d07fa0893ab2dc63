package vgr

import (
	"math/rand/v2"
	"sync/atomic"
)

// CacheID is a process-unique opaque identity for a cacheable resource.
// It is assigned once at construction and never changes, regardless of how
// often the resource's content mutates. The cache layers use it as the key
// component that is independent of content.
//
// The zero value is not a valid identity.
type CacheID uint64

// nextCacheID is the monotonically increasing identity source.
// Starts at 1 so the zero value stays invalid.
var nextCacheID atomic.Uint64

// NewCacheID allocates a fresh process-unique identity.
// Safe for concurrent use.
func NewCacheID() CacheID {
	return CacheID(nextCacheID.Add(1))
}

// Valid reports whether the identity was allocated via NewCacheID.
func (id CacheID) Valid() bool { return id != 0 }

// Fingerprint is an opaque 64-bit content version. Two resources with equal
// identity and equal fingerprint are content-equivalent (with overwhelming
// probability, not a cryptographic guarantee); a changed fingerprint under
// the same identity means "same logical resource, new content".
//
// Fingerprints are random values, never derived from memory addresses or
// other transient state, so they stay meaningful across moves and copies.
type Fingerprint uint64

// NewFingerprint draws a fresh random fingerprint.
func NewFingerprint() Fingerprint {
	return Fingerprint(rand.Uint64())
}

// Fingerprinted is implemented by resources whose content is versioned by
// a fingerprint.
type Fingerprinted interface {
	Fingerprint() Fingerprint
}

// Cacheable is implemented by resources with a stable cache identity.
type Cacheable interface {
	CacheID() CacheID
}
