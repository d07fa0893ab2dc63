// Package cache provides the generic cache primitive backing the renderer's
// content-addressed caches.
//
// Cache[K, V] is a thread-safe map with an optional soft limit. The default
// policy (soft limit 0) is unbounded grow-only retention: mesh cache entries
// live for the process lifetime, so a cache hit is always available for
// content that has been seen before. A positive soft limit turns on batched
// least-recently-used eviction as a bounding extension.
//
//	meshes := cache.New[meshKey, *Mesh](0) // unbounded
//	meshes.Set(key, mesh)
//	mesh, ok := meshes.Get(key)
//
// Cache must not be copied after creation.
package cache
