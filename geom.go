package vgr

// Geom is one shape in the frame's scene list: a primitive, the material
// shading it, an optional transform and an ordered list of child geoms.
//
// Geoms are owned by the caller for their entire lifetime. The caller may
// mutate fields directly between frames (swap the material, change the
// transform); the renderer treats each Geom as the full truth for the frame
// being prepared and never retains a reference past the Prepare call. The
// cache identity assigned at construction is what lets per-geom GPU state
// (uniform buffers, bind groups) survive such mutations.
type Geom struct {
	// Primitive is the shape's geometry.
	Primitive Primitive

	// Material determines which pipeline and uniform layout apply.
	Material Material

	// Transform maps the primitive's coordinates toward clip space.
	// Nil means identity. For composite geoms the parent's transform is
	// composed onto each child's own.
	Transform *Matrix

	// Children are drawn after this geom, depth-first, with the parent
	// transform applied.
	Children []*Geom

	// Options select fill or stroke tessellation.
	Options TessellationOptions

	id CacheID
}

// NewGeom creates a geom. The transform may be nil for identity.
func NewGeom(p Primitive, m Material, transform *Matrix, children []*Geom, opts TessellationOptions) *Geom {
	return &Geom{
		Primitive: p,
		Material:  m,
		Transform: transform,
		Children:  children,
		Options:   opts,
		id:        NewCacheID(),
	}
}

// CacheID returns the geom's stable identity, assigned at construction.
// Per-geom GPU resources are keyed by it across frames and content changes.
func (g *Geom) CacheID() CacheID { return g.id }
