// Package bpt implements the bidirectional path tracing light-transport
// core (spec §4.5): subpath sampling, full-path assembly, the O(n)
// ratio-based MIS weight recurrence, and the vertex arena backing both
// subpaths. Grounded directly on the teacher's pkg/integrator/bdpt.go
// (Vertex/Path shape, extendPath's area-PDF bookkeeping) and
// bdpt_mis.go (the on-demand, zero-allocation ratio recurrence this
// package generalizes from a fixed two-technique comparison to the full
// O(n) sweep).
package bpt

import (
	"github.com/lumetra/pathbench/pkg/geomcore"
	"github.com/lumetra/pathbench/pkg/vmath"
)

// Kind classifies a Vertex's role, determining which PDF/connection
// rules apply (spec §4.5.1).
type Kind int

const (
	CameraVertex Kind = iota
	LightVertex
	SurfaceVertex
)

// Vertex is one node of a light or eye subpath (spec §4.5.1). Forward and
// reverse PDFs are always stored in Area measure so the ratio recurrence
// in mis.go can divide them directly without a measure-conversion call
// on every step.
type Vertex struct {
	Kind Kind
	Geom geomcore.SurfaceGeometry

	BSDF      geomcore.GBSDF  // SurfaceVertex
	AreaLight geomcore.Emitter // LightVertex
	Camera    geomcore.Camera  // CameraVertex
	LightIdx  int              // LightVertex: index into Scene.Light(i)

	// Wi is the direction this vertex's predecessor was sampled from,
	// i.e. pointing from this vertex back toward the previous one along
	// the path's construction order (not necessarily "incoming" in the
	// radiometric sense for light subpaths).
	Wi vmath.Vec3

	Beta vmath.Vec3 // accumulated path throughput up to and including this vertex

	PdfForward vmath.Pdf // area-measure PDF of having sampled this vertex forward
	PdfReverse vmath.Pdf // area-measure PDF of having sampled this vertex by tracing the path in reverse

	IsSpecular bool
}

// IsOnSurface reports whether this vertex lies on an actual surface
// (as opposed to a camera lens point or an idealized light-selection
// node), which determines whether PDF conversions include a cosine
// factor (spec §4.5.3).
func (v *Vertex) IsOnSurface() bool {
	return v.Kind == SurfaceVertex || (v.Kind == LightVertex && !v.Geom.Degenerate)
}

// VertexArena is a pointer-bump slab allocator for path vertices (spec
// §4.5.4): Alloc hands out the next slot and Reset rewinds the cursor to
// zero between pixel samples. It is never rewound mid-sample, so every
// *Vertex handed out during one sample stays valid until the next Reset.
//
// Vertices live in a list of fixed-size slabs rather than one slice that
// grows by append: appending to a single slice can reallocate its backing
// array, dangling every *Vertex already handed out this sample. Adding a
// new slab instead leaves every earlier slab's backing array untouched.
type VertexArena struct {
	slabs    [][]Vertex
	slab     int
	pos      int
	capacity int
}

// NewVertexArena preallocates capacity vertices; capacity should cover
// both subpaths' maximum length for a single sample (2*(maxDepth+2) is
// a safe default). A sample needing more than capacity vertices grows
// the arena by additional same-sized slabs rather than failing.
func NewVertexArena(capacity int) *VertexArena {
	return &VertexArena{slabs: [][]Vertex{make([]Vertex, capacity)}, capacity: capacity}
}

func (a *VertexArena) Alloc() *Vertex {
	cur := a.slabs[a.slab]
	if a.pos >= len(cur) {
		a.slabs = append(a.slabs, make([]Vertex, a.capacity))
		a.slab++
		a.pos = 0
		cur = a.slabs[a.slab]
	}
	v := &cur[a.pos]
	a.pos++
	*v = Vertex{}
	return v
}

func (a *VertexArena) Reset() {
	a.slab = 0
	a.pos = 0
}

// Path is a subpath: camera or light vertices in construction order.
type Path struct {
	Vertices []*Vertex
}

func (p *Path) Len() int { return len(p.Vertices) }
