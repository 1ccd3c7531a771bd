package geometry

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrDisposed is returned when GPU data is requested from a disposed geometry.
var ErrDisposed = errors.New("geometry disposed")

// idCounter hands out process-unique geometry IDs so renderer backends can key GPU buffers.
var idCounter atomic.Uint64

// Kind names the primitive a Geometry was generated from.
type Kind string

const (
	KindIcosahedron Kind = "icosahedron"
	KindSphere      Kind = "sphere"
	KindPlane       Kind = "plane"
)

type geometryImpl struct {
	mu *sync.Mutex

	id    uint64
	kind  Kind
	label string

	positions []float32
	indices   []uint32
	edges     []uint32
	radius    float32

	disposed  bool
	onDispose []func(Geometry)
}

// Geometry is an immutable indexed triangle mesh with a derived edge list for wireframe drawing.
// Vertex positions are packed as x, y, z triples.
type Geometry interface {
	// ID returns the process-unique identifier of this geometry.
	ID() uint64

	// Kind returns the primitive this geometry was generated from.
	Kind() Kind

	// Label returns the debug label, defaulting to the kind.
	Label() string

	// Positions returns the packed vertex positions. The slice must not be modified.
	//
	// Returns:
	//   - []float32: x, y, z per vertex
	Positions() []float32

	// Indices returns the triangle list indices, three per face.
	//
	// Returns:
	//   - []uint32: triangle indices
	Indices() []uint32

	// EdgeIndices returns a line list with each unique triangle edge exactly once.
	//
	// Returns:
	//   - []uint32: line list indices, two per edge
	EdgeIndices() []uint32

	// VertexCount returns the number of vertices.
	VertexCount() int

	// FaceCount returns the number of triangles.
	FaceCount() int

	// BoundingRadius returns the largest distance of any vertex from the origin.
	BoundingRadius() float32

	// OnDispose registers fn to run once when the geometry is disposed.
	// If the geometry is already disposed fn runs immediately.
	//
	// Parameters:
	//   - fn: callback receiving the disposed geometry
	OnDispose(fn func(Geometry))

	// Dispose releases the geometry. Subsequent calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Geometry = &geometryImpl{}

func newGeometry(kind Kind, positions []float32, indices []uint32, options ...GeometryBuilderOption) *geometryImpl {
	g := &geometryImpl{
		mu:        &sync.Mutex{},
		id:        idCounter.Add(1),
		kind:      kind,
		label:     string(kind),
		positions: positions,
		indices:   indices,
	}
	for _, option := range options {
		option(g)
	}
	g.edges = uniqueEdges(indices)
	g.radius = boundingRadius(positions)
	return g
}

func (g *geometryImpl) ID() uint64 {
	return g.id
}

func (g *geometryImpl) Kind() Kind {
	return g.kind
}

func (g *geometryImpl) Label() string {
	return g.label
}

func (g *geometryImpl) Positions() []float32 {
	return g.positions
}

func (g *geometryImpl) Indices() []uint32 {
	return g.indices
}

func (g *geometryImpl) EdgeIndices() []uint32 {
	return g.edges
}

func (g *geometryImpl) VertexCount() int {
	return len(g.positions) / 3
}

func (g *geometryImpl) FaceCount() int {
	return len(g.indices) / 3
}

func (g *geometryImpl) BoundingRadius() float32 {
	return g.radius
}

func (g *geometryImpl) OnDispose(fn func(Geometry)) {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		fn(g)
		return
	}
	g.onDispose = append(g.onDispose, fn)
	g.mu.Unlock()
}

func (g *geometryImpl) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	callbacks := g.onDispose
	g.onDispose = nil
	g.mu.Unlock()

	for _, fn := range callbacks {
		fn(g)
	}
}

func (g *geometryImpl) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

// uniqueEdges converts a triangle list into a line list, emitting each shared edge once.
func uniqueEdges(indices []uint32) []uint32 {
	seen := make(map[[2]uint32]struct{}, len(indices))
	edges := make([]uint32, 0, len(indices))
	add := func(a, b uint32) {
		if a == b {
			return
		}
		key := [2]uint32{min(a, b), max(a, b)}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		edges = append(edges, a, b)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		add(a, b)
		add(b, c)
		add(c, a)
	}
	return edges
}

func boundingRadius(positions []float32) float32 {
	var r2 float32
	for i := 0; i+2 < len(positions); i += 3 {
		x, y, z := positions[i], positions[i+1], positions[i+2]
		r2 = max(r2, x*x+y*y+z*z)
	}
	return sqrt32(r2)
}
