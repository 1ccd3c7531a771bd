package mesh

import (
	"sync"
	"sync/atomic"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/geometry"
	"github.com/latentecho/backdrop/engine/material"
)

var idCounter atomic.Uint64

type meshImpl struct {
	mu *sync.Mutex

	id        uint64
	name      string
	visible   bool
	geometry  geometry.Geometry
	materials []material.Material

	position common.Vec3
	rotation common.Vec3
	scale    common.Vec3
}

// Mesh is a scene actor: a geometry drawn with one or more materials under a
// position, XYZ Euler rotation and per-axis scale.
type Mesh interface {
	// ID returns the mesh's unique identifier.
	//
	// Returns:
	//   - uint64: the mesh ID
	ID() uint64

	// Name returns the mesh's debug name.
	Name() string

	// Visible reports whether the mesh is drawn.
	Visible() bool

	// SetVisible toggles drawing of the mesh.
	//
	// Parameters:
	//   - visible: true to draw
	SetVisible(visible bool)

	// Geometry returns the mesh geometry.
	//
	// Returns:
	//   - geometry.Geometry: the geometry, never nil
	Geometry() geometry.Geometry

	// Material returns the first material.
	//
	// Returns:
	//   - material.Material: the primary material, never nil
	Material() material.Material

	// Materials returns every material. Single-material meshes return a one element slice.
	//
	// Returns:
	//   - []material.Material: the materials in draw order
	Materials() []material.Material

	// Position returns the translation.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the XYZ Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// Scale returns the per-axis scale factors.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// SetPosition sets the translation.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotation sets the XYZ Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// SetScale sets the per-axis scale factors.
	//
	// Parameters:
	//   - sx, sy, sz: new scale components
	SetScale(sx, sy, sz float32)

	// ModelMatrix composes the current transform into a column-major model matrix.
	//
	// Returns:
	//   - common.Mat4: the model matrix
	ModelMatrix() common.Mat4
}

var _ Mesh = &meshImpl{}

// NewMesh creates a mesh for geo drawn with mat. Additional materials can be attached with
// WithMaterials. Panics if geo or mat is nil.
//
// Parameters:
//   - geo: the geometry to draw
//   - mat: the primary material
//   - options: functional options to configure the mesh
//
// Returns:
//   - Mesh: the newly created mesh
func NewMesh(geo geometry.Geometry, mat material.Material, options ...MeshBuilderOption) Mesh {
	if geo == nil || mat == nil {
		panic("mesh: geometry and material are required")
	}
	m := &meshImpl{
		mu:        &sync.Mutex{},
		id:        idCounter.Add(1),
		visible:   true,
		geometry:  geo,
		materials: []material.Material{mat},
		scale:     common.Vec3{1, 1, 1},
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *meshImpl) ID() uint64 {
	return m.id
}

func (m *meshImpl) Name() string {
	return m.name
}

func (m *meshImpl) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

func (m *meshImpl) SetVisible(visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visible = visible
}

func (m *meshImpl) Geometry() geometry.Geometry {
	return m.geometry
}

func (m *meshImpl) Material() material.Material {
	return m.materials[0]
}

func (m *meshImpl) Materials() []material.Material {
	out := make([]material.Material, len(m.materials))
	copy(out, m.materials)
	return out
}

func (m *meshImpl) Position() (x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position[0], m.position[1], m.position[2]
}

func (m *meshImpl) Rotation() (rx, ry, rz float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotation[0], m.rotation[1], m.rotation[2]
}

func (m *meshImpl) Scale() (sx, sy, sz float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scale[0], m.scale[1], m.scale[2]
}

func (m *meshImpl) SetPosition(x, y, z float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = common.Vec3{x, y, z}
}

func (m *meshImpl) SetRotation(rx, ry, rz float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rotation = common.Vec3{rx, ry, rz}
}

func (m *meshImpl) SetScale(sx, sy, sz float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scale = common.Vec3{sx, sy, sz}
}

func (m *meshImpl) ModelMatrix() common.Mat4 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out common.Mat4
	common.ComposeTRS(&out, m.position, m.rotation, m.scale)
	return out
}
