package mesh

import (
	"testing"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/geometry"
	"github.com/latentecho/backdrop/engine/material"
	"github.com/stretchr/testify/assert"
)

func TestNewMeshDefaults(t *testing.T) {
	m := NewMesh(geometry.NewPlane(2, 2), material.NewMaterial())
	sx, sy, sz := m.Scale()
	assert.Equal(t, [3]float32{1, 1, 1}, [3]float32{sx, sy, sz})
	assert.True(t, m.Visible())
	assert.Len(t, m.Materials(), 1)

	var id common.Mat4
	common.Identity(&id)
	assert.Equal(t, id, m.ModelMatrix())
}

func TestMultiMaterial(t *testing.T) {
	a, b := material.NewMaterial(), material.NewMaterial()
	m := NewMesh(geometry.NewPlane(1, 1), a, WithMaterials(b, nil), WithName("multi"))
	assert.Equal(t, []material.Material{a, b}, m.Materials())
	assert.Same(t, a, m.Material())
	assert.Equal(t, "multi", m.Name())
}

func TestTransformSetters(t *testing.T) {
	m := NewMesh(geometry.NewPlane(1, 1), material.NewMaterial(),
		WithPosition(0, 0, -0.4), WithRotation(0.1, 0.2, 0.3), WithScale(2, 2, 2))

	x, y, z := m.Position()
	assert.Equal(t, [3]float32{0, 0, -0.4}, [3]float32{x, y, z})

	m.SetRotation(1, 2, 3)
	rx, ry, rz := m.Rotation()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{rx, ry, rz})

	m.SetScale(1, 1, 1)
	m.SetRotation(0, 0, 0)
	m.SetPosition(1, 2, 3)
	mat := m.ModelMatrix()
	assert.Equal(t, [3]float32{1, 2, 3}, [3]float32{mat[12], mat[13], mat[14]})
}

func TestNewMeshPanicsWithoutGeometry(t *testing.T) {
	assert.Panics(t, func() { NewMesh(nil, material.NewMaterial()) })
}
