package scene

import (
	"testing"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/geometry"
	"github.com/latentecho/backdrop/engine/material"
	"github.com/latentecho/backdrop/engine/mesh"
	"github.com/stretchr/testify/assert"
)

func newPlaneMesh() mesh.Mesh {
	return mesh.NewMesh(geometry.NewPlane(1, 1), material.NewMaterial())
}

func TestAddPreservesOrderAndIgnoresDuplicates(t *testing.T) {
	a, b := newPlaneMesh(), newPlaneMesh()
	s := NewScene("test")
	s.Add(a, b, a, nil)

	assert.Equal(t, 2, s.Count())
	assert.Equal(t, []mesh.Mesh{a, b}, s.Children())
	assert.Same(t, b, s.Get(b.ID()))
}

func TestRemoveAndClear(t *testing.T) {
	a, b := newPlaneMesh(), newPlaneMesh()
	s := NewScene("test", WithMeshes(a, b))

	assert.True(t, s.Remove(a.ID()))
	assert.False(t, s.Remove(a.ID()))
	assert.Nil(t, s.Get(a.ID()))
	assert.Equal(t, 1, s.Count())

	s.Clear()
	assert.Zero(t, s.Count())
}

func TestTraverseAllowsMutation(t *testing.T) {
	a, b := newPlaneMesh(), newPlaneMesh()
	s := NewScene("test", WithMeshes(a, b))

	visited := 0
	s.Traverse(func(m mesh.Mesh) {
		visited++
		s.Remove(m.ID())
	})
	assert.Equal(t, 2, visited)
	assert.Zero(t, s.Count())
}

func TestBackground(t *testing.T) {
	_, ok := NewScene("clear").Background()
	assert.False(t, ok)

	bg, ok := NewScene("white", WithBackground(common.Color{R: 1, G: 1, B: 1})).Background()
	assert.True(t, ok)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, bg)
}
