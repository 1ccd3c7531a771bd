package scene

import (
	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/mesh"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithMeshes adds initial meshes to the scene.
//
// Parameters:
//   - meshes: the meshes to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshes(meshes ...mesh.Mesh) SceneBuilderOption {
	return func(s *scene) {
		s.addLocked(meshes...)
	}
}

// WithBackground gives the scene an opaque background colour, overriding the renderer's clear colour.
//
// Parameters:
//   - c: the background colour
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackground(c common.Color) SceneBuilderOption {
	return func(s *scene) {
		lin := c.Linear()
		s.background = [4]float32{lin[0], lin[1], lin[2], 1}
		s.hasBackground = true
	}
}
