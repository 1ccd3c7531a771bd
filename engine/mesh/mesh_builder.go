package mesh

import (
	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/material"
)

// MeshBuilderOption is a functional option for configuring a Mesh during construction.
type MeshBuilderOption func(*meshImpl)

// WithName sets the debug name of the Mesh.
//
// Parameters:
//   - name: the name
//
// Returns:
//   - MeshBuilderOption: functional option to set the name
func WithName(name string) MeshBuilderOption {
	return func(m *meshImpl) {
		m.name = name
	}
}

// WithMaterials appends extra materials drawn after the primary one.
//
// Parameters:
//   - mats: the additional materials; nil entries are skipped
//
// Returns:
//   - MeshBuilderOption: functional option to attach the materials
func WithMaterials(mats ...material.Material) MeshBuilderOption {
	return func(m *meshImpl) {
		for _, mat := range mats {
			if mat != nil {
				m.materials = append(m.materials, mat)
			}
		}
	}
}

// WithPosition sets the initial translation.
//
// Parameters:
//   - x, y, z: position components
//
// Returns:
//   - MeshBuilderOption: functional option to set the position
func WithPosition(x, y, z float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.position = common.Vec3{x, y, z}
	}
}

// WithRotation sets the initial XYZ Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: rotation angles
//
// Returns:
//   - MeshBuilderOption: functional option to set the rotation
func WithRotation(rx, ry, rz float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.rotation = common.Vec3{rx, ry, rz}
	}
}

// WithScale sets the initial scale factors.
//
// Parameters:
//   - sx, sy, sz: scale components
//
// Returns:
//   - MeshBuilderOption: functional option to set the scale
func WithScale(sx, sy, sz float32) MeshBuilderOption {
	return func(m *meshImpl) {
		m.scale = common.Vec3{sx, sy, sz}
	}
}
