package animation

import (
	"math"

	"github.com/latentecho/backdrop/engine/camera"
	"github.com/latentecho/backdrop/engine/geometry"
	"github.com/latentecho/backdrop/engine/material"
	"github.com/latentecho/backdrop/engine/mesh"
	"github.com/latentecho/backdrop/engine/scene"
)

const (
	headerPlaneCount = 5
	headerSpacing    = 0.2
	headerPlaneSize  = 2
	headerCameraZ    = 4
	headerPulseMix   = 0.4
)

// headerActors is a stack of translucent wireframe planes sharing one geometry.
type headerActors struct {
	planes    [headerPlaneCount]mesh.Mesh
	materials [headerPlaneCount]material.Material
}

var _ variant = &headerActors{}

func newHeaderActors() *headerActors {
	h := &headerActors{}
	geo := geometry.NewPlane(headerPlaneSize, headerPlaneSize, geometry.WithLabel("header_plane"))
	for i := range headerPlaneCount {
		h.materials[i] = material.NewMaterial(
			material.WithWireframe(true),
			material.WithTransparent(true),
			material.WithOpacity(planeOpacity(i)),
		)
		h.planes[i] = mesh.NewMesh(geo, h.materials[i],
			mesh.WithPosition(0, 0, float32(-float64(i)*headerSpacing)),
			mesh.WithRotation(math.Pi*0.1, math.Pi*0.1, 0),
		)
	}
	return h
}

func planeOpacity(i int) float32 {
	return float32(1 - float64(i)*headerSpacing)
}

func planeSpeed(i int) float64 {
	return 0.5 - float64(i)*0.05
}

func (h *headerActors) setup(s scene.Scene, cam camera.Camera) {
	for _, p := range h.planes {
		s.Add(p)
	}
	cam.SetPosition(0, 0, headerCameraZ)
	cam.SetTarget(0, 0, 0)
}

func (h *headerActors) update(t, dt float64) {
	for i, p := range h.planes {
		speed := planeSpeed(i)
		_, _, rz := p.Rotation()
		// dt is in seconds; the 60 scales the per-frame step to a 60 Hz baseline
		rz += float32(0.01 * speed * dt * 60)
		p.SetRotation(float32(math.Sin(t*speed)*0.1), float32(math.Cos(t*speed)*0.1), rz)
	}
}

func (h *headerActors) refresh(t float64, p palette) {
	pulse := (math.Sin(t) + 1) / 2
	c := p.wireframe.Lerp(p.wireframePulse, pulse*headerPulseMix)
	for i, m := range h.materials {
		m.SetColor(c)
		m.SetOpacity(planeOpacity(i))
	}
}
