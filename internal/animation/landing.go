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
	wireframeRadius = 2
	shellRadius     = 3
	landingCameraZ  = 6
)

// landingActors is a wireframe icosahedron inside a translucent wireframe sphere.
type landingActors struct {
	wireframe mesh.Mesh
	shell     mesh.Mesh

	wireframeMat material.Material
	shellMat     material.Material
}

var _ variant = &landingActors{}

func newLandingActors(detail, sphereWidth, sphereHeight int) *landingActors {
	l := &landingActors{
		wireframeMat: material.NewMaterial(
			material.WithName("wireframe"),
			material.WithWireframe(true),
		),
		shellMat: material.NewMaterial(
			material.WithName("shell"),
			material.WithWireframe(true),
			material.WithTransparent(true),
		),
	}
	l.wireframe = mesh.NewMesh(
		geometry.NewIcosahedron(wireframeRadius, detail, geometry.WithLabel("wireframe")),
		l.wireframeMat,
		mesh.WithName("wireframe"),
	)
	l.shell = mesh.NewMesh(
		geometry.NewSphere(shellRadius, sphereWidth, sphereHeight, geometry.WithLabel("shell")),
		l.shellMat,
		mesh.WithName("shell"),
	)
	return l
}

func (l *landingActors) setup(s scene.Scene, cam camera.Camera) {
	s.Add(l.wireframe, l.shell)
	cam.SetPosition(0, 0, landingCameraZ)
	cam.SetTarget(0, 0, 0)
}

func (l *landingActors) update(t, _ float64) {
	a := math.Mod(t, 2*math.Pi)
	sin, cos := math.Sin(a), math.Cos(a)

	l.wireframe.SetRotation(float32(sin*math.Pi), float32(cos*math.Pi), float32(sin*math.Pi*0.5))
	scale := float32(1 + sin*0.2)
	l.wireframe.SetScale(scale, scale, scale)

	_, _, rz := l.shell.Rotation()
	l.shell.SetRotation(float32(-sin*math.Pi), float32(-cos*math.Pi), rz)
}

func (l *landingActors) refresh(t float64, p palette) {
	pulse := (math.Sin(t*2) + 1) / 2
	intensity := pulse * p.pulseIntensity

	l.wireframeMat.SetColor(p.wireframe.Lerp(p.wireframePulse, intensity))
	l.shellMat.SetColor(p.sphere.Lerp(p.spherePulse, intensity))
	l.shellMat.SetOpacity(float32(p.opacity))
}
