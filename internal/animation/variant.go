package animation

import (
	"github.com/latentecho/backdrop/engine/camera"
	"github.com/latentecho/backdrop/engine/scene"
)

// variant is the set of actors a controller animates. Exactly one implementation is built per
// controller and it is chosen once, at setup.
type variant interface {
	// setup adds the actors to s and positions cam.
	setup(s scene.Scene, cam camera.Camera)

	// update advances motion. t is seconds since the controller epoch, dt seconds since the last step.
	update(t, dt float64)

	// refresh recolours the actors from p at time t.
	refresh(t float64, p palette)
}

func newVariant(cfg settings) variant {
	if cfg.variant == VariantHeader {
		return newHeaderActors()
	}
	return newLandingActors(cfg.detail, cfg.sphereWidth, cfg.sphereHeight)
}
