// Package animation drives the decorative 3D background: a small scene of wireframe actors that
// is stepped once per host frame, recoloured from style tokens and resized with its container.
package animation

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/camera"
	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/engine/mesh"
	"github.com/latentecho/backdrop/engine/renderer"
	"github.com/latentecho/backdrop/engine/scene"
	"github.com/latentecho/backdrop/internal/style"
)

const (
	cameraNear = 0.1
	cameraFar  = 1000
)

// RendererFactory creates the renderer a controller draws with.
type RendererFactory func() renderer.Renderer

// Controller owns the scene, camera, renderer and actors of one animation.
// It is not safe for concurrent use; every method is expected to run on the frame goroutine.
type Controller struct {
	state State
	cfg   settings

	container host.Container
	scheduler host.FrameScheduler
	viewport  host.ViewportEvents
	tokenSrc  style.TokenSource
	tokens    *tokenReader

	clock     func() time.Time
	epoch     time.Time
	lastTime  time.Time
	autoStart bool
	looping   bool
	scheduled bool
	loopErr   error

	newRenderer RendererFactory
	scene       scene.Scene
	camera      camera.Camera
	renderer    renderer.Renderer
	variant     variant

	cancels []func()
}

// New mounts an animation into the container with the given ID.
// A missing container yields an inert controller on which every method is a no-op.
//
// Parameters:
//   - doc: the document holding the container
//   - containerID: ID of the container to mount into
//   - cfg: the animation configuration
//   - opts: functional options
//
// Returns:
//   - *Controller: the controller, running unless the container was missing
func New(doc host.Document, containerID string, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		state:     StateUninitialized,
		cfg:       cfg.resolve(),
		tokenSrc:  style.NewResolver(nil, nil),
		clock:     time.Now,
		autoStart: true,
		newRenderer: func() renderer.Renderer {
			return renderer.NewRenderer(renderer.BackendTypeHeadless, nil)
		},
	}
	if ve, ok := doc.(host.ViewportEvents); ok {
		c.viewport = ve
	}

	for _, opt := range opts {
		opt(c)
	}
	c.tokens = newTokenReader(c.tokenSrc)

	container, ok := doc.Container(containerID)
	if !ok {
		log.Printf("animation: container %q not found, animation disabled", containerID)
		c.state = StateInert
		return c
	}
	c.container = container
	c.init()
	return c
}

func (c *Controller) init() {
	c.state = StateInitializing

	width, height := c.container.ClientWidth(), c.container.ClientHeight()

	c.scene = scene.NewScene(string(c.cfg.variant))
	c.camera = camera.NewCamera(
		camera.WithFovDegrees(float32(c.cfg.fov)),
		camera.WithNear(cameraNear),
		camera.WithFar(cameraFar),
	)
	if height > 0 {
		c.camera.SetAspect(float32(width) / float32(height))
	}

	c.renderer = c.newRenderer()
	c.renderer.SetClearColor(common.Black, 0)
	c.renderer.SetPixelRatio(math.Min(c.container.DevicePixelRatio(), c.cfg.maxPixelRatio))
	c.renderer.SetSize(width, height)
	c.container.AppendChild(c.renderer.Surface())

	c.variant = newVariant(c.cfg)
	c.variant.setup(c.scene, c.camera)

	c.cancels = append(c.cancels, c.container.ObserveResize(c.Resize))
	if c.viewport != nil {
		c.cancels = append(c.cancels, c.viewport.OnViewportResize(c.Resize))
	}

	c.epoch = c.clock()
	c.lastTime = c.epoch
	c.state = StateRunning
	c.RefreshColors(c.epoch)

	if c.autoStart {
		c.Start()
	}
}

// Start schedules the first step. It is a no-op unless the controller is running with a
// scheduler and the loop is not already scheduled.
func (c *Controller) Start() {
	if c.state != StateRunning || c.scheduler == nil || c.looping {
		return
	}
	c.looping = true
	c.schedule()
}

// schedule requests the next tick unless one is already pending.
func (c *Controller) schedule() {
	if c.scheduled {
		return
	}
	c.scheduled = true
	c.scheduler.RequestFrame(c.tick)
}

// tick is the scheduled step and the only path that reschedules.
func (c *Controller) tick() {
	c.scheduled = false
	if !c.looping {
		return
	}
	if !c.step() {
		c.looping = false
		return
	}
	c.schedule()
}

// Step advances one frame: motion, colours, then draw. It does not schedule anything; the loop
// started by Start keeps its single pending step. A render error is logged and stops the loop.
func (c *Controller) Step() {
	if !c.step() {
		c.looping = false
	}
}

func (c *Controller) step() bool {
	if c.state != StateRunning {
		return false
	}

	now := c.clock()
	dt := now.Sub(c.lastTime).Seconds()
	c.lastTime = now

	c.Update(now, dt)
	c.RefreshColors(now)

	if err := c.renderer.Render(c.scene, c.camera); err != nil {
		log.Printf("animation: render failed, stopping: %v", err)
		c.loopErr = err
		return false
	}
	return true
}

// Update applies motion for time now after dt seconds.
func (c *Controller) Update(now time.Time, dt float64) {
	if c.state != StateRunning {
		return
	}
	c.variant.update(c.seconds(now), dt)
}

// RefreshColors re-derives every actor colour and opacity from the current token values.
// For the same tokens and time the result is always the same.
func (c *Controller) RefreshColors(now time.Time) {
	if c.state != StateRunning {
		return
	}
	c.variant.refresh(c.seconds(now), c.tokens.palette())
}

// Resize matches the camera and renderer to the container's current client size.
// Zero height is ignored.
func (c *Controller) Resize() {
	if c.state != StateRunning || c.camera == nil || c.renderer == nil {
		return
	}
	width, height := c.container.ClientWidth(), c.container.ClientHeight()
	if height <= 0 {
		return
	}
	c.camera.SetAspect(float32(width) / float32(height))
	c.renderer.SetSize(width, height)
}

// Dispose releases every geometry, material and the renderer, unmounts the renderer surface and
// detaches the resize listeners. Later calls are no-ops.
//
// Returns:
//   - error: every release failure, joined
func (c *Controller) Dispose() error {
	if c.state != StateRunning {
		return nil
	}
	c.state = StateDisposed
	c.looping = false

	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil

	c.scene.Traverse(func(m mesh.Mesh) {
		m.Geometry().Dispose()
		for _, mat := range m.Materials() {
			mat.Dispose()
		}
	})
	c.scene.Clear()

	var errs []error
	if err := c.renderer.Dispose(); err != nil {
		errs = append(errs, fmt.Errorf("dispose renderer: %w", err))
	}
	if err := c.container.RemoveChild(c.renderer.Surface()); err != nil {
		errs = append(errs, fmt.Errorf("unmount surface: %w", err))
	}
	return errors.Join(errs...)
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Variant returns the variant in use.
func (c *Controller) Variant() Variant {
	return c.cfg.variant
}

// Err returns the render error that stopped the loop, if any.
func (c *Controller) Err() error {
	return c.loopErr
}

// Scene returns the scene, nil for an inert controller.
func (c *Controller) Scene() scene.Scene {
	return c.scene
}

// Camera returns the camera, nil for an inert controller.
func (c *Controller) Camera() camera.Camera {
	return c.camera
}

// Renderer returns the renderer, nil for an inert controller.
func (c *Controller) Renderer() renderer.Renderer {
	return c.renderer
}

func (c *Controller) seconds(now time.Time) float64 {
	return now.Sub(c.epoch).Seconds()
}
