package renderer

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/camera"
	"github.com/latentecho/backdrop/engine/mesh"
	"github.com/latentecho/backdrop/engine/scene"
)

// ErrDisposed is returned by Render once the renderer has been disposed.
var ErrDisposed = errors.New("renderer disposed")

// rendererCount generates unique surface IDs.
var rendererCount atomic.Uint64

type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	surface     *surfaceImpl

	pixelRatio float64
	clearColor [4]float32
	frames     uint64
	disposed   bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          *PresentMode
	msaa                 MSAASampleCount
	label                string
}

// Renderer draws a scene through a camera onto its Surface.
//
// The Renderer owns its backend: GPU buffers for geometries are created on first draw and freed
// when the geometry is disposed; everything else is freed by Dispose.
type Renderer interface {
	// Surface returns the drawable element to mount in a host container.
	//
	// Returns:
	//   - Surface: the renderer surface
	Surface() Surface

	// BackendType returns the backend this renderer was created with.
	BackendType() RendererBackendType

	// SetSize sets the logical drawing size and reconfigures the backend at size times pixel ratio.
	// A zero width or height keeps the logical size but skips backend configuration.
	//
	// Parameters:
	//   - width: logical width
	//   - height: logical height
	SetSize(width, height int)

	// Size returns the logical drawing size.
	//
	// Returns:
	//   - width, height: logical size
	Size() (width, height int)

	// SetPixelRatio sets the device pixel ratio used for the backing size. Non-positive values are treated as 1.
	//
	// Parameters:
	//   - ratio: device pixels per logical unit
	SetPixelRatio(ratio float64)

	// PixelRatio returns the device pixel ratio.
	PixelRatio() float64

	// SetClearColor sets the colour the surface is cleared to before each frame.
	//
	// Parameters:
	//   - c: sRGB colour
	//   - alpha: clear alpha, 0 for a transparent surface
	SetClearColor(c common.Color, alpha float32)

	// ClearColor returns the linear RGBA clear colour.
	ClearColor() [4]float32

	// SetPresentMode sets the surface present mode. Takes effect on the next SetSize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Render draws every visible mesh of s as seen by cam. Opaque draws are issued first,
	// then transparent draws from far to near.
	//
	// Parameters:
	//   - s: the scene
	//   - cam: the camera
	//
	// Returns:
	//   - error: ErrDisposed after Dispose, or a wrapped backend error
	Render(s scene.Scene, cam camera.Camera) error

	// FrameCount returns the number of frames successfully rendered.
	FrameCount() uint64

	// Dispose releases the backend. Later calls are no-ops.
	//
	// Returns:
	//   - error: always nil; kept for symmetry with other disposers
	Dispose() error

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer for the given backend type. The wgpu backend renders into the
// surface described by source and panics if no GPU adapter or device can be acquired; the headless
// backend ignores source.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - source: the platform surface source, may be nil for BackendTypeHeadless
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer
func NewRenderer(backendType RendererBackendType, source SurfaceSource, options ...RendererBuilderOption) Renderer {
	id := rendererCount.Add(1)
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		pixelRatio:  1,
		msaa:        MSAA4x,
		label:       "renderer_" + strconv.FormatUint(id, 10),
	}

	// Options go first so adapter flags are known before the backend is created.
	for _, opt := range options {
		opt(r)
	}
	r.surface = newSurface(r.label)

	if r.backend == nil {
		switch backendType {
		case BackendTypeHeadless:
			r.backend = NewHeadlessBackend()
		case BackendTypeWGPU:
			fallthrough
		default:
			if source == nil {
				panic("renderer: wgpu backend requires a surface source")
			}
			r.backend = newWGPURendererBackend(source.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
		}
	}

	if r.presentMode != nil {
		r.backend.SetPresentMode(*r.presentMode)
	}
	return r
}

func (r *renderer) Surface() Surface {
	return r.surface
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return
	}
	r.configureLocked(width, height)
}

func (r *renderer) configureLocked(width, height int) {
	pw, ph := r.surface.set(width, height, r.pixelRatio)
	if pw > 0 && ph > 0 {
		r.backend.ConfigureSurface(pw, ph)
	}
}

func (r *renderer) Size() (int, int) {
	return r.surface.Width(), r.surface.Height()
}

func (r *renderer) SetPixelRatio(ratio float64) {
	if !(ratio > 0) {
		ratio = 1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed || ratio == r.pixelRatio {
		return
	}
	r.pixelRatio = ratio
	r.configureLocked(r.surface.Width(), r.surface.Height())
}

func (r *renderer) PixelRatio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) SetClearColor(c common.Color, alpha float32) {
	lin := c.Linear()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = [4]float32{lin[0], lin[1], lin[2], alpha}
}

func (r *renderer) ClearColor() [4]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clearColor
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Render(s scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return ErrDisposed
	}

	background := r.clearColor
	if bg, ok := s.Background(); ok {
		background = bg
	}

	items := resolveDrawItems(s, cam.ViewProjectionMatrix())
	if err := r.backend.Draw(background, items); err != nil {
		return fmt.Errorf("render %s: %w", s.Name(), err)
	}
	r.frames++
	return nil
}

func (r *renderer) FrameCount() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Dispose() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.disposed {
		return nil
	}
	r.disposed = true
	r.backend.Release()
	return nil
}

func (r *renderer) Disposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// resolveDrawItems flattens the scene into one draw per mesh material. Disposed geometries and
// materials are skipped.
func resolveDrawItems(s scene.Scene, viewProjection common.Mat4) []DrawItem {
	var opaque, transparent []DrawItem
	s.Traverse(func(m mesh.Mesh) {
		geo := m.Geometry()
		if !m.Visible() || geo.Disposed() {
			return
		}
		model := m.ModelMatrix()
		var mvp common.Mat4
		common.Mul4(&mvp, &viewProjection, &model)

		for _, mat := range m.Materials() {
			if mat.Disposed() {
				continue
			}
			item := DrawItem{
				Label:       m.Name(),
				Geometry:    geo,
				MVP:         mvp,
				Color:       mat.ToGPU().Color,
				Wireframe:   mat.Wireframe(),
				Transparent: mat.Transparent(),
			}
			if item.Transparent {
				transparent = append(transparent, item)
			} else {
				opaque = append(opaque, item)
			}
		}
	})

	// Clip-space w of the mesh origin is its view depth.
	sort.SliceStable(transparent, func(i, j int) bool {
		return transparent[i].MVP[15] > transparent[j].MVP[15]
	})
	return append(opaque, transparent...)
}
