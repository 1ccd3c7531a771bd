package renderer

import "github.com/latentecho/backdrop/engine/geometry"

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeHeadless records draw lists without touching a GPU. Used by tests and
	// fixed-frame CLI runs.
	BackendTypeHeadless
)

// String returns the configuration name of the backend type.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeHeadless:
		return "headless"
	default:
		return "wgpu"
	}
}

// ParseBackendType maps a configuration name to a RendererBackendType.
// Unknown names fall back to BackendTypeWGPU.
//
// Parameters:
//   - name: "wgpu" or "headless"
//
// Returns:
//   - RendererBackendType: the backend type
func ParseBackendType(name string) RendererBackendType {
	if name == "headless" {
		return BackendTypeHeadless
	}
	return BackendTypeWGPU
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// DrawItem is one fully resolved draw: a geometry under a final clip-space transform in one colour.
type DrawItem struct {
	Label       string
	Geometry    geometry.Geometry
	MVP         [16]float32
	Color       [4]float32
	Wireframe   bool
	Transparent bool
}

// RendererBackend is the GPU-facing half of the Renderer. The Renderer resolves scenes into
// draw lists; the backend owns every device resource needed to put them on screen.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and attachments for the given backing size in pixels.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode sets the present mode used by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Draw clears the surface to background and issues every item in order, then presents.
	//
	// Parameters:
	//   - background: linear RGBA clear colour
	//   - items: the resolved draws
	//
	// Returns:
	//   - error: an error if the frame could not be acquired or submitted
	Draw(background [4]float32, items []DrawItem) error

	// Release frees every device resource. The backend is unusable afterwards.
	Release()
}
