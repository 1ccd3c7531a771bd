package renderer

import (
	"errors"
	"sync"

	"github.com/latentecho/backdrop/engine/geometry"
)

// ErrSurfaceNotConfigured is returned when a frame is drawn before the first ConfigureSurface.
var ErrSurfaceNotConfigured = errors.New("surface not configured")

// HeadlessBackend is a RendererBackend that keeps the last frame's draw list in memory.
// Geometry uploads are tracked the same way the wgpu backend tracks its buffers, so resource
// lifetimes can be asserted without a GPU.
type HeadlessBackend struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode
	released      bool

	frames    uint64
	lastClear [4]float32
	lastDraws []DrawItem
	uploaded  map[uint64]geometry.Geometry
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend creates an unconfigured headless backend.
//
// Returns:
//   - *HeadlessBackend: the backend
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		mu:       &sync.Mutex{},
		uploaded: make(map[uint64]geometry.Geometry),
	}
}

func (h *HeadlessBackend) ConfigureSurface(width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = width, height
}

func (h *HeadlessBackend) SetPresentMode(mode PresentMode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.presentMode = mode
}

func (h *HeadlessBackend) Draw(background [4]float32, items []DrawItem) error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return ErrDisposed
	}
	if h.width == 0 || h.height == 0 {
		h.mu.Unlock()
		return ErrSurfaceNotConfigured
	}

	var fresh []geometry.Geometry
	for _, item := range items {
		if _, ok := h.uploaded[item.Geometry.ID()]; !ok {
			h.uploaded[item.Geometry.ID()] = item.Geometry
			fresh = append(fresh, item.Geometry)
		}
	}
	h.lastClear = background
	h.lastDraws = append(h.lastDraws[:0], items...)
	h.frames++
	h.mu.Unlock()

	// Registered outside the lock: OnDispose runs the callback inline for already disposed geometry.
	for _, geo := range fresh {
		geo.OnDispose(h.forget)
	}
	return nil
}

func (h *HeadlessBackend) forget(geo geometry.Geometry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.uploaded, geo.ID())
}

func (h *HeadlessBackend) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.lastDraws = nil
	clear(h.uploaded)
}

// SurfaceSize returns the backing size of the last ConfigureSurface.
func (h *HeadlessBackend) SurfaceSize() (width, height int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// PresentMode returns the last present mode set.
func (h *HeadlessBackend) PresentMode() PresentMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.presentMode
}

// Frames returns the number of frames drawn.
func (h *HeadlessBackend) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// LastClear returns the clear colour of the last frame.
func (h *HeadlessBackend) LastClear() [4]float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastClear
}

// LastDraws returns a copy of the last frame's draw list.
func (h *HeadlessBackend) LastDraws() []DrawItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]DrawItem, len(h.lastDraws))
	copy(out, h.lastDraws)
	return out
}

// LiveGeometries returns how many geometries currently hold uploaded buffers.
func (h *HeadlessBackend) LiveGeometries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.uploaded)
}

// Released reports whether Release has been called.
func (h *HeadlessBackend) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
