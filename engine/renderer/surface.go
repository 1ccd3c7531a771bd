package renderer

import (
	"math"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// SurfaceSource supplies the platform surface descriptor a GPU backend renders into.
// window.Window satisfies it.
type SurfaceSource interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
}

// Surface is the renderer's drawable element. Hosts mount it as a child of a container.
type Surface interface {
	// ID returns the element identifier.
	ID() string

	// Width returns the logical width in host units.
	Width() int

	// Height returns the logical height in host units.
	Height() int

	// PixelWidth returns the backing width in pixels (logical width times pixel ratio).
	PixelWidth() int

	// PixelHeight returns the backing height in pixels (logical height times pixel ratio).
	PixelHeight() int
}

type surfaceImpl struct {
	mu *sync.Mutex

	id     string
	width  int
	height int
	ratio  float64
}

var _ Surface = &surfaceImpl{}

func newSurface(id string) *surfaceImpl {
	return &surfaceImpl{mu: &sync.Mutex{}, id: id, ratio: 1}
}

func (s *surfaceImpl) ID() string {
	return s.id
}

func (s *surfaceImpl) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

func (s *surfaceImpl) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

func (s *surfaceImpl) PixelWidth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scaled(s.width, s.ratio)
}

func (s *surfaceImpl) PixelHeight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scaled(s.height, s.ratio)
}

// set updates the logical size and pixel ratio and returns the resulting backing size.
func (s *surfaceImpl) set(width, height int, ratio float64) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height, s.ratio = max(width, 0), max(height, 0), ratio
	return scaled(s.width, ratio), scaled(s.height, ratio)
}

func scaled(v int, ratio float64) int {
	return int(math.Floor(float64(v) * ratio))
}
