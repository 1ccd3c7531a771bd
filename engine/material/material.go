package material

import (
	"sync"
	"sync/atomic"

	"github.com/latentecho/backdrop/common"
)

var idCounter atomic.Uint64

type material struct {
	mu *sync.Mutex

	id          uint64
	name        string
	color       common.Color
	opacity     float32
	transparent bool
	wireframe   bool

	disposed  bool
	onDispose []func(Material)
}

// Material describes how a mesh surface is drawn: an unlit flat colour with optional
// alpha blending, drawn either filled or as a wireframe of its triangle edges.
//
// Colour and opacity are mutable so animation code can restyle a mesh every frame without
// rebuilding GPU state.
type Material interface {
	// ID returns the process-unique identifier of this material.
	ID() uint64

	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the sRGB colour of the material.
	//
	// Returns:
	//   - common.Color: the current colour
	Color() common.Color

	// Opacity retrieves the alpha applied when Transparent is set.
	//
	// Returns:
	//   - float32: opacity in [0, 1]
	Opacity() float32

	// Transparent reports whether the material is alpha blended.
	Transparent() bool

	// Wireframe reports whether only triangle edges are drawn.
	Wireframe() bool

	// SetColor replaces the material colour.
	//
	// Parameters:
	//   - c: the new colour
	SetColor(c common.Color)

	// SetOpacity replaces the material opacity. Values are clamped to [0, 1].
	//
	// Parameters:
	//   - opacity: the new opacity
	SetOpacity(opacity float32)

	// ToGPU packs the material into its uniform representation.
	//
	// Returns:
	//   - GPUMaterial: linear RGB colour with effective alpha
	ToGPU() GPUMaterial

	// OnDispose registers fn to run once when the material is disposed.
	//
	// Parameters:
	//   - fn: callback receiving the disposed material
	OnDispose(fn func(Material))

	// Dispose releases the material. Subsequent calls are no-ops.
	Dispose()

	// Disposed reports whether Dispose has been called.
	Disposed() bool
}

var _ Material = &material{}

// NewMaterial creates a new opaque white filled material configured with the given options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: the constructed material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:      &sync.Mutex{},
		id:      idCounter.Add(1),
		color:   common.Color{R: 1, G: 1, B: 1},
		opacity: 1,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *material) ID() uint64 {
	return m.id
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) Transparent() bool {
	return m.transparent
}

func (m *material) Wireframe() bool {
	return m.wireframe
}

func (m *material) SetColor(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = c
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = clamp01(opacity)
}

func (m *material) ToGPU() GPUMaterial {
	m.mu.Lock()
	defer m.mu.Unlock()
	lin := m.color.Linear()
	alpha := float32(1)
	if m.transparent {
		alpha = m.opacity
	}
	return GPUMaterial{Color: [4]float32{lin[0], lin[1], lin[2], alpha}}
}

func (m *material) OnDispose(fn func(Material)) {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		fn(m)
		return
	}
	m.onDispose = append(m.onDispose, fn)
	m.mu.Unlock()
}

func (m *material) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	callbacks := m.onDispose
	m.onDispose = nil
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(m)
	}
}

func (m *material) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
