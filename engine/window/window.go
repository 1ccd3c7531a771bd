package window

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides a platform window that a renderer can draw into, plus the resize,
// content scale and keyboard notifications a host needs.
//
// Width and Height are logical (screen coordinate) sizes; multiply by ContentScale for pixels.
// All callbacks fire on the goroutine that calls PollEvents.
type Window interface {
	// OnResize subscribes to logical size changes.
	//
	// Parameters:
	//   - callback: function receiving the new logical width and height
	//
	// Returns:
	//   - func(): cancels the subscription
	OnResize(callback func(width, height int)) (cancel func())

	// OnContentScale subscribes to content scale (device pixel ratio) changes, e.g. when the
	// window moves to a monitor with a different DPI.
	//
	// Parameters:
	//   - callback: function receiving the new scale
	//
	// Returns:
	//   - func(): cancels the subscription
	OnContentScale(callback func(scale float64)) (cancel func())

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see the Key* constants)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Title returns the window title.
	Title() string

	// Width returns the current logical client width.
	//
	// Returns:
	//   - int: width in screen coordinates
	Width() int

	// Height returns the current logical client height.
	//
	// Returns:
	//   - int: height in screen coordinates
	Height() int

	// ContentScale returns the ratio between framebuffer pixels and screen coordinates.
	//
	// Returns:
	//   - float64: the content scale, 1 on standard DPI displays
	ContentScale() float64

	// PollEvents processes pending platform events without blocking and dispatches callbacks.
	//
	// Returns:
	//   - bool: false once the window has been asked to close
	PollEvents() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	mu *sync.Mutex

	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width and height are the logical client size.
	width  int
	height int
	scale  float64

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onResize       *listeners[func(width, height int)]
	onContentScale *listeners[func(scale float64)]
	onKeyDown      func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Panics if the platform window cannot be created.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		mu:             &sync.Mutex{},
		title:          "backdrop",
		maxWidth:       3840,
		maxHeight:      2160,
		minWidth:       320,
		minHeight:      120,
		width:          1280,
		height:         720,
		scale:          1,
		onResize:       newListeners[func(width, height int)](),
		onContentScale: newListeners[func(scale float64)](),
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) OnResize(callback func(width, height int)) func() {
	return w.onResize.add(callback)
}

func (w *engineWindow) OnContentScale(callback func(scale float64)) func() {
	return w.onContentScale.add(callback)
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Title() string {
	return w.title
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

func (w *engineWindow) ContentScale() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

// resized records a new logical size and notifies subscribers.
func (w *engineWindow) resized(width, height int) {
	w.mu.Lock()
	changed := width != w.width || height != w.height
	w.width, w.height = width, height
	w.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range w.onResize.snapshot() {
		fn(width, height)
	}
}

// rescaled records a new content scale and notifies subscribers.
func (w *engineWindow) rescaled(scale float64) {
	w.mu.Lock()
	changed := scale != w.scale
	w.scale = scale
	w.mu.Unlock()
	if !changed {
		return
	}
	for _, fn := range w.onContentScale.snapshot() {
		fn(scale)
	}
}

func (w *engineWindow) keyDown(keyCode uint32) {
	w.mu.Lock()
	fn := w.onKeyDown
	w.mu.Unlock()
	if fn != nil {
		fn(keyCode)
	}
}
