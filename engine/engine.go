package engine

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/engine/profiler"
	"github.com/latentecho/backdrop/engine/window"
)

// engine implements the Engine interface.
// All callbacks run on the goroutine that drives Frame or Run.
type engine struct {
	mu *sync.Mutex

	pending []func()

	quitChannel chan struct{}
	quitOnce    sync.Once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime float32)
	lastFrame     time.Time

	frameCount       uint64
	maxFrames        uint64
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

var _ Engine = &engine{}
var _ host.FrameScheduler = &engine{}

// Engine drives the frame loop. It is the host frame scheduler: callbacks queued with
// RequestFrame run once, in order, at the start of the next frame.
type Engine interface {
	// Window returns the window the engine pumps, or nil when running without one.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// Profiler returns the engine's profiler.
	//
	// Returns:
	//   - *profiler.Profiler: the profiler
	Profiler() *profiler.Profiler

	// RequestFrame queues fn to run at the start of the next frame.
	// Callbacks queued while a frame runs wait for the following frame.
	//
	// Parameters:
	//   - fn: the callback
	RequestFrame(fn func())

	// SetFrameCallback registers a function called after the queued callbacks of every frame.
	//
	// Parameters:
	//   - callback: receives the seconds elapsed since the previous frame
	SetFrameCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frame runs a single iteration: pump window events, run the queued callbacks, then the frame callback.
	//
	// Returns:
	//   - int: the number of queued callbacks that ran
	//   - bool: false once the window has closed or Quit was called
	Frame() (int, bool)

	// FrameCount returns the number of frames run so far.
	FrameCount() uint64

	// Run loops Frame until ctx is cancelled, the window closes, Quit is called or the
	// configured frame budget is spent.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ctx.Err() if the context ended the loop, nil otherwise
	Run(ctx context.Context) error

	// Quit stops the loop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Profiler() *profiler.Profiler {
	return e.profiler
}

func (e *engine) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.pending = append(e.pending, fn)
	e.mu.Unlock()
}

func (e *engine) Frame() (int, bool) {
	if e.quitting() {
		return 0, false
	}
	if e.window != nil && !e.window.PollEvents() {
		e.Quit()
		return 0, false
	}

	e.mu.Lock()
	queue := e.pending
	e.pending = nil
	e.mu.Unlock()

	for _, fn := range queue {
		fn()
	}

	now := time.Now()
	if e.lastFrame.IsZero() {
		e.lastFrame = now
	}
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	e.mu.Lock()
	e.frameCount++
	e.mu.Unlock()
	return len(queue), true
}

func (e *engine) FrameCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frameCount
}

func (e *engine) Run(ctx context.Context) error {
	// Recover from panics inside frame callbacks so the window is still closed by the caller.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame loop recovered from panic: %v", r)
			e.Quit()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quitChannel:
			return nil
		default:
		}

		start := time.Now()
		if _, ok := e.Frame(); !ok {
			return nil
		}
		if e.maxFrames > 0 && e.FrameCount() >= e.maxFrames {
			e.Quit()
			return nil
		}

		// Frame rate limiting
		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(remaining):
				}
			}
		}
	}
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetFrameCallback registers the function called each frame.
func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
