package animation

import (
	"time"

	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/internal/style"
)

// Option configures a Controller at construction.
type Option func(*Controller)

// WithTokens sets the style token source. The default resolves the built-in light theme.
//
// Parameters:
//   - src: the token source
//
// Returns:
//   - Option: option function to apply
func WithTokens(src style.TokenSource) Option {
	return func(c *Controller) {
		if src != nil {
			c.tokenSrc = src
		}
	}
}

// WithScheduler sets the frame scheduler that drives Step. Without one the controller only
// advances when Step is called.
func WithScheduler(s host.FrameScheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// WithViewport sets the source of viewport resize events. By default the document is used when
// it provides them.
func WithViewport(v host.ViewportEvents) Option {
	return func(c *Controller) {
		c.viewport = v
	}
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRendererFactory sets how the renderer is created. The default is a headless renderer.
func WithRendererFactory(f RendererFactory) Option {
	return func(c *Controller) {
		if f != nil {
			c.newRenderer = f
		}
	}
}

// WithAutoStart controls whether New schedules the first step. Defaults to true.
func WithAutoStart(enabled bool) Option {
	return func(c *Controller) {
		c.autoStart = enabled
	}
}
