package host

import (
	"sync"

	"github.com/latentecho/backdrop/engine/window"
)

// WindowContainer exposes a desktop window's client area as a Container.
type WindowContainer struct {
	mu *sync.Mutex

	id       string
	win      window.Window
	children []Surface
}

var _ Container = &WindowContainer{}

// NewWindowContainer wraps win as a container with the given ID.
func NewWindowContainer(id string, win window.Window) *WindowContainer {
	return &WindowContainer{mu: &sync.Mutex{}, id: id, win: win}
}

func (c *WindowContainer) ID() string {
	return c.id
}

func (c *WindowContainer) ClientWidth() int {
	return c.win.Width()
}

func (c *WindowContainer) ClientHeight() int {
	return c.win.Height()
}

func (c *WindowContainer) DevicePixelRatio() float64 {
	return c.win.ContentScale()
}

func (c *WindowContainer) AppendChild(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if indexOf(c.children, s) >= 0 {
		return
	}
	c.children = append(c.children, s)
}

func (c *WindowContainer) RemoveChild(s Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.children, s)
	if i < 0 {
		return ErrNotChild
	}
	c.children = append(c.children[:i], c.children[i+1:]...)
	return nil
}

func (c *WindowContainer) Children() []Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Surface, len(c.children))
	copy(out, c.children)
	return out
}

func (c *WindowContainer) ObserveResize(fn func()) func() {
	return c.win.OnResize(func(int, int) { fn() })
}

// NewWindowDocument builds a document whose only container is win's client area. Content
// scale changes, the desktop analogue of orientation and zoom changes, are raised as
// viewport resize events.
//
// Parameters:
//   - win: the window
//   - containerID: ID under which the window container is mounted
//
// Returns:
//   - *MemoryDocument: the document
//   - func(): detaches the content scale subscription
func NewWindowDocument(win window.Window, containerID string) (*MemoryDocument, func()) {
	doc := NewMemoryDocument()
	doc.Mount(NewWindowContainer(containerID, win))
	cancel := win.OnContentScale(func(float64) { doc.DispatchViewportResize() })
	return doc, cancel
}
