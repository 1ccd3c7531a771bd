package host

import (
	"sync"
)

// MemoryDocument is an in-process Document. It also implements ViewportEvents, with
// notifications raised explicitly through DispatchViewportResize.
type MemoryDocument struct {
	mu *sync.Mutex

	containers map[string]Container
	attributes map[string]string
	classes    map[string]struct{}
	viewport   *subscribers
}

var (
	_ Document       = &MemoryDocument{}
	_ ViewportEvents = &MemoryDocument{}
)

// NewMemoryDocument creates an empty document.
func NewMemoryDocument() *MemoryDocument {
	return &MemoryDocument{
		mu:         &sync.Mutex{},
		containers: make(map[string]Container),
		attributes: make(map[string]string),
		classes:    make(map[string]struct{}),
		viewport:   newSubscribers(),
	}
}

// AddContainer creates and mounts an in-memory container with the given client size.
func (d *MemoryDocument) AddContainer(id string, width, height int, pixelRatio float64) *MemoryContainer {
	c := NewMemoryContainer(id, width, height, pixelRatio)
	d.Mount(c)
	return c
}

// Mount registers c under its ID, replacing any container with the same ID.
func (d *MemoryDocument) Mount(c Container) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.containers[c.ID()] = c
}

// Unmount removes the container with the given ID.
func (d *MemoryDocument) Unmount(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.containers, id)
}

func (d *MemoryDocument) Container(id string) (Container, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.containers[id]
	return c, ok
}

func (d *MemoryDocument) Attribute(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attributes[name]
}

func (d *MemoryDocument) SetAttribute(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attributes[name] = value
}

func (d *MemoryDocument) AddClass(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.classes[name] = struct{}{}
}

func (d *MemoryDocument) RemoveClass(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.classes, name)
}

func (d *MemoryDocument) HasClass(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.classes[name]
	return ok
}

func (d *MemoryDocument) OnViewportResize(fn func()) func() {
	return d.viewport.add(fn)
}

// DispatchViewportResize synchronously notifies every viewport subscriber.
func (d *MemoryDocument) DispatchViewportResize() {
	d.viewport.fire()
}

// ViewportSubscribers returns the number of live viewport subscriptions.
func (d *MemoryDocument) ViewportSubscribers() int {
	return d.viewport.count()
}

// MemoryContainer is an in-process Container whose size is changed with Resize.
type MemoryContainer struct {
	mu *sync.Mutex

	id         string
	width      int
	height     int
	pixelRatio float64
	children   []Surface
	observers  *subscribers
}

var _ Container = &MemoryContainer{}

// NewMemoryContainer creates a detached container.
func NewMemoryContainer(id string, width, height int, pixelRatio float64) *MemoryContainer {
	return &MemoryContainer{
		mu:         &sync.Mutex{},
		id:         id,
		width:      width,
		height:     height,
		pixelRatio: pixelRatio,
		observers:  newSubscribers(),
	}
}

func (c *MemoryContainer) ID() string {
	return c.id
}

func (c *MemoryContainer) ClientWidth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

func (c *MemoryContainer) ClientHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

func (c *MemoryContainer) DevicePixelRatio() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixelRatio
}

func (c *MemoryContainer) AppendChild(s Surface) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if indexOf(c.children, s) >= 0 {
		return
	}
	c.children = append(c.children, s)
}

func (c *MemoryContainer) RemoveChild(s Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.children, s)
	if i < 0 {
		return ErrNotChild
	}
	c.children = append(c.children[:i], c.children[i+1:]...)
	return nil
}

func (c *MemoryContainer) Children() []Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Surface, len(c.children))
	copy(out, c.children)
	return out
}

func (c *MemoryContainer) ObserveResize(fn func()) func() {
	return c.observers.add(fn)
}

// Resize changes the client size and notifies resize observers when it differs.
func (c *MemoryContainer) Resize(width, height int) {
	c.mu.Lock()
	changed := width != c.width || height != c.height
	c.width, c.height = width, height
	c.mu.Unlock()
	if changed {
		c.observers.fire()
	}
}

// SetDevicePixelRatio changes the pixel ratio without notifying observers.
func (c *MemoryContainer) SetDevicePixelRatio(ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pixelRatio = ratio
}

// Observers returns the number of live resize observers.
func (c *MemoryContainer) Observers() int {
	return c.observers.count()
}

func indexOf(children []Surface, s Surface) int {
	for i, child := range children {
		if child == s {
			return i
		}
	}
	return -1
}

// ManualScheduler queues frame callbacks until RunFrame is called.
type ManualScheduler struct {
	mu      *sync.Mutex
	pending []func()
}

var _ FrameScheduler = &ManualScheduler{}

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{mu: &sync.Mutex{}}
}

func (s *ManualScheduler) RequestFrame(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, fn)
}

// RunFrame runs the callbacks queued before the call. Callbacks requested while running are
// deferred to the next frame. It returns the number of callbacks run.
func (s *ManualScheduler) RunFrame() int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
