// Package host models the environment an animation is mounted into: a document holding
// attributes, classes and named containers, a frame scheduler and viewport notifications.
// Implementations exist for an in-memory document and for a desktop window.
package host

import "errors"

// ErrNotChild is returned by RemoveChild for a surface that is not mounted in the container.
var ErrNotChild = errors.New("surface is not a child of the container")

// Surface is a drawable element that can be mounted in a Container.
type Surface interface {
	ID() string
	Width() int
	Height() int
}

// Container is a mount point with a measurable client area.
type Container interface {
	// ID returns the container identifier.
	ID() string

	// ClientWidth returns the width of the client area in logical units.
	ClientWidth() int

	// ClientHeight returns the height of the client area in logical units.
	ClientHeight() int

	// DevicePixelRatio returns device pixels per logical unit.
	DevicePixelRatio() float64

	// AppendChild mounts s as the last child. Mounting the same surface twice is a no-op.
	AppendChild(s Surface)

	// RemoveChild unmounts s, returning ErrNotChild if it is not mounted.
	RemoveChild(s Surface) error

	// Children returns the mounted surfaces in mount order.
	Children() []Surface

	// ObserveResize calls fn whenever the client area changes size.
	ObserveResize(fn func()) (cancel func())
}

// Document is the root of the host: named containers plus attributes and a class list on the
// root element.
type Document interface {
	// Container looks up a container by ID.
	Container(id string) (Container, bool)

	// Attribute returns the root attribute value, or "" if unset.
	Attribute(name string) string

	// SetAttribute sets a root attribute.
	SetAttribute(name, value string)

	// AddClass adds a class to the root class list.
	AddClass(name string)

	// RemoveClass removes a class from the root class list.
	RemoveClass(name string)

	// HasClass reports whether the root class list contains name.
	HasClass(name string) bool
}

// FrameScheduler runs callbacks before the next frame is presented.
type FrameScheduler interface {
	RequestFrame(fn func())
}

// ViewportEvents delivers viewport size and orientation changes.
type ViewportEvents interface {
	OnViewportResize(fn func()) (cancel func())
}

// ColorSchemePreference reports the system light/dark preference.
type ColorSchemePreference interface {
	// PrefersDark returns the preference and whether one is known at all.
	PrefersDark() (dark bool, known bool)
}
