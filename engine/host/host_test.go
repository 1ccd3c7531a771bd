package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct{ id string }

func (f *fakeSurface) ID() string  { return f.id }
func (f *fakeSurface) Width() int  { return 0 }
func (f *fakeSurface) Height() int { return 0 }

func TestMemoryDocumentAttributesAndClasses(t *testing.T) {
	doc := NewMemoryDocument()
	assert.Empty(t, doc.Attribute("data-theme"))

	doc.SetAttribute("data-theme", "dark")
	assert.Equal(t, "dark", doc.Attribute("data-theme"))

	doc.AddClass("loading")
	assert.True(t, doc.HasClass("loading"))
	doc.RemoveClass("loading")
	assert.False(t, doc.HasClass("loading"))
}

func TestContainerLookup(t *testing.T) {
	doc := NewMemoryDocument()
	c := doc.AddContainer("bg", 800, 600, 2)

	got, ok := doc.Container("bg")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, 800, got.ClientWidth())
	assert.Equal(t, 2.0, got.DevicePixelRatio())

	_, ok = doc.Container("missing")
	assert.False(t, ok)

	doc.Unmount("bg")
	_, ok = doc.Container("bg")
	assert.False(t, ok)
}

func TestContainerChildren(t *testing.T) {
	c := NewMemoryContainer("bg", 10, 10, 1)
	a, b := &fakeSurface{"a"}, &fakeSurface{"b"}

	c.AppendChild(a)
	c.AppendChild(b)
	c.AppendChild(a)
	assert.Equal(t, []Surface{a, b}, c.Children())

	require.NoError(t, c.RemoveChild(a))
	assert.ErrorIs(t, c.RemoveChild(a), ErrNotChild)
	assert.Equal(t, []Surface{b}, c.Children())
}

func TestResizeObservers(t *testing.T) {
	c := NewMemoryContainer("bg", 800, 600, 1)
	calls := 0
	cancel := c.ObserveResize(func() { calls++ })

	c.Resize(800, 600)
	c.Resize(400, 300)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 400, c.ClientWidth())

	cancel()
	cancel()
	c.Resize(200, 100)
	assert.Equal(t, 1, calls)
	assert.Zero(t, c.Observers())
}

func TestViewportEvents(t *testing.T) {
	doc := NewMemoryDocument()
	calls := 0
	cancel := doc.OnViewportResize(func() { calls++ })
	doc.DispatchViewportResize()
	cancel()
	doc.DispatchViewportResize()
	assert.Equal(t, 1, calls)
	assert.Zero(t, doc.ViewportSubscribers())
}

func TestManualSchedulerDefersNestedRequests(t *testing.T) {
	s := NewManualScheduler()
	runs := 0
	var step func()
	step = func() {
		runs++
		s.RequestFrame(step)
	}
	s.RequestFrame(step)

	assert.Equal(t, 1, s.RunFrame())
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, s.Pending())
	s.RunFrame()
	assert.Equal(t, 2, runs)
}

func TestEnvColorScheme(t *testing.T) {
	env := func(vals map[string]string) EnvColorScheme {
		return EnvColorScheme{Getenv: func(k string) string { return vals[k] }}
	}

	tests := []struct {
		name        string
		vals        map[string]string
		dark, known bool
	}{
		{name: "unset", vals: nil},
		{name: "explicit dark", vals: map[string]string{"BACKDROP_COLOR_SCHEME": "Dark"}, dark: true, known: true},
		{name: "explicit light wins", vals: map[string]string{"BACKDROP_COLOR_SCHEME": "light", "GTK_THEME": "Adwaita:dark"}, known: true},
		{name: "gtk dark", vals: map[string]string{"GTK_THEME": "Adwaita:dark"}, dark: true, known: true},
		{name: "gtk light", vals: map[string]string{"GTK_THEME": "Adwaita"}, known: true},
		{name: "colorfgbg dark", vals: map[string]string{"COLORFGBG": "15;0"}, dark: true, known: true},
		{name: "colorfgbg light", vals: map[string]string{"COLORFGBG": "0;default;15"}, known: true},
		{name: "colorfgbg junk", vals: map[string]string{"COLORFGBG": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dark, known := env(tt.vals).PrefersDark()
			assert.Equal(t, tt.dark, dark)
			assert.Equal(t, tt.known, known)
		})
	}

	dark, known := StaticColorScheme{Dark: true, Known: true}.PrefersDark()
	assert.True(t, dark)
	assert.True(t, known)
}
