package animation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/engine/mesh"
	"github.com/latentecho/backdrop/engine/renderer"
	"github.com/latentecho/backdrop/internal/style"
)

type fixture struct {
	doc       *host.MemoryDocument
	container *host.MemoryContainer
	scheduler *host.ManualScheduler
	backend   *renderer.HeadlessBackend
	now       time.Time
}

func newFixture(width, height int, dpr float64) *fixture {
	f := &fixture{
		doc:       host.NewMemoryDocument(),
		scheduler: host.NewManualScheduler(),
		backend:   renderer.NewHeadlessBackend(),
		now:       time.Unix(1_700_000_000, 0),
	}
	f.container = f.doc.AddContainer("bg", width, height, dpr)
	return f
}

func (f *fixture) options(extra ...Option) []Option {
	opts := []Option{
		WithScheduler(f.scheduler),
		WithClock(func() time.Time { return f.now }),
		WithRendererFactory(func() renderer.Renderer {
			return renderer.NewRenderer(renderer.BackendTypeHeadless, nil, renderer.WithBackend(f.backend))
		}),
	}
	return append(opts, extra...)
}

func (f *fixture) controller(t *testing.T, cfg Config, extra ...Option) *Controller {
	t.Helper()
	c := New(f.doc, "bg", cfg, f.options(extra...)...)
	require.Equal(t, StateRunning, c.State())
	return c
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func headerConfig() Config {
	cfg := DefaultConfig()
	cfg.Type = VariantHeader
	return cfg
}

func TestLandingSetup(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())

	assert.Equal(t, VariantLanding, c.Variant())
	require.Equal(t, 2, c.Scene().Count())
	assert.Len(t, f.container.Children(), 1)
	assert.InDelta(t, 4.0/3.0, c.Camera().Aspect(), 1e-6)
	assert.InDelta(t, 75*math.Pi/180, c.Camera().Fov(), 1e-6)
	assert.Equal(t, float32(0.1), c.Camera().Near())
	assert.Equal(t, float32(1000), c.Camera().Far())

	_, _, z := c.Camera().Position()
	assert.Equal(t, float32(6), z)
	assert.Equal(t, [4]float32{0, 0, 0, 0}, c.Renderer().ClearColor())

	children := c.Scene().Children()
	assert.Equal(t, 42, children[0].Geometry().VertexCount())
	assert.True(t, children[0].Material().Wireframe())
	assert.True(t, children[1].Material().Transparent())
	assert.InDelta(t, 0.15, children[1].Material().Opacity(), 1e-6)
}

func TestLandingTessellationFromConfig(t *testing.T) {
	f := newFixture(800, 600, 1)
	cfg := Config{Type: VariantLanding, WireframeDetail: 0, SphereSegments: SphereSegments{Width: 16, Height: 10}}
	c := f.controller(t, cfg)

	children := c.Scene().Children()
	assert.Equal(t, 12, children[0].Geometry().VertexCount())
	assert.Equal(t, 17*11, children[1].Geometry().VertexCount())
}

func TestPixelRatioIsCapped(t *testing.T) {
	f := newFixture(800, 600, 3)
	c := f.controller(t, DefaultConfig())
	assert.Equal(t, 2.0, c.Renderer().PixelRatio())
	w, h := f.backend.SurfaceSize()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 1200, h)

	f = newFixture(800, 600, 1.5)
	c = f.controller(t, DefaultConfig())
	assert.Equal(t, 1.5, c.Renderer().PixelRatio())
}

func TestHeaderSetup(t *testing.T) {
	f := newFixture(800, 200, 1)
	c := f.controller(t, headerConfig())

	children := c.Scene().Children()
	require.Len(t, children, 5)

	_, _, camZ := c.Camera().Position()
	assert.Equal(t, float32(4), camZ)

	want := []float32{1.0, 0.8, 0.6, 0.4, 0.2}
	for i, m := range children {
		_, _, z := m.Position()
		assert.InDelta(t, -float64(i)*0.2, z, 1e-6, "plane %d z", i)
		assert.InDelta(t, want[i], m.Material().Opacity(), 1e-6, "plane %d opacity", i)
		assert.Same(t, children[0].Geometry(), m.Geometry())
	}

	rx, ry, _ := children[0].Rotation()
	assert.InDelta(t, math.Pi*0.1, rx, 1e-6)
	assert.InDelta(t, math.Pi*0.1, ry, 1e-6)
}

func TestUntypedConfigBuildsHeader(t *testing.T) {
	for _, typ := range []Variant{"", "Footer"} {
		f := newFixture(800, 200, 1)
		c := f.controller(t, Config{Type: typ})
		assert.Equal(t, VariantHeader, c.Variant(), "type %q", typ)
		assert.Len(t, c.Scene().Children(), 5, "type %q", typ)
	}
}

func TestHeaderOpacitiesSurviveRefresh(t *testing.T) {
	f := newFixture(800, 200, 1)
	c := f.controller(t, headerConfig())

	c.Scene().Children()[2].Material().SetOpacity(0.01)
	f.advance(3 * time.Second)
	c.RefreshColors(f.now)

	want := []float32{1.0, 0.8, 0.6, 0.4, 0.2}
	for i, m := range c.Scene().Children() {
		assert.InDelta(t, want[i], m.Material().Opacity(), 1e-6)
	}
}

func TestRefreshColorsIsIdempotent(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), headerConfig()} {
		f := newFixture(800, 600, 1)
		c := f.controller(t, cfg)

		at := f.now.Add(1234 * time.Millisecond)
		c.RefreshColors(at)
		first := colors(c.Scene().Children())
		c.RefreshColors(at)
		c.RefreshColors(at)
		assert.Equal(t, first, colors(c.Scene().Children()), string(cfg.Type))
	}
}

func TestLandingColorsFollowTokens(t *testing.T) {
	f := newFixture(800, 600, 1)
	tokens := style.StaticTokens{
		style.TokenWireframe:      "#000000",
		style.TokenWireframePulse: "#ffffff",
		style.TokenSphere:         "#ff0000",
		style.TokenSpherePulse:    "#0000ff",
		style.TokenOpacity:        "0.3",
		style.TokenPulseIntensity: "1",
	}
	c := f.controller(t, DefaultConfig(), WithTokens(tokens))
	wire, shell := c.Scene().Children()[0], c.Scene().Children()[1]
	secs := float64(time.Second)

	// sin(2t) = 1 at t = π/4, full pulse
	c.RefreshColors(f.now.Add(time.Duration(math.Pi / 4 * secs)))
	assert.InDelta(t, 1.0, wire.Material().Color().R, 1e-3)
	assert.InDelta(t, 1.0, shell.Material().Color().B, 1e-3)
	assert.InDelta(t, 0.3, shell.Material().Opacity(), 1e-6)

	// sin(2t) = -1 at t = 3π/4, no pulse
	c.RefreshColors(f.now.Add(time.Duration(3 * math.Pi / 4 * secs)))
	assert.InDelta(t, 0.0, wire.Material().Color().R, 1e-3)
	assert.InDelta(t, 1.0, shell.Material().Color().R, 1e-3)
}

func TestColorsFollowThemeSwitch(t *testing.T) {
	f := newFixture(800, 600, 1)
	theme := style.StaticTheme(style.ThemeLight)
	c := f.controller(t, DefaultConfig(), WithTokens(style.NewResolver(nil, &theme)))
	wire := c.Scene().Children()[0]

	c.RefreshColors(f.now)
	light := wire.Material().Color()

	theme = style.ThemeDark
	c.RefreshColors(f.now)
	dark := wire.Material().Color()

	assert.NotEqual(t, light, dark)
	assert.Greater(t, dark.R, light.R)
	assert.InDelta(t, 0.2, c.Scene().Children()[1].Material().Opacity(), 1e-6)
}

func TestScheduledFramePicksUpStylesheetSwap(t *testing.T) {
	f := newFixture(800, 600, 1)
	resolver := style.NewResolver(nil, style.StaticTheme(style.ThemeLight))
	c := f.controller(t, DefaultConfig(), WithTokens(resolver))
	shell := c.Scene().Children()[1]

	sheet := style.DefaultStylesheet()
	sheet.Themes[style.ThemeLight][style.TokenOpacity] = "0.7"
	resolver.SetStylesheet(sheet)

	f.advance(time.Second / 60)
	f.scheduler.RunFrame()
	assert.InDelta(t, 0.7, shell.Material().Opacity(), 1e-6)
}

func TestInvalidTokensFallBack(t *testing.T) {
	f := newFixture(800, 600, 1)
	tokens := style.StaticTokens{style.TokenWireframe: "not-a-colour", style.TokenOpacity: "lots"}
	c := f.controller(t, DefaultConfig(), WithTokens(tokens))

	assert.NotPanics(t, func() { c.RefreshColors(f.now) })
	children := c.Scene().Children()
	assert.Equal(t, common.Black, children[0].Material().Color())
	assert.Equal(t, float32(1), children[1].Material().Opacity())
}

func TestLandingMotion(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())
	wire, shell := c.Scene().Children()[0], c.Scene().Children()[1]
	secs := float64(time.Second)

	// a = π/2: sin 1, cos 0
	c.Update(f.now.Add(time.Duration(math.Pi/2*secs)), 0)
	rx, ry, rz := wire.Rotation()
	assert.InDelta(t, math.Pi, rx, 1e-5)
	assert.InDelta(t, 0, ry, 1e-5)
	assert.InDelta(t, math.Pi/2, rz, 1e-5)
	sx, sy, sz := wire.Scale()
	assert.InDelta(t, 1.2, sx, 1e-5)
	assert.Equal(t, sx, sy)
	assert.Equal(t, sx, sz)

	srx, sry, _ := shell.Rotation()
	assert.InDelta(t, -math.Pi, srx, 1e-5)
	assert.InDelta(t, 0, sry, 1e-5)

	// the angle wraps every 2π seconds
	c.Update(f.now.Add(time.Duration((math.Pi/2+2*math.Pi)*secs)), 0)
	rx2, _, _ := wire.Rotation()
	assert.InDelta(t, rx, rx2, 1e-4)
}

func TestHeaderRotationMonotonic(t *testing.T) {
	f := newFixture(800, 200, 1)
	c := f.controller(t, headerConfig())
	planes := c.Scene().Children()

	before := zRotations(planes)
	c.Step()
	assert.Equal(t, before, zRotations(planes), "zero dt must not rotate")

	for range 10 {
		prev := zRotations(planes)
		f.advance(16 * time.Millisecond)
		c.Step()
		next := zRotations(planes)
		for i := range next {
			assert.Greater(t, next[i], prev[i], "plane %d", i)
		}
	}
}

func TestHeaderRotationPauseInvariant(t *testing.T) {
	smooth := newFixture(800, 200, 1)
	a := smooth.controller(t, headerConfig())
	for range 60 {
		smooth.advance(time.Second / 60)
		a.Step()
	}

	paused := newFixture(800, 200, 1)
	b := paused.controller(t, headerConfig())
	paused.advance(time.Second)
	b.Step()

	za, zb := zRotations(a.Scene().Children()), zRotations(b.Scene().Children())
	for i := range za {
		want := 0.01 * planeSpeed(i) * 60
		assert.InDelta(t, want, za[i], 1e-4)
		assert.InDelta(t, za[i], zb[i], 1e-4)
	}
}

func TestResize(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())

	f.container.Resize(400, 300)
	assert.InDelta(t, 4.0/3.0, c.Camera().Aspect(), 1e-6)
	w, h := c.Renderer().Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	surface := c.Renderer().Surface()
	assert.Equal(t, 400, surface.Width())
	assert.Equal(t, 300, surface.Height())

	f.container.Resize(1000, 250)
	assert.InDelta(t, 4.0, c.Camera().Aspect(), 1e-6)

	c.Resize()
	c.Resize()
	assert.InDelta(t, 4.0, c.Camera().Aspect(), 1e-6)
	w, h = c.Renderer().Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 250, h)
}

func TestResizeIgnoresZeroHeight(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())

	f.container.Resize(800, 0)
	assert.InDelta(t, 4.0/3.0, c.Camera().Aspect(), 1e-6)
	w, _ := c.Renderer().Size()
	assert.Equal(t, 800, w)
}

func TestViewportEventsResize(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())
	assert.Equal(t, 1, f.doc.ViewportSubscribers())
	assert.Equal(t, 1, f.container.Observers())

	f.doc.DispatchViewportResize()
	assert.InDelta(t, 4.0/3.0, c.Camera().Aspect(), 1e-6)
}

func TestSchedulerDrivesLoop(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())
	require.Equal(t, 1, f.scheduler.Pending())

	for range 3 {
		f.advance(time.Second / 60)
		f.scheduler.RunFrame()
	}
	assert.Equal(t, uint64(3), c.Renderer().FrameCount())
	assert.Equal(t, 1, f.scheduler.Pending())
	assert.Len(t, f.backend.LastDraws(), 2)

	c.Start()
	assert.Equal(t, 1, f.scheduler.Pending(), "start while looping is a no-op")
}

func TestManualStepKeepsSinglePendingStep(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())
	require.Equal(t, 1, f.scheduler.Pending())

	for range 3 {
		f.advance(time.Second / 60)
		c.Step()
		assert.Equal(t, 1, f.scheduler.Pending())
	}
	assert.Equal(t, uint64(3), c.Renderer().FrameCount())

	f.scheduler.RunFrame()
	assert.Equal(t, uint64(4), c.Renderer().FrameCount(), "one step per frame")
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestStepWithoutLoopSchedulesNothing(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig(), WithAutoStart(false))

	c.Step()
	assert.Zero(t, f.scheduler.Pending())
	assert.Equal(t, uint64(1), c.Renderer().FrameCount())
}

func TestAutoStartDisabled(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig(), WithAutoStart(false))
	assert.Zero(t, f.scheduler.Pending())

	c.Start()
	assert.Equal(t, 1, f.scheduler.Pending())
}

func TestRenderErrorStopsLoop(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := f.controller(t, DefaultConfig())

	require.NoError(t, c.Renderer().Dispose())
	f.scheduler.RunFrame()

	assert.ErrorIs(t, c.Err(), renderer.ErrDisposed)
	assert.Zero(t, f.scheduler.Pending())
	assert.Equal(t, StateRunning, c.State())
}

func TestDispose(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), headerConfig()} {
		t.Run(string(cfg.Type), func(t *testing.T) {
			f := newFixture(800, 600, 1)
			c := f.controller(t, cfg)
			f.scheduler.RunFrame()
			require.Positive(t, f.backend.LiveGeometries())

			actors := c.Scene().Children()
			require.NoError(t, c.Dispose())

			assert.Equal(t, StateDisposed, c.State())
			assert.Empty(t, f.container.Children())
			assert.Zero(t, c.Scene().Count())
			assert.Zero(t, f.backend.LiveGeometries())
			assert.True(t, f.backend.Released())
			assert.True(t, c.Renderer().Disposed())
			assert.Zero(t, f.container.Observers())
			assert.Zero(t, f.doc.ViewportSubscribers())
			for _, m := range actors {
				assert.True(t, m.Geometry().Disposed())
				for _, mat := range m.Materials() {
					assert.True(t, mat.Disposed())
				}
			}

			// the already queued step is dropped and nothing is rescheduled
			frames := c.Renderer().FrameCount()
			f.scheduler.RunFrame()
			assert.Zero(t, f.scheduler.Pending())
			assert.Equal(t, frames, c.Renderer().FrameCount())

			assert.NoError(t, c.Dispose())
			assert.NotPanics(t, func() {
				c.Step()
				c.Resize()
				c.RefreshColors(f.now)
				c.Update(f.now, 1)
			})
		})
	}
}

func TestMissingContainerIsInert(t *testing.T) {
	f := newFixture(800, 600, 1)
	c := New(f.doc, "nope", DefaultConfig(), f.options()...)

	assert.Equal(t, StateInert, c.State())
	assert.Nil(t, c.Scene())
	assert.Nil(t, c.Renderer())
	assert.Zero(t, f.scheduler.Pending())
	assert.Empty(t, f.container.Children())

	assert.NotPanics(t, func() {
		c.Step()
		c.Resize()
		c.RefreshColors(f.now)
		c.Update(f.now, 1)
		c.Start()
	})
	assert.NoError(t, c.Dispose())
	assert.Equal(t, StateInert, c.State())
}

func colors(meshes []mesh.Mesh) []common.Color {
	out := make([]common.Color, len(meshes))
	for i, m := range meshes {
		out[i] = m.Material().Color()
	}
	return out
}

func zRotations(meshes []mesh.Mesh) []float32 {
	out := make([]float32, len(meshes))
	for i, m := range meshes {
		_, _, out[i] = m.Rotation()
	}
	return out
}
