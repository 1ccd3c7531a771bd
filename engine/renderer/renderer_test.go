package renderer

import (
	"testing"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/engine/camera"
	"github.com/latentecho/backdrop/engine/geometry"
	"github.com/latentecho/backdrop/engine/material"
	"github.com/latentecho/backdrop/engine/mesh"
	"github.com/latentecho/backdrop/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadless(t *testing.T) (Renderer, *HeadlessBackend) {
	t.Helper()
	backend := NewHeadlessBackend()
	r := NewRenderer(BackendTypeHeadless, nil, WithBackend(backend), WithLabel("test_surface"))
	return r, backend
}

func TestSetSizeScalesByPixelRatio(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetPixelRatio(2)
	r.SetSize(400, 300)

	w, h := r.Size()
	assert.Equal(t, [2]int{400, 300}, [2]int{w, h})
	assert.Equal(t, 800, r.Surface().PixelWidth())
	bw, bh := backend.SurfaceSize()
	assert.Equal(t, [2]int{800, 600}, [2]int{bw, bh})
	assert.Equal(t, "test_surface", r.Surface().ID())

	r.SetPixelRatio(-1)
	assert.Equal(t, 1.0, r.PixelRatio())
	bw, _ = backend.SurfaceSize()
	assert.Equal(t, 400, bw)
}

func TestZeroSizeSkipsConfiguration(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetSize(640, 0)
	bw, bh := backend.SurfaceSize()
	assert.Zero(t, bw)
	assert.Zero(t, bh)

	err := r.Render(scene.NewScene("empty"), camera.NewCamera())
	assert.ErrorIs(t, err, ErrSurfaceNotConfigured)
}

func TestRenderOrdersTransparentLast(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetSize(100, 100)
	r.SetClearColor(common.Black, 0)

	near := mesh.NewMesh(geometry.NewPlane(1, 1),
		material.NewMaterial(material.WithTransparent(true), material.WithOpacity(0.5)),
		mesh.WithName("near"), mesh.WithPosition(0, 0, 0))
	far := mesh.NewMesh(geometry.NewPlane(1, 1),
		material.NewMaterial(material.WithTransparent(true), material.WithOpacity(0.5)),
		mesh.WithName("far"), mesh.WithPosition(0, 0, -2))
	solid := mesh.NewMesh(geometry.NewIcosahedron(1, 0),
		material.NewMaterial(material.WithWireframe(true)), mesh.WithName("solid"))
	hidden := mesh.NewMesh(geometry.NewPlane(1, 1), material.NewMaterial(), mesh.WithName("hidden"))
	hidden.SetVisible(false)

	s := scene.NewScene("order", scene.WithMeshes(near, far, solid, hidden))
	cam := camera.NewCamera(camera.WithPosition(0, 0, 4))
	require.NoError(t, r.Render(s, cam))

	draws := backend.LastDraws()
	require.Len(t, draws, 3)
	assert.Equal(t, []string{"solid", "far", "near"}, []string{draws[0].Label, draws[1].Label, draws[2].Label})
	assert.True(t, draws[0].Wireframe)
	assert.InDelta(t, 0.5, draws[2].Color[3], 1e-6)
	assert.Equal(t, [4]float32{}, backend.LastClear())
	assert.Equal(t, uint64(1), r.FrameCount())
}

func TestMultiMaterialMeshDrawsEachMaterial(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetSize(10, 10)

	extra := material.NewMaterial()
	m := mesh.NewMesh(geometry.NewPlane(1, 1), material.NewMaterial(), mesh.WithMaterials(extra))
	s := scene.NewScene("multi", scene.WithMeshes(m))
	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Len(t, backend.LastDraws(), 2)

	extra.Dispose()
	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Len(t, backend.LastDraws(), 1)
}

func TestGeometryDisposeFreesUploadedBuffers(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetSize(10, 10)

	geo := geometry.NewSphere(3, 12, 8)
	s := scene.NewScene("buffers", scene.WithMeshes(mesh.NewMesh(geo, material.NewMaterial())))
	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Equal(t, 1, backend.LiveGeometries())

	geo.Dispose()
	assert.Zero(t, backend.LiveGeometries())

	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Empty(t, backend.LastDraws())
}

func TestSceneBackgroundOverridesClearColor(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetSize(10, 10)
	r.SetClearColor(common.Black, 0)

	s := scene.NewScene("bg", scene.WithBackground(common.Color{R: 1, G: 1, B: 1}))
	require.NoError(t, r.Render(s, camera.NewCamera()))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, backend.LastClear())
}

func TestDispose(t *testing.T) {
	r, backend := newHeadless(t)
	r.SetSize(10, 10)

	require.NoError(t, r.Dispose())
	require.NoError(t, r.Dispose())
	assert.True(t, r.Disposed())
	assert.True(t, backend.Released())
	assert.ErrorIs(t, r.Render(scene.NewScene("late"), camera.NewCamera()), ErrDisposed)
}

func TestPresentModeAndParse(t *testing.T) {
	backend := NewHeadlessBackend()
	NewRenderer(BackendTypeHeadless, nil, WithBackend(backend), WithPresentMode(PresentModeUncapped))
	assert.Equal(t, PresentModeUncapped, backend.PresentMode())

	assert.Equal(t, BackendTypeHeadless, ParseBackendType("headless"))
	assert.Equal(t, BackendTypeWGPU, ParseBackendType("anything"))
	assert.Equal(t, "headless", BackendTypeHeadless.String())
}

func TestGPUDrawUniformMarshal(t *testing.T) {
	u := GPUDrawUniform{Color: [4]float32{0, 0, 0, 1}}
	u.MVP[0] = 1
	buf := u.Marshal()
	assert.Len(t, buf, u.Size())
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[0:4])
	assert.Equal(t, []byte{0, 0, 0x80, 0x3f}, buf[76:80])
}
