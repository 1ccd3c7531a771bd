package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCameraOptions(t *testing.T) {
	c := NewCamera(WithFovDegrees(75), WithAspect(800.0/600.0), WithNear(0.1), WithFar(1000), WithPosition(0, 0, 6))

	assert.InDelta(t, 75*math.Pi/180, c.Fov(), 1e-6)
	assert.InDelta(t, 4.0/3.0, c.Aspect(), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(1000), c.Far())
	_, _, z := c.Position()
	assert.Equal(t, float32(6), z)

	view := c.ViewMatrix()
	assert.InDelta(t, -6, view[14], 1e-5)
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	c := NewCamera(WithFovDegrees(75))
	before := c.ProjectionMatrix()

	c.SetAspect(2)
	after := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	c.SetAspect(0)
	c.SetAspect(float32(math.Inf(1)))
	assert.Equal(t, float32(2), c.Aspect())
}

func TestViewProjectionIsProduct(t *testing.T) {
	c := NewCamera(WithPosition(0, 0, 4))
	vp := c.ViewProjectionMatrix()
	p := c.ProjectionMatrix()
	// The view matrix is a pure translation, so only column 3 mixes in the -4 offset.
	assert.InDelta(t, p[10]*-4+p[14], vp[14], 1e-5)
}
