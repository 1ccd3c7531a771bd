package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyProviderRelease(t *testing.T) {
	p := NewBindGroupProvider("draw_0", WithIndexCount(6))
	assert.Equal(t, "draw_0", p.Label())
	assert.Equal(t, 6, p.IndexCount())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))

	p.Release()
	p.Release()
	assert.Zero(t, p.IndexCount())
}
