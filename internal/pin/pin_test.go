package pin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	for _, ok := range []string{"0000", "1234", "9999"} {
		assert.NoError(t, Validate(ok), ok)
	}
	for _, bad := range []string{"", "123", "12345", "12a4", " 123", "١٢٣٤"} {
		assert.ErrorIs(t, Validate(bad), ErrInvalidPIN, bad)
	}
}

func TestHash(t *testing.T) {
	assert.Equal(t, "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4", Hash("1234"))
	assert.Len(t, Hash("0000"), 64)
}

func TestGate(t *testing.T) {
	g, err := NewGate(strings.ToUpper(Hash("4321")))
	require.NoError(t, err)
	assert.False(t, g.Unlocked())

	assert.ErrorIs(t, g.Verify("12"), ErrInvalidPIN)
	assert.Zero(t, g.Attempts())

	assert.ErrorIs(t, g.Verify("1234"), ErrMismatch)
	assert.False(t, g.Unlocked())

	require.NoError(t, g.Verify("4321"))
	assert.True(t, g.Unlocked())
	assert.Equal(t, 2, g.Attempts())

	g.Lock()
	assert.False(t, g.Unlocked())
}

func TestNewGateRejectsBadHash(t *testing.T) {
	for _, bad := range []string{"", "zz", Hash("1234")[:62]} {
		_, err := NewGate(bad)
		assert.ErrorIs(t, err, ErrInvalidHash, bad)
	}
}
