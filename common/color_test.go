package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := ParseColor(" #ff0000 ")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 1}, c)

	c, err = ParseColor("#0f0")
	require.NoError(t, err)
	assert.Equal(t, "#00ff00", c.Hex())

	c, err = ParseColor("not-a-colour")
	assert.Error(t, err)
	assert.Equal(t, Black, c)
}

func TestParseColorCSSForms(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rgb(255, 0, 0)", "#ff0000"},
		{"RGBA(0, 128, 255, 0.5)", "#0080ff"},
		{"rgb(0 255 0 / 50%)", "#00ff00"},
		{"rgb(100%, 50%, 0%)", "#ff8000"},
		{"hsl(120, 100%, 50%)", "#00ff00"},
		{"hsla(-120deg, 100%, 50%, 1)", "#0000ff"},
		{"CornflowerBlue", "#6495ed"},
		{" white ", "#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Hex())
		})
	}

	for _, bad := range []string{"rgb(1, 2)", "rgb(a, b, c)", "hsl(1, 2%", "blurple"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestLerpEndpoints(t *testing.T) {
	a, _ := ParseColor("#1a1a1a")
	b, _ := ParseColor("#4a6cf7")

	assert.Equal(t, a.Hex(), a.Lerp(b, 0).Hex())
	assert.Equal(t, b.Hex(), a.Lerp(b, 1).Hex())
	assert.Equal(t, b.Hex(), a.Lerp(b, 7).Hex())
}

func TestLerpIsLinearLight(t *testing.T) {
	black := Color{}
	white := Color{R: 1, G: 1, B: 1}

	mid := black.Lerp(white, 0.5)
	lin := mid.Linear()
	assert.InDelta(t, 0.5, lin[0], 1e-3)
	// Half linear intensity encodes to roughly 0.735 in sRGB.
	assert.InDelta(t, 0.735, mid.R, 1e-2)
}
