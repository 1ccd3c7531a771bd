package animation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/internal/style"
)

func TestTokenReaderWarnsPerTokenName(t *testing.T) {
	tokens := style.StaticTokens{}
	r := newTokenReader(tokens)

	for i := range 100 {
		tokens[style.TokenWireframe] = fmt.Sprintf("#zz%04d", i)
		tokens[style.TokenOpacity] = fmt.Sprintf("half%d", i)
		p := r.palette()
		assert.Equal(t, common.Black, p.wireframe)
		assert.Equal(t, 1.0, p.opacity)
	}

	// one entry per token, however many invalid values were seen
	assert.Len(t, r.warned, 6)
	assert.Equal(t, "#zz0099", r.warned[style.TokenWireframe])
}

func TestTokenReaderAcceptsCSSColours(t *testing.T) {
	r := newTokenReader(style.StaticTokens{
		style.TokenWireframe: "rgb(255, 0, 0)",
		style.TokenSphere:    "royalblue",
	})
	p := r.palette()
	assert.Equal(t, "#ff0000", p.wireframe.Hex())
	assert.Equal(t, "#4169e1", p.sphere.Hex())
	assert.NotContains(t, r.warned, style.TokenWireframe)
	assert.NotContains(t, r.warned, style.TokenSphere)
}
