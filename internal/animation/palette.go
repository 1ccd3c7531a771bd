package animation

import (
	"log"
	"strconv"
	"strings"

	"github.com/latentecho/backdrop/common"
	"github.com/latentecho/backdrop/internal/style"
)

// palette is one frame's worth of token values.
type palette struct {
	wireframe      common.Color
	wireframePulse common.Color
	sphere         common.Color
	spherePulse    common.Color
	opacity        float64
	pulseIntensity float64
}

// tokenReader parses token values and logs an unparseable value once, until the token changes.
type tokenReader struct {
	src style.TokenSource
	// warned holds the last invalid value logged per token name.
	warned map[string]string
}

func newTokenReader(src style.TokenSource) *tokenReader {
	return &tokenReader{src: src, warned: make(map[string]string)}
}

func (r *tokenReader) palette() palette {
	return palette{
		wireframe:      r.color(style.TokenWireframe),
		wireframePulse: r.color(style.TokenWireframePulse),
		sphere:         r.color(style.TokenSphere),
		spherePulse:    r.color(style.TokenSpherePulse),
		opacity:        r.number(style.TokenOpacity, 1),
		pulseIntensity: r.number(style.TokenPulseIntensity, 0),
	}
}

func (r *tokenReader) color(name string) common.Color {
	raw := r.src.Token(name)
	c, err := common.ParseColor(raw)
	if err != nil {
		r.warn(name, raw)
		return common.Black
	}
	return c
}

func (r *tokenReader) number(name string, fallback float64) float64 {
	raw := r.src.Token(name)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		r.warn(name, raw)
		return fallback
	}
	return v
}

func (r *tokenReader) warn(name, raw string) {
	if last, ok := r.warned[name]; ok && last == raw {
		return
	}
	r.warned[name] = raw
	log.Printf("animation: invalid value %q for token %s", raw, name)
}
