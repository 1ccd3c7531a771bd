package readtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinutes(t *testing.T) {
	words := func(n int) string { return strings.TrimSpace(strings.Repeat("word ", n)) }

	tests := []struct {
		text string
		want int
	}{
		{"", 1},
		{"   \n\t", 1},
		{"one", 1},
		{words(200), 1},
		{words(201), 2},
		{words(400), 2},
		{"  spaced\n\nout\twords  ", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Minutes(tt.text), "%d words", Words(tt.text))
	}
	assert.Equal(t, 3, Words("  spaced\n\nout\twords  "))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "1 min read", Label("hello world"))
	assert.Equal(t, "3 min read", Label(strings.Repeat("w ", 450)))
}
