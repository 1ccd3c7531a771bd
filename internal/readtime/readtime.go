// Package readtime estimates reading time at a fixed words-per-minute rate.
package readtime

import (
	"fmt"
	"strings"
)

// WordsPerMinute is the assumed reading speed.
const WordsPerMinute = 200

// Words counts whitespace-separated words. Blank text counts as one word, so any page reads in
// at least a minute.
func Words(text string) int {
	return max(len(strings.Fields(text)), 1)
}

// Minutes returns the reading time rounded up to whole minutes.
func Minutes(text string) int {
	return (Words(text) + WordsPerMinute - 1) / WordsPerMinute
}

// Label formats the reading time as "N min read".
func Label(text string) string {
	return fmt.Sprintf("%d min read", Minutes(text))
}
