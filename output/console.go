// Package output serializes progress messages written by concurrent crawl
// tasks.
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"
)

// MaxDisplayLength is the rune width titles and URLs are cut to on screen.
const MaxDisplayLength = 70

const snipIndicator = "..."

// Console owns an output stream. Each call writes its whole message while
// holding the stream, so messages from different goroutines never interleave.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Lines writes each line followed by a newline, as one message.
func (c *Console) Lines(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(c.w, l)
	}
}

func ShouldTruncate(s string) bool {
	return text.RuneWidthWithoutEscSequences(s) > MaxDisplayLength
}

// Truncate shortens s to MaxDisplayLength, ending in "...".
func Truncate(s string) string {
	if !ShouldTruncate(s) {
		return s
	}
	return text.Snip(s, MaxDisplayLength, snipIndicator)
}
