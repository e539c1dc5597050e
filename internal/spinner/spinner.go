// Package spinner provides a cosmetic progress indicator for long-running
// git and network operations. It carries no correctness obligations; the
// caller ticks it while work proceeds.
package spinner

import (
	"fmt"
	"io"
	"time"
)

var glyphs = []byte{'|', '/', '-', '\\'}

// Spinner writes a rotating glyph after a label, rate-limited so ticking on
// every record stays cheap.
type Spinner struct {
	w       io.Writer
	label   string
	index   int
	last    time.Time
	started bool
}

// New returns a spinner writing to w. A nil w disables all output.
func New(label string, w io.Writer) *Spinner {
	return &Spinner{w: w, label: label}
}

// Spin advances the glyph. Redraws are limited to ~10 per second.
func (s *Spinner) Spin() {
	if s.w == nil {
		return
	}
	now := time.Now()
	if s.started && now.Sub(s.last) < 100*time.Millisecond {
		return
	}
	s.last = now
	if !s.started {
		s.started = true
		fmt.Fprintf(s.w, "%s ... ", s.label)
	}
	fmt.Fprintf(s.w, "%c\b", glyphs[s.index])
	s.index = (s.index + 1) % len(glyphs)
}

// Stop clears the glyph and terminates the line. Safe to call without a
// prior Spin.
func (s *Spinner) Stop() {
	if s.w == nil {
		return
	}
	if !s.started {
		fmt.Fprintf(s.w, "%s ... ", s.label)
	}
	fmt.Fprintf(s.w, "done\n")
	s.started = false
}
