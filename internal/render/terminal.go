// Package render draws playing sequences: as a typing terminal, as a
// progress bar, or as a stream of JSON events.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/publieople/termseq/pkg/seqlib"
)

// Terminal writes each step as a terminal line. Typing steps are revealed
// rune by rune, evenly spread over the step's scheduled duration.
type Terminal struct {
	mu   sync.Mutex
	w    io.Writer
	opts TerminalOpts
}

type TerminalOpts struct {
	// Color enables ANSI escape sequences.
	Color bool
	// Width truncates lines to that many cells; 0 disables truncation.
	Width int
	// Live redraws typing steps in place with carriage returns. Without
	// it a typing step is printed once its duration has passed.
	Live bool
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer, opts TerminalOpts) *Terminal {
	return &Terminal{w: w, opts: opts}
}

// minFrame caps the redraw rate of typing effects.
const minFrame = time.Millisecond

func (t *Terminal) OnStep(ctx context.Context, gen uint64, st *seqlib.ScheduledStep) {
	line := Decorate(st)
	t.mu.Lock()
	defer t.mu.Unlock()

	if m := line.Margin(); m > 0 {
		fmt.Fprint(t.w, strings.Repeat("\n", m))
	}
	runes := line.Runes()
	if st.Kind != seqlib.KindTyping || st.Duration <= 0 || runes == 0 {
		fmt.Fprintln(t.w, line.Full(t.opts.Width, t.opts.Color))
		return
	}
	if !t.opts.Live {
		t.typeBlind(ctx, st, line)
		return
	}

	frame := st.Duration / time.Duration(runes)
	if frame < minFrame {
		frame = minFrame
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	start := time.Now()
	shown := 0
	fmt.Fprint(t.w, line.Render(0, t.opts.Width, t.opts.Color))
	for shown < runes {
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.w, "\r"+line.Render(shown, t.opts.Width, t.opts.Color))
			return
		case now := <-ticker.C:
			n := revealed(now.Sub(start), st.Duration, runes)
			if n == shown {
				continue
			}
			shown = n
			fmt.Fprint(t.w, "\r"+line.Render(shown, t.opts.Width, t.opts.Color))
		}
	}
	fmt.Fprintln(t.w)
}

// typeBlind waits out the typing duration and prints the line once,
// or the part typed so far if ctx ends first.
func (t *Terminal) typeBlind(ctx context.Context, st *seqlib.ScheduledStep, line Line) {
	timer := time.NewTimer(st.Duration)
	defer timer.Stop()
	start := time.Now()
	select {
	case <-timer.C:
		fmt.Fprintln(t.w, line.Full(t.opts.Width, t.opts.Color))
	case <-ctx.Done():
		n := revealed(time.Since(start), st.Duration, line.Runes())
		fmt.Fprintln(t.w, line.Render(n, t.opts.Width, t.opts.Color))
	}
}

func (t *Terminal) OnComplete(gen uint64) {}

// revealed is how many of runes are visible after elapsed of a typing
// step lasting d. Several runes may appear in one frame when the step
// is faster than the redraw rate.
func revealed(elapsed, d time.Duration, runes int) int {
	if elapsed >= d {
		return runes
	}
	if elapsed <= 0 {
		return 0
	}
	return int(float64(elapsed) / float64(d) * float64(runes))
}
