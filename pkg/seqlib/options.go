package seqlib

import (
	"maps"
	"time"
)

const (
	DEF_INITIAL_DELAY   = 100 * time.Millisecond
	DEF_TYPING_SPEED    = 2 * time.Millisecond
	DEF_STEP_GAP        = 100 * time.Millisecond
	DEF_INSTANT_HOLD    = 200 * time.Millisecond
	DEF_TRAILING_BUFFER = 500 * time.Millisecond
)

// CompileOpts holds the timing constants used by Compile.
//
// A nil *CompileOpts means DefaultCompileOpts(). A non-nil value is used
// exactly as given, so a zero field really means zero.
type CompileOpts struct {
	// InitialDelay is where the cursor starts.
	InitialDelay time.Duration
	// DefaultTypingSpeed is the per-character duration for typing steps
	// that do not set their own Speed.
	DefaultTypingSpeed time.Duration
	// InterStepGap separates the end of one step from the next start.
	InterStepGap time.Duration
	// InstantHoldTime is how long an instant step occupies the screen
	// before the cursor moves on.
	InstantHoldTime time.Duration
	// TrailingBuffer is added after the last visible effect so hosts do
	// not cut it off.
	TrailingBuffer time.Duration
	// Replacements resolves $name placeholders before durations are
	// computed.
	Replacements map[string]string
}

// DefaultCompileOpts returns the stock timing constants.
func DefaultCompileOpts() *CompileOpts {
	return &CompileOpts{
		InitialDelay:       DEF_INITIAL_DELAY,
		DefaultTypingSpeed: DEF_TYPING_SPEED,
		InterStepGap:       DEF_STEP_GAP,
		InstantHoldTime:    DEF_INSTANT_HOLD,
		TrailingBuffer:     DEF_TRAILING_BUFFER,
	}
}

// Clone returns a deep copy of o.
func (o *CompileOpts) Clone() *CompileOpts {
	if o == nil {
		return DefaultCompileOpts()
	}
	c := *o
	c.Replacements = maps.Clone(o.Replacements)
	return &c
}

// WithReplacements returns a copy of o whose replacements are o's merged
// with extra; keys in extra win.
func (o *CompileOpts) WithReplacements(extra map[string]string) *CompileOpts {
	c := o.Clone()
	if len(extra) == 0 {
		return c
	}
	if c.Replacements == nil {
		c.Replacements = make(map[string]string, len(extra))
	}
	maps.Copy(c.Replacements, extra)
	return c
}

func (o *CompileOpts) validate() error {
	fields := []struct {
		name string
		val  time.Duration
	}{
		{"initial delay", o.InitialDelay},
		{"typing speed", o.DefaultTypingSpeed},
		{"step gap", o.InterStepGap},
		{"instant hold", o.InstantHoldTime},
		{"trailing buffer", o.TrailingBuffer},
	}
	for _, f := range fields {
		if f.val < 0 {
			return &OptionError{Name: f.name, Err: ErrNegativeOption}
		}
	}
	return nil
}
