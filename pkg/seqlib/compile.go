package seqlib

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"
)

// ScheduledStep is a Step placed on the timeline.
type ScheduledStep struct {
	ID     string
	Kind   Kind
	Style  string
	Role   Role
	Prompt bool
	// Template is the authored text, placeholders included.
	Template string
	// Text is Template after substitution.
	Text string
	// StartDelay is the offset from the sequence origin.
	StartDelay time.Duration
	// Duration is the typing time; zero for instant steps.
	Duration time.Duration
	// Hold is the display time reserved by instant steps; zero for
	// typing steps.
	Hold time.Duration
	// Speed is the effective per-character speed of a typing step.
	Speed time.Duration
	// Depth is the nesting level, 0 for top-level steps.
	Depth int
	// Index is the position in the depth-first flattened timeline.
	Index    int
	Children []*ScheduledStep
}

// End returns the offset at which the step's visible effect finishes.
func (s *ScheduledStep) End() time.Duration {
	return s.StartDelay + s.Duration + s.Hold
}

// Timeline is the compiled schedule of a step list.
type Timeline struct {
	// Steps keeps the authored nesting for renderers.
	Steps []*ScheduledStep
	// TotalDuration is when the host may consider the sequence done.
	TotalDuration time.Duration

	flat []*ScheduledStep
}

// Flatten returns every scheduled step in depth-first order. The slice is
// shared; callers must not modify it.
func (t *Timeline) Flatten() []*ScheduledStep {
	return t.flat
}

// Len returns the number of scheduled steps, children included.
func (t *Timeline) Len() int {
	return len(t.flat)
}

// Rebind returns a copy of t whose texts are re-substituted from the
// authored templates with replacements. Timings are frozen at their first
// compiled values: StartDelay, Duration, Hold and TotalDuration are kept
// even if the new text is longer or shorter.
func (t *Timeline) Rebind(replacements map[string]string) *Timeline {
	nt := &Timeline{
		TotalDuration: t.TotalDuration,
		flat:          make([]*ScheduledStep, 0, len(t.flat)),
	}
	nt.Steps = nt.rebind(t.Steps, replacements)
	return nt
}

func (t *Timeline) rebind(steps []*ScheduledStep, replacements map[string]string) []*ScheduledStep {
	if steps == nil {
		return nil
	}
	out := make([]*ScheduledStep, 0, len(steps))
	for _, s := range steps {
		c := *s
		c.Text = Substitute(s.Template, replacements)
		t.flat = append(t.flat, &c)
		c.Children = t.rebind(s.Children, replacements)
		out = append(out, &c)
	}
	return out
}

// Compile turns steps into an absolute timeline.
//
// The cursor starts at opts.InitialDelay. Each step starts at the later of
// the cursor and its explicit Delay; the cursor then moves past the step's
// typing duration (or instant hold) plus the inter-step gap. Children are
// scheduled from that cursor and the cursor after the group is carried on
// to the next sibling. TotalDuration is the latest step end plus the
// trailing buffer, or zero for an empty input.
//
// Compile is pure. Invalid input is reported, never clamped.
func Compile(steps []*Step, opts *CompileOpts) (*Timeline, error) {
	if opts == nil {
		opts = DefaultCompileOpts()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	tl := &Timeline{}
	if len(steps) == 0 {
		return tl, nil
	}
	c := &compiler{
		opts:     opts,
		tl:       tl,
		visiting: make(map[*Step]struct{}),
	}
	var err error
	tl.Steps, _, err = c.schedule(steps, opts.InitialDelay, "", 0)
	if err != nil {
		return nil, err
	}
	total, ok := addDur(c.end, opts.TrailingBuffer)
	if !ok {
		return nil, &OptionError{Name: "trailing buffer", Err: ErrDurationOverflow}
	}
	tl.TotalDuration = total
	return tl, nil
}

type compiler struct {
	opts *CompileOpts
	tl   *Timeline
	// visiting holds the steps on the current descent path.
	visiting map[*Step]struct{}
	end      time.Duration
}

func (c *compiler) schedule(steps []*Step, cursor time.Duration, parent string, depth int) ([]*ScheduledStep, time.Duration, error) {
	out := make([]*ScheduledStep, 0, len(steps))
	for i, st := range steps {
		path := fmt.Sprintf("%s[%d]", parent, i)
		if err := c.check(st, path); err != nil {
			return nil, cursor, err
		}

		start := cursor
		if st.Delay > start {
			start = st.Delay
		}
		text := Substitute(st.Text, c.opts.Replacements)
		ss := &ScheduledStep{
			ID:         st.ID,
			Kind:       st.Kind,
			Style:      st.Style,
			Role:       st.Role,
			Prompt:     st.Prompt,
			Template:   st.Text,
			Text:       text,
			StartDelay: start,
			Depth:      depth,
			Index:      len(c.tl.flat),
		}
		switch st.Kind {
		case KindTyping:
			ss.Speed = st.Speed
			if ss.Speed == 0 {
				ss.Speed = c.opts.DefaultTypingSpeed
			}
			runes := utf8.RuneCountInString(text)
			if ss.Speed > 0 && int64(runes) > math.MaxInt64/int64(ss.Speed) {
				return nil, cursor, &StepError{Path: path, ID: st.ID, Err: ErrDurationOverflow}
			}
			ss.Duration = time.Duration(runes) * ss.Speed
		case KindInstant:
			ss.Hold = c.opts.InstantHoldTime
		}
		end, ok := addDur(start, ss.Duration+ss.Hold)
		if ok {
			cursor, ok = addDur(end, c.opts.InterStepGap)
		}
		if !ok {
			return nil, cursor, &StepError{Path: path, ID: st.ID, Err: ErrDurationOverflow}
		}
		c.tl.flat = append(c.tl.flat, ss)
		if end > c.end {
			c.end = end
		}

		if len(st.Children) > 0 {
			c.visiting[st] = struct{}{}
			var err error
			ss.Children, cursor, err = c.schedule(st.Children, cursor, path+".children", depth+1)
			delete(c.visiting, st)
			if err != nil {
				return nil, cursor, err
			}
		}
		out = append(out, ss)
	}
	return out, cursor, nil
}

func (c *compiler) check(st *Step, path string) error {
	if st == nil {
		return &StepError{Path: path, Err: ErrNilStep}
	}
	var err error
	switch {
	case !st.Kind.Valid():
		err = fmt.Errorf("%w: %q", ErrUnknownKind, st.Kind)
	case st.Speed < 0:
		err = ErrNegativeSpeed
	case st.Delay < 0:
		err = ErrNegativeDelay
	default:
		if _, ok := c.visiting[st]; ok {
			err = ErrCyclicStep
		}
	}
	if err != nil {
		return &StepError{Path: path, ID: st.ID, Err: err}
	}
	return nil
}

// addDur returns a+b for non-negative durations, or false when the sum
// does not fit in a time.Duration.
func addDur(a, b time.Duration) (time.Duration, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}
