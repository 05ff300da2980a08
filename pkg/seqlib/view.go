package seqlib

import (
	"math"
	"time"
)

// StepView is the wire form of a ScheduledStep. Times are milliseconds.
type StepView struct {
	Index        int         `json:"index"`
	ID           string      `json:"id,omitempty"`
	Kind         Kind        `json:"kind"`
	Text         string      `json:"text"`
	Style        string      `json:"style,omitempty"`
	Role         Role        `json:"role,omitempty"`
	Prompt       bool        `json:"prompt,omitempty"`
	StartDelayMs int64       `json:"startDelayMs"`
	DurationMs   int64       `json:"durationMs,omitempty"`
	HoldMs       int64       `json:"holdMs,omitempty"`
	SpeedMs      int64       `json:"speedMs,omitempty"`
	Children     []*StepView `json:"children,omitempty"`
}

// TimelineView is the wire form of a Timeline.
type TimelineView struct {
	Steps           []*StepView `json:"steps"`
	TotalDurationMs int64       `json:"totalDurationMs"`
}

// View converts the timeline into its wire form.
func (t *Timeline) View() *TimelineView {
	return &TimelineView{
		Steps:           viewSteps(t.Steps),
		TotalDurationMs: Millis(t.TotalDuration),
	}
}

// View converts a single step, without its children.
func (s *ScheduledStep) View() *StepView {
	return &StepView{
		Index:        s.Index,
		ID:           s.ID,
		Kind:         s.Kind,
		Text:         s.Text,
		Style:        s.Style,
		Role:         s.Role,
		Prompt:       s.Prompt,
		StartDelayMs: Millis(s.StartDelay),
		DurationMs:   Millis(s.Duration),
		HoldMs:       Millis(s.Hold),
		SpeedMs:      Millis(s.Speed),
	}
}

func viewSteps(steps []*ScheduledStep) []*StepView {
	out := make([]*StepView, 0, len(steps))
	for _, s := range steps {
		v := s.View()
		if len(s.Children) > 0 {
			v.Children = viewSteps(s.Children)
		}
		out = append(out, v)
	}
	return out
}

// Millis converts d to whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// MAX_MILLIS is the largest millisecond value Ms converts without
// overflowing.
const MAX_MILLIS = math.MaxInt64 / int64(time.Millisecond)

// Ms converts whole milliseconds to a time.Duration. Callers taking
// external input check it against MAX_MILLIS first.
func Ms(n int64) time.Duration {
	return time.Duration(n) * time.Millisecond
}
