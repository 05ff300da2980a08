package seqlib

import (
	"strings"
	"time"
)

// Kind selects how a step is revealed on screen.
type Kind string

const (
	// KindTyping reveals the text one character at a time.
	KindTyping Kind = "typing"
	// KindInstant shows the whole text at once and holds it on screen.
	KindInstant Kind = "instant"
)

// ParseKind converts an authored kind name into a Kind.
// "message" is accepted as an alias for KindInstant.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "typing", "type":
		return KindTyping, nil
	case "instant", "message":
		return KindInstant, nil
	}
	return "", ErrUnknownKind
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindTyping || k == KindInstant
}

// Role is a presentational hint for renderers (command, response,
// json, status). The compiler passes it through untouched.
type Role string

const (
	RoleCommand  Role = "command"
	RoleResponse Role = "response"
	RoleJSON     Role = "json"
	RoleStatus   Role = "status"
)

// Step is one authored line of a terminal sequence.
//
// Steps are treated as immutable input: Compile never modifies them, so
// the same slice can be compiled any number of times.
type Step struct {
	// ID identifies the step in errors and playback events. Optional.
	ID string
	// Kind selects typing or instant reveal.
	Kind Kind
	// Text may contain $name placeholders, resolved at compile time.
	Text string
	// Style is an opaque display tag (e.g. "text-green-400").
	Style string
	// Role is an opaque presentational role.
	Role Role
	// Prompt asks renderers to print the shell prompt before Text.
	Prompt bool
	// Speed is the per-character typing duration. Zero uses the
	// compiler default.
	Speed time.Duration
	// Delay is an explicit offset from the sequence origin. It acts as a
	// floor: a step never starts before its predecessor has finished.
	// Zero means no explicit delay.
	Delay time.Duration
	// Children are scheduled as a contiguous sub-sequence right after
	// the step itself.
	Children []*Step
}

// Typing returns a typing step.
func Typing(id, text, style string) *Step {
	return &Step{ID: id, Kind: KindTyping, Text: text, Style: style}
}

// Instant returns an instant step.
func Instant(id, text, style string) *Step {
	return &Step{ID: id, Kind: KindInstant, Text: text, Style: style}
}

// WithSpeed sets the per-character typing speed and returns s.
func (s *Step) WithSpeed(d time.Duration) *Step {
	s.Speed = d
	return s
}

// WithDelay sets the explicit delay floor and returns s.
func (s *Step) WithDelay(d time.Duration) *Step {
	s.Delay = d
	return s
}

// WithRole sets the presentational role and returns s.
func (s *Step) WithRole(r Role) *Step {
	s.Role = r
	return s
}

// WithPrompt marks the step as a prompted command and returns s.
func (s *Step) WithPrompt() *Step {
	s.Prompt = true
	return s
}

// WithChildren appends nested steps and returns s.
func (s *Step) WithChildren(children ...*Step) *Step {
	s.Children = append(s.Children, children...)
	return s
}
