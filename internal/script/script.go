// Package script reads authored sequences from JSON, YAML and JavaScript
// files and turns them into seqlib steps.
package script

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/publieople/termseq/pkg/seqlib"
)

// Script is the authoring form of a sequence. Times are integer
// milliseconds.
type Script struct {
	Name         string            `json:"name,omitempty" yaml:"name,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Options      *OptionsSpec      `json:"options,omitempty" yaml:"options,omitempty"`
	Replacements map[string]string `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	Steps        []StepSpec        `json:"steps" yaml:"steps"`
}

// StepSpec is one authored step. Content, ClassName and TypingSpeed are
// accepted as alternative spellings of Text, Style and Speed.
type StepSpec struct {
	ID          string     `json:"id,omitempty" yaml:"id,omitempty"`
	Type        string     `json:"type" yaml:"type"`
	Text        string     `json:"text,omitempty" yaml:"text,omitempty"`
	Content     string     `json:"content,omitempty" yaml:"content,omitempty"`
	Style       string     `json:"style,omitempty" yaml:"style,omitempty"`
	ClassName   string     `json:"className,omitempty" yaml:"className,omitempty"`
	Role        string     `json:"role,omitempty" yaml:"role,omitempty"`
	Prompt      bool       `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Speed       int64      `json:"speed,omitempty" yaml:"speed,omitempty"`
	TypingSpeed int64      `json:"typingSpeed,omitempty" yaml:"typingSpeed,omitempty"`
	Delay       int64      `json:"delay,omitempty" yaml:"delay,omitempty"`
	Children    []StepSpec `json:"children,omitempty" yaml:"children,omitempty"`
}

// OptionsSpec overrides compile options. Nil fields keep the default.
type OptionsSpec struct {
	InitialDelay       *int64 `json:"initialDelay,omitempty" yaml:"initialDelay,omitempty"`
	TypingSpeed        *int64 `json:"typingSpeed,omitempty" yaml:"typingSpeed,omitempty"`
	StepDelay          *int64 `json:"stepDelay,omitempty" yaml:"stepDelay,omitempty"`
	MessageDisplayTime *int64 `json:"messageDisplayTime,omitempty" yaml:"messageDisplayTime,omitempty"`
	TrailingBuffer     *int64 `json:"trailingBuffer,omitempty" yaml:"trailingBuffer,omitempty"`
}

// Merge returns a copy of o with every non-nil field of other applied on
// top.
func (o *OptionsSpec) Merge(other *OptionsSpec) *OptionsSpec {
	var m OptionsSpec
	if o != nil {
		m = *o
	}
	if other == nil {
		return &m
	}
	pick := func(dst **int64, src *int64) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}
	pick(&m.InitialDelay, other.InitialDelay)
	pick(&m.TypingSpeed, other.TypingSpeed)
	pick(&m.StepDelay, other.StepDelay)
	pick(&m.MessageDisplayTime, other.MessageDisplayTime)
	pick(&m.TrailingBuffer, other.TrailingBuffer)
	return &m
}

// CompileOpts returns the default options with o applied.
func (o *OptionsSpec) CompileOpts() *seqlib.CompileOpts {
	return o.Apply(seqlib.DefaultCompileOpts())
}

// Apply writes every non-nil field of o into opts and returns it.
func (o *OptionsSpec) Apply(opts *seqlib.CompileOpts) *seqlib.CompileOpts {
	if o == nil {
		return opts
	}
	set := func(dst *time.Duration, v *int64) {
		if v != nil {
			*dst = seqlib.Ms(*v)
		}
	}
	set(&opts.InitialDelay, o.InitialDelay)
	set(&opts.DefaultTypingSpeed, o.TypingSpeed)
	set(&opts.InterStepGap, o.StepDelay)
	set(&opts.InstantHoldTime, o.MessageDisplayTime)
	set(&opts.TrailingBuffer, o.TrailingBuffer)
	return opts
}

func (o *OptionsSpec) validate() error {
	if o == nil {
		return nil
	}
	var result *multierror.Error
	check := func(name string, v *int64) {
		switch {
		case v == nil:
		case *v < 0:
			result = multierror.Append(result, &seqlib.OptionError{Name: name, Err: seqlib.ErrNegativeOption})
		case *v > seqlib.MAX_MILLIS:
			result = multierror.Append(result, &seqlib.OptionError{Name: name, Err: seqlib.ErrDurationOverflow})
		}
	}
	check("initialDelay", o.InitialDelay)
	check("typingSpeed", o.TypingSpeed)
	check("stepDelay", o.StepDelay)
	check("messageDisplayTime", o.MessageDisplayTime)
	check("trailingBuffer", o.TrailingBuffer)
	return result.ErrorOrNil()
}

// Validate reports every authoring problem in s at once.
func (s *Script) Validate() error {
	_, err := s.Build()
	return err
}

// Build converts the authored steps. All problems are collected into a
// single *multierror.Error.
func (s *Script) Build() ([]*seqlib.Step, error) {
	var result *multierror.Error
	if err := s.Options.validate(); err != nil {
		result = multierror.Append(result, err)
	}
	b := &builder{ids: make(map[string]string)}
	steps := b.build(s.Steps, "")
	result = multierror.Append(result, b.errs...)
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return steps, nil
}

// Sequence builds s into a named, compilable sequence.
func (s *Script) Sequence() (*seqlib.Sequence, error) {
	steps, err := s.Build()
	if err != nil {
		return nil, err
	}
	return &seqlib.Sequence{
		Name:         s.Name,
		Description:  s.Description,
		Steps:        steps,
		Opts:         s.Options.CompileOpts(),
		Replacements: s.Replacements,
	}, nil
}

type builder struct {
	// ids maps a step ID to the path where it was first seen.
	ids  map[string]string
	errs []error
}

func (b *builder) build(specs []StepSpec, parent string) []*seqlib.Step {
	if len(specs) == 0 {
		return nil
	}
	out := make([]*seqlib.Step, 0, len(specs))
	for i := range specs {
		path := fmt.Sprintf("%s[%d]", parent, i)
		if st := b.step(&specs[i], path); st != nil {
			out = append(out, st)
		}
	}
	return out
}

func (b *builder) step(sp *StepSpec, path string) *seqlib.Step {
	fail := func(err error) {
		b.errs = append(b.errs, &seqlib.StepError{Path: path, ID: sp.ID, Err: err})
	}
	ok := true
	kind, err := seqlib.ParseKind(sp.Type)
	if err != nil {
		fail(fmt.Errorf("%w: %q", err, sp.Type))
		ok = false
	}
	speed := sp.Speed
	if speed == 0 {
		speed = sp.TypingSpeed
	}
	switch {
	case speed < 0:
		fail(seqlib.ErrNegativeSpeed)
		ok = false
	case speed > seqlib.MAX_MILLIS:
		fail(fmt.Errorf("speed: %w", seqlib.ErrDurationOverflow))
		ok = false
	}
	switch {
	case sp.Delay < 0:
		fail(seqlib.ErrNegativeDelay)
		ok = false
	case sp.Delay > seqlib.MAX_MILLIS:
		fail(fmt.Errorf("delay: %w", seqlib.ErrDurationOverflow))
		ok = false
	}
	if sp.ID != "" {
		if first, dup := b.ids[sp.ID]; dup {
			fail(fmt.Errorf("%w: first used at %s", ErrDuplicateID, first))
			ok = false
		} else {
			b.ids[sp.ID] = path
		}
	}
	children := b.build(sp.Children, path+".children")
	if !ok {
		return nil
	}

	text := sp.Text
	if text == "" {
		text = sp.Content
	}
	style := sp.Style
	if style == "" {
		style = sp.ClassName
	}
	return &seqlib.Step{
		ID:       sp.ID,
		Kind:     kind,
		Text:     text,
		Style:    style,
		Role:     seqlib.Role(sp.Role),
		Prompt:   sp.Prompt,
		Speed:    seqlib.Ms(speed),
		Delay:    seqlib.Ms(sp.Delay),
		Children: children,
	}
}
