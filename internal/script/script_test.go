package script

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/publieople/termseq/pkg/seqlib"
)

func i64(v int64) *int64 { return &v }

func TestBuildConvertsSteps(t *testing.T) {
	s := &Script{
		Steps: []StepSpec{
			{ID: "cmd", Type: "typing", Text: "zsh startup.sh", Style: "text-green-400", Prompt: true, Speed: 10},
			{ID: "msg", Type: "message", Content: "ok", ClassName: "text-gray-400", Delay: 1000, Role: "status"},
			{ID: "json", Type: "instant", Text: "{", Children: []StepSpec{
				{ID: "name", Type: "type", Text: `"name": "$name"`, TypingSpeed: 5},
			}},
		},
	}
	steps, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	cmd := steps[0]
	if cmd.Kind != seqlib.KindTyping || cmd.Speed != 10*time.Millisecond || !cmd.Prompt || cmd.Style != "text-green-400" {
		t.Fatalf("unexpected first step: %+v", cmd)
	}
	msg := steps[1]
	if msg.Kind != seqlib.KindInstant || msg.Text != "ok" || msg.Style != "text-gray-400" {
		t.Fatalf("aliases not applied: %+v", msg)
	}
	if msg.Delay != time.Second || msg.Role != seqlib.RoleStatus {
		t.Fatalf("unexpected delay/role: %+v", msg)
	}
	if len(steps[2].Children) != 1 || steps[2].Children[0].Speed != 5*time.Millisecond {
		t.Fatalf("children not converted: %+v", steps[2].Children)
	}
}

func TestBuildCollectsEveryProblem(t *testing.T) {
	s := &Script{
		Options: &OptionsSpec{TypingSpeed: i64(-1), StepDelay: i64(math.MaxInt64)},
		Steps: []StepSpec{
			{ID: "a", Type: "blink"},
			{ID: "b", Type: "typing", Speed: -2},
			{ID: "a", Type: "instant"},
			{ID: "c", Type: "instant", Children: []StepSpec{
				{ID: "d", Type: "instant", Delay: -5},
			}},
			{ID: "e", Type: "typing", Speed: seqlib.MAX_MILLIS + 1},
		},
	}
	_, err := s.Build()
	if err == nil {
		t.Fatal("expected an error")
	}
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("expected *multierror.Error, got %T", err)
	}
	if len(merr.Errors) != 7 {
		t.Fatalf("expected 7 problems, got %d: %v", len(merr.Errors), err)
	}
	for _, target := range []error{
		seqlib.ErrUnknownKind,
		seqlib.ErrNegativeSpeed,
		seqlib.ErrNegativeDelay,
		seqlib.ErrNegativeOption,
		seqlib.ErrDurationOverflow,
		ErrDuplicateID,
	} {
		if !errors.Is(err, target) {
			t.Errorf("expected %v among the problems", target)
		}
	}
	if !strings.Contains(err.Error(), "[3].children[0]") {
		t.Errorf("expected nested path in message: %v", err)
	}
}

func TestOptionsSpecCompileOpts(t *testing.T) {
	opts := (&OptionsSpec{TypingSpeed: i64(10), TrailingBuffer: i64(0)}).CompileOpts()
	if opts.DefaultTypingSpeed != 10*time.Millisecond {
		t.Errorf("typing speed: %s", opts.DefaultTypingSpeed)
	}
	if opts.TrailingBuffer != 0 {
		t.Errorf("explicit zero must be kept, got %s", opts.TrailingBuffer)
	}
	if opts.InitialDelay != seqlib.DEF_INITIAL_DELAY {
		t.Errorf("unset field must keep default, got %s", opts.InitialDelay)
	}
	if got := (*OptionsSpec)(nil).CompileOpts(); got.InterStepGap != seqlib.DEF_STEP_GAP {
		t.Errorf("nil OptionsSpec must give defaults, got %+v", got)
	}
}

func TestOptionsSpecApplyKeepsBase(t *testing.T) {
	base := &seqlib.CompileOpts{InitialDelay: time.Second, DefaultTypingSpeed: 2 * time.Millisecond}
	got := (&OptionsSpec{TypingSpeed: i64(5)}).Apply(base)
	if got.InitialDelay != time.Second || got.DefaultTypingSpeed != 5*time.Millisecond {
		t.Fatalf("unexpected options %+v", got)
	}
	if (*OptionsSpec)(nil).Apply(base) != base {
		t.Fatal("nil OptionsSpec must return opts unchanged")
	}
}

func TestOptionsSpecMerge(t *testing.T) {
	base := &OptionsSpec{InitialDelay: i64(100), StepDelay: i64(50)}
	m := base.Merge(&OptionsSpec{StepDelay: i64(10), MessageDisplayTime: i64(0)})
	if *m.InitialDelay != 100 || *m.StepDelay != 10 || *m.MessageDisplayTime != 0 {
		t.Fatalf("unexpected merge result: %+v", m)
	}
	if *base.StepDelay != 50 {
		t.Fatal("merge modified the receiver")
	}
	if got := (*OptionsSpec)(nil).Merge(nil); got == nil || got.InitialDelay != nil {
		t.Fatalf("nil merge: %+v", got)
	}
}

func TestScriptSequenceCompiles(t *testing.T) {
	s := &Script{
		Name:         "demo",
		Options:      &OptionsSpec{InitialDelay: i64(0), TypingSpeed: i64(1), StepDelay: i64(0), TrailingBuffer: i64(0)},
		Replacements: map[string]string{"name": "Ada"},
		Steps:        []StepSpec{{Type: "typing", Text: "$name"}},
	}
	seq, err := s.Sequence()
	if err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	tl, err := seq.Compile(nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if tl.Steps[0].Text != "Ada" || tl.TotalDuration != 3*time.Millisecond {
		t.Fatalf("unexpected timeline: text %q total %s", tl.Steps[0].Text, tl.TotalDuration)
	}
}
