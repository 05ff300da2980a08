package presets

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/publieople/termseq/pkg/seqlib"
)

const ms = time.Millisecond

func TestListSortedByName(t *testing.T) {
	var names []string
	for _, p := range List() {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "git,npm,routing,splash" {
		t.Fatalf("unexpected presets %q", got)
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
}

func TestEveryPresetCompiles(t *testing.T) {
	for _, p := range List() {
		t.Run(p.Name, func(t *testing.T) {
			tl, err := p.Sequence(Params{Path: "/about", Progress: 100}).Compile(nil)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if tl.Len() == 0 || tl.TotalDuration <= 0 {
				t.Fatalf("empty timeline: %d steps, total %s", tl.Len(), tl.TotalDuration)
			}
			var prev time.Duration
			for _, st := range tl.Flatten() {
				if st.StartDelay < prev {
					t.Fatalf("step %d starts at %s, before %s", st.Index, st.StartDelay, prev)
				}
				prev = st.StartDelay
			}
		})
	}
}

func TestProgressReplacements(t *testing.T) {
	tests := []struct {
		progress int
		want     [3]string
	}{
		{0, [3]string{"", "", ""}},
		{29, [3]string{"", "", ""}},
		{30, [3]string{"Done", "", ""}},
		{59, [3]string{"Done", "", ""}},
		{60, [3]string{"Done", "Done", ""}},
		{90, [3]string{"Done", "Done", "Done"}},
		{100, [3]string{"Done", "Done", "Done"}},
	}
	for _, tt := range tests {
		r := ProgressReplacements(tt.progress)
		got := [3]string{r["stage1"], r["stage2"], r["stage3"]}
		if got != tt.want {
			t.Errorf("progress %d: got %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestRoutingTimings(t *testing.T) {
	tl, err := Routing("/about", 0).Compile(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	flat := tl.Flatten()
	if flat[0].Text != "> cd ~/homepage/about" {
		t.Fatalf("unexpected command %q", flat[0].Text)
	}
	if flat[0].StartDelay != 100*ms {
		t.Errorf("cd starts at %s", flat[0].StartDelay)
	}
	// 21 runes at 15ms, then the 100ms gap.
	if flat[1].StartDelay != 515*ms {
		t.Errorf("file line starts at %s, want 515ms", flat[1].StartDelay)
	}
	if flat[1].Text != "~/homepage/src/pages/About.tsx" {
		t.Errorf("unexpected file line %q", flat[1].Text)
	}
	if flat[3].Text != "Running tsc -b... " {
		t.Errorf("stage marker should be empty at 0%%, got %q", flat[3].Text)
	}
}

func TestRoutingUnknownPath(t *testing.T) {
	tl, err := Routing("/docs", 0).Compile(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	flat := tl.Flatten()
	if flat[0].Text != "> cd /docs" || flat[1].Text != "~/homepage/src/pages/docs.tsx" {
		t.Fatalf("unexpected lines %q, %q", flat[0].Text, flat[1].Text)
	}
	if last := flat[len(flat)-1].Text; last != "✓ Local: http://localhost:4173/docs" {
		t.Fatalf("unexpected preview line %q", last)
	}
}

func TestRoutingRebindKeepsTimings(t *testing.T) {
	tl, err := Routing("/", 10).Compile(nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rebound := tl.Rebind(ProgressReplacements(65))
	before, after := tl.Flatten(), rebound.Flatten()
	for i := range before {
		if before[i].StartDelay != after[i].StartDelay || before[i].Hold != after[i].Hold {
			t.Fatalf("step %d timing changed on rebind", i)
		}
	}
	if after[3].Text != "Running tsc -b... Done" || after[4].Text != "Bundling with vite... Done" {
		t.Fatalf("unexpected stage lines %q, %q", after[3].Text, after[4].Text)
	}
	if after[5].Text != "Optimizing assets... " {
		t.Fatalf("stage 3 should still be pending, got %q", after[5].Text)
	}
	if rebound.TotalDuration != tl.TotalDuration {
		t.Fatal("total duration changed on rebind")
	}
}

func TestSplash(t *testing.T) {
	seq := Splash()
	tl, err := seq.Compile(map[string]string{"name": "Ada"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	byID := make(map[string]*seqlib.ScheduledStep)
	for _, st := range tl.Flatten() {
		byID[st.ID] = st
		if strings.Contains(st.Text, "$") {
			t.Errorf("step %s still has a placeholder: %q", st.ID, st.Text)
		}
	}
	if byID["connect"].StartDelay != time.Second {
		t.Errorf("connect should honour its 1000ms floor, got %s", byID["connect"].StartDelay)
	}
	if byID["welcome"].Text != "Welcome to Ada's portfolio!" {
		t.Errorf("unexpected welcome %q", byID["welcome"].Text)
	}
	if byID["json-name"].Depth != 1 || byID["json-end"].Depth != 0 {
		t.Errorf("json block nesting lost")
	}
	if byID["press-key"].Text != SplashReplacements["skip_message"] {
		t.Errorf("default skip message not applied: %q", byID["press-key"].Text)
	}
	if !byID["startup"].Prompt || byID["startup"].Role != seqlib.RoleCommand {
		t.Errorf("startup should be a prompted command")
	}
}
