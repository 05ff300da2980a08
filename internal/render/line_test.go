package render

import (
	"strings"
	"testing"

	"github.com/publieople/termseq/pkg/seqlib"
)

func TestDecoratePrompt(t *testing.T) {
	l := Decorate(&seqlib.ScheduledStep{Kind: seqlib.KindTyping, Text: "ls", Prompt: true})
	if got := l.Plain(); got != "[system] $ ls" {
		t.Fatalf("unexpected line %q", got)
	}
	if l.Runes() != 2 {
		t.Fatalf("prompt must not count as typed text, got %d", l.Runes())
	}
	if got := l.Render(0, 0, false); got != "[system] $ " {
		t.Fatalf("prompt should show before typing starts, got %q", got)
	}
}

func TestDecorateMarkup(t *testing.T) {
	l := Decorate(&seqlib.ScheduledStep{Text: "[{{✓|text-green-500}}] Loading", Style: "text-white"})
	if got := l.Plain(); got != "[✓] Loading" {
		t.Fatalf("unexpected plain line %q", got)
	}
	got := l.Full(0, true)
	want := "\x1b[97m[\x1b[0m\x1b[32m✓\x1b[0m\x1b[97m] Loading\x1b[0m"
	if got != want {
		t.Fatalf("unexpected colour line\n got %q\nwant %q", got, want)
	}
	if partial := l.Render(2, 0, false); partial != "[✓" {
		t.Fatalf("partial render across markup: %q", partial)
	}
}

func TestDecorateJSONKey(t *testing.T) {
	l := Decorate(&seqlib.ScheduledStep{Text: `"name": "Ada",`, Role: seqlib.RoleJSON, Depth: 1, Style: "text-white pl-4"})
	if got := l.Plain(); got != `    "name": "Ada",` {
		t.Fatalf("unexpected indentation %q", got)
	}
	if got := l.Full(0, true); !strings.Contains(got, "\x1b[96m\"name\"\x1b[0m") {
		t.Fatalf("key not highlighted: %q", got)
	}
}

func TestRenderTruncates(t *testing.T) {
	l := Decorate(&seqlib.ScheduledStep{Text: "abcdefghij"})
	if got := l.Full(5, false); got != "abcd…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := l.Full(10, false); got != "abcdefghij" {
		t.Fatalf("exact fit must not truncate, got %q", got)
	}
	wide := Decorate(&seqlib.ScheduledStep{Text: "漢字漢字"})
	if got := wide.Full(5, false); got != "漢字…" {
		t.Fatalf("wide runes: %q", got)
	}
}
