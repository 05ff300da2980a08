package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/publieople/termseq/pkg/seqlib"
)

// PROMPT is printed before steps that ask for it.
const PROMPT = "[system] $"

var (
	promptStyle = ParseStyle("text-green-400 font-bold")
	keyStyle    = ParseStyle("text-sky-300")

	markupRe  = regexp.MustCompile(`\{\{([^|{}]*)\|([^{}]*)\}\}`)
	jsonKeyRe = regexp.MustCompile(`^(\s*)("[^"]*")(\s*:)(.*)$`)
)

type segment struct {
	text  string
	style Style
}

// Line is a decorated step ready to be drawn, possibly partially.
type Line struct {
	prefix []segment
	body   []segment
	indent int
	margin int
}

// Decorate builds the line for a scheduled step: the prompt for prompt
// steps, key highlighting for JSON lines and {{text|style}} markup.
func Decorate(st *seqlib.ScheduledStep) Line {
	base := ParseStyle(st.Style)
	l := Line{
		indent: base.Indent + 2*st.Depth,
		margin: base.Margin,
	}
	if st.Prompt {
		l.prefix = append(l.prefix, segment{PROMPT, promptStyle}, segment{" ", Style{}})
	}
	if st.Role == seqlib.RoleJSON {
		l.body = jsonSegments(st.Text, base)
	} else {
		l.body = markupSegments(st.Text, base)
	}
	return l
}

func markupSegments(text string, base Style) []segment {
	var out []segment
	last := 0
	for _, m := range markupRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			out = append(out, segment{text[last:m[0]], base})
		}
		inner := ParseStyle(text[m[4]:m[5]])
		inner.Indent, inner.Margin = 0, 0
		out = append(out, segment{text[m[2]:m[3]], inner})
		last = m[1]
	}
	if last < len(text) {
		out = append(out, segment{text[last:], base})
	}
	return out
}

func jsonSegments(text string, base Style) []segment {
	m := jsonKeyRe.FindStringSubmatch(text)
	if m == nil {
		return markupSegments(text, base)
	}
	out := []segment{}
	if m[1] != "" {
		out = append(out, segment{m[1], base})
	}
	out = append(out, segment{m[2], keyStyle}, segment{m[3], base})
	return append(out, markupSegments(m[4], base)...)
}

// Runes returns the number of body runes a typing effect reveals.
func (l Line) Runes() int {
	n := 0
	for _, s := range l.body {
		n += utf8.RuneCountInString(s.text)
	}
	return n
}

// Plain returns the whole line without escape sequences.
func (l Line) Plain() string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", l.indent))
	for _, s := range l.prefix {
		b.WriteString(s.text)
	}
	for _, s := range l.body {
		b.WriteString(s.text)
	}
	return b.String()
}

// Render draws the prefix and the first n body runes. A positive width
// truncates the visible text to that many cells, ellipsis included.
func (l Line) Render(n, width int, color bool) string {
	pieces := make([]segment, 0, len(l.prefix)+len(l.body)+1)
	if l.indent > 0 {
		pieces = append(pieces, segment{strings.Repeat(" ", l.indent), Style{}})
	}
	pieces = append(pieces, l.prefix...)
	left := n
	for _, s := range l.body {
		if left <= 0 {
			break
		}
		text := s.text
		if c := utf8.RuneCountInString(text); c > left {
			text = string([]rune(text)[:left])
		}
		left -= utf8.RuneCountInString(text)
		pieces = append(pieces, segment{text, s.style})
	}

	budget := -1
	if width > 0 {
		total := 0
		for _, p := range pieces {
			total += runewidth.StringWidth(p.text)
		}
		if total > width {
			budget = width - 1
		}
	}

	var b strings.Builder
	cells := 0
	for _, p := range pieces {
		text := p.text
		if budget >= 0 {
			w := runewidth.StringWidth(text)
			if cells+w > budget {
				text = runewidth.Truncate(text, budget-cells, "")
				b.WriteString(p.style.Apply(text, color))
				b.WriteString("…")
				return b.String()
			}
			cells += w
		}
		b.WriteString(p.style.Apply(text, color))
	}
	return b.String()
}

// Full draws the complete line.
func (l Line) Full(width int, color bool) string {
	return l.Render(l.Runes(), width, color)
}

// Margin returns the number of blank lines to draw before the line.
func (l Line) Margin() int {
	return l.margin
}
