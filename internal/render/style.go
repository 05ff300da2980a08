package render

import (
	"strconv"
	"strings"
)

// Style is the terminal rendering of a space separated list of utility
// classes such as "text-green-400 font-bold pl-4".
type Style struct {
	// SGR holds the ANSI select graphic rendition parameters.
	SGR []int
	// Indent is the number of spaces to put before the text.
	Indent int
	// Margin is the number of blank lines to put before the line.
	Margin int
}

var colorFamilies = map[string]int{
	"black":   30,
	"red":     31,
	"rose":    31,
	"orange":  33,
	"amber":   33,
	"yellow":  33,
	"green":   32,
	"emerald": 32,
	"lime":    32,
	"blue":    34,
	"indigo":  34,
	"violet":  35,
	"purple":  35,
	"fuchsia": 35,
	"pink":    35,
	"cyan":    36,
	"teal":    36,
	"sky":     36,
	"white":   97,
}

var grayFamilies = map[string]bool{
	"gray":    true,
	"zinc":    true,
	"slate":   true,
	"neutral": true,
	"stone":   true,
}

var attributes = map[string]int{
	"font-bold":    1,
	"font-light":   2,
	"italic":       3,
	"underline":    4,
	"line-through": 9,
}

// ParseStyle converts a class list. Unknown classes are ignored.
func ParseStyle(classes string) Style {
	var s Style
	for _, c := range strings.Fields(classes) {
		if code, ok := attributes[c]; ok {
			s.SGR = append(s.SGR, code)
			continue
		}
		switch {
		case strings.HasPrefix(c, "text-"):
			if code, ok := textColor(strings.TrimPrefix(c, "text-")); ok {
				s.SGR = append(s.SGR, code)
			}
		case strings.HasPrefix(c, "pl-"):
			if n, err := strconv.Atoi(strings.TrimPrefix(c, "pl-")); err == nil && n > 0 {
				s.Indent = n / 2
			}
		case strings.HasPrefix(c, "mt-"):
			if n, err := strconv.Atoi(strings.TrimPrefix(c, "mt-")); err == nil && n > 0 {
				s.Margin = 1
			}
		}
	}
	return s
}

// textColor maps "green-400" style names to a foreground code. Light
// shades (300 and below) use the bright variant.
func textColor(name string) (int, bool) {
	family, shade, _ := strings.Cut(name, "-")
	level := 500
	if shade != "" {
		n, err := strconv.Atoi(shade)
		if err != nil {
			return 0, false
		}
		level = n
	}
	if grayFamilies[family] {
		if level >= 400 {
			return 90, true
		}
		return 37, true
	}
	code, ok := colorFamilies[family]
	if !ok {
		return 0, false
	}
	if level <= 300 && code < 90 {
		code += 60
	}
	return code, true
}

// Apply wraps text in the style's escape sequence. Indent and margin are
// not applied here.
func (s Style) Apply(text string, color bool) string {
	if !color || len(s.SGR) == 0 || text == "" {
		return text
	}
	codes := make([]string, len(s.SGR))
	for i, c := range s.SGR {
		codes[i] = strconv.Itoa(c)
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + text + "\x1b[0m"
}
