package seqlib

import (
	"slices"
	"strings"
)

// Substitute replaces every $name token whose name is a key of
// replacements with the mapped value. Tokens without a key are left as
// they are, so a partially filled map is valid.
//
// When several keys match at the same '$' the longest one wins, which
// lets "$name" and "$name_full" live in one map. Replacement values are
// copied verbatim and never scanned for further tokens.
func Substitute(text string, replacements map[string]string) string {
	if len(replacements) == 0 || !strings.Contains(text, "$") {
		return text
	}
	keys := sortedKeys(replacements)
	if len(keys) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for {
		i := strings.IndexByte(text, '$')
		if i < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:i])
		rest := text[i+1:]
		key, ok := longestKey(rest, keys)
		if !ok {
			b.WriteByte('$')
			text = rest
			continue
		}
		b.WriteString(replacements[key])
		text = rest[len(key):]
	}
	return b.String()
}

// sortedKeys returns the non-empty keys ordered longest first, ties
// broken lexically so the result is deterministic.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return keys
}

func longestKey(s string, keys []string) (string, bool) {
	for _, k := range keys {
		if strings.HasPrefix(s, k) {
			return k, true
		}
	}
	return "", false
}
