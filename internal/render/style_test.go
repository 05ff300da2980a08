package render

import (
	"reflect"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		classes string
		want    Style
	}{
		{"", Style{}},
		{"text-green-500", Style{SGR: []int{32}}},
		{"text-green-400", Style{SGR: []int{32}}},
		{"text-yellow-300", Style{SGR: []int{93}}},
		{"text-white", Style{SGR: []int{97}}},
		{"text-zinc-400", Style{SGR: []int{90}}},
		{"text-gray-300", Style{SGR: []int{37}}},
		{"text-green-500 font-bold", Style{SGR: []int{32, 1}}},
		{"text-white pl-4", Style{SGR: []int{97}, Indent: 2}},
		{"text-gray-400 mt-2", Style{SGR: []int{90}, Margin: 1}},
		{"text-sm bg-black flex", Style{}},
		{"text-unknown-500", Style{}},
	}
	for _, tt := range tests {
		if got := ParseStyle(tt.classes); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseStyle(%q) = %+v, want %+v", tt.classes, got, tt.want)
		}
	}
}

func TestStyleApply(t *testing.T) {
	s := ParseStyle("text-red-500 font-bold")
	if got := s.Apply("x", true); got != "\x1b[31;1mx\x1b[0m" {
		t.Fatalf("unexpected escape %q", got)
	}
	if got := s.Apply("x", false); got != "x" {
		t.Fatalf("colour off should be plain, got %q", got)
	}
	if got := s.Apply("", true); got != "" {
		t.Fatalf("empty text should stay empty, got %q", got)
	}
}
