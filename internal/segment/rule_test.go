package segment

import (
	"strings"
	"testing"
)

func TestRule_Cut(t *testing.T) {
	seg := NewRule()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single word", "hello", []string{"hello"}},
		{"words and spaces", "hello world", []string{"hello", " ", "world"}},
		{"punctuation then space", "a, b", []string{"a", ",", " ", "b"}},
		{"digits join letters of same class", "abc123", []string{"abc123"}},
		{"cjk one span per rune", "你好a", []string{"你", "好", "a"}},
		{"newline kept", "a\nb", []string{"a", "\n", "b"}},
		{"mixed whitespace run", "a \t b", []string{"a", " \t ", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seg.Cut(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Cut(%q) = %q; want %q", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Cut(%q)[%d] = %q; want %q", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Concatenating the spans must reconstruct the input exactly; this is the
// contract the subword pass depends on.
func TestRule_CutPreservesConcatenation(t *testing.T) {
	seg := NewRule()

	inputs := []string{
		"hello world",
		"你好，世界！",
		"mixed 中文 and english\nwith lines",
		"  leading and trailing  ",
		"tabs\tand\nnewlines",
	}
	for _, in := range inputs {
		if got := strings.Join(seg.Cut(in), ""); got != in {
			t.Errorf("concatenation mismatch: got %q, want %q", got, in)
		}
	}
}

func TestFunc_Adapter(t *testing.T) {
	var s Segmenter = Func(func(text string) []string { return []string{text} })

	got := s.Cut("abc")
	if len(got) != 1 || got[0] != "abc" {
		t.Errorf("Func adapter = %q; want [abc]", got)
	}
}
