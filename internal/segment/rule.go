package segment

import "unicode"

// Rule is a dictionary-free segmenter: letter/digit runs become one span
// each, every CJK ideograph is its own span, and whitespace and punctuation
// runs are kept as spans of their own. It needs no external assets and is
// the fallback when no segmentation dictionary is configured.
type Rule struct{}

// NewRule returns a rule-based segmenter.
func NewRule() *Rule { return &Rule{} }

type runeClass int

const (
	classWord runeClass = iota
	classCJK
	classSpace
	classOther
)

func classify(r rune) runeClass {
	switch {
	case isCJK(r):
		return classCJK
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	case unicode.IsSpace(r):
		return classSpace
	default:
		return classOther
	}
}

// Cut splits text into spans. Concatenation of the result equals text.
func (*Rule) Cut(text string) []string {
	if text == "" {
		return nil
	}

	var spans []string
	runes := []rune(text)
	start := 0
	cls := classify(runes[0])

	for i := 1; i <= len(runes); i++ {
		split := i == len(runes)
		var next runeClass
		if !split {
			next = classify(runes[i])
			// CJK ideographs are emitted one per span.
			split = next != cls || cls == classCJK
		}
		if split {
			spans = append(spans, string(runes[start:i]))
			start = i
			cls = next
		}
	}
	return spans
}

// isCJK reports whether r is a CJK ideograph.
func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x20000 && r <= 0x2A6DF) ||
		(r >= 0xF900 && r <= 0xFAFF)
}
