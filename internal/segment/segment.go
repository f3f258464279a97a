// Package segment provides the word segmentation stage that runs ahead of
// subword tokenization. A Segmenter splits raw text into an ordered sequence
// of spans whose concatenation reconstructs the original text exactly;
// subword segmentation never crosses a span boundary.
package segment

// Segmenter splits text into word-like spans. Implementations must preserve
// every character: concatenating the returned spans in order yields the
// input unchanged.
type Segmenter interface {
	Cut(text string) []string
}

// Func adapts a plain function to the Segmenter interface.
type Func func(text string) []string

func (f Func) Cut(text string) []string { return f(text) }
