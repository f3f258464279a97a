package segment

import (
	"fmt"

	"github.com/go-ego/gse"
)

// GSE wraps a go-ego/gse dictionary segmenter. It produces proper word-level
// spans for CJK text, the role a statistical segmenter plays upstream of the
// subword pass.
type GSE struct {
	seg gse.Segmenter
}

// NewGSE loads a gse segmenter. With no dict paths the embedded default
// dictionary is used; paths may name additional user dictionaries.
func NewGSE(dictPaths ...string) (*GSE, error) {
	g := &GSE{}
	if err := g.seg.LoadDict(dictPaths...); err != nil {
		return nil, fmt.Errorf("segment: load dictionary: %w", err)
	}
	return g, nil
}

// Cut segments text into word spans using the loaded dictionary, with HMM
// enabled for out-of-dictionary sequences.
func (g *GSE) Cut(text string) []string {
	return g.seg.Cut(text, true)
}
