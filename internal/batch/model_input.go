package batch

import (
	"errors"

	"github.com/example/go-cpmtok/internal/tensor"
)

// ErrNoTexts is returned by ModelInput when no texts are supplied.
var ErrNoTexts = errors.New("batch: at least one text is required")

// ModelInput builds one bundle per text and pads every field independently
// with left alignment, returning one tensor per field name. The field set is
// taken from the first bundle; all bundles share it by construction.
func (b *Builder) ModelInput(texts []string) (map[string]*tensor.Tensor, error) {
	if len(texts) == 0 {
		return nil, ErrNoTexts
	}

	bundles := make([]Bundle, len(texts))
	for i, text := range texts {
		bundle, err := b.Convert(text)
		if err != nil {
			return nil, err
		}
		bundles[i] = bundle
	}

	padded := make(map[string]*tensor.Tensor, len(bundles[0]))
	for field := range bundles[0] {
		t, err := Pad(bundles, field, 0, SideLeft)
		if err != nil {
			return nil, err
		}
		padded[field] = t
	}
	return padded, nil
}
