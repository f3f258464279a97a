// Package tokenizer implements vocabulary-driven greedy subword tokenization
// layered on top of an external word segmentation pass. Text is first split
// into word-like spans by a segment.Segmenter, then each span is decomposed
// into the longest matching vocabulary entries.
package tokenizer

import (
	"errors"
	"strings"

	"github.com/example/go-cpmtok/internal/segment"
	"github.com/example/go-cpmtok/internal/vocab"
)

// ErrNoVocabulary is returned by New when no vocabulary is supplied.
var ErrNoVocabulary = errors.New("tokenizer: vocabulary is required")

// ErrNoSegmenter is returned by New when no word segmenter is supplied.
var ErrNoSegmenter = errors.New("tokenizer: word segmenter is required")

// Codec is the capability surface consumed by model-serving collaborators.
type Codec interface {
	Tokenize(text string) []string
	Encode(text string) []int32
	Decode(ids []int32) string
	ConvertTokensToIDs(tokens []string) []int32
	ConvertIDsToTokens(ids []int32) []string
	SaveVocabulary(path string) error
}

// Tokenizer converts text to token id sequences and back.
type Tokenizer struct {
	vocab *vocab.Vocab
	seg   segment.Segmenter
	wp    wordpiece
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxWordChars overrides the per-span length guard.
func WithMaxWordChars(n int) Option {
	return func(t *Tokenizer) {
		if n > 0 {
			t.wp.maxChars = n
		}
	}
}

// New builds a Tokenizer. Both collaborators are required; construction
// fails fast rather than deferring to a crash inside an operation.
func New(v *vocab.Vocab, seg segment.Segmenter, opts ...Option) (*Tokenizer, error) {
	if v == nil {
		return nil, ErrNoVocabulary
	}
	if seg == nil {
		return nil, ErrNoSegmenter
	}

	t := &Tokenizer{
		vocab: v,
		seg:   seg,
		wp: wordpiece{
			vocab:    v,
			unkToken: v.UnkToken(),
			maxChars: defaultMaxWordChars,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Vocab returns the underlying vocabulary table.
func (t *Tokenizer) Vocab() *vocab.Vocab { return t.vocab }

// Tokenize splits text into vocabulary tokens. Each word span is segmented
// independently; no token crosses a span boundary.
func (t *Tokenizer) Tokenize(text string) []string {
	var tokens []string
	for _, span := range t.seg.Cut(text) {
		tokens = append(tokens, t.wp.segment(span)...)
	}
	return tokens
}

// Encode converts text to ids. Unknown tokens map to the unknown id.
func (t *Tokenizer) Encode(text string) []int32 {
	return t.ConvertTokensToIDs(t.Tokenize(text))
}

// Decode converts ids back to text. Negative ids are sentinel values from
// downstream batch processing and are dropped before lookup. Tokens are
// joined with no separator; spacing reconstructs because the space and
// newline characters are themselves vocabulary entries.
func (t *Tokenizer) Decode(ids []int32) string {
	var b strings.Builder
	for _, id := range ids {
		if id < 0 {
			continue
		}
		b.WriteString(t.vocab.Token(id))
	}
	return b.String()
}

// ConvertTokensToIDs maps tokens to ids, substituting the unknown id on miss.
func (t *Tokenizer) ConvertTokensToIDs(tokens []string) []int32 {
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = t.vocab.ID(tok, t.vocab.UnkID())
	}
	return ids
}

// ConvertIDsToTokens maps ids to tokens. Negative ids resolve to the unknown
// token string, not an error.
func (t *Tokenizer) ConvertIDsToTokens(ids []int32) []string {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = t.vocab.Token(id)
	}
	return tokens
}

// Check reports whether token is a vocabulary entry.
func (t *Tokenizer) Check(token string) bool {
	return t.vocab.Contains(token)
}

// SaveVocabulary writes the vocabulary to path in id order.
func (t *Tokenizer) SaveVocabulary(path string) error {
	return t.vocab.Save(path)
}
