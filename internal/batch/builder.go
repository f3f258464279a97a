// Package batch assembles encoded strings into fixed-structure model input
// bundles and merges bundles into padded batches.
package batch

import (
	"errors"
	"fmt"

	"github.com/example/go-cpmtok/internal/tensor"
	"github.com/example/go-cpmtok/internal/tokenizer"
)

// Model input field names.
const (
	FieldInput    = "input"
	FieldLength   = "length"
	FieldPosition = "position"
	FieldSpan     = "span"
	FieldContext  = "context"
	FieldSegment  = "segment"
)

// Segment labels for the prompt and content regions.
const (
	promptSegment  int32 = 0
	contentSegment int32 = 2
)

// Bundle is one example's named parallel sequences, each a tensor with a
// leading batch dimension of one. Bundles are immutable once built.
type Bundle map[string]*tensor.Tensor

// ErrNoTokenizer is returned by NewBuilder when no tokenizer is supplied.
var ErrNoTokenizer = errors.New("batch: tokenizer is required")

// Builder turns encoded strings into model input bundles with a fixed-length
// synthetic prompt prefix.
type Builder struct {
	tok          *tokenizer.Tokenizer
	promptLength int32
	taskID       int32
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithPromptLength sets the number of synthetic prompt-slot ids.
func WithPromptLength(n int) BuilderOption {
	return func(b *Builder) {
		if n >= 0 {
			b.promptLength = int32(n)
		}
	}
}

// WithTaskID sets the task conditioning id. Prompt-slot ids are computed as
// i + promptLength*taskID; callers must configure a range that does not
// collide with real vocabulary ids.
func WithTaskID(id int) BuilderOption {
	return func(b *Builder) { b.taskID = int32(id) }
}

// NewBuilder creates a Builder with the conventional prompt length of 32 and
// task id 2.
func NewBuilder(tok *tokenizer.Tokenizer, opts ...BuilderOption) (*Builder, error) {
	if tok == nil {
		return nil, ErrNoTokenizer
	}

	b := &Builder{
		tok:          tok,
		promptLength: 32,
		taskID:       2,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Convert encodes text into a model input bundle. The beginning-of-sequence
// id is prepended and every unknown id is dropped: unknown content carries no
// signal and is elided from model input rather than passed through.
func (b *Builder) Convert(text string) (Bundle, error) {
	unk := b.tok.Vocab().UnkID()

	encoded := append([]int32{b.tok.Vocab().BosID()}, b.tok.Encode(text)...)
	content := encoded[:0]
	for _, id := range encoded {
		if id != unk {
			content = append(content, id)
		}
	}

	length := b.promptLength + int32(len(content))

	input := make([]int32, 0, length)
	for i := int32(0); i < b.promptLength; i++ {
		input = append(input, i+b.promptLength*b.taskID)
	}
	input = append(input, content...)

	position := make([]int32, length)
	span := make([]int32, length)
	context := make([]int32, length)
	segment := make([]int32, length)
	for i := range position {
		position[i] = int32(i)
		context[i] = 1
	}
	for i := int32(0); i < length; i++ {
		if i < b.promptLength {
			segment[i] = promptSegment
		} else {
			segment[i] = contentSegment
		}
	}

	bundle := Bundle{}
	fields := []struct {
		name string
		data []int32
	}{
		{FieldInput, input},
		{FieldPosition, position},
		{FieldSpan, span},
		{FieldContext, context},
		{FieldSegment, segment},
	}
	for _, f := range fields {
		t, err := tensor.New(f.data, []int64{1, int64(length)})
		if err != nil {
			return nil, fmt.Errorf("batch: field %s: %w", f.name, err)
		}
		bundle[f.name] = t
	}

	lengthT, err := tensor.New([]int32{length}, []int64{1})
	if err != nil {
		return nil, fmt.Errorf("batch: field %s: %w", FieldLength, err)
	}
	bundle[FieldLength] = lengthT

	return bundle, nil
}
