package batch

import (
	"errors"
	"testing"
)

func TestModelInput_PadsAllFields(t *testing.T) {
	b := newTestBuilder(t)

	out, err := b.ModelInput([]string{"a", "hello world"})
	if err != nil {
		t.Fatalf("ModelInput: %v", err)
	}

	for _, field := range []string{FieldInput, FieldPosition, FieldSpan, FieldContext, FieldSegment} {
		tns, ok := out[field]
		if !ok {
			t.Fatalf("missing field %q", field)
		}
		shape := tns.Shape()
		if len(shape) != 2 || shape[0] != 2 {
			t.Errorf("%s shape = %v; want leading batch dim 2", field, shape)
		}
	}

	lengths, ok := out[FieldLength]
	if !ok {
		t.Fatal("missing length field")
	}
	if lengths.Rank() != 1 || lengths.Shape()[0] != 2 {
		t.Errorf("length shape = %v; want [2]", lengths.Shape())
	}

	// All rank-2 fields share the longer example's padded width.
	width := out[FieldInput].Shape()[1]
	wantWidth := int64(lengths.Data()[1])
	if lengths.Data()[0] > lengths.Data()[1] {
		wantWidth = int64(lengths.Data()[0])
	}
	if width != wantWidth {
		t.Errorf("padded width = %d; want max length %d", width, wantWidth)
	}
}

func TestModelInput_LeftPadsShorterExample(t *testing.T) {
	b := newTestBuilder(t, WithPromptLength(2), WithTaskID(0))

	out, err := b.ModelInput([]string{"a", "a b"})
	if err != nil {
		t.Fatalf("ModelInput: %v", err)
	}

	input := out[FieldInput]
	shape := input.Shape()
	data := input.Data()

	// Row 0 is shorter; its leading columns are padding zeros and its real
	// values sit at the trailing end.
	width := shape[1]
	row0Len := int64(out[FieldLength].Data()[0])
	for i := int64(0); i < width-row0Len; i++ {
		if data[i] != 0 {
			t.Errorf("row 0 col %d = %d; want padding 0", i, data[i])
		}
	}
	// Last column of row 0 equals the last real value (id of "a").
	if data[width-1] != 8 {
		t.Errorf("row 0 last col = %d; want 8", data[width-1])
	}
}

func TestModelInput_NoTexts(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.ModelInput(nil)
	if !errors.Is(err, ErrNoTexts) {
		t.Errorf("expected ErrNoTexts, got: %v", err)
	}
}
