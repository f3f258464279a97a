package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-cpmtok/internal/segment"
	"github.com/example/go-cpmtok/internal/vocab"
)

// newTestTokenizer builds a tokenizer over a small vocabulary with the
// rule-based segmenter.
func newTestTokenizer(t *testing.T, extra ...string) *Tokenizer {
	t.Helper()

	tokens := []string{
		"<d>", "</d>", "<s>", "</s>", "<pad>", "<unk>", "</n>", "</_>",
		"a", "b", "ab", "hello", "hel", "lo", "world",
	}
	tokens = append(tokens, extra...)

	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, []byte(strings.Join(tokens, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	v, err := vocab.Load(path, vocab.DefaultSpecials())
	if err != nil {
		t.Fatalf("load vocab: %v", err)
	}
	tok, err := New(v, segment.NewRule())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tok
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNew_RequiresVocabulary(t *testing.T) {
	_, err := New(nil, segment.NewRule())
	if !errors.Is(err, ErrNoVocabulary) {
		t.Errorf("expected ErrNoVocabulary, got: %v", err)
	}
}

func TestNew_RequiresSegmenter(t *testing.T) {
	tok := newTestTokenizer(t)

	_, err := New(tok.Vocab(), nil)
	if !errors.Is(err, ErrNoSegmenter) {
		t.Errorf("expected ErrNoSegmenter, got: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Greedy subword segmentation
// ---------------------------------------------------------------------------

func TestWordpiece_LongestMatchWins(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.wp.segment("ab")
	if len(got) != 1 || got[0] != "ab" {
		t.Errorf("segment(ab) = %q; want [ab]", got)
	}
}

func TestWordpiece_UnknownAdvancesOneRune(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.wp.segment("ac")
	want := []string{"a", "<unk>"}
	if len(got) != len(want) {
		t.Fatalf("segment(ac) = %q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment(ac)[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestWordpiece_GreedyPrefixOverlap(t *testing.T) {
	tok := newTestTokenizer(t)

	// "hello" matches whole; "helloworld" takes "hello" then "world".
	if got := tok.wp.segment("hello"); len(got) != 1 || got[0] != "hello" {
		t.Errorf("segment(hello) = %q; want [hello]", got)
	}
	got := tok.wp.segment("helloworld")
	want := []string{"hello", "world"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("segment(helloworld) = %q; want %q", got, want)
	}
}

func TestWordpiece_LengthGuard(t *testing.T) {
	tok := newTestTokenizer(t)

	long := strings.Repeat("a", defaultMaxWordChars+1)
	got := tok.wp.segment(long)
	if len(got) != 1 || got[0] != "<unk>" {
		t.Errorf("segment(long) = %d tokens; want single unknown marker", len(got))
	}
}

func TestWordpiece_ProgressOnAllUnknown(t *testing.T) {
	tok := newTestTokenizer(t)

	got := tok.wp.segment("xyz")
	if len(got) != 3 {
		t.Fatalf("segment(xyz) emitted %d tokens; want 3 (one per rune)", len(got))
	}
	for i, g := range got {
		if g != "<unk>" {
			t.Errorf("token %d = %q; want <unk>", i, g)
		}
	}
}

func TestWordpiece_Idempotent(t *testing.T) {
	tok := newTestTokenizer(t)

	first := tok.wp.segment("helloab")
	second := tok.wp.segment("helloab")
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Errorf("segmentation not idempotent: %q vs %q", first, second)
	}
}

// ---------------------------------------------------------------------------
// Facade
// ---------------------------------------------------------------------------

func TestTokenize_SpanBoundariesHold(t *testing.T) {
	// "a b" segments to spans [a][ ][b]; even though "ab" is in the
	// vocabulary, no token may bleed across the span boundary.
	tok := newTestTokenizer(t)

	got := tok.Tokenize("a b")
	want := []string{"a", " ", "b"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize(a b) = %q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize(a b)[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tok := newTestTokenizer(t)

	texts := []string{"hello world", "ab a b", "hello\nworld"}
	for _, text := range texts {
		ids := tok.Encode(text)
		if got := tok.Decode(ids); got != text {
			t.Errorf("Decode(Encode(%q)) = %q", text, got)
		}
	}
}

func TestEncode_UnknownID(t *testing.T) {
	tok := newTestTokenizer(t)

	ids := tok.Encode("aq")
	if len(ids) != 2 {
		t.Fatalf("Encode(aq) = %v; want 2 ids", ids)
	}
	if ids[1] != tok.Vocab().UnkID() {
		t.Errorf("ids[1] = %d; want unknown id %d", ids[1], tok.Vocab().UnkID())
	}
}

func TestDecode_FiltersNegativeIDs(t *testing.T) {
	tok := newTestTokenizer(t)

	ids := append([]int32{-1, -7}, tok.Encode("hello")...)
	if got := tok.Decode(ids); got != "hello" {
		t.Errorf("Decode with negative ids = %q; want %q", got, "hello")
	}
}

func TestConvertTokensToIDs_UnknownOnMiss(t *testing.T) {
	tok := newTestTokenizer(t)

	ids := tok.ConvertTokensToIDs([]string{"hello", "zzz"})
	if ids[1] != tok.Vocab().UnkID() {
		t.Errorf("miss id = %d; want %d", ids[1], tok.Vocab().UnkID())
	}
}

func TestConvertIDsToTokens_NegativeYieldsUnknownToken(t *testing.T) {
	tok := newTestTokenizer(t)

	tokens := tok.ConvertIDsToTokens([]int32{tok.Vocab().ID("hello", -1), -3})
	if tokens[0] != "hello" {
		t.Errorf("tokens[0] = %q; want hello", tokens[0])
	}
	if tokens[1] != "<unk>" {
		t.Errorf("tokens[1] = %q; want <unk>", tokens[1])
	}
}

func TestCheck(t *testing.T) {
	tok := newTestTokenizer(t)

	if !tok.Check("ab") {
		t.Error("Check(ab) = false; want true")
	}
	if tok.Check("zzz") {
		t.Error("Check(zzz) = true; want false")
	}
}

func TestSaveVocabulary(t *testing.T) {
	tok := newTestTokenizer(t)

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := tok.SaveVocabulary(path); err != nil {
		t.Fatalf("SaveVocabulary: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved vocabulary missing: %v", err)
	}
}
