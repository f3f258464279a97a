// Package vocab holds the tokenizer vocabulary: a bidirectional mapping
// between token strings and dense integer ids, loaded from a newline-delimited
// vocabulary file where the line number (0-indexed) is the token id.
package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// ErrVocabLoad is returned when the vocabulary source cannot be read.
var ErrVocabLoad = errors.New("vocabulary file unreadable")

// ErrMissingSpecialToken is returned when a configured special token is not
// present in the loaded vocabulary.
var ErrMissingSpecialToken = errors.New("special token missing from vocabulary")

// Specials names the token strings carrying special roles. All eight must be
// present in the vocabulary file.
type Specials struct {
	Bod   string // beginning of document
	Eod   string // end of document
	Bos   string // beginning of sequence
	Eos   string // end of sequence
	Pad   string
	Unk   string
	Line  string // placeholder replaced by "\n"
	Space string // placeholder replaced by " "
}

// DefaultSpecials returns the conventional special token strings.
func DefaultSpecials() Specials {
	return Specials{
		Bod:   "<d>",
		Eod:   "</d>",
		Bos:   "<s>",
		Eos:   "</s>",
		Pad:   "<pad>",
		Unk:   "<unk>",
		Line:  "</n>",
		Space: "</_>",
	}
}

// Vocab is a loaded vocabulary. It is immutable after Load and safe for
// concurrent lookups.
type Vocab struct {
	tokenToID map[string]int32
	idToToken map[int32]string

	specials Specials

	bodID int32
	eodID int32
	bosID int32
	eosID int32
	padID int32
	unkID int32

	log *slog.Logger
}

// Option configures a Vocab at load time.
type Option func(*Vocab)

// WithLogger sets the logger used for data-integrity warnings during Save.
func WithLogger(l *slog.Logger) Option {
	return func(v *Vocab) { v.log = l }
}

// Load reads a vocabulary file, one token per line, assigning ids in file
// order starting at 0. The space and newline characters take over the ids of
// the configured placeholder tokens, which are removed from the table.
func Load(path string, specials Specials, opts ...Option) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrVocabLoad, path, err)
	}
	defer func() { _ = f.Close() }()

	tokenToID := make(map[string]int32, 32768)
	next := int32(0)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tokenToID[scanner.Text()] = next
		next++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrVocabLoad, path, err)
	}
	if next == 0 {
		return nil, fmt.Errorf("%w: %q: file is empty", ErrVocabLoad, path)
	}

	v := &Vocab{
		tokenToID: tokenToID,
		specials:  specials,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}

	// The literal space and newline characters take over the placeholder ids.
	spaceID, ok := tokenToID[specials.Space]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingSpecialToken, specials.Space)
	}
	lineID, ok := tokenToID[specials.Line]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingSpecialToken, specials.Line)
	}
	tokenToID[" "] = spaceID
	tokenToID["\n"] = lineID
	delete(tokenToID, specials.Space)
	delete(tokenToID, specials.Line)

	v.idToToken = make(map[int32]string, len(tokenToID))
	for tok, id := range tokenToID {
		v.idToToken[id] = tok
	}

	// Resolve special role ids; any absence is a fatal configuration error.
	roles := []struct {
		token string
		dest  *int32
	}{
		{specials.Bod, &v.bodID},
		{specials.Eod, &v.eodID},
		{specials.Bos, &v.bosID},
		{specials.Eos, &v.eosID},
		{specials.Pad, &v.padID},
		{specials.Unk, &v.unkID},
	}
	for _, r := range roles {
		id, ok := tokenToID[r.token]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingSpecialToken, r.token)
		}
		*r.dest = id
	}

	return v, nil
}

// Size returns the number of entries in the table.
func (v *Vocab) Size() int {
	return len(v.tokenToID)
}

// ID returns the id for token, or fallback if the token is absent.
// A miss is not an error in this path; miss handling is the caller's choice.
func (v *Vocab) ID(token string, fallback int32) int32 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return fallback
}

// Token returns the token string for id. Negative ids resolve to the unknown
// token string rather than erroring: downstream processing legitimately
// carries a negative sentinel through decode paths, and decoding must
// tolerate it. An absent nonnegative id also resolves to the unknown token.
func (v *Vocab) Token(id int32) string {
	if id < 0 {
		return v.specials.Unk
	}
	if tok, ok := v.idToToken[id]; ok {
		return tok
	}
	return v.specials.Unk
}

// Contains reports whether token is in the table.
func (v *Vocab) Contains(token string) bool {
	_, ok := v.tokenToID[token]
	return ok
}

// Special role accessors.

func (v *Vocab) BodID() int32 { return v.bodID }
func (v *Vocab) EodID() int32 { return v.eodID }
func (v *Vocab) BosID() int32 { return v.bosID }
func (v *Vocab) EosID() int32 { return v.eosID }
func (v *Vocab) PadID() int32 { return v.padID }
func (v *Vocab) UnkID() int32 { return v.unkID }

// NewlineID returns the id held by the literal newline character.
func (v *Vocab) NewlineID() int32 { return v.tokenToID["\n"] }

// SpaceID returns the id held by the literal space character.
func (v *Vocab) SpaceID() int32 { return v.tokenToID[" "] }

// UnkToken returns the configured unknown token string.
func (v *Vocab) UnkToken() string { return v.specials.Unk }

// Save writes the vocabulary back in id order, one token per line.
// Non-consecutive ids are reported as a data-integrity warning and writing
// proceeds; gaps are tolerated but flagged.
func (v *Vocab) Save(path string) error {
	ids := make([]int32, 0, len(v.idToToken))
	for id := range v.idToToken {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for i, id := range ids {
		if int32(i) != id {
			v.log.Warn("vocabulary ids are not consecutive; file may not round-trip",
				slog.String("path", path),
				slog.Int("index", i),
				slog.Int("id", int(id)),
			)
			break
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vocab: create %q: %w", path, err)
	}

	w := bufio.NewWriter(f)
	for _, id := range ids {
		if _, err := w.WriteString(v.idToToken[id] + "\n"); err != nil {
			_ = f.Close()
			return fmt.Errorf("vocab: write %q: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("vocab: flush %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("vocab: close %q: %w", path, err)
	}
	return nil
}
