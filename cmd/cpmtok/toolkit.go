package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/example/go-cpmtok/internal/batch"
	"github.com/example/go-cpmtok/internal/config"
	"github.com/example/go-cpmtok/internal/segment"
	"github.com/example/go-cpmtok/internal/tokenizer"
	"github.com/example/go-cpmtok/internal/vocab"
)

// specialsFromConfig maps the tokenizer config section to vocabulary specials.
func specialsFromConfig(c config.TokenizerConfig) vocab.Specials {
	return vocab.Specials{
		Bod:   c.BodToken,
		Eod:   c.EodToken,
		Bos:   c.BosToken,
		Eos:   c.EosToken,
		Pad:   c.PadToken,
		Unk:   c.UnkToken,
		Line:  c.LineToken,
		Space: c.SpaceToken,
	}
}

// buildSegmenter constructs the configured word segmenter.
func buildSegmenter(cfg config.Config) (segment.Segmenter, error) {
	name, err := config.NormalizeSegmenter(cfg.Tokenizer.Segmenter)
	if err != nil {
		return nil, err
	}

	switch name {
	case config.SegmenterRule:
		return segment.NewRule(), nil
	default:
		var dicts []string
		if cfg.Paths.DictPath != "" {
			dicts = append(dicts, cfg.Paths.DictPath)
		}
		return segment.NewGSE(dicts...)
	}
}

// buildTokenizer loads the vocabulary and wires the segmenter into a tokenizer.
func buildTokenizer(cfg config.Config) (*tokenizer.Tokenizer, error) {
	seg, err := buildSegmenter(cfg)
	if err != nil {
		return nil, err
	}

	v, err := vocab.Load(cfg.Paths.VocabPath, specialsFromConfig(cfg.Tokenizer))
	if err != nil {
		return nil, err
	}

	return tokenizer.New(v, seg, tokenizer.WithMaxWordChars(cfg.Tokenizer.MaxWordChars))
}

// buildBatchBuilder wires a tokenizer into an input builder using the
// configured prompt settings.
func buildBatchBuilder(cfg config.Config, tok *tokenizer.Tokenizer) (*batch.Builder, error) {
	return batch.NewBuilder(tok,
		batch.WithPromptLength(cfg.Prompt.Length),
		batch.WithTaskID(cfg.Prompt.TaskID),
	)
}

// readTextArg returns text from the flag if set, otherwise from stdin.
func readTextArg(text string, stdin io.Reader) (string, error) {
	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	input := strings.TrimSpace(string(b))
	if input == "" {
		return "", fmt.Errorf("either provide --text or pipe text on stdin")
	}
	return input, nil
}
