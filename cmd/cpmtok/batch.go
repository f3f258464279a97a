package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/example/go-cpmtok/internal/batch"
	textpkg "github.com/example/go-cpmtok/internal/text"
	"github.com/spf13/cobra"
)

func newBatchCmd() *cobra.Command {
	var texts []string
	var chunk bool
	var maxChunkChars int
	var paddingSide string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Assemble texts into a padded model input batch",
		Long: "Builds one input bundle per text and pads every field to a common " +
			"shape. Texts come from repeated --text flags or one per stdin line. " +
			"With --chunk, each text is split at sentence boundaries first and " +
			"every chunk becomes its own batch example.",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			side, err := batch.ParseSide(paddingSide)
			if err != nil {
				return err
			}

			inputs, err := collectBatchTexts(texts, chunk, maxChunkChars)
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}
			builder, err := buildBatchBuilder(cfg, tok)
			if err != nil {
				return err
			}

			bundles := make([]batch.Bundle, len(inputs))
			for i, input := range inputs {
				b, err := builder.Convert(input)
				if err != nil {
					return err
				}
				bundles[i] = b
			}

			type tensorJSON struct {
				Shape []int64 `json:"shape"`
				Data  []int32 `json:"data"`
			}
			out := make(map[string]tensorJSON, len(bundles[0]))
			for field := range bundles[0] {
				t, err := batch.Pad(bundles, field, 0, side)
				if err != nil {
					return err
				}
				out[field] = tensorJSON{Shape: t.Shape(), Data: t.Data()}
			}

			return json.NewEncoder(os.Stdout).Encode(out)
		},
	}

	cmd.Flags().StringArrayVar(&texts, "text", nil, "Text to include in the batch (repeatable; stdin lines if empty)")
	cmd.Flags().BoolVar(&chunk, "chunk", false, "Split each text at sentence boundaries")
	cmd.Flags().IntVar(&maxChunkChars, "max-chunk-chars", 256, "Maximum characters per chunk when --chunk is set")
	cmd.Flags().StringVar(&paddingSide, "padding-side", "left", "Padding alignment (left|right)")

	return cmd
}

// collectBatchTexts gathers, normalizes, and optionally chunks the batch texts.
func collectBatchTexts(texts []string, chunk bool, maxChunkChars int) ([]string, error) {
	if len(texts) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := scanner.Text(); line != "" {
				texts = append(texts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("either provide --text or pipe texts on stdin")
	}

	var inputs []string
	for _, t := range texts {
		normalized, err := textpkg.Normalize(t)
		if err != nil {
			return nil, fmt.Errorf("text %q: %w", t, err)
		}
		if chunk {
			inputs = append(inputs, textpkg.ChunkBySentence(normalized, maxChunkChars)...)
		} else {
			inputs = append(inputs, normalized)
		}
	}
	return inputs, nil
}
