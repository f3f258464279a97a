package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	textpkg "github.com/example/go-cpmtok/internal/text"
	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var text string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode text into token ids",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readTextArg(text, os.Stdin)
			if err != nil {
				return err
			}
			input, err = textpkg.Normalize(input)
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}

			tokens := tok.Tokenize(input)
			ids := tok.ConvertTokensToIDs(tokens)

			if asJSON {
				return json.NewEncoder(os.Stdout).Encode(struct {
					Tokens []string `json:"tokens"`
					IDs    []int32  `json:"ids"`
				}{Tokens: tokens, IDs: ids})
			}

			parts := make([]string, len(ids))
			for i, id := range ids {
				parts[i] = fmt.Sprintf("%d", id)
			}
			_, err = fmt.Fprintln(os.Stdout, strings.Join(parts, " "))
			return err
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to encode (if empty, read from stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit tokens and ids as JSON")

	return cmd
}
