package main

import (
	"fmt"
	"os"

	textpkg "github.com/example/go-cpmtok/internal/text"
	"github.com/spf13/cobra"
)

func newTokenizeCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Split text into vocabulary tokens, one per line",
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

			for _, token := range tok.Tokenize(input) {
				if _, err := fmt.Fprintf(os.Stdout, "%q\n", token); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to tokenize (if empty, read from stdin)")

	return cmd
}
