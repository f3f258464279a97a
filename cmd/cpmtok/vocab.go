package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect and export the vocabulary",
	}

	cmd.AddCommand(newVocabInfoCmd())
	cmd.AddCommand(newVocabExportCmd())

	return cmd
}

func newVocabInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print vocabulary size and special token ids",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}
			v := tok.Vocab()

			rows := []struct {
				name string
				id   int32
			}{
				{"bod", v.BodID()},
				{"eod", v.EodID()},
				{"bos", v.BosID()},
				{"eos", v.EosID()},
				{"pad", v.PadID()},
				{"unk", v.UnkID()},
				{"newline", v.NewlineID()},
				{"space", v.SpaceID()},
			}

			fmt.Fprintf(os.Stdout, "size\t%d\n", v.Size())
			for _, r := range rows {
				fmt.Fprintf(os.Stdout, "%s\t%d\n", r.name, r.id)
			}
			return nil
		},
	}
}

func newVocabExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the effective vocabulary back to a file in id order",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}

			if err := tok.SaveVocabulary(out); err != nil {
				return err
			}
			_, err = fmt.Fprintf(os.Stdout, "wrote %d tokens to %s\n", tok.Vocab().Size(), out)
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "vocab.txt", "Output vocabulary path")

	return cmd
}
