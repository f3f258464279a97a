package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [id ...]",
		Short: "Decode token ids back into text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			ids := make([]int32, len(args))
			for i, arg := range args {
				n, err := strconv.ParseInt(arg, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid id %q: %w", arg, err)
				}
				ids[i] = int32(n)
			}

			tok, err := buildTokenizer(cfg)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(os.Stdout, tok.Decode(ids))
			return err
		},
	}

	return cmd
}
