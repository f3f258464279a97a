package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-cpmtok/internal/config"
	"github.com/example/go-cpmtok/internal/doctor"
	"github.com/example/go-cpmtok/internal/vocab"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local vocabulary and segmenter checks",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			segName, err := config.NormalizeSegmenter(cfg.Tokenizer.Segmenter)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "segmenter: %s\n", segName)

			dcfg := doctor.Config{
				VocabInfo: func() (string, error) {
					v, err := vocab.Load(cfg.Paths.VocabPath, specialsFromConfig(cfg.Tokenizer))
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%d tokens", v.Size()), nil
				},
				SegmenterInfo: func() (string, error) {
					if _, err := buildSegmenter(cfg); err != nil {
						return "", err
					}
					return segName, nil
				},
				SkipDict:     segName == config.SegmenterRule || cfg.Paths.DictPath == "",
				PromptLength: cfg.Prompt.Length,
			}
			if segName == config.SegmenterGSE && cfg.Paths.DictPath != "" {
				dcfg.DictFiles = []string{cfg.Paths.DictPath}
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}
