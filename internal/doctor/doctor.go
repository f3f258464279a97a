// Package doctor provides environment preflight checks for cpmtok.
package doctor

import (
	"fmt"
	"io"
	"os"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// InfoFunc returns a short summary string or an error if the component is
// unavailable.
type InfoFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// VocabInfo loads the vocabulary table and returns a summary
	// (e.g. "30720 tokens").
	VocabInfo InfoFunc
	// SegmenterInfo reports the configured word segmenter backend.
	SegmenterInfo InfoFunc
	// DictFiles is the list of segmenter dictionary paths to verify on disk.
	DictFiles []string
	// SkipDict skips dictionary file checks (rule segmenter mode).
	SkipDict bool
	// PromptLength is the configured prompt prefix length.
	PromptLength int
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- vocabulary table -------------------------------------------------
	if cfg.VocabInfo != nil {
		info, err := cfg.VocabInfo()
		if err != nil {
			res.fail(fmt.Sprintf("vocabulary: %v", err))
			fmt.Fprintf(w, "%s vocabulary: not loadable (%v)\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s vocabulary: %s\n", PassMark, info)
		}
	}

	// ---- word segmenter ---------------------------------------------------
	if cfg.SegmenterInfo != nil {
		info, err := cfg.SegmenterInfo()
		if err != nil {
			res.fail(fmt.Sprintf("segmenter: %v", err))
			fmt.Fprintf(w, "%s segmenter: unavailable (%v)\n", FailMark, err)
		} else {
			fmt.Fprintf(w, "%s segmenter: %s\n", PassMark, info)
		}
	}

	// ---- dictionary files -------------------------------------------------
	if cfg.SkipDict {
		fmt.Fprintf(w, "%s dictionary files: skipped\n", PassMark)
	} else {
		for _, path := range cfg.DictFiles {
			if _, err := os.Stat(path); err != nil {
				res.fail(fmt.Sprintf("dictionary file %q: %v", path, err))
				fmt.Fprintf(w, "%s dictionary file %s: not found\n", FailMark, path)
			} else {
				fmt.Fprintf(w, "%s dictionary file: %s\n", PassMark, path)
			}
		}
	}

	// ---- prompt prefix length ---------------------------------------------
	if err := checkPromptLength(cfg.PromptLength); err != nil {
		res.fail(fmt.Sprintf("prompt length: %v", err))
		fmt.Fprintf(w, "%s prompt length %d: %v\n", FailMark, cfg.PromptLength, err)
	} else {
		fmt.Fprintf(w, "%s prompt length: %d\n", PassMark, cfg.PromptLength)
	}

	return res
}

// checkPromptLength returns an error if n is not a usable prompt prefix
// length. Zero disables the prefix and is allowed; negative values are not.
func checkPromptLength(n int) error {
	if n < 0 {
		return fmt.Errorf("must be >= 0, got %d", n)
	}
	return nil
}
