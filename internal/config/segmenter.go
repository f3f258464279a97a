package config

import (
	"fmt"
	"strings"
)

const (
	SegmenterGSE  = "gse"
	SegmenterRule = "rule"
)

// NormalizeSegmenter validates and canonicalizes the word segmenter name.
// An empty string selects the default dictionary-driven segmenter.
func NormalizeSegmenter(raw string) (string, error) {
	seg := strings.ToLower(strings.TrimSpace(raw))
	if seg == "" {
		seg = SegmenterGSE
	}
	switch seg {
	case SegmenterGSE, SegmenterRule:
		return seg, nil
	default:
		return "", fmt.Errorf("invalid segmenter %q (expected %s|%s)", raw, SegmenterGSE, SegmenterRule)
	}
}
