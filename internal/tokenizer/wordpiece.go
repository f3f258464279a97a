package tokenizer

// defaultMaxWordChars guards against pathological quadratic scans on
// degenerate spans; real spans are pre-segmented words.
const defaultMaxWordChars = 200

// membership is the vocabulary surface the subword pass needs.
type membership interface {
	Contains(token string) bool
}

// wordpiece greedily decomposes a single word-like span into the longest
// matching vocabulary entries, emitting the unknown marker where no entry
// matches even a single rune.
type wordpiece struct {
	vocab    membership
	unkToken string
	maxChars int
}

// segment splits one span. Output is never empty for a non-empty span and
// the cursor advances on every iteration, so termination is guaranteed.
func (w *wordpiece) segment(span string) []string {
	runes := []rune(span)
	if len(runes) > w.maxChars {
		return []string{w.unkToken}
	}

	var tokens []string
	start := 0
	for start < len(runes) {
		// Longest match wins: shrink the candidate end from the span end.
		end := len(runes)
		matched := ""
		for end > start {
			sub := string(runes[start:end])
			if w.vocab.Contains(sub) {
				matched = sub
				break
			}
			end--
		}
		if matched == "" {
			tokens = append(tokens, w.unkToken)
			start++
			continue
		}
		tokens = append(tokens, matched)
		start = end
	}
	return tokens
}
