package nlp

import (
	"strings"

	"github.com/reqsift/reqsift"
)

// Split tokenizes page text into sentence spans. Byte offsets are recovered
// by scanning forward through the source text, so spans always reference the
// exact region they were cut from even when the tokenizer trims whitespace.
func (a *Adapter) Split(text string) []reqsift.Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		spans  = make([]reqsift.Span, 0, 16)
		cursor = 0
	)
	for _, aSentence := range a.tokenizer.Tokenize(text) {
		trimmed := strings.TrimSpace(aSentence.Text)
		if trimmed == "" {
			continue
		}

		start := strings.Index(text[cursor:], trimmed)
		if start < 0 {
			// Tokenizer output not found verbatim in the source, keep the
			// span anyway with a best-effort offset.
			start = 0
		}
		start += cursor
		end := start + len(trimmed)
		cursor = end

		spans = append(spans, reqsift.Span{
			Text:  trimmed,
			Start: start,
			End:   end,
		})
	}

	return spans
}
