package reqsift

import (
	"fmt"
	"iter"
	"strings"
)

// Extract returns the requirements found on a page as a lazy, finite,
// restartable sequence. Each span from the splitter goes through the length
// filter first and keyword matching second; matching a several-hundred-word
// blob is both wasteful and a symptom the filter exists to catch. Ordering
// follows the splitter, which is top-to-bottom as extracted and not
// necessarily visual reading order for multi-column layouts.
//
// Too-long spans are reported through warn; too-short ones are skipped
// silently.
func Extract(page Page, splitter SentenceSplitter, keywords KeywordSet, limits Limits, warn func(Event)) iter.Seq[Requirement] {
	return func(yield func(Requirement) bool) {
		for _, span := range splitter.Split(page.Text) {
			sentence := strings.TrimSpace(span.Text)
			if sentence == "" {
				continue
			}

			outcome, wordCount := limits.FilterCandidate(sentence)
			switch outcome {
			case FilterTooShort:
				continue
			case FilterTooLong:
				if warn != nil {
					warn(Event{
						Page:   page.Index,
						Reason: ReasonTooLong,
						Detail: fmt.Sprintf("%d words exceed the maximum of %d, likely a segmentation failure", wordCount, limits.MaxWords),
					})
				}
				continue
			}

			matched := keywords.Match(sentence)
			if len(matched) == 0 {
				continue
			}

			if !yield(Requirement{
				Page:      page.Index,
				Content:   sentence,
				Keywords:  matched,
				WordCount: wordCount,
			}) {
				return
			}
		}
	}
}
