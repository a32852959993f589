package reqsift

import (
	"strings"
	"unicode"
)

// KeywordSet is a set of lowercase keywords, loaded once per process and
// read-only for the duration of a run.
type KeywordSet map[string]struct{}

func NewKeywordSet(words ...string) KeywordSet {
	ks := make(KeywordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		ks[w] = struct{}{}
	}
	return ks
}

func (ks KeywordSet) Words() []string {
	words := make([]string, 0, len(ks))
	for w := range ks {
		words = append(words, w)
	}
	return words
}

// Match returns every token of the sentence that equals a keyword, in token
// order, so a sentence using the same keyword twice yields two matches.
// Comparison is case-insensitive and whole-word: "shall" never matches inside
// "Marshall" or "shallot". Hyphenated compounds like "shall-issue" stay one
// token and match on neither side of the hyphen; a known limitation.
func (ks KeywordSet) Match(sentence string) []string {
	if len(ks) == 0 {
		return nil
	}

	var matched []string
	for _, token := range tokenize(sentence) {
		if _, ok := ks[token]; ok {
			matched = append(matched, token)
		}
	}
	return matched
}

func (ks KeywordSet) Matches(sentence string) bool {
	return len(ks.Match(sentence)) > 0
}

// tokenize splits a sentence into lowercased tokens: maximal runs of letters,
// digits and hyphens.
func tokenize(sentence string) []string {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}
	return fields
}
