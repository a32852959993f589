package reqsift

import "strings"

const (
	DefaultMinWords    = 5
	DefaultMaxWords    = 100
	DefaultMaxCoverage = 40.0
)

// Limits bounds candidate sentences and highlight geometry.
// MaxCoverage is a percentage of the page area.
type Limits struct {
	MinWords    int
	MaxWords    int
	MaxCoverage float64
}

func DefaultLimits() Limits {
	return Limits{
		MinWords:    DefaultMinWords,
		MaxWords:    DefaultMaxWords,
		MaxCoverage: DefaultMaxCoverage,
	}
}

type FilterOutcome string

const (
	FilterAccept   FilterOutcome = "accept"
	FilterTooShort FilterOutcome = "reject_too_short"
	FilterTooLong  FilterOutcome = "reject_too_long"
)

// FilterCandidate classifies a sentence by word count, whitespace-split.
// Bounds are inclusive. A too-short sentence is an ordinary silent skip; a
// too-long one is evidence of an upstream segmentation failure and the caller
// must emit a warning for it. Runs before keyword matching.
func (l Limits) FilterCandidate(sentence string) (FilterOutcome, int) {
	count := len(strings.Fields(sentence))
	switch {
	case count < l.MinWords:
		return FilterTooShort, count
	case count > l.MaxWords:
		return FilterTooLong, count
	}
	return FilterAccept, count
}
