package reqsift

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimits_FilterCandidate(t *testing.T) {
	t.Parallel()

	limits := Limits{MinWords: 5, MaxWords: 100, MaxCoverage: 40}

	testCases := []struct {
		name      string
		sentence  string
		want      FilterOutcome
		wantCount int
	}{
		{
			name:      "below minimum",
			sentence:  "See appendix B.",
			want:      FilterTooShort,
			wantCount: 3,
		},
		{
			name:      "exactly minimum is accepted",
			sentence:  "The system shall log errors.",
			want:      FilterAccept,
			wantCount: 5,
		},
		{
			name:      "exactly maximum is accepted",
			sentence:  strings.Repeat("word ", 100),
			want:      FilterAccept,
			wantCount: 100,
		},
		{
			name:      "above maximum",
			sentence:  strings.Repeat("word ", 101),
			want:      FilterTooLong,
			wantCount: 101,
		},
		{
			name:      "empty",
			sentence:  "",
			want:      FilterTooShort,
			wantCount: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			outcome, count := limits.FilterCandidate(tc.sentence)
			assert.Equal(t, tc.want, outcome)
			assert.Equal(t, tc.wantCount, count)
		})
	}
}

func TestDefaultLimits(t *testing.T) {
	t.Parallel()

	limits := DefaultLimits()
	assert.Equal(t, 5, limits.MinWords)
	assert.Equal(t, 100, limits.MaxWords)
	assert.Equal(t, 40.0, limits.MaxCoverage)
}
