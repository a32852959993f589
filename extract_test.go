package reqsift

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	keywords := NewKeywordSet("shall", "must")
	limits := Limits{MinWords: 5, MaxWords: 100, MaxCoverage: 40}

	collect := func(page Page, splitter SentenceSplitter, warn func(Event)) []Requirement {
		var requirements []Requirement
		for r := range Extract(page, splitter, keywords, limits, warn) {
			requirements = append(requirements, r)
		}
		return requirements
	}

	t.Run("accepted sentence with two keyword occurrences", func(t *testing.T) {
		t.Parallel()

		sentence := "The vendor shall provide maintenance releases quarterly and must notify the customer before any planned service outage occurs."
		page := Page{Index: 3, Text: sentence}

		var events []Event
		requirements := collect(page, wholePageSplitter(), func(e Event) { events = append(events, e) })

		require.Len(t, requirements, 1)
		assert.Equal(t, 3, requirements[0].Page)
		assert.Equal(t, sentence, requirements[0].Content)
		assert.Equal(t, []string{"shall", "must"}, requirements[0].Keywords)
		assert.Equal(t, 18, requirements[0].WordCount)
		assert.Empty(t, events)
	})

	t.Run("too long sentence warns and is skipped", func(t *testing.T) {
		t.Parallel()

		blob := "The system shall " + strings.Repeat("operate continuously ", 124) + "without interruption."
		page := Page{Index: 1, Text: blob}

		var events []Event
		requirements := collect(page, wholePageSplitter(), func(e Event) { events = append(events, e) })

		assert.Empty(t, requirements)
		require.Len(t, events, 1)
		assert.Equal(t, 1, events[0].Page)
		assert.Equal(t, ReasonTooLong, events[0].Reason)
		assert.Contains(t, events[0].Detail, "words exceed the maximum")
	})

	t.Run("too short sentence is skipped silently", func(t *testing.T) {
		t.Parallel()

		page := Page{Text: "Must comply fully."}

		var events []Event
		requirements := collect(page, wholePageSplitter(), func(e Event) { events = append(events, e) })

		assert.Empty(t, requirements)
		assert.Empty(t, events)
	})

	t.Run("no keyword no requirement", func(t *testing.T) {
		t.Parallel()

		page := Page{Text: "This chapter gives an overview of the overall document structure."}

		requirements := collect(page, wholePageSplitter(), nil)
		assert.Empty(t, requirements)
	})

	t.Run("blank spans are ignored", func(t *testing.T) {
		t.Parallel()

		splitter := splitterFunc(func(string) []Span {
			return []Span{{Text: "   "}, {Text: ""}}
		})

		requirements := collect(Page{Text: "x"}, splitter, nil)
		assert.Empty(t, requirements)
	})

	t.Run("length filter runs before keyword matching", func(t *testing.T) {
		t.Parallel()

		// Keyword present, still rejected by word count alone.
		page := Page{Text: "It shall work."}

		var events []Event
		requirements := collect(page, wholePageSplitter(), func(e Event) { events = append(events, e) })
		assert.Empty(t, requirements)
		assert.Empty(t, events)
	})

	t.Run("sequence is restartable", func(t *testing.T) {
		t.Parallel()

		splitter := splitterFunc(func(string) []Span {
			return []Span{
				{Text: "The client shall retry failed requests twice."},
				{Text: "The server must log every rejected request."},
			}
		})
		seq := Extract(Page{Text: "x"}, splitter, keywords, limits, nil)

		var first []Requirement
		for r := range seq {
			first = append(first, r)
			break
		}
		require.Len(t, first, 1)

		var all []Requirement
		for r := range seq {
			all = append(all, r)
		}
		require.Len(t, all, 2)
		assert.Equal(t, first[0].Content, all[0].Content)
	})
}
