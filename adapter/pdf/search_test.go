package pdf

import (
	"testing"

	ledongthuc "github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragment(s string, x, y, w, size float64) ledongthuc.Text {
	return ledongthuc.Text{S: s, X: x, Y: y, W: w, FontSize: size}
}

func TestMatchRects(t *testing.T) {
	t.Run("no fragments", func(t *testing.T) {
		assert.Empty(t, matchRects(nil, "the system shall log"))
	})

	t.Run("empty target", func(t *testing.T) {
		fragments := []ledongthuc.Text{fragment("anything", 10, 700, 50, 10)}
		assert.Empty(t, matchRects(fragments, "  \n "))
	})

	t.Run("no match", func(t *testing.T) {
		fragments := []ledongthuc.Text{
			fragment("The vendor ", 72, 700, 60, 10),
			fragment("may respond.", 132, 700, 66, 10),
		}
		assert.Empty(t, matchRects(fragments, "The system shall respond."))
	})

	t.Run("single line match spans fragments", func(t *testing.T) {
		fragments := []ledongthuc.Text{
			fragment("The system ", 72, 700, 60, 10),
			fragment("shall respond ", 132, 700, 70, 10),
			fragment("within 5 seconds.", 202, 700, 90, 10),
		}

		rects := matchRects(fragments, "The system shall respond within 5 seconds.")
		require.Len(t, rects, 1)
		assert.Equal(t, 72.0, rects[0].X)
		assert.Equal(t, 700.0, rects[0].Y)
		assert.Equal(t, 220.0, rects[0].W)
		assert.Equal(t, 10.0, rects[0].H)
	})

	t.Run("line wrap yields one rect per line", func(t *testing.T) {
		fragments := []ledongthuc.Text{
			fragment("The contractor shall deliver the ", 72, 700, 180, 10),
			fragment("report every month.", 72, 686, 110, 10),
		}

		rects := matchRects(fragments, "The contractor shall deliver the report every month.")
		require.Len(t, rects, 2)
		assert.Equal(t, 700.0, rects[0].Y)
		assert.Equal(t, 686.0, rects[1].Y)
	})

	t.Run("match ignores case and whitespace differences", func(t *testing.T) {
		fragments := []ledongthuc.Text{
			fragment("THE  SYSTEM\tSHALL", 72, 700, 100, 10),
			fragment(" log all events.", 172, 700, 80, 10),
		}

		rects := matchRects(fragments, "The system shall log all events.")
		require.Len(t, rects, 1)
	})

	t.Run("zero font size falls back to default height", func(t *testing.T) {
		fragments := []ledongthuc.Text{
			fragment("The system shall stop.", 72, 700, 120, 0),
		}

		rects := matchRects(fragments, "The system shall stop.")
		require.Len(t, rects, 1)
		assert.Equal(t, defaultLineHeight, rects[0].H)
	})

	t.Run("only matched fragments contribute", func(t *testing.T) {
		fragments := []ledongthuc.Text{
			fragment("Preamble text here. ", 72, 700, 100, 10),
			fragment("The device shall reset.", 172, 700, 120, 10),
			fragment(" Unrelated trailer.", 292, 700, 90, 10),
		}

		rects := matchRects(fragments, "The device shall reset.")
		require.Len(t, rects, 1)
		assert.Equal(t, 172.0, rects[0].X)
		assert.Equal(t, 120.0, rects[0].W)
	})
}

func TestSquash(t *testing.T) {
	assert.Equal(t, "thesystemshall", squash("The  System\n\tSHALL "))
	assert.Equal(t, "", squash(" \t\n"))
}
