package pdf

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/reqsift/reqsift"
)

// defaultLineHeight approximates text height when the font size is unknown.
const defaultLineHeight = 12.0

// lineTolerance is the maximum Y distance between two text fragments that
// still counts as the same line.
const lineTolerance = 2.0

// Search locates a sentence on a page and returns one rectangle per text
// line the sentence occupies. A sentence wrapping across lines therefore
// yields multiple rectangles. Matching ignores case and whitespace since
// extracted page text and positioned text fragments disagree on both.
func (a *Adapter) Search(ctx context.Context, doc *reqsift.Document, pageIndex int, text string) ([]reqsift.Rect, error) {
	if pageIndex < 0 || pageIndex >= len(doc.Pages) {
		return nil, fmt.Errorf("page index %d out of range", pageIndex)
	}

	f, r, err := ledongthuc.Open(doc.Location)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", doc.Location, err)
	}
	defer f.Close()

	page := r.Page(pageIndex + 1)
	if page.V.IsNull() {
		return nil, fmt.Errorf("invalid page %d", pageIndex+1)
	}

	return matchRects(page.Content().Text, text), nil
}

// matchRects finds the first occurrence of target within the positioned text
// fragments and groups the matched fragments into per-line rectangles.
func matchRects(fragments []ledongthuc.Text, target string) []reqsift.Rect {
	needle := squash(target)
	if needle == "" {
		return nil
	}

	var (
		haystack strings.Builder
		owners   []int
	)
	for i, fragment := range fragments {
		squashed := squash(fragment.S)
		haystack.WriteString(squashed)
		for range len(squashed) {
			owners = append(owners, i)
		}
	}

	start := strings.Index(haystack.String(), needle)
	if start < 0 {
		return nil
	}
	end := start + len(needle)

	matched := map[int]struct{}{}
	for pos := start; pos < end; pos++ {
		matched[owners[pos]] = struct{}{}
	}

	return lineRects(fragments, matched)
}

// lineRects merges matched fragments sharing a baseline into one rectangle
// per line, preserving content order.
func lineRects(fragments []ledongthuc.Text, matched map[int]struct{}) []reqsift.Rect {
	var rects []reqsift.Rect

	for i, fragment := range fragments {
		if _, ok := matched[i]; !ok {
			continue
		}

		height := fragment.FontSize
		if height == 0 {
			height = defaultLineHeight
		}
		right := fragment.X + fragment.W

		if n := len(rects); n > 0 && sameLine(rects[n-1].Y, fragment.Y) {
			last := &rects[n-1]
			if fragment.X < last.X {
				last.W += last.X - fragment.X
				last.X = fragment.X
			}
			if right > last.X+last.W {
				last.W = right - last.X
			}
			if height > last.H {
				last.H = height
			}
			continue
		}

		rects = append(rects, reqsift.Rect{
			X: fragment.X,
			Y: fragment.Y,
			W: fragment.W,
			H: height,
		})
	}

	return rects
}

func sameLine(y1, y2 float64) bool {
	d := y1 - y2
	if d < 0 {
		d = -d
	}
	return d <= lineTolerance
}

// squash lowercases and removes all whitespace.
func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
