package reqsift

import (
	"context"
	"fmt"
)

// annotateRequirement asks the PDF collaborator to locate the requirement
// text and draws one annotation per returned rectangle. Oversized rectangles
// degrade to a marker note at the rectangle origin so the match is not
// silently lost; unlocatable text is skipped with a warning. Both are
// per-item conditions and never abort the run.
func (rs *reqSift) annotateRequirement(ctx context.Context, doc *Document, r Requirement, warn func(Event)) error {
	page := doc.Pages[r.Page]

	rects, err := rs.pdf.Search(ctx, doc, r.Page, r.Content)
	if err != nil {
		warn(Event{
			Page:   r.Page,
			Reason: ReasonUnlocatableText,
			Detail: fmt.Sprintf("search failed: %s", err),
		})
		return nil
	}
	if len(rects) == 0 {
		warn(Event{
			Page:   r.Page,
			Reason: ReasonUnlocatableText,
			Detail: "text not found on page, possibly an extraction/rendering mismatch",
		})
		return nil
	}

	for _, rect := range rects {
		coverage, outcome := rs.limits.ValidateHighlight(rect, page)
		switch outcome {
		case CoverageOK:
			if err := rs.pdf.Highlight(ctx, doc, r.Page, rect); err != nil {
				return fmt.Errorf("drawing highlight on page %d: %w", r.Page, err)
			}
		case CoverageOversized:
			if err := rs.pdf.Note(ctx, doc, r.Page, rect.Origin(), r.Content); err != nil {
				return fmt.Errorf("placing note on page %d: %w", r.Page, err)
			}
			warn(Event{
				Page:   r.Page,
				Reason: ReasonOversizedHighlight,
				Detail: fmt.Sprintf("rectangle covers %.1f%% of the page, %d matched words degraded to a note", coverage, len(r.Keywords)),
			})
		}
	}

	return nil
}
