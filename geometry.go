package reqsift

type CoverageOutcome string

const (
	CoverageOK        CoverageOutcome = "ok"
	CoverageOversized CoverageOutcome = "oversized"
)

// Coverage returns the percentage of the page area occupied by the rectangle.
// Monotonic in rectangle area for a fixed page.
func Coverage(rect Rect, page Page) float64 {
	area := page.Area()
	if area <= 0 {
		return 0
	}
	return rect.Area() / area * 100
}

// ValidateHighlight classifies a candidate highlight rectangle against the
// page bounding box. A rectangle covering exactly MaxCoverage percent is ok;
// only strictly greater coverage is oversized.
func (l Limits) ValidateHighlight(rect Rect, page Page) (float64, CoverageOutcome) {
	coverage := Coverage(rect, page)
	if coverage > l.MaxCoverage {
		return coverage, CoverageOversized
	}
	return coverage, CoverageOK
}
