package reqsift

// Document is an ordered sequence of pages identified by a source location.
// It is immutable once loaded except for its annotation layer; the annotated
// output replaces the source rather than mutating it in place.
type Document struct {
	Location    string
	Pages       []Page
	Annotations []Annotation
}

// Page holds the raw extractable text and bounding dimensions of one page.
// Index is 0-based. A page is owned exclusively by its document.
type Page struct {
	Index  int
	Text   string
	Width  float64
	Height float64
}

func (p Page) Area() float64 {
	return p.Width * p.Height
}

// Span is a sentence-like unit produced by the sentence splitter, with its
// byte offset into the page text.
type Span struct {
	Text  string
	Start int
	End   int
}

type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Area() float64 {
	return r.W * r.H
}

// Origin is the anchor used when a highlight degrades to a marker note.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

type Point struct {
	X, Y float64
}

type AnnotationKind string

const (
	AnnotationHighlight AnnotationKind = "highlight"
	AnnotationNote      AnnotationKind = "note"
)

// Annotation is one entry of a document's in-memory annotation layer.
// Highlights carry a rectangle; notes carry an anchor point and the original
// requirement text so an oversized match is degraded, not dropped.
type Annotation struct {
	Page int
	Kind AnnotationKind
	Rect Rect
	At   Point
	Text string
}
