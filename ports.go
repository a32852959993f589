package reqsift

import (
	"context"
	"database/sql"
	"io"
)

// SentenceSplitter splits raw page text into sentence-like spans. No semantic
// guarantees are assumed beyond plausible sentence boundaries; spans may be
// fragments or run-on page text.
type SentenceSplitter interface {
	Split(text string) []Span
}

// PDF is the document collaborator: it loads pages with their text and
// dimensions, locates text on a page, draws annotations on the in-memory
// annotation layer and saves the annotated document.
type PDF interface {
	Load(ctx context.Context, location string) (*Document, error)
	// Search returns zero or more rectangles covering the given text on a
	// page. Multiple disjoint rectangles are returned when the matched text
	// wraps across lines.
	Search(ctx context.Context, doc *Document, pageIndex int, text string) ([]Rect, error)
	Highlight(ctx context.Context, doc *Document, pageIndex int, rect Rect) error
	Note(ctx context.Context, doc *Document, pageIndex int, at Point, text string) error
	Save(ctx context.Context, doc *Document, location string) error
}

type Store interface {
	Transactional
	RunStore
	RequirementStore
	EventStore
}

type Transactional interface {
	Transactional(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error
}

type RunStore interface {
	SaveRuns(ctx context.Context, runs ...*Run) error
	ListRuns(ctx context.Context, filter RunFilter, params SortParams) ([]*Run, error)
	FindRun(ctx context.Context, id RunID) (*Run, error)
}

type RequirementStore interface {
	SaveRequirements(ctx context.Context, requirements ...*Requirement) error
	ListRequirements(ctx context.Context, id RunID, params SortParams) ([]*Requirement, error)
}

type EventStore interface {
	SaveEvents(ctx context.Context, events ...Event) error
	ListEvents(ctx context.Context, id RunID, params SortParams) ([]Event, error)
}

// EventSink receives warning events for logging/UI display. Events are never
// used for control flow.
type EventSink interface {
	Publish(ctx context.Context, event Event)
}

// Exporter renders accepted requirements into a downloadable artifact.
type Exporter interface {
	Export(ctx context.Context, aRun *Run, requirements []*Requirement) ([]byte, error)
}

type FileStorage interface {
	Write(filename string, data io.Reader) error
	Exists(filename string) (bool, error)
	Read(filename string) (io.ReadSeekCloser, error)
	Delete(filename string) error
	Path(filename string) string
}
