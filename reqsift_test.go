package reqsift

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"sync"
)

// splitterFunc adapts a function to the SentenceSplitter port.
type splitterFunc func(text string) []Span

func (f splitterFunc) Split(text string) []Span {
	return f(text)
}

// sentenceSplitter is a crude splitter for tests: every span covers the whole
// page text as a single sentence.
func wholePageSplitter() SentenceSplitter {
	return splitterFunc(func(text string) []Span {
		if text == "" {
			return nil
		}
		return []Span{{Text: text, Start: 0, End: len(text)}}
	})
}

// fakePDF is an in-memory PDF collaborator. Function fields override the
// default behaviour per test; recorded calls are guarded for use from the
// worker goroutine.
type fakePDF struct {
	doc      *Document
	loadErr  error
	loadFn   func(ctx context.Context) (*Document, error)
	searchFn func(pageIndex int, text string) ([]Rect, error)

	highlightErr error
	noteErr      error
	saveErr      error

	mu         sync.Mutex
	highlights []Rect
	notes      []Point
	noteTexts  []string
	saved      []string
}

func (f *fakePDF) Load(ctx context.Context, location string) (*Document, error) {
	if f.loadFn != nil {
		return f.loadFn(ctx)
	}
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.doc, nil
}

func (f *fakePDF) Search(_ context.Context, _ *Document, pageIndex int, text string) ([]Rect, error) {
	if f.searchFn != nil {
		return f.searchFn(pageIndex, text)
	}
	return []Rect{{X: 72, Y: 700, W: 100, H: 12}}, nil
}

func (f *fakePDF) Highlight(_ context.Context, _ *Document, _ int, rect Rect) error {
	if f.highlightErr != nil {
		return f.highlightErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.highlights = append(f.highlights, rect)
	return nil
}

func (f *fakePDF) Note(_ context.Context, _ *Document, _ int, at Point, text string) error {
	if f.noteErr != nil {
		return f.noteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, at)
	f.noteTexts = append(f.noteTexts, text)
	return nil
}

func (f *fakePDF) Save(_ context.Context, _ *Document, location string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, location)
	return nil
}

func (f *fakePDF) savedLocations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.saved...)
}

func (f *fakePDF) highlightCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.highlights)
}

// memStore is an in-memory Store. Saved runs are snapshotted so later
// mutations by the worker do not leak into previously stored states.
type memStore struct {
	mu           sync.Mutex
	runs         map[RunID]*Run
	requirements []*Requirement
	events       []Event

	saveRunErr error
}

func newMemStore() *memStore {
	return &memStore{runs: make(map[RunID]*Run)}
}

func (s *memStore) Transactional(ctx context.Context, _ *sql.TxOptions, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *memStore) SaveRuns(_ context.Context, runs ...*Run) error {
	if s.saveRunErr != nil {
		return s.saveRunErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, aRun := range runs {
		snapshot := *aRun
		s.runs[aRun.ID] = &snapshot
	}
	return nil
}

func (s *memStore) ListRuns(_ context.Context, filter RunFilter, _ SortParams) ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var runs []*Run
	for _, aRun := range s.runs {
		if filter.Status != "" && aRun.Status != filter.Status {
			continue
		}
		snapshot := *aRun
		runs = append(runs, &snapshot)
	}
	return runs, nil
}

func (s *memStore) FindRun(_ context.Context, id RunID) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	aRun, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	snapshot := *aRun
	return &snapshot, nil
}

func (s *memStore) SaveRequirements(_ context.Context, requirements ...*Requirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range requirements {
		snapshot := *r
		s.requirements = append(s.requirements, &snapshot)
	}
	return nil
}

func (s *memStore) ListRequirements(_ context.Context, id RunID, _ SortParams) ([]*Requirement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requirements []*Requirement
	for _, r := range s.requirements {
		if r.RunID == id {
			snapshot := *r
			requirements = append(requirements, &snapshot)
		}
	}
	return requirements, nil
}

func (s *memStore) SaveEvents(_ context.Context, events ...Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
	return nil
}

func (s *memStore) ListEvents(_ context.Context, id RunID, _ SortParams) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []Event
	for _, e := range s.events {
		if e.RunID == id {
			events = append(events, e)
		}
	}
	return events, nil
}

// memStorage is an in-memory FileStorage counting writes so idempotency can
// be asserted.
type memStorage struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes int
}

func newMemStorage() *memStorage {
	return &memStorage{files: make(map[string][]byte)}
}

func (s *memStorage) Write(filename string, data io.Reader) error {
	contents, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[filename] = contents
	s.writes++
	return nil
}

func (s *memStorage) Exists(filename string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[filename]
	return ok, nil
}

func (s *memStorage) Read(filename string) (io.ReadSeekCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents, ok := s.files[filename]
	if !ok {
		return nil, ErrNotFound
	}
	return readSeekNopCloser{bytes.NewReader(contents)}, nil
}

func (s *memStorage) Delete(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, filename)
	return nil
}

func (s *memStorage) Path(filename string) string {
	return "/storage/" + filename
}

type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }
