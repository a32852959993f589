package reqsift

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrAlreadyRunning is returned by StartRun while another run is still
	// active. Concurrent requests are rejected, never queued.
	ErrAlreadyRunning = errors.New("a run is already in progress")
)

type clock func() time.Time

// ProgressFunc is invoked after every processed page.
type ProgressFunc func(pagesDone, pagesTotal int)

// CompletionFunc is invoked once per run after it reaches a terminal status.
type CompletionFunc func(aRun *Run, err error)

type reqSift struct {
	splitter SentenceSplitter
	pdf      PDF
	store    Store
	storage  FileStorage
	events   EventSink
	exporter Exporter
	logger   *zap.Logger
	now      clock

	keywords KeywordSet
	limits   Limits

	progress ProgressFunc
	complete CompletionFunc

	// mu guards current: the single-flight run handle. Check-and-set of the
	// handle is one critical section so two rapid starts can never both be
	// admitted.
	mu      sync.Mutex
	current *runHandle
}

type Option func(*reqSift)

func WithLogger(logger *zap.Logger) Option {
	return func(rs *reqSift) {
		rs.logger = logger
	}
}

func WithKeywords(keywords KeywordSet) Option {
	return func(rs *reqSift) {
		rs.keywords = keywords
	}
}

func WithLimits(limits Limits) Option {
	return func(rs *reqSift) {
		rs.limits = limits
	}
}

func WithEventSink(sink EventSink) Option {
	return func(rs *reqSift) {
		rs.events = sink
	}
}

func WithExporter(exporter Exporter) Option {
	return func(rs *reqSift) {
		rs.exporter = exporter
	}
}

func WithFileStorage(storage FileStorage) Option {
	return func(rs *reqSift) {
		rs.storage = storage
	}
}

func WithProgressFunc(fn ProgressFunc) Option {
	return func(rs *reqSift) {
		rs.progress = fn
	}
}

func WithCompletionFunc(fn CompletionFunc) Option {
	return func(rs *reqSift) {
		rs.complete = fn
	}
}

func New(splitter SentenceSplitter, pdfAdapter PDF, storeAdapter Store, options ...Option) *reqSift {
	rs := &reqSift{
		splitter: splitter,
		pdf:      pdfAdapter,
		store:    storeAdapter,
		events:   NopSink,
		logger:   zap.NewNop(),
		limits:   DefaultLimits(),
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, o := range options {
		o(rs)
	}

	return rs
}
