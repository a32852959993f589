package rest

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/reqsift/reqsift"
)

type ReqSift interface {
	StoreDocument(contents io.ReadSeeker, fileName string) (string, error)
	StartRun(ctx context.Context, params reqsift.RunParams) (*reqsift.Run, error)
	CancelRun(ctx context.Context, id reqsift.RunID) error
	ListRuns(ctx context.Context) ([]*reqsift.Run, error)
	FindRun(ctx context.Context, id reqsift.RunID) (*reqsift.Run, error)
	ListRequirements(ctx context.Context, id reqsift.RunID) ([]*reqsift.Requirement, error)
	ListEvents(ctx context.Context, id reqsift.RunID) ([]reqsift.Event, error)
	ExportRequirements(ctx context.Context, id reqsift.RunID) ([]byte, error)
}

type Adapter struct {
	reqSift ReqSift
	logger  *zap.Logger
}

type Option func(*Adapter)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(reqSift ReqSift, options ...Option) *Adapter {
	a := &Adapter{
		reqSift: reqSift,
		logger:  zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	return a
}

const (
	defaultTimeout = 3 * time.Second
	uploadTimeout  = 60 * time.Second
	exportTimeout  = 30 * time.Second
)

func (a *Adapter) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/documents", a.UploadDocument)
	mux.HandleFunc("POST /v1/runs", a.CreateRun)
	mux.HandleFunc("GET /v1/runs", a.ListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", a.GetRunById)
	mux.HandleFunc("POST /v1/runs/{id}/cancel", a.CancelRun)
	mux.HandleFunc("GET /v1/runs/{id}/requirements", a.ListRunRequirements)
	mux.HandleFunc("GET /v1/runs/{id}/events", a.ListRunEvents)
	mux.HandleFunc("GET /v1/runs/{id}/requirements/export", a.ExportRunRequirements)
}
