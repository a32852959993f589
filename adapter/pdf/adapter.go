package pdf

import (
	"go.uber.org/zap"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Adapter reads page text and dimensions from PDF files, locates sentences on
// a page and writes highlight and note annotations into a copy of the source
// document. The source file itself is never modified.
type Adapter struct {
	conf   *model.Configuration
	logger *zap.Logger
}

type Option func(*Adapter)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(options ...Option) *Adapter {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	a := &Adapter{
		conf:   conf,
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().Info("init pdf adapter")

	return a
}
