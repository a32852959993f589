package nlp

import (
	"go.uber.org/zap"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Adapter splits raw page text into sentence-like spans using a punkt
// tokenizer. The default tokenizer carries embedded English training data;
// custom training can be supplied for other corpora.
type Adapter struct {
	training *sentences.Storage
	logger   *zap.Logger

	tokenizer *sentences.DefaultSentenceTokenizer
}

type Option func(*Adapter)

func WithTraining(training *sentences.Storage) Option {
	return func(a *Adapter) {
		a.training = training
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(options ...Option) (*Adapter, error) {
	a := &Adapter{
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	if a.training != nil {
		a.tokenizer = sentences.NewSentenceTokenizer(a.training)
	} else {
		tokenizer, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			return nil, err
		}
		a.tokenizer = tokenizer
	}

	a.logger.Sugar().With(
		"custom_training", a.training != nil,
	).Info("init nlp adapter")

	return a, nil
}
