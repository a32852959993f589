package redis

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/reqsift/reqsift"
)

// Adapter fans warning events out to a redis stream so operators and UIs can
// follow a run live. Publishing is best effort; a failed publish is logged
// and never affects the run.
type Adapter struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *zap.Logger
}

type Option func(*Adapter)

const (
	defaultStream = "reqsift:events"
	defaultMaxLen = 10_000
)

func WithStream(stream string) Option {
	return func(a *Adapter) {
		a.stream = stream
	}
}

func WithMaxLen(maxLen int64) Option {
	return func(a *Adapter) {
		a.maxLen = maxLen
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

func New(client *redis.Client, options ...Option) *Adapter {
	a := &Adapter{
		client: client,
		stream: defaultStream,
		maxLen: defaultMaxLen,
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().With(
		"stream", a.stream,
		"max_len", a.maxLen,
	).Info("init redis event sink")

	return a
}

func (a *Adapter) Publish(ctx context.Context, event reqsift.Event) {
	err := a.client.XAdd(ctx, &redis.XAddArgs{
		Stream: a.stream,
		MaxLen: a.maxLen,
		Approx: true,
		Values: map[string]any{
			"run":     event.RunID.String(),
			"page":    strconv.Itoa(event.Page),
			"reason":  string(event.Reason),
			"detail":  event.Detail,
			"created": event.Created.Format("2006-01-02T15:04:05.000Z07:00"),
		},
	}).Err()
	if err != nil {
		a.logger.Sugar().With(
			"stream", a.stream,
			"run", event.RunID,
			"error", err,
		).Warn("publishing event failed")
	}
}
