package reqsift

import (
	"context"
	"database/sql"
	"time"
)

type EventReason string

const (
	ReasonTooLong            EventReason = "too_long"
	ReasonOversizedHighlight EventReason = "oversized_highlight"
	ReasonUnlocatableText    EventReason = "unlocatable_text"
)

// Event is a structured warning emitted for skipped or degraded items. The
// full sequence of events per run forms the audit log of what the pipeline
// suppressed.
type Event struct {
	RunID   RunID
	Page    int
	Reason  EventReason
	Detail  string
	Created time.Time
}

// NopSink discards events.
var NopSink EventSink = nopSink{}

type nopSink struct{}

func (nopSink) Publish(context.Context, Event) {}

func (rs *reqSift) ListEvents(ctx context.Context, id RunID) ([]Event, error) {
	var events []Event
	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		if _, err := rs.store.FindRun(ctx, id); err != nil {
			return err
		}

		var err error
		events, err = rs.store.ListEvents(ctx, id, SortParams{
			Order: SortOrderAsc,
			By:    `e."created"`,
		})
		return err
	}); err != nil {
		return nil, err
	}
	return events, nil
}
