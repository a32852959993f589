package reqsift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// runHandle is the process-wide record of the active run. At most one
// non-terminal handle exists at any time; every exit path of the worker
// releases it before a new start can be admitted.
type runHandle struct {
	id     RunID
	cancel context.CancelFunc
	done   chan struct{}
}

// StartRun admits at most one run at a time. While a run is active it fails
// fast with ErrAlreadyRunning; it never queues or drops the request silently.
func (rs *reqSift) StartRun(ctx context.Context, params RunParams) (*Run, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	keywords := rs.keywords
	if len(params.Keywords) > 0 {
		keywords = NewKeywordSet(params.Keywords...)
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("keyword set cannot be empty")
	}

	aRun := &Run{
		ID:      NewRunID(),
		Source:  params.Source,
		Output:  params.Output,
		Status:  RunStatusRunning,
		Created: rs.now(),
		Updated: rs.now(),
	}

	// The worker must outlive the request context; cancellation happens only
	// through the handle.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	handle := &runHandle{
		id:     aRun.ID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	rs.mu.Lock()
	if rs.current != nil {
		select {
		case <-rs.current.done:
			// Stale handle from a terminal run; clean it up rather than
			// blocking the new start.
			rs.current = nil
		default:
			rs.mu.Unlock()
			cancel()
			return nil, ErrAlreadyRunning
		}
	}
	rs.current = handle
	rs.mu.Unlock()

	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		return rs.store.SaveRuns(ctx, aRun)
	}); err != nil {
		rs.release(handle)
		close(handle.done)
		return nil, fmt.Errorf("saving run: %w", err)
	}

	rs.logger.Sugar().With(
		"run", aRun.ID,
		"source", aRun.Source,
	).Info("run started")

	go rs.processRun(runCtx, handle, aRun, keywords)

	return aRun, nil
}

// CancelRun requests cooperative cancellation of the active run. In-flight
// per-page work finishes before the worker observes the token.
func (rs *reqSift) CancelRun(ctx context.Context, id RunID) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.current == nil || rs.current.id != id {
		return ErrNotFound
	}

	rs.current.cancel()
	rs.logger.Sugar().With("run", id).Info("run cancellation requested")

	return nil
}

func (rs *reqSift) release(handle *runHandle) {
	rs.mu.Lock()
	if rs.current == handle {
		rs.current = nil
	}
	rs.mu.Unlock()
	handle.cancel()
}

func (rs *reqSift) processRun(ctx context.Context, handle *runHandle, aRun *Run, keywords KeywordSet) {
	defer close(handle.done)
	// Release on every exit path so a terminal run never blocks the next
	// start with a stale reference.
	defer rs.release(handle)

	err := rs.processDocument(ctx, aRun, keywords)

	now := rs.now()
	switch {
	case err == nil:
		err = aRun.CompleteWithStatus(RunStatusCompleted, "", now)
	case errors.Is(err, context.Canceled):
		err = aRun.CompleteWithStatus(RunStatusCancelled, "cancelled", now)
	default:
		rs.logger.Sugar().With(
			"run", aRun.ID,
			"error", err,
		).Error("run failed")
		err = aRun.CompleteWithStatus(RunStatusFailed, err.Error(), now)
	}
	if err != nil {
		rs.logger.Sugar().With("run", aRun.ID, "error", err).Error("change status")
	}

	// The run context may be cancelled; the terminal state must still land.
	saveCtx := context.WithoutCancel(ctx)
	if err := rs.store.Transactional(saveCtx, &sql.TxOptions{}, func(ctx context.Context) error {
		return rs.store.SaveRuns(ctx, aRun)
	}); err != nil {
		rs.logger.Sugar().With("run", aRun.ID, "error", err).Error("saving terminal run state")
	}

	rs.logger.Sugar().With(
		"run", aRun.ID,
		"status", aRun.Status,
		"pages", aRun.PagesDone,
	).Info("run finished")

	if rs.complete != nil {
		var runErr error
		if aRun.Status == RunStatusFailed {
			runErr = errors.New(aRun.StatusMessage)
		}
		rs.complete(aRun, runErr)
	}
}

// processDocument runs the page loop: extraction, annotation and persistence
// page by page, checking the cancellation token only at page boundaries so a
// partially annotated page is never written.
func (rs *reqSift) processDocument(ctx context.Context, aRun *Run, keywords KeywordSet) error {
	doc, err := rs.pdf.Load(ctx, aRun.Source)
	if err != nil {
		return fmt.Errorf("loading document %s: %w", aRun.Source, err)
	}

	aRun.PagesTotal = len(doc.Pages)
	aRun.Updated = rs.now()
	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		return rs.store.SaveRuns(ctx, aRun)
	}); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			requirements []*Requirement
			events       []Event
		)
		warn := func(e Event) {
			e.RunID = aRun.ID
			e.Created = rs.now()
			events = append(events, e)
			rs.events.Publish(ctx, e)
		}

		for r := range Extract(page, rs.splitter, keywords, rs.limits, warn) {
			r.ID = NewRequirementID()
			r.RunID = aRun.ID
			r.Created = rs.now()

			if err := rs.annotateRequirement(ctx, doc, r, warn); err != nil {
				return fmt.Errorf("page %d: %w", page.Index, err)
			}

			requirements = append(requirements, &r)
		}

		aRun.PagesDone++
		aRun.Updated = rs.now()

		if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
			if err := rs.store.SaveRequirements(ctx, requirements...); err != nil {
				return fmt.Errorf("saving requirements: %w", err)
			}
			if err := rs.store.SaveEvents(ctx, events...); err != nil {
				return fmt.Errorf("saving events: %w", err)
			}
			return rs.store.SaveRuns(ctx, aRun)
		}); err != nil {
			return fmt.Errorf("page %d: %w", page.Index, err)
		}

		if rs.progress != nil {
			rs.progress(aRun.PagesDone, aRun.PagesTotal)
		}
	}

	if err := rs.pdf.Save(ctx, doc, aRun.Output); err != nil {
		return fmt.Errorf("saving annotated document to %s: %w", aRun.Output, err)
	}

	return nil
}
