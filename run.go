package reqsift

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

type RunID struct{ uuid.UUID }

func NewRunID() RunID {
	return RunID{uuid.Must(uuid.NewV4())}
}

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusCancelled RunStatus = "CANCELLED"
	RunStatusFailed    RunStatus = "FAILED"
)

func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusCancelled, RunStatusFailed:
		return true
	}
	return false
}

// Run is one extraction-and-annotation pass over a document.
type Run struct {
	ID            RunID
	Source        string
	Output        string
	Status        RunStatus
	StatusMessage string
	PagesTotal    int
	PagesDone     int
	Created       time.Time
	Updated       time.Time
}

// CompleteWithStatus changes the status of a run to a terminal status.
func (r *Run) CompleteWithStatus(newStatus RunStatus, message string, updatedAt time.Time) error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("cannot change status from %s to %s", r.Status, newStatus)
	}
	if !newStatus.Terminal() {
		return fmt.Errorf("%s is not a terminal status", newStatus)
	}

	r.Status = newStatus
	r.StatusMessage = message
	r.Updated = updatedAt

	return nil
}

type RunFilter struct {
	Status RunStatus
}

// RunParams describes a requested run. Keywords, when set, override the
// configured keyword set for this run only.
type RunParams struct {
	Source   string
	Output   string
	Keywords []string
}

func (p RunParams) Validate() error {
	if p.Source == "" {
		return fmt.Errorf("run source cannot be empty")
	}
	if p.Output == "" {
		return fmt.Errorf("run output cannot be empty")
	}
	return nil
}

func (rs *reqSift) ListRuns(ctx context.Context) ([]*Run, error) {
	var runs []*Run
	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		var err error
		runs, err = rs.store.ListRuns(ctx, RunFilter{}, SortParams{
			Order: SortOrderDesc,
			By:    `r."created"`,
		})
		return err
	}); err != nil {
		return nil, err
	}
	return runs, nil
}

func (rs *reqSift) FindRun(ctx context.Context, id RunID) (*Run, error) {
	var aRun *Run
	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		var err error
		aRun, err = rs.store.FindRun(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	return aRun, nil
}
