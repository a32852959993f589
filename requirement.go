package reqsift

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
)

type RequirementID struct{ uuid.UUID }

func NewRequirementID() RequirementID {
	return RequirementID{uuid.Must(uuid.NewV4())}
}

// Requirement is an accepted sentence-like span that passed the length filter
// and matched at least one keyword. Keywords holds every matched occurrence
// in token order.
type Requirement struct {
	ID        RequirementID
	RunID     RunID
	Page      int
	Content   string
	Keywords  []string
	WordCount int
	Created   time.Time
}

func (rs *reqSift) ListRequirements(ctx context.Context, id RunID) ([]*Requirement, error) {
	var requirements []*Requirement
	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		if _, err := rs.store.FindRun(ctx, id); err != nil {
			return err
		}

		var err error
		requirements, err = rs.store.ListRequirements(ctx, id, SortParams{
			Order: SortOrderAsc,
			By:    `r."created"`,
		})
		return err
	}); err != nil {
		return nil, err
	}
	return requirements, nil
}
