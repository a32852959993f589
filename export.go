package reqsift

import (
	"context"
	"database/sql"
	"fmt"
)

// ExportRequirements renders the accepted requirements of a run through the
// configured exporter, typically as a spreadsheet.
func (rs *reqSift) ExportRequirements(ctx context.Context, id RunID) ([]byte, error) {
	if rs.exporter == nil {
		return nil, fmt.Errorf("no exporter configured")
	}

	var (
		aRun         *Run
		requirements []*Requirement
	)
	if err := rs.store.Transactional(ctx, &sql.TxOptions{}, func(ctx context.Context) error {
		var err error
		aRun, err = rs.store.FindRun(ctx, id)
		if err != nil {
			return err
		}

		requirements, err = rs.store.ListRequirements(ctx, id, SortParams{
			Order: SortOrderAsc,
			By:    `r."created"`,
		})
		return err
	}); err != nil {
		return nil, err
	}

	return rs.exporter.Export(ctx, aRun, requirements)
}
