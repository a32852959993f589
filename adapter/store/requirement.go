package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reqsift/reqsift"
)

func (a *Adapter) SaveRequirements(ctx context.Context, requirements ...*reqsift.Requirement) error {
	if len(requirements) < 1 {
		return nil
	}

	return a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if err := execQueryCheckRowsAffected(ctx, tx, insertRequirementsQuery{requirements: requirements}); err != nil {
			return fmt.Errorf("exec insert requirements query failed: %w", err)
		}
		return nil
	})
}

type insertRequirementsQuery struct {
	requirements []*reqsift.Requirement
}

func (q insertRequirementsQuery) SQL() (string, []any) {
	if len(q.requirements) == 0 {
		return "", nil
	}

	query := `
		insert into "requirement" (
			"id",
			"run",
			"page",
			"content",
			"keywords",
			"word_count",
			"created"
		)
		values (?, ?, ?, ?, ?, ?, ?)
	`
	args := make([]any, 0, len(q.requirements)*7)
	args = append(args, requirementArgs(q.requirements[0])...)
	for i := range q.requirements[1:] {
		query += `, (?, ?, ?, ?, ?, ?, ?)`
		args = append(args, requirementArgs(q.requirements[i+1])...)
	}

	return query, args
}

func requirementArgs(r *reqsift.Requirement) []any {
	return []any{
		r.ID,
		r.RunID,
		r.Page,
		r.Content,
		// Keywords are lowercased tokens of letters, digits and hyphens,
		// so a comma join round-trips losslessly.
		strings.Join(r.Keywords, ","),
		r.WordCount,
		r.Created,
	}
}

var validRequirementSortFields = []string{
	`r."created"`,
	`r."page"`,
}

func (a *Adapter) ListRequirements(ctx context.Context, id reqsift.RunID, params reqsift.SortParams) ([]*reqsift.Requirement, error) {
	if !params.Empty() && !params.Valid(validRequirementSortFields) {
		return nil, fmt.Errorf("invalid sort params: %v", params)
	}

	var requirements []*reqsift.Requirement
	if err := a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		sql, args := selectRequirementsQuery{id: id, params: params}.SQL()

		rows, err := tx.QueryContext(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("select requirements query failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			r, err := scanRequirement(rows)
			if err != nil {
				return err
			}
			requirements = append(requirements, r)
		}

		return rows.Err()
	}); err != nil {
		return nil, err
	}

	return requirements, nil
}

type selectRequirementsQuery struct {
	id     reqsift.RunID
	params reqsift.SortParams
}

func (q selectRequirementsQuery) SQL() (string, []any) {
	query := `
		select
			r."id",
			r."run",
			r."page",
			r."content",
			r."keywords",
			r."word_count",
			r."created"
		from "requirement" r
		where r."run" = ?
	`
	args := []any{q.id}

	if q.params.Empty() {
		q.params = reqsift.SortParams{By: `r."created"`, Order: reqsift.SortOrderAsc}
	}
	query += q.params.SQL()

	return query, args
}

func scanRequirement(row Scannable) (*reqsift.Requirement, error) {
	var (
		r        = new(reqsift.Requirement)
		keywords string
		created  sql.NullTime
	)

	if err := row.Scan(
		&r.ID,
		&r.RunID,
		&r.Page,
		&r.Content,
		&keywords,
		&r.WordCount,
		&created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reqsift.ErrNotFound
		}
		return nil, fmt.Errorf("scan requirement failed: %w", err)
	}

	if keywords != "" {
		r.Keywords = strings.Split(keywords, ",")
	}
	r.Created = created.Time.UTC()

	return r, nil
}
