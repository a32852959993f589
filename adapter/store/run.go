package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/reqsift/reqsift"
)

func (a *Adapter) SaveRuns(ctx context.Context, runs ...*reqsift.Run) error {
	if len(runs) < 1 {
		return nil
	}

	return a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if err := execQueryCheckRowsAffected(ctx, tx, insertRunsQuery{runs: runs}); err != nil {
			return fmt.Errorf("exec insert runs query failed: %w", err)
		}

		if err := execQueryCheckRowsAffected(ctx, tx, insertRunStatusEventsQuery{runs: runs}); err != nil {
			return fmt.Errorf("exec insert run status events query failed: %w", err)
		}

		return nil
	})
}

type insertRunsQuery struct {
	runs []*reqsift.Run
}

func (q insertRunsQuery) SQL() (string, []any) {
	if len(q.runs) == 0 {
		return "", nil
	}

	query := `
		insert into "run" (
			"id",
			"source",
			"output",
			"status",
			"pages_total",
			"pages_done",
			"created",
			"updated"
		)
		values (?, ?, ?, (select "id" from "run_status" rs where rs."name" = ?), ?, ?, ?, ?)
	`
	args := make([]any, 0, len(q.runs)*8)
	args = append(args, runArgs(q.runs[0])...)
	for i := range q.runs[1:] {
		query += `, (?, ?, ?, (select "id" from "run_status" rs where rs."name" = ?), ?, ?, ?, ?)`
		args = append(args, runArgs(q.runs[i+1])...)
	}
	query += `
		on conflict("id") do update set
			"status"=excluded."status",
			"pages_total"=excluded."pages_total",
			"pages_done"=excluded."pages_done",
			"updated"=excluded."updated"
	`

	return query, args
}

func runArgs(aRun *reqsift.Run) []any {
	return []any{
		aRun.ID,
		aRun.Source,
		aRun.Output,
		string(aRun.Status),
		aRun.PagesTotal,
		aRun.PagesDone,
		aRun.Created,
		aRun.Updated,
	}
}

type insertRunStatusEventsQuery struct {
	runs []*reqsift.Run
}

func (q insertRunStatusEventsQuery) SQL() (string, []any) {
	if len(q.runs) == 0 {
		return "", nil
	}

	query := `
		insert into "run_status_evt" (
			"run",
			"status",
			"message",
			"created"
		)
		values (?, (select "id" from "run_status" rs where rs."name" = ?), ?, ?)
	`
	args := make([]any, 0, len(q.runs)*4)
	args = append(args, runStatusEventArgs(q.runs[0])...)
	for i := range q.runs[1:] {
		query += `, (?, (select "id" from "run_status" rs where rs."name" = ?), ?, ?)`
		args = append(args, runStatusEventArgs(q.runs[i+1])...)
	}

	return query, args
}

func runStatusEventArgs(aRun *reqsift.Run) []any {
	return []any{
		aRun.ID,
		string(aRun.Status),
		sql.NullString{String: aRun.StatusMessage, Valid: aRun.StatusMessage != ""},
		aRun.Updated,
	}
}

var (
	validRunSortFields = []string{
		`r."created"`,
		`r."updated"`,
	}
	defaultRunSortParams = reqsift.SortParams{
		By: `r."created"`, Order: reqsift.SortOrderDesc,
		Limit: 100,
	}
)

const selectRunColumns = `
	select
		r."id",
		r."source",
		r."output",
		rs."name" as "status",
		(
			select rse."message"
			from "run_status_evt" rse
			where rse."run" = r."id" and rse."status" = r."status"
			order by rse."id" desc
			limit 1
		) as "status_message",
		r."pages_total",
		r."pages_done",
		r."created",
		r."updated"
	from "run" r
	inner join "run_status" rs on r."status" = rs."id"
`

func (a *Adapter) ListRuns(ctx context.Context, filter reqsift.RunFilter, params reqsift.SortParams) ([]*reqsift.Run, error) {
	if !params.Empty() && !params.Valid(validRunSortFields) {
		return nil, fmt.Errorf("invalid sort params: %v", params)
	}

	var runs []*reqsift.Run
	if err := a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		query, args := selectRunsQuery{filter: filter, params: params}.SQL()

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("select runs query failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			aRun, err := scanRun(rows)
			if err != nil {
				return err
			}
			runs = append(runs, aRun)
		}

		return rows.Err()
	}); err != nil {
		return nil, err
	}

	return runs, nil
}

type selectRunsQuery struct {
	filter reqsift.RunFilter
	params reqsift.SortParams
}

func (q selectRunsQuery) SQL() (string, []any) {
	query := selectRunColumns
	args := []any{}

	where, whereArgs := runFilterClauses(q.filter)
	if where != "" {
		query += " where " + where
		args = append(args, whereArgs...)
	}

	if q.params.Empty() {
		q.params = defaultRunSortParams
	}
	query += q.params.SQL()

	return query, args
}

func runFilterClauses(filter reqsift.RunFilter) (string, []any) {
	var (
		clauses = []string{}
		args    = []any{}
	)

	if filter.Status != "" {
		clauses = append(clauses, `rs."name" = ?`)
		args = append(args, string(filter.Status))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return strings.Join(clauses, " and "), args
}

func (a *Adapter) FindRun(ctx context.Context, id reqsift.RunID) (*reqsift.Run, error) {
	var aRun *reqsift.Run
	if err := a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		query, args := findRunQuery{id: id}.SQL()

		stmt, err := tx.Prepare(query)
		if err != nil {
			return fmt.Errorf("prepare find run statement failed: %w", err)
		}
		defer stmt.Close()

		aRun, err = scanRun(stmt.QueryRowContext(ctx, args...))
		return err
	}); err != nil {
		return nil, err
	}

	return aRun, nil
}

type findRunQuery struct {
	id reqsift.RunID
}

func (q findRunQuery) SQL() (string, []any) {
	return selectRunColumns + ` where r."id" = ?`, []any{q.id}
}

func scanRun(row Scannable) (*reqsift.Run, error) {
	var (
		aRun          = new(reqsift.Run)
		statusMessage = sql.NullString{}
		created       sql.NullTime
		updated       sql.NullTime
	)

	if err := row.Scan(
		&aRun.ID,
		&aRun.Source,
		&aRun.Output,
		&aRun.Status,
		&statusMessage,
		&aRun.PagesTotal,
		&aRun.PagesDone,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reqsift.ErrNotFound
		}
		return nil, fmt.Errorf("scan run failed: %w", err)
	}

	if statusMessage.Valid {
		aRun.StatusMessage = statusMessage.String
	}

	aRun.Created = created.Time.UTC()
	aRun.Updated = updated.Time.UTC()

	return aRun, nil
}
