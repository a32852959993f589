package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reqsift/reqsift"
)

func (a *Adapter) SaveEvents(ctx context.Context, events ...reqsift.Event) error {
	if len(events) < 1 {
		return nil
	}

	return a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if err := execQueryCheckRowsAffected(ctx, tx, insertEventsQuery{events: events}); err != nil {
			return fmt.Errorf("exec insert events query failed: %w", err)
		}
		return nil
	})
}

type insertEventsQuery struct {
	events []reqsift.Event
}

func (q insertEventsQuery) SQL() (string, []any) {
	if len(q.events) == 0 {
		return "", nil
	}

	query := `
		insert into "warning_evt" (
			"run",
			"page",
			"reason",
			"detail",
			"created"
		)
		values (?, ?, ?, ?, ?)
	`
	args := make([]any, 0, len(q.events)*5)
	args = append(args, eventArgs(q.events[0])...)
	for i := range q.events[1:] {
		query += `, (?, ?, ?, ?, ?)`
		args = append(args, eventArgs(q.events[i+1])...)
	}

	return query, args
}

func eventArgs(e reqsift.Event) []any {
	return []any{
		e.RunID,
		e.Page,
		string(e.Reason),
		e.Detail,
		e.Created,
	}
}

var validEventSortFields = []string{
	`e."created"`,
	`e."page"`,
}

func (a *Adapter) ListEvents(ctx context.Context, id reqsift.RunID, params reqsift.SortParams) ([]reqsift.Event, error) {
	if !params.Empty() && !params.Valid(validEventSortFields) {
		return nil, fmt.Errorf("invalid sort params: %v", params)
	}

	var events []reqsift.Event
	if err := a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		sql, args := selectEventsQuery{id: id, params: params}.SQL()

		rows, err := tx.QueryContext(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("select events query failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEvent(rows)
			if err != nil {
				return err
			}
			events = append(events, e)
		}

		return rows.Err()
	}); err != nil {
		return nil, err
	}

	return events, nil
}

type selectEventsQuery struct {
	id     reqsift.RunID
	params reqsift.SortParams
}

func (q selectEventsQuery) SQL() (string, []any) {
	query := `
		select
			e."run",
			e."page",
			e."reason",
			e."detail",
			e."created"
		from "warning_evt" e
		where e."run" = ?
	`
	args := []any{q.id}

	if q.params.Empty() {
		q.params = reqsift.SortParams{By: `e."created"`, Order: reqsift.SortOrderAsc}
	}
	query += q.params.SQL()

	return query, args
}

func scanEvent(row Scannable) (reqsift.Event, error) {
	var (
		e       = reqsift.Event{}
		created sql.NullTime
	)

	if err := row.Scan(
		&e.RunID,
		&e.Page,
		&e.Reason,
		&e.Detail,
		&created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reqsift.Event{}, reqsift.ErrNotFound
		}
		return reqsift.Event{}, fmt.Errorf("scan event failed: %w", err)
	}

	e.Created = created.Time.UTC()

	return e, nil
}
