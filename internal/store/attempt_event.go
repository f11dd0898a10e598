package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var attemptColumns = []string{
	"id", "sequence", "timestamp", "session_id", "kind_id", "record_id",
	"generation", "scored", "percent", "correct", "total", "elapsed_secs",
	"source", "feedback", "notice",
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	seqNum, err := r.seq.next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(attemptEventsTable).
		Columns(attemptColumns[1:]...).
		Values(
			seqNum, time.Now().UnixMilli(), data.SessionID, data.KindID, data.RecordID,
			data.Generation, data.Scored, data.Percent, data.Correct, data.Total,
			data.ElapsedSecs, data.Source, data.Feedback, data.Notice,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	sel := builder().Select(attemptColumns...).From(entsql.Table(attemptEventsTable))
	applyQueryOpts(sel, opts)
	if opts.KindID != "" {
		sel.Where(entsql.EQ("kind_id", opts.KindID))
	}
	sel.OrderBy(entsql.Desc("sequence"))

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var (
			a  AttemptRecord
			ts int64
		)
		err := rows.Scan(
			&a.ID, &a.Sequence, &ts, &a.SessionID, &a.KindID, &a.RecordID,
			&a.Generation, &a.Scored, &a.Percent, &a.Correct, &a.Total, &a.ElapsedSecs,
			&a.Source, &a.Feedback, &a.Notice,
		)
		if err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// AttemptStatsByKind aggregates attempts per kind. AvgPercent covers
// scored attempts only.
func (r *eventRepo) AttemptStatsByKind(ctx context.Context) ([]KindStats, error) {
	query, args := builder().Select(
		"kind_id",
		entsql.As(entsql.Count("*"), "attempts"),
		entsql.As(entsql.Sum("scored"), "scored"),
		entsql.As("COALESCE(AVG(CASE WHEN `scored` THEN `percent` END), 0)", "avg_percent"),
		entsql.As(entsql.Max("timestamp"), "last_at"),
	).
		From(entsql.Table(attemptEventsTable)).
		GroupBy("kind_id").
		OrderBy("kind_id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempt stats: %w", err)
	}
	defer rows.Close()

	var out []KindStats
	for rows.Next() {
		var (
			k    KindStats
			last int64
		)
		if err := rows.Scan(&k.KindID, &k.Attempts, &k.Scored, &k.AvgPercent, &last); err != nil {
			return nil, fmt.Errorf("scan attempt stats: %w", err)
		}
		k.LastAt = time.UnixMilli(last).UTC()
		out = append(out, k)
	}
	return out, rows.Err()
}
