package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo as an upserted key/blob table.
type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Get(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().Select("data").
		From(entsql.Table(progressTable)).
		Where(entsql.EQ("key", key)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s: %w", key, err)
	}
	return []byte(data), nil
}

func (r *progressRepo) Put(ctx context.Context, key string, data []byte) error {
	query, args := builder().Insert(progressTable).
		Columns("key", "data", "updated_at").
		Values(key, string(data), time.Now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put progress %s: %w", key, err)
	}
	return nil
}

func (r *progressRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(progressTable).
		Where(entsql.EQ("key", key)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete progress %s: %w", key, err)
	}
	return nil
}

func (r *progressRepo) All(ctx context.Context) (map[string][]byte, error) {
	query, args := builder().Select("key", "data").
		From(entsql.Table(progressTable)).
		OrderBy("key").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out[key] = []byte(data)
	}
	return out, rows.Err()
}
