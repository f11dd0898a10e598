package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequence numbers every event row, whichever table it lands in, so an
// evaluation call and the attempt it scored sort into one history.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequence seeds the single counter row on first open.
func newSequence(ctx context.Context, db *sql.DB) (*sequence, error) {
	query, args := builder().Insert(sequenceTable).
		Columns("id", "next_val").
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequence{db: db}, nil
}

// next claims one number. The first call on a fresh database returns 1.
func (s *sequence) next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args := builder().Update(sequenceTable).
		Add("next_val", 1).
		Where(entsql.EQ("id", 1)).
		Returning("next_val").
		Query()

	var after int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&after); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return after - 1, nil
}
