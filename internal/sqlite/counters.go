package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// NextSequence atomically increments and returns the counter for the given
// allocator name, creating the row with value 1 on first use. The whole
// operation is one upsert statement, never a read followed by a write, so
// two allocators that both see "no row" cannot race each other into a lost
// update. Scoped to the caller's transaction: if the transaction aborts,
// the counter write is discarded along with everything else in it. A
// caller that must not reuse a drawn value commits the allocation before
// acting on it.
//
// N concurrent allocations for the same name yield N distinct consecutive
// integers. Committed-then-unused values are never reclaimed; gaps in the
// identifier space are the accepted cost of atomicity.
func (s *Store) NextSequence(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var seq int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO counters (name, sequence) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET sequence = sequence + 1
		RETURNING sequence`,
		name).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("allocating sequence %q: %w", name, err)
	}
	return seq, nil
}

// CounterValue returns the current value of a counter, or 0 if no
// allocation has happened for the name yet.
func (s *Store) CounterValue(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx,
		"SELECT sequence FROM counters WHERE name = ?", name).Scan(&seq)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading counter %q: %w", name, err)
	}
	return seq, nil
}
