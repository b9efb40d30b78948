package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BillIDCounter is the named sequence that issues human-facing bill ids.
const BillIDCounter = "bill_id"

// SequenceRepository owns the counters table. Increments are a single upsert
// statement so two concurrent bill creations can never see the same value;
// no read-then-write ever happens in application code.
type SequenceRepository struct {
	DB *pgxpool.Pool
}

func NewSequenceRepository(db *pgxpool.Pool) *SequenceRepository {
	return &SequenceRepository{DB: db}
}

// Next increments the named counter and returns the new value, creating the
// counter at 1 if it does not exist yet. Runs on the caller's transaction.
func (r *SequenceRepository) Next(ctx context.Context, q Querier, name string) (int64, error) {
	var seq int64
	err := q.QueryRow(ctx,
		`INSERT INTO counters (name, seq) VALUES ($1, 1)
		 ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		 RETURNING seq`, name,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to increment counter %s: %w", name, err)
	}
	return seq, nil
}

// Reset sets the named counter back to zero. Destructive; only exposed on the
// admin surface for test/staging resets.
func (r *SequenceRepository) Reset(ctx context.Context, name string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO counters (name, seq) VALUES ($1, 0)
		 ON CONFLICT (name) DO UPDATE SET seq = 0`, name,
	)
	if err != nil {
		return fmt.Errorf("failed to reset counter %s: %w", name, err)
	}
	return nil
}
