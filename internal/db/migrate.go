package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// assessments holds one row per submission; the task_name index backs the
// aggregation queries. Rating columns are nullable until the record is rated.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS assessments (
		id               TEXT PRIMARY KEY,
		task_name        TEXT NOT NULL,
		participant_hash TEXT NOT NULL,
		status           TEXT NOT NULL,
		mental_demand    SMALLINT,
		physical_demand  SMALLINT,
		temporal_demand  SMALLINT,
		performance      SMALLINT,
		effort           SMALLINT,
		frustration      SMALLINT,
		pairwise_winners TEXT[],
		raw_score        DOUBLE PRECISION,
		weighted_score   DOUBLE PRECISION,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_task_name ON assessments (task_name)`,
}

// EnsureSchema creates the assessments table and its indexes if missing.
// Statements run one at a time; pgx rejects multi-command strings.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
