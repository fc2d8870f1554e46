package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"workload-tlx/internal/domain"
)

type AssessmentRepository interface {
	Create(ctx context.Context, a domain.Assessment) error
	GetByID(ctx context.Context, id string) (domain.Assessment, error)
	// AttachRatings moves a record from created to rated. Returns false when
	// the record is not in the created state (or does not exist).
	AttachRatings(ctx context.Context, id string, r domain.Ratings, comparisons []domain.PairwiseComparison) (bool, error)
	// MarkScored is the compare-and-set for the rated -> scored transition.
	// Returns false when the guard fails, so a lost race never overwrites
	// previously stored scores.
	MarkScored(ctx context.Context, id string, raw float64, weighted *float64) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListScoredByTask(ctx context.Context, taskName string) ([]domain.Assessment, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

const assessmentColumns = `
	id, task_name, participant_hash, status,
	mental_demand, physical_demand, temporal_demand, performance, effort, frustration,
	pairwise_winners, raw_score, weighted_score, created_at
`

func (r *PgAssessmentRepository) Create(ctx context.Context, a domain.Assessment) error {
	const query = `
		INSERT INTO assessments (
			id, task_name, participant_hash, status,
			mental_demand, physical_demand, temporal_demand, performance, effort, frustration,
			pairwise_winners, raw_score, weighted_score, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var ratings [6]interface{}
	if a.Ratings != nil {
		for i, d := range domain.Dimensions {
			ratings[i] = a.Ratings.Value(d)
		}
	}
	var winners interface{}
	if len(a.Comparisons) > 0 {
		winners = winnersInCanonicalOrder(a.Comparisons)
	}
	var raw, weighted interface{}
	if a.RawScore != nil {
		raw = *a.RawScore
	}
	if a.WeightedScore != nil {
		weighted = *a.WeightedScore
	}

	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.TaskName,
		a.ParticipantHash,
		string(a.Status),
		ratings[0], ratings[1], ratings[2], ratings[3], ratings[4], ratings[5],
		winners,
		raw,
		weighted,
		a.CreatedAt,
	)
	return err
}

func (r *PgAssessmentRepository) GetByID(ctx context.Context, id string) (domain.Assessment, error) {
	const query = `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	a, err := scanAssessment(row)
	if err != nil {
		return domain.Assessment{}, err
	}
	return a, nil
}

func (r *PgAssessmentRepository) AttachRatings(ctx context.Context, id string, ratings domain.Ratings, comparisons []domain.PairwiseComparison) (bool, error) {
	const query = `
		UPDATE assessments
		SET mental_demand = $2,
			physical_demand = $3,
			temporal_demand = $4,
			performance = $5,
			effort = $6,
			frustration = $7,
			pairwise_winners = $8,
			status = $9
		WHERE id = $1 AND status = $10
	`
	var winners interface{}
	if len(comparisons) > 0 {
		winners = winnersInCanonicalOrder(comparisons)
	}
	tag, err := r.pool.Exec(ctx, query,
		id,
		ratings.MentalDemand,
		ratings.PhysicalDemand,
		ratings.TemporalDemand,
		ratings.Performance,
		ratings.Effort,
		ratings.Frustration,
		winners,
		string(domain.StatusRated),
		string(domain.StatusCreated),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgAssessmentRepository) MarkScored(ctx context.Context, id string, raw float64, weighted *float64) (bool, error) {
	const query = `
		UPDATE assessments
		SET raw_score = $2, weighted_score = $3, status = $4
		WHERE id = $1 AND status = $5
	`
	var weightedArg interface{}
	if weighted != nil {
		weightedArg = *weighted
	}
	tag, err := r.pool.Exec(ctx, query,
		id,
		raw,
		weightedArg,
		string(domain.StatusScored),
		string(domain.StatusRated),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgAssessmentRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM assessments WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgAssessmentRepository) ListScoredByTask(ctx context.Context, taskName string) ([]domain.Assessment, error) {
	const query = `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE task_name = $1 AND status = $2
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, taskName, string(domain.StatusScored))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assessments, nil
}

func scanAssessment(row pgx.Row) (domain.Assessment, error) {
	var (
		a       domain.Assessment
		status  string
		dims    [6]sql.NullInt64
		winners []string
		raw     sql.NullFloat64
		weight  sql.NullFloat64
	)
	err := row.Scan(
		&a.ID,
		&a.TaskName,
		&a.ParticipantHash,
		&status,
		&dims[0], &dims[1], &dims[2], &dims[3], &dims[4], &dims[5],
		&winners,
		&raw,
		&weight,
		&a.CreatedAt,
	)
	if err != nil {
		return domain.Assessment{}, err
	}
	a.Status = domain.AssessmentStatus(status)
	if dims[0].Valid {
		a.Ratings = &domain.Ratings{
			MentalDemand:   int(dims[0].Int64),
			PhysicalDemand: int(dims[1].Int64),
			TemporalDemand: int(dims[2].Int64),
			Performance:    int(dims[3].Int64),
			Effort:         int(dims[4].Int64),
			Frustration:    int(dims[5].Int64),
		}
	}
	if len(winners) > 0 {
		a.Comparisons = comparisonsFromWinners(winners)
	}
	if raw.Valid {
		val := raw.Float64
		a.RawScore = &val
	}
	if weight.Valid {
		val := weight.Float64
		a.WeightedScore = &val
	}
	return a, nil
}

// winnersInCanonicalOrder flattens a validated comparison set to one winner
// per canonical pair, so the stored array always round-trips to the same
// comparison set.
func winnersInCanonicalOrder(comparisons []domain.PairwiseComparison) []string {
	byPair := make(map[[2]domain.Dimension]domain.Dimension, len(comparisons))
	for _, c := range comparisons {
		key := [2]domain.Dimension{c.First, c.Second}
		if domain.DimensionIndex(c.Second) < domain.DimensionIndex(c.First) {
			key = [2]domain.Dimension{c.Second, c.First}
		}
		byPair[key] = c.Winner
	}
	pairs := domain.CanonicalPairs()
	winners := make([]string, 0, len(pairs))
	for _, p := range pairs {
		winners = append(winners, string(byPair[p]))
	}
	return winners
}

func comparisonsFromWinners(winners []string) []domain.PairwiseComparison {
	pairs := domain.CanonicalPairs()
	if len(winners) != len(pairs) {
		return nil
	}
	comparisons := make([]domain.PairwiseComparison, 0, len(pairs))
	for i, p := range pairs {
		comparisons = append(comparisons, domain.PairwiseComparison{
			First:  p[0],
			Second: p[1],
			Winner: domain.Dimension(winners[i]),
		})
	}
	return comparisons
}
