package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workload-tlx/internal/domain"
	"workload-tlx/internal/repository"
)

// ErrRateLimited is returned when a participant exceeds the submission
// window. Mapped to 429 at the HTTP layer; not part of the domain taxonomy.
var ErrRateLimited = errors.New("submission rate limited")

// AssessmentService drives the created -> rated -> scored lifecycle.
type AssessmentService struct {
	logger  *zap.Logger
	repo    repository.AssessmentRepository
	hasher  *ParticipantHasher
	limiter SubmitRateLimiter
	cache   StatsCache
}

func NewAssessmentService(
	logger *zap.Logger,
	repo repository.AssessmentRepository,
	hasher *ParticipantHasher,
	limiter SubmitRateLimiter,
	cache StatsCache,
) *AssessmentService {
	return &AssessmentService{
		logger:  logger,
		repo:    repo,
		hasher:  hasher,
		limiter: limiter,
		cache:   cache,
	}
}

// Create allocates a new assessment with no ratings attached.
func (s *AssessmentService) Create(ctx context.Context, taskName, participantID string) (domain.Assessment, error) {
	taskName = strings.TrimSpace(taskName)
	participantID = strings.TrimSpace(participantID)
	if taskName == "" {
		return domain.Assessment{}, domain.NewValidationError("task_name is required")
	}
	if participantID == "" {
		return domain.Assessment{}, domain.NewValidationError("participant_id is required")
	}

	a := domain.Assessment{
		ID:              uuid.NewString(),
		TaskName:        taskName,
		ParticipantHash: s.hasher.Hash(participantID),
		Status:          domain.StatusCreated,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create assessment failed", zap.Error(err))
		return domain.Assessment{}, err
	}
	return a, nil
}

// Get fetches a single assessment by id.
func (s *AssessmentService) Get(ctx context.Context, id string) (domain.Assessment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, domain.NewNotFoundError("assessment %s", id)
	}
	if err != nil {
		return domain.Assessment{}, err
	}
	return a, nil
}

// AddRatings attaches ratings (and optionally the 15 pairwise comparisons)
// to a freshly created assessment. Rating is a one-time transition: a rated
// or scored record rejects further ratings with a StateError.
func (s *AssessmentService) AddRatings(ctx context.Context, id string, ratings domain.Ratings, comparisons []domain.PairwiseComparison) (domain.Assessment, error) {
	if err := ratings.Validate(); err != nil {
		return domain.Assessment{}, err
	}
	if len(comparisons) > 0 {
		if _, err := ComputeWeights(comparisons); err != nil {
			return domain.Assessment{}, err
		}
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return domain.Assessment{}, err
	}
	if a.Status != domain.StatusCreated {
		return domain.Assessment{}, domain.NewStateError("assessment %s is %s, ratings can only be attached once", id, a.Status)
	}

	ok, err := s.repo.AttachRatings(ctx, id, ratings, comparisons)
	if err != nil {
		s.logger.Error("attach ratings failed", zap.Error(err), zap.String("assessment_id", id))
		return domain.Assessment{}, err
	}
	if !ok {
		// Lost a race with a concurrent writer between Get and the update.
		return domain.Assessment{}, domain.NewStateError("assessment %s is no longer in the created state", id)
	}

	a.Ratings = &ratings
	a.Comparisons = comparisons
	a.Status = domain.StatusRated
	return a, nil
}

// CalculateScores transitions a rated assessment to scored, computing the
// raw composite and, when comparisons are present, the weighted composite.
// The transition is exactly-once: the repository compare-and-set rejects a
// concurrent or repeated scoring without touching stored values.
func (s *AssessmentService) CalculateScores(ctx context.Context, id string) (domain.Assessment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return domain.Assessment{}, err
	}
	switch a.Status {
	case domain.StatusCreated:
		return domain.Assessment{}, domain.NewStateError("assessment %s has no ratings to score", id)
	case domain.StatusScored:
		return domain.Assessment{}, domain.NewStateError("assessment %s is already scored", id)
	}
	if a.Ratings == nil {
		return domain.Assessment{}, domain.NewStateError("assessment %s has no ratings to score", id)
	}

	raw, weighted, err := scoreRatings(*a.Ratings, a.Comparisons)
	if err != nil {
		return domain.Assessment{}, err
	}

	ok, err := s.repo.MarkScored(ctx, id, raw, weighted)
	if err != nil {
		s.logger.Error("mark scored failed", zap.Error(err), zap.String("assessment_id", id))
		return domain.Assessment{}, err
	}
	if !ok {
		return domain.Assessment{}, domain.NewStateError("assessment %s was scored concurrently", id)
	}

	a.RawScore = &raw
	a.WeightedScore = weighted
	a.Status = domain.StatusScored
	s.invalidateStats(a.TaskName)
	return a, nil
}

// Submit runs create + rate + score in one synchronous call, the wire
// contract of POST /assessments.
func (s *AssessmentService) Submit(ctx context.Context, taskName, participantID string, ratings domain.Ratings, comparisons []domain.PairwiseComparison) (domain.Assessment, error) {
	taskName = strings.TrimSpace(taskName)
	participantID = strings.TrimSpace(participantID)
	if taskName == "" {
		return domain.Assessment{}, domain.NewValidationError("task_name is required")
	}
	if participantID == "" {
		return domain.Assessment{}, domain.NewValidationError("participant_id is required")
	}

	participantHash := s.hasher.Hash(participantID)
	if s.limiter != nil && !s.limiter.Allow(participantHash) {
		return domain.Assessment{}, ErrRateLimited
	}

	raw, weighted, err := scoreRatings(ratings, comparisons)
	if err != nil {
		return domain.Assessment{}, err
	}

	a := domain.Assessment{
		ID:              uuid.NewString(),
		TaskName:        taskName,
		ParticipantHash: participantHash,
		Status:          domain.StatusScored,
		Ratings:         &ratings,
		Comparisons:     comparisons,
		RawScore:        &raw,
		WeightedScore:   weighted,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("submit assessment failed", zap.Error(err))
		return domain.Assessment{}, err
	}
	s.invalidateStats(taskName)
	return a, nil
}

// Delete removes an assessment. Administrative only; callers are gated by
// the admin token middleware.
func (s *AssessmentService) Delete(ctx context.Context, id string) error {
	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logger.Error("delete assessment failed", zap.Error(err), zap.String("assessment_id", id))
		return err
	}
	if !ok {
		return domain.NewNotFoundError("assessment %s", id)
	}
	s.invalidateStats(a.TaskName)
	return nil
}

func (s *AssessmentService) invalidateStats(taskName string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(taskName); err != nil {
		s.logger.Warn("stats cache invalidation failed", zap.Error(err), zap.String("task_name", taskName))
	}
}

// scoreRatings computes the raw composite and, when comparisons are present,
// the weighted composite. An assessment without comparisons scores raw only.
func scoreRatings(ratings domain.Ratings, comparisons []domain.PairwiseComparison) (float64, *float64, error) {
	raw, err := ComputeRawScore(ratings)
	if err != nil {
		return 0, nil, err
	}
	if len(comparisons) == 0 {
		return raw, nil, nil
	}
	weighted, err := ComputeWeightedScore(ratings, comparisons)
	if err != nil {
		return 0, nil, err
	}
	return raw, &weighted, nil
}
