package service

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"workload-tlx/internal/domain"
	"workload-tlx/internal/repository"
)

// StatsService serves per-task aggregates over scored assessments. Reads go
// through the cache when one is configured; cache failures degrade to a
// store scan, never to an error.
type StatsService struct {
	logger *zap.Logger
	repo   repository.AssessmentRepository
	cache  StatsCache
	ttl    time.Duration
}

func NewStatsService(logger *zap.Logger, repo repository.AssessmentRepository, cache StatsCache, ttl time.Duration) *StatsService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsService{
		logger: logger,
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
	}
}

// TaskStats returns count, mean and population standard deviation of the raw
// and weighted composites for one task. A task with no scored assessments is
// a NotFoundError.
func (s *StatsService) TaskStats(ctx context.Context, taskName string) (domain.TaskStats, error) {
	taskName = strings.TrimSpace(taskName)
	if taskName == "" {
		return domain.TaskStats{}, domain.NewValidationError("task_name is required")
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(taskName)
		if err != nil {
			s.logger.Warn("stats cache read failed", zap.Error(err), zap.String("task_name", taskName))
		} else if ok {
			return cached, nil
		}
	}

	assessments, err := s.repo.ListScoredByTask(ctx, taskName)
	if err != nil {
		s.logger.Error("list scored assessments failed", zap.Error(err), zap.String("task_name", taskName))
		return domain.TaskStats{}, err
	}
	if len(assessments) == 0 {
		return domain.TaskStats{}, domain.NewNotFoundError("no scored assessments for task %q", taskName)
	}

	var rawScores, weightedScores []float64
	for _, a := range assessments {
		if a.RawScore != nil {
			rawScores = append(rawScores, *a.RawScore)
		}
		if a.WeightedScore != nil {
			weightedScores = append(weightedScores, *a.WeightedScore)
		}
	}

	stats := domain.TaskStats{
		TaskName: taskName,
		Count:    len(assessments),
		Raw:      summarize(rawScores),
	}
	if len(weightedScores) > 0 {
		weighted := summarize(weightedScores)
		stats.Weighted = &weighted
	}

	if s.cache != nil {
		if err := s.cache.Set(taskName, stats, s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err), zap.String("task_name", taskName))
		}
	}
	return stats, nil
}

// summarize computes mean and population standard deviation (divide by N),
// so a single score yields StdDev 0.
func summarize(scores []float64) domain.ScoreStats {
	n := len(scores)
	if n == 0 {
		return domain.ScoreStats{}
	}
	var mean float64
	for _, v := range scores {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range scores {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return domain.ScoreStats{
		Count:  n,
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}
}
