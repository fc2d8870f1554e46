package service

import (
	"workload-tlx/internal/domain"
)

// Weights maps each dimension to the number of pairwise comparisons it won.
// For a valid comparison set each weight is in [0,5] and the six weights sum
// to exactly 15.
type Weights map[domain.Dimension]int

// ComputeRawScore returns the unweighted TLX composite: the arithmetic mean
// of the six ratings. Performance arrives already inverted and is averaged
// as-is.
func ComputeRawScore(r domain.Ratings) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	sum := 0
	for _, d := range domain.Dimensions {
		sum += r.Value(d)
	}
	return float64(sum) / float64(len(domain.Dimensions)), nil
}

// ComputeWeights derives the per-dimension importance weights from the 15
// pairwise comparisons. Every unordered pair must appear exactly once and
// the winner must be one of the pair's two dimensions.
func ComputeWeights(comparisons []domain.PairwiseComparison) (Weights, error) {
	if len(comparisons) != domain.PairwiseCount {
		return nil, domain.NewValidationError("expected %d pairwise comparisons, got %d", domain.PairwiseCount, len(comparisons))
	}

	weights := make(Weights, len(domain.Dimensions))
	for _, d := range domain.Dimensions {
		weights[d] = 0
	}

	seen := make(map[[2]domain.Dimension]bool, domain.PairwiseCount)
	for _, c := range comparisons {
		i := domain.DimensionIndex(c.First)
		j := domain.DimensionIndex(c.Second)
		if i < 0 {
			return nil, domain.NewValidationError("unknown dimension %q", c.First)
		}
		if j < 0 {
			return nil, domain.NewValidationError("unknown dimension %q", c.Second)
		}
		if i == j {
			return nil, domain.NewValidationError("pair compares %q with itself", c.First)
		}
		if c.Winner != c.First && c.Winner != c.Second {
			return nil, domain.NewValidationError("winner %q is not part of pair (%s, %s)", c.Winner, c.First, c.Second)
		}

		key := [2]domain.Dimension{c.First, c.Second}
		if j < i {
			key = [2]domain.Dimension{c.Second, c.First}
		}
		if seen[key] {
			return nil, domain.NewValidationError("duplicate pair (%s, %s)", key[0], key[1])
		}
		seen[key] = true

		weights[c.Winner]++
	}

	// 15 distinct valid pairs over 6 dimensions is exhaustive by counting,
	// so no separate completeness scan is needed.
	return weights, nil
}

// ComputeWeightedScore returns the weighted TLX composite
// sum(rating_i * weight_i) / 15, on the same 1-20 scale as the raw score.
func ComputeWeightedScore(r domain.Ratings, comparisons []domain.PairwiseComparison) (float64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	weights, err := ComputeWeights(comparisons)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, d := range domain.Dimensions {
		sum += r.Value(d) * weights[d]
	}
	return float64(sum) / float64(domain.PairwiseCount), nil
}
