package domain

import (
	"errors"
	"testing"
)

func TestCanonicalPairs(t *testing.T) {
	pairs := CanonicalPairs()
	if len(pairs) != PairwiseCount {
		t.Fatalf("expected %d pairs, got %d", PairwiseCount, len(pairs))
	}
	seen := make(map[[2]Dimension]bool)
	for _, p := range pairs {
		if p[0] == p[1] {
			t.Fatalf("self pair %v", p)
		}
		if DimensionIndex(p[0]) >= DimensionIndex(p[1]) {
			t.Fatalf("pair %v not in canonical order", p)
		}
		if seen[p] {
			t.Fatalf("duplicate pair %v", p)
		}
		seen[p] = true
	}
}

func TestDimensionIndex(t *testing.T) {
	for i, d := range Dimensions {
		if DimensionIndex(d) != i {
			t.Fatalf("index of %s: expected %d, got %d", d, i, DimensionIndex(d))
		}
	}
	if DimensionIndex("boredom") != -1 {
		t.Fatalf("unknown dimension must have index -1")
	}
}

func TestRatingsValidate(t *testing.T) {
	valid := Ratings{MentalDemand: 15, PhysicalDemand: 3, TemporalDemand: 12, Performance: 5, Effort: 14, Frustration: 8}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missing := valid
	missing.Performance = 0 // zero value, i.e. the key was never supplied
	err := missing.Validate()
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestRatingsValue(t *testing.T) {
	r := Ratings{MentalDemand: 1, PhysicalDemand: 2, TemporalDemand: 3, Performance: 4, Effort: 5, Frustration: 6}
	want := map[Dimension]int{
		DimensionMentalDemand:   1,
		DimensionPhysicalDemand: 2,
		DimensionTemporalDemand: 3,
		DimensionPerformance:    4,
		DimensionEffort:         5,
		DimensionFrustration:    6,
	}
	for d, v := range want {
		if r.Value(d) != v {
			t.Fatalf("value of %s: expected %d, got %d", d, v, r.Value(d))
		}
	}
	if r.Value("boredom") != 0 {
		t.Fatalf("unknown dimension must read as 0")
	}
}
