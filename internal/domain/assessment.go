package domain

import "time"

// Dimension identifies one of the six NASA-TLX workload dimensions.
type Dimension string

const (
	DimensionMentalDemand   Dimension = "mental_demand"
	DimensionPhysicalDemand Dimension = "physical_demand"
	DimensionTemporalDemand Dimension = "temporal_demand"
	DimensionPerformance    Dimension = "performance"
	DimensionEffort         Dimension = "effort"
	DimensionFrustration    Dimension = "frustration"
)

// Dimensions lists the six dimensions in canonical order. Pair ordering,
// persistence layout and weight reporting all follow this order.
var Dimensions = [6]Dimension{
	DimensionMentalDemand,
	DimensionPhysicalDemand,
	DimensionTemporalDemand,
	DimensionPerformance,
	DimensionEffort,
	DimensionFrustration,
}

const (
	RatingMin = 1
	RatingMax = 20

	// PairwiseCount is C(6,2), one comparison per unordered dimension pair.
	PairwiseCount = 15
)

// DimensionIndex returns the canonical position of d, or -1 if d is not a
// recognized dimension.
func DimensionIndex(d Dimension) int {
	for i, dim := range Dimensions {
		if dim == d {
			return i
		}
	}
	return -1
}

// Ratings holds the six dimension ratings on the 1-20 TLX scale. Performance
// is entered already inverted (1 = perfect, 20 = failure); it is never
// re-inverted downstream.
type Ratings struct {
	MentalDemand   int `json:"mental_demand"`
	PhysicalDemand int `json:"physical_demand"`
	TemporalDemand int `json:"temporal_demand"`
	Performance    int `json:"performance"`
	Effort         int `json:"effort"`
	Frustration    int `json:"frustration"`
}

// Value returns the rating for a dimension. Unknown dimensions return 0,
// which is always out of range.
func (r Ratings) Value(d Dimension) int {
	switch d {
	case DimensionMentalDemand:
		return r.MentalDemand
	case DimensionPhysicalDemand:
		return r.PhysicalDemand
	case DimensionTemporalDemand:
		return r.TemporalDemand
	case DimensionPerformance:
		return r.Performance
	case DimensionEffort:
		return r.Effort
	case DimensionFrustration:
		return r.Frustration
	}
	return 0
}

// Validate checks that every rating is within [RatingMin, RatingMax].
func (r Ratings) Validate() error {
	for _, d := range Dimensions {
		v := r.Value(d)
		if v < RatingMin || v > RatingMax {
			return NewValidationError("rating %s=%d outside [%d,%d]", d, v, RatingMin, RatingMax)
		}
	}
	return nil
}

// PairwiseComparison records a forced binary choice between two dimensions:
// Winner is whichever of First/Second was judged more contributory to
// workload. There is no "equal" outcome.
type PairwiseComparison struct {
	First  Dimension `json:"first"`
	Second Dimension `json:"second"`
	Winner Dimension `json:"winner"`
}

// CanonicalPairs returns the 15 unordered dimension pairs in canonical
// order: (0,1), (0,2), ... (4,5) over Dimensions indices.
func CanonicalPairs() [PairwiseCount][2]Dimension {
	var pairs [PairwiseCount][2]Dimension
	k := 0
	for i := 0; i < len(Dimensions); i++ {
		for j := i + 1; j < len(Dimensions); j++ {
			pairs[k] = [2]Dimension{Dimensions[i], Dimensions[j]}
			k++
		}
	}
	return pairs
}

type AssessmentStatus string

const (
	StatusCreated AssessmentStatus = "created"
	StatusRated   AssessmentStatus = "rated"
	StatusScored  AssessmentStatus = "scored"
)

// Assessment is a single NASA-TLX submission. Lifecycle is strictly linear:
// created -> rated -> scored. Once scored the record is immutable except for
// administrative deletion.
type Assessment struct {
	ID              string               `json:"id"`
	TaskName        string               `json:"task_name"`
	ParticipantHash string               `json:"participant_hash"`
	Status          AssessmentStatus     `json:"status"`
	Ratings         *Ratings             `json:"ratings,omitempty"`
	Comparisons     []PairwiseComparison `json:"pairwise_comparisons,omitempty"`
	RawScore        *float64             `json:"raw_tlx_score,omitempty"`
	WeightedScore   *float64             `json:"weighted_tlx_score,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// ScoreStats summarizes one score series. StdDev is the population standard
// deviation, so a single assessment yields 0.
type ScoreStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// TaskStats aggregates all scored assessments for one task. Weighted is nil
// when no assessment for the task carried pairwise comparisons.
type TaskStats struct {
	TaskName string      `json:"task_name"`
	Count    int         `json:"count"`
	Raw      ScoreStats  `json:"raw"`
	Weighted *ScoreStats `json:"weighted,omitempty"`
}
