package recommendation

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/movierec/internal/domain"
)

// weightEpsilon is the tolerance for the weights summing to one.
const weightEpsilon = 1e-9

// Weights are the per-strategy multipliers of the hybrid aggregator.
type Weights struct {
	Genre         float64 `yaml:"genre"`
	Tag           float64 `yaml:"tag"`
	Collaborative float64 `yaml:"collaborative"`
	Genome        float64 `yaml:"genome"`
}

// DefaultWeights returns genre 0.3, tag 0.2, collaborative 0.3, genome 0.2.
func DefaultWeights() Weights {
	return Weights{Genre: 0.3, Tag: 0.2, Collaborative: 0.3, Genome: 0.2}
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Genre + w.Tag + w.Collaborative + w.Genome
}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool {
	return w == Weights{}
}

// For returns the weight of a base strategy, 0 for anything else.
func (w Weights) For(s Strategy) float64 {
	switch s {
	case Genre:
		return w.Genre
	case Tag:
		return w.Tag
	case Collaborative:
		return w.Collaborative
	case Genome:
		return w.Genome
	}
	return 0
}

// Validate checks that no weight is negative and that the weights sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Genre, w.Tag, w.Collaborative, w.Genome} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: negative or non-finite weight %v", domain.ErrInvalidWeights, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightEpsilon {
		return fmt.Errorf("%w: weights sum to %v, want 1", domain.ErrInvalidWeights, sum)
	}
	return nil
}
