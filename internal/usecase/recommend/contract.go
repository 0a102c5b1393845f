package recommend

import (
	"context"

	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/recommender"
)

// Snapshots provides the currently published dataset.
type Snapshots interface {
	Current() (*dataset.Bundle, error)
}

// Recommender scores candidates for a resolved request.
type Recommender interface {
	Recommend(ctx context.Context, b *dataset.Bundle, req recommender.Request) ([]recommendation.Recommendation, error)
}
