package recommender

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// Request selects a strategy and its parameters for one reference movie.
type Request struct {
	Strategy      recommendation.Strategy
	MovieID       int
	TopN          int
	Weights       recommendation.Weights
	Collaborative CollaborativeOptions
}

// Engine dispatches a Request to the matching strategy.
type Engine struct{}

// NewEngine creates a strategy dispatcher.
func NewEngine() *Engine {
	return &Engine{}
}

// Recommend runs the requested strategy against bundle b.
func (e *Engine) Recommend(
	ctx context.Context, b *dataset.Bundle, req Request,
) ([]recommendation.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	switch req.Strategy {
	case recommendation.Genre:
		return Genre(b, req.MovieID, req.TopN)
	case recommendation.Tag:
		return Tag(b, req.MovieID, req.TopN)
	case recommendation.Collaborative:
		return Collaborative(b, req.MovieID, req.TopN, req.Collaborative)
	case recommendation.Genome:
		return Genome(b, req.MovieID, req.TopN)
	case recommendation.Hybrid:
		return Hybrid(b, req.MovieID, req.TopN, req.Weights, req.Collaborative)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, req.Strategy)
	}
}
