package recommender

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// Hybrid sums weighted scores of the four base strategies per movie.
//
// A movie recommended by several strategies accumulates every weighted
// contribution. A base strategy that lacks the reference (unrated movie, no
// genome data) contributes nothing; the hybrid itself only reports
// ErrReferenceNotFound when the movie is not in the catalogue.
func Hybrid(
	b *dataset.Bundle, movieID, topN int,
	w recommendation.Weights, cf CollaborativeOptions,
) ([]recommendation.Recommendation, error) {
	if err := checkTopN(topN); err != nil {
		return nil, err
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	if !b.HasMovie(movieID) {
		return nil, domain.NewReferenceNotFound(movieID, "movies")
	}

	type base struct {
		strategy recommendation.Strategy
		run      func() ([]recommendation.Recommendation, error)
	}
	bases := []base{
		{recommendation.Genre, func() ([]recommendation.Recommendation, error) {
			return Genre(b, movieID, topN)
		}},
		{recommendation.Tag, func() ([]recommendation.Recommendation, error) {
			return Tag(b, movieID, topN)
		}},
		{recommendation.Collaborative, func() ([]recommendation.Recommendation, error) {
			return Collaborative(b, movieID, topN, cf)
		}},
		{recommendation.Genome, func() ([]recommendation.Recommendation, error) {
			return Genome(b, movieID, topN)
		}},
	}

	lists := make([][]recommendation.Recommendation, len(bases))
	var g errgroup.Group
	for i, bs := range bases {
		if w.For(bs.strategy) == 0 {
			continue
		}
		g.Go(func() error {
			recs, err := bs.run()
			if errors.Is(err, domain.ErrReferenceNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", bs.strategy, err)
			}
			lists[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sums := make(map[int]float64)
	order := make([]int, 0)
	for i, bs := range bases {
		weight := w.For(bs.strategy)
		for _, r := range lists[i] {
			if _, seen := sums[r.MovieID()]; !seen {
				order = append(order, r.MovieID())
			}
			// explicit conversion rounds the product, so no fused multiply-add alters the sum
			sums[r.MovieID()] += float64(r.Score() * weight)
		}
	}

	recs := make([]recommendation.Recommendation, 0, len(order))
	for _, id := range order {
		if s := sums[id]; s > 0 {
			recs = append(recs, recommendation.New(id, s))
		}
	}
	return rank(recs, topN), nil
}
