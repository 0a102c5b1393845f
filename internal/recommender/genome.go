package recommender

import (
	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/similarity"
)

// Genome ranks movies by cosine similarity of their genome relevance vectors.
// Only the reference row is compared against the matrix; results carry movie IDs, not row indexes.
func Genome(b *dataset.Bundle, movieID, topN int) ([]recommendation.Recommendation, error) {
	if err := checkTopN(topN); err != nil {
		return nil, err
	}
	g := b.Genome()
	ref, ok := g.RowOf(movieID)
	if !ok {
		return nil, domain.NewReferenceNotFound(movieID, "genome-scores")
	}

	recs := make([]recommendation.Recommendation, 0, topN)
	refVec, refNorm := g.Row(ref), g.Norm(ref)
	if refNorm == 0 {
		return recs, nil
	}
	for i := range g.Rows() {
		if i == ref {
			continue
		}
		n := g.Norm(i)
		if n == 0 {
			continue
		}
		if s := similarity.Dot(refVec, g.Row(i)) / (refNorm * n); s > 0 {
			recs = append(recs, recommendation.New(g.MovieAt(i), s))
		}
	}
	return rank(recs, topN), nil
}
