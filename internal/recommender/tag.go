package recommender

import (
	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/similarity"
)

// Tag ranks catalogue movies by Jaccard similarity of their user tag sets.
// Tag sets are grouped per movie when the bundle is built, so each candidate costs one lookup.
func Tag(b *dataset.Bundle, movieID, topN int) ([]recommendation.Recommendation, error) {
	if err := checkTopN(topN); err != nil {
		return nil, err
	}
	if !b.HasMovie(movieID) {
		return nil, domain.NewReferenceNotFound(movieID, "movies")
	}

	recs := make([]recommendation.Recommendation, 0, topN)
	ref := b.Tags(movieID)
	if len(ref) == 0 {
		return recs, nil
	}
	for _, m := range b.Movies() {
		if m.ID == movieID {
			continue
		}
		tags := b.Tags(m.ID)
		if len(tags) == 0 {
			continue
		}
		if s := similarity.Jaccard(ref, tags); s > 0 {
			recs = append(recs, recommendation.New(m.ID, s))
		}
	}
	return rank(recs, topN), nil
}
