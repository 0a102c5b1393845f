package recommender

import (
	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/similarity"
)

// Genre ranks catalogue movies by Jaccard similarity of their genre sets.
func Genre(b *dataset.Bundle, movieID, topN int) ([]recommendation.Recommendation, error) {
	if err := checkTopN(topN); err != nil {
		return nil, err
	}
	ref, ok := b.Genres(movieID)
	if !ok {
		return nil, domain.NewReferenceNotFound(movieID, "movies")
	}

	recs := make([]recommendation.Recommendation, 0, topN)
	if len(ref) == 0 {
		return recs, nil
	}
	for pos, m := range b.Movies() {
		if m.ID == movieID {
			continue
		}
		if s := similarity.Jaccard(ref, b.GenresAt(pos)); s > 0 {
			recs = append(recs, recommendation.New(m.ID, s))
		}
	}
	return rank(recs, topN), nil
}
