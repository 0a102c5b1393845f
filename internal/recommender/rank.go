package recommender

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// rank sorts by descending score, keeping candidate order for ties, and truncates to topN.
func rank(recs []recommendation.Recommendation, topN int) []recommendation.Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score() > recs[j].Score()
	})
	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}

func checkTopN(topN int) error {
	if topN <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidTopN, topN)
	}
	return nil
}
