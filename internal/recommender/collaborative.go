package recommender

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/similarity"
)

// CollaborativeOptions tunes collaborative filtering.
type CollaborativeOptions struct {
	// SampleFrac is the fraction of rating rows considered, in (0, 1]. 1 disables sampling.
	SampleFrac float64
	// Seed makes the sample reproducible.
	Seed uint64
}

// DefaultCollaborativeOptions returns options without sampling.
func DefaultCollaborativeOptions() CollaborativeOptions {
	return CollaborativeOptions{SampleFrac: 1, Seed: 1}
}

// Validate checks the sample fraction.
func (o CollaborativeOptions) Validate() error {
	if !(o.SampleFrac > 0 && o.SampleFrac <= 1) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidSampleFrac, o.SampleFrac)
	}
	return nil
}

// Collaborative ranks movies by cosine similarity of their rating columns.
//
// The user×movie matrix is restricted to users who rated the reference movie,
// so its size is bounded by the reference's audience rather than the whole dataset.
func Collaborative(
	b *dataset.Bundle, movieID, topN int, opts CollaborativeOptions,
) ([]recommendation.Recommendation, error) {
	if err := checkTopN(topN); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	keep := newSampler(opts)

	refCol := make(map[int]float64)
	raters := make([]int, 0)
	for _, i := range b.RatingsOfMovie(movieID) {
		r := b.Rating(i)
		if !keep(r) {
			continue
		}
		if _, seen := refCol[r.UserID]; !seen {
			raters = append(raters, r.UserID)
		}
		refCol[r.UserID] = r.Rating
	}
	if len(refCol) == 0 {
		return nil, domain.NewReferenceNotFound(movieID, "ratings")
	}

	cols := make(map[int]map[int]float64)
	order := make([]int, 0)
	for _, u := range raters {
		for _, i := range b.RatingsOfUser(u) {
			r := b.Rating(i)
			if r.MovieID == movieID || !keep(r) {
				continue
			}
			col, ok := cols[r.MovieID]
			if !ok {
				col = make(map[int]float64)
				cols[r.MovieID] = col
				order = append(order, r.MovieID)
			}
			col[u] = r.Rating
		}
	}

	recs := make([]recommendation.Recommendation, 0, len(order))
	for _, id := range order {
		if s := similarity.CosineSparse(refCol, cols[id]); s > 0 {
			recs = append(recs, recommendation.New(id, s))
		}
	}
	return rank(recs, topN), nil
}

// newSampler returns a row filter that keeps a rating with probability SampleFrac.
// The decision hashes (seed, user, movie), so it is stable across calls and row order.
func newSampler(opts CollaborativeOptions) func(movie.Rating) bool {
	if opts.SampleFrac >= 1 {
		return func(movie.Rating) bool { return true }
	}
	threshold := uint64(opts.SampleFrac * math.MaxUint64)
	return func(r movie.Rating) bool {
		var buf [24]byte
		binary.LittleEndian.PutUint64(buf[0:], opts.Seed)
		binary.LittleEndian.PutUint64(buf[8:], uint64(r.UserID))
		binary.LittleEndian.PutUint64(buf[16:], uint64(r.MovieID))
		return xxhash.Sum64(buf[:]) < threshold
	}
}
