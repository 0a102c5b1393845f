// Package recommendation defines the scored output shared by all strategies.
package recommendation

// DefaultTopN is the result count used when the caller does not specify one.
const DefaultTopN = 5

// Recommendation is a single scored candidate movie.
type Recommendation struct {
	movieID int
	score   float64
}

// New creates a recommendation.
func New(movieID int, score float64) Recommendation {
	return Recommendation{movieID: movieID, score: score}
}

// MovieID returns the internal movie identifier.
func (r Recommendation) MovieID() int { return r.movieID }

// Score returns the strategy score, higher is more similar.
func (r Recommendation) Score() float64 { return r.score }

// MovieIDs strips scores, keeping order.
func MovieIDs(recs []Recommendation) []int {
	ids := make([]int, len(recs))
	for i, r := range recs {
		ids[i] = r.movieID
	}
	return ids
}
