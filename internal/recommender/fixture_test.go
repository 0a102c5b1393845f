package recommender

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
)

// newFixture builds a small catalogue:
//
//	1 Action|Comedy      tags funny,classic            genome [0.9 0.1 0]
//	2 Action|Drama       tags funny                    genome [0.8 0.2 0.1]
//	3 Comedy             tags dark                     genome [0 0 1]
//	4 (no genres listed)
//	5 Action|Comedy      tags funny,classic,quotable   genome [0.9 0.1 0]
//	6 Horror
//	7 Comedy
func newFixture(t *testing.T) *dataset.Bundle {
	t.Helper()
	return dataset.New("test", dataset.Tables{
		Movies: []movie.Movie{
			{ID: 1, Title: "A", Genres: "Action|Comedy"},
			{ID: 2, Title: "B", Genres: "Action|Drama"},
			{ID: 3, Title: "C", Genres: "Comedy"},
			{ID: 4, Title: "D", Genres: movie.NoGenres},
			{ID: 5, Title: "E", Genres: "Action|Comedy"},
			{ID: 6, Title: "F", Genres: "Horror"},
			{ID: 7, Title: "G", Genres: "Comedy"},
		},
		Tags: []movie.TagAssignment{
			{UserID: 100, MovieID: 1, Tag: "funny"},
			{UserID: 101, MovieID: 1, Tag: "classic"},
			{UserID: 100, MovieID: 2, Tag: "funny"},
			{UserID: 102, MovieID: 3, Tag: "dark"},
			{UserID: 100, MovieID: 5, Tag: "funny"},
			{UserID: 100, MovieID: 5, Tag: "classic"},
			{UserID: 101, MovieID: 5, Tag: "quotable"},
		},
		Ratings: []movie.Rating{
			{UserID: 100, MovieID: 1, Rating: 5},
			{UserID: 100, MovieID: 2, Rating: 4},
			{UserID: 100, MovieID: 3, Rating: 1},
			{UserID: 101, MovieID: 1, Rating: 3},
			{UserID: 101, MovieID: 2, Rating: 3},
			{UserID: 101, MovieID: 5, Rating: 5},
			{UserID: 102, MovieID: 2, Rating: 2},
			{UserID: 102, MovieID: 6, Rating: 4},
		},
		GenomeTags: []movie.GenomeTag{
			{ID: 1, Tag: "action"},
			{ID: 2, Tag: "comedy"},
			{ID: 3, Tag: "dark"},
		},
		GenomeScores: []movie.GenomeScore{
			{MovieID: 1, TagID: 1, Relevance: 0.9},
			{MovieID: 1, TagID: 2, Relevance: 0.1},
			{MovieID: 1, TagID: 3, Relevance: 0},
			{MovieID: 2, TagID: 1, Relevance: 0.8},
			{MovieID: 2, TagID: 2, Relevance: 0.2},
			{MovieID: 2, TagID: 3, Relevance: 0.1},
			{MovieID: 3, TagID: 3, Relevance: 1},
			{MovieID: 5, TagID: 1, Relevance: 0.9},
			{MovieID: 5, TagID: 2, Relevance: 0.1},
		},
	})
}

func scoreOf(t *testing.T, recs []recommendation.Recommendation, movieID int) float64 {
	t.Helper()
	for _, r := range recs {
		if r.MovieID() == movieID {
			return r.Score()
		}
	}
	require.Failf(t, "movie missing", "movie %d not in %v", movieID, recommendation.MovieIDs(recs))
	return 0
}
