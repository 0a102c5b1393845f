package dataset

import (
	"sort"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/similarity"
)

// GenomeMatrix is the dense movie×tag relevance matrix.
// Rows follow first appearance of a movie in the genome scores, columns follow
// ascending tag ID of the vocabulary. Missing cells are zero.
type GenomeMatrix struct {
	movieIDs []int
	rowOf    map[int]int
	labels   []string
	rows     [][]float64
	norms    []float64
}

// NewGenomeMatrix joins scores with the vocabulary and pivots them.
// Scores referencing a tag outside the vocabulary are ignored, as an inner join would.
func NewGenomeMatrix(scores []movie.GenomeScore, tags []movie.GenomeTag) *GenomeMatrix {
	vocab := make([]movie.GenomeTag, 0, len(tags))
	seen := make(map[int]struct{}, len(tags))
	for _, t := range tags {
		if _, dup := seen[t.ID]; dup {
			continue
		}
		seen[t.ID] = struct{}{}
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool { return vocab[i].ID < vocab[j].ID })

	colOf := make(map[int]int, len(vocab))
	g := &GenomeMatrix{
		rowOf:  make(map[int]int),
		labels: make([]string, len(vocab)),
	}
	for i, t := range vocab {
		colOf[t.ID] = i
		g.labels[i] = t.Tag
	}

	for _, s := range scores {
		col, ok := colOf[s.TagID]
		if !ok {
			continue
		}
		row, ok := g.rowOf[s.MovieID]
		if !ok {
			row = len(g.rows)
			g.rowOf[s.MovieID] = row
			g.movieIDs = append(g.movieIDs, s.MovieID)
			g.rows = append(g.rows, make([]float64, len(vocab)))
		}
		g.rows[row][col] = s.Relevance
	}

	g.norms = make([]float64, len(g.rows))
	for i, r := range g.rows {
		g.norms[i] = similarity.Norm(r)
	}
	return g
}

// Rows returns the number of movies in the matrix.
func (g *GenomeMatrix) Rows() int { return len(g.rows) }

// Cols returns the vocabulary size.
func (g *GenomeMatrix) Cols() int { return len(g.labels) }

// Labels returns the column labels. Callers must not modify it.
func (g *GenomeMatrix) Labels() []string { return g.labels }

// RowOf returns the row index of a movie.
func (g *GenomeMatrix) RowOf(movieID int) (int, bool) {
	r, ok := g.rowOf[movieID]
	return r, ok
}

// MovieAt returns the movie ID of row i.
func (g *GenomeMatrix) MovieAt(i int) int { return g.movieIDs[i] }

// Row returns the relevance vector of row i. Callers must not modify it.
func (g *GenomeMatrix) Row(i int) []float64 { return g.rows[i] }

// Norm returns the precomputed euclidean norm of row i.
func (g *GenomeMatrix) Norm(i int) float64 { return g.norms[i] }
