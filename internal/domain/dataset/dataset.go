// Package dataset holds an immutable, indexed snapshot of the MovieLens tables.
//
// A Bundle is built once and only read afterwards, so it may be shared by any
// number of concurrent requests. Replacing data means building a new Bundle.
package dataset

import (
	"strings"
	"time"

	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// Tables is the raw input of a Bundle.
type Tables struct {
	Movies       []movie.Movie
	Tags         []movie.TagAssignment
	Ratings      []movie.Rating
	GenomeScores []movie.GenomeScore
	GenomeTags   []movie.GenomeTag
	Links        []movie.Link
}

// Stats summarizes a Bundle for logs, metrics and health reports.
type Stats struct {
	Movies         int
	DroppedMovies  int
	TagAssignments int
	TaggedMovies   int
	Ratings        int
	RatedMovies    int
	GenomeMovies   int
	GenomeTags     int
	Links          int
	LoadedAt       time.Time
}

// Bundle is an indexed dataset snapshot.
type Bundle struct {
	version string

	movies   []movie.Movie
	moviePos map[int]int
	genres   []map[string]struct{} // parallel to movies

	tagsByMovie map[int]map[string]struct{}

	ratings        []movie.Rating
	ratingsByMovie map[int][]int32 // indexes into ratings
	ratingsByUser  map[int][]int32

	genome *GenomeMatrix

	movieToIMDb map[int]int
	imdbToMovie map[int]int

	stats Stats
}

// New indexes tables into a Bundle.
// Duplicate movie IDs keep their first row; the rest are counted in Stats.DroppedMovies.
func New(version string, t Tables) *Bundle {
	b := &Bundle{
		version:        version,
		movies:         make([]movie.Movie, 0, len(t.Movies)),
		moviePos:       make(map[int]int, len(t.Movies)),
		tagsByMovie:    make(map[int]map[string]struct{}),
		ratings:        t.Ratings,
		ratingsByMovie: make(map[int][]int32),
		ratingsByUser:  make(map[int][]int32),
		movieToIMDb:    make(map[int]int, len(t.Links)),
		imdbToMovie:    make(map[int]int, len(t.Links)),
	}

	for _, m := range t.Movies {
		if _, dup := b.moviePos[m.ID]; dup {
			b.stats.DroppedMovies++
			continue
		}
		b.moviePos[m.ID] = len(b.movies)
		b.movies = append(b.movies, m)
	}
	b.genres = make([]map[string]struct{}, len(b.movies))
	for i, m := range b.movies {
		b.genres[i] = m.GenreSet()
	}

	for _, ta := range t.Tags {
		tag := strings.TrimSpace(ta.Tag)
		if tag == "" {
			continue
		}
		set, ok := b.tagsByMovie[ta.MovieID]
		if !ok {
			set = make(map[string]struct{})
			b.tagsByMovie[ta.MovieID] = set
		}
		set[tag] = struct{}{}
	}

	for i, r := range t.Ratings {
		b.ratingsByMovie[r.MovieID] = append(b.ratingsByMovie[r.MovieID], int32(i))
		b.ratingsByUser[r.UserID] = append(b.ratingsByUser[r.UserID], int32(i))
	}

	b.genome = NewGenomeMatrix(t.GenomeScores, t.GenomeTags)

	for _, l := range t.Links {
		if _, dup := b.movieToIMDb[l.MovieID]; !dup {
			b.movieToIMDb[l.MovieID] = l.IMDbID
		}
		if _, dup := b.imdbToMovie[l.IMDbID]; !dup {
			b.imdbToMovie[l.IMDbID] = l.MovieID
		}
	}

	b.stats.Movies = len(b.movies)
	b.stats.TagAssignments = len(t.Tags)
	b.stats.TaggedMovies = len(b.tagsByMovie)
	b.stats.Ratings = len(t.Ratings)
	b.stats.RatedMovies = len(b.ratingsByMovie)
	b.stats.GenomeMovies = b.genome.Rows()
	b.stats.GenomeTags = b.genome.Cols()
	b.stats.Links = len(b.movieToIMDb)
	b.stats.LoadedAt = time.Now()
	return b
}

// Version identifies the snapshot, used to scope cached results.
func (b *Bundle) Version() string { return b.version }

// Stats returns the snapshot summary.
func (b *Bundle) Stats() Stats { return b.stats }

// Movies returns the catalogue in dataset order. Callers must not modify it.
func (b *Bundle) Movies() []movie.Movie { return b.movies }

// Movie returns a catalogue entry by ID.
func (b *Bundle) Movie(id int) (movie.Movie, bool) {
	pos, ok := b.moviePos[id]
	if !ok {
		return movie.Movie{}, false
	}
	return b.movies[pos], true
}

// HasMovie reports whether the catalogue contains id.
func (b *Bundle) HasMovie(id int) bool {
	_, ok := b.moviePos[id]
	return ok
}

// GenresAt returns the parsed genre set of the movie at catalogue position pos.
func (b *Bundle) GenresAt(pos int) map[string]struct{} { return b.genres[pos] }

// Genres returns the parsed genre set of a movie.
func (b *Bundle) Genres(id int) (map[string]struct{}, bool) {
	pos, ok := b.moviePos[id]
	if !ok {
		return nil, false
	}
	return b.genres[pos], true
}

// Tags returns the distinct user tags of a movie, nil when it has none.
func (b *Bundle) Tags(id int) map[string]struct{} { return b.tagsByMovie[id] }

// Rating returns the rating row at index i.
func (b *Bundle) Rating(i int32) movie.Rating { return b.ratings[i] }

// RatingsOfMovie returns indexes of the rating rows for a movie.
func (b *Bundle) RatingsOfMovie(id int) []int32 { return b.ratingsByMovie[id] }

// RatingsOfUser returns indexes of the rating rows of a user.
func (b *Bundle) RatingsOfUser(userID int) []int32 { return b.ratingsByUser[userID] }

// Genome returns the pivoted genome relevance matrix.
func (b *Bundle) Genome() *GenomeMatrix { return b.genome }

// MovieByIMDb resolves an IMDb number to an internal movie ID.
func (b *Bundle) MovieByIMDb(imdbID int) (int, bool) {
	id, ok := b.imdbToMovie[imdbID]
	return id, ok
}

// IMDbByMovie resolves an internal movie ID to its IMDb number.
func (b *Bundle) IMDbByMovie(movieID int) (int, bool) {
	id, ok := b.movieToIMDb[movieID]
	return id, ok
}
