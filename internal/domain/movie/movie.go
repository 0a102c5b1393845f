// Package movie holds the MovieLens dataset records.
package movie

import "strings"

// NoGenres is the MovieLens marker for a movie without genre labels.
const NoGenres = "(no genres listed)"

// genreSeparator delimits labels in the raw genres column.
const genreSeparator = "|"

// Movie is a catalogue row.
type Movie struct {
	ID     int
	Title  string
	Genres string // pipe-delimited, as stored in movies.csv
}

// GenreSet parses the pipe-delimited genre column.
func (m Movie) GenreSet() map[string]struct{} {
	return ParseGenres(m.Genres)
}

// ParseGenres splits a pipe-delimited genre string into a set.
// Empty labels are dropped, and the NoGenres marker yields an empty set.
func ParseGenres(raw string) map[string]struct{} {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == NoGenres {
		return map[string]struct{}{}
	}
	parts := strings.Split(raw, genreSeparator)
	set := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == NoGenres {
			continue
		}
		set[p] = struct{}{}
	}
	return set
}

// TagAssignment is a free-text tag a user attached to a movie.
type TagAssignment struct {
	UserID  int
	MovieID int
	Tag     string
}

// Rating is a single user rating observation.
type Rating struct {
	UserID  int
	MovieID int
	Rating  float64
}

// GenomeScore is the machine-scored relevance of a genome tag to a movie.
type GenomeScore struct {
	MovieID   int
	TagID     int
	Relevance float64
}

// GenomeTag is an entry of the genome tag vocabulary.
type GenomeTag struct {
	ID  int
	Tag string
}

// Link maps a movie to its external identifiers.
type Link struct {
	MovieID int
	IMDbID  int
	TMDbID  int // 0 when absent
}
