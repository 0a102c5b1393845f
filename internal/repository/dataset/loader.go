// Package dataset loads MovieLens CSV files into dataset bundles.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	domds "github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
)

// Files names the CSV files inside the data directory.
type Files struct {
	Movies       string
	Tags         string
	Ratings      string
	GenomeScores string
	GenomeTags   string
	Links        string
}

// DefaultFiles returns the MovieLens file names.
func DefaultFiles() Files {
	return Files{
		Movies:       "movies.csv",
		Tags:         "tags.csv",
		Ratings:      "ratings.csv",
		GenomeScores: "genome-scores.csv",
		GenomeTags:   "genome-tags.csv",
		Links:        "links.csv",
	}
}

// Loader reads a MovieLens directory.
// movies.csv and links.csv are required; the other tables may be absent, which
// only disables the strategies that depend on them.
type Loader struct {
	dir    string
	files  Files
	logger *zap.Logger
}

// NewLoader creates a loader for dir.
func NewLoader(dir string, files Files, logger *zap.Logger) *Loader {
	return &Loader{dir: dir, files: files, logger: logger}
}

// Load reads every table and indexes it into a new bundle.
func (l *Loader) Load(ctx context.Context) (*domds.Bundle, error) {
	var t domds.Tables
	var err error

	if t.Movies, err = readTable(ctx, l, l.files.Movies, true, movieColumns, parseMovie); err != nil {
		return nil, err
	}
	if t.Links, err = readTable(ctx, l, l.files.Links, true, linkColumns, parseLink); err != nil {
		return nil, err
	}
	if t.Tags, err = readTable(ctx, l, l.files.Tags, false, tagColumns, parseTag); err != nil {
		return nil, err
	}
	if t.Ratings, err = readTable(ctx, l, l.files.Ratings, false, ratingColumns, parseRating); err != nil {
		return nil, err
	}
	if t.GenomeTags, err = readTable(ctx, l, l.files.GenomeTags, false, genomeTagColumns, parseGenomeTag); err != nil {
		return nil, err
	}
	if t.GenomeScores, err = readTable(
		ctx, l, l.files.GenomeScores, false, genomeScoreColumns, parseGenomeScore,
	); err != nil {
		return nil, err
	}

	version := strconv.FormatInt(time.Now().UnixNano(), 36)
	return domds.New(version, t), nil
}

// rowParser converts one CSV record into a value, using the column index resolved from the header.
type rowParser[T any] func(rec []string, col map[string]int) (T, error)

var (
	movieColumns       = []string{"movieId", "title", "genres"}
	linkColumns        = []string{"movieId", "imdbId"}
	tagColumns         = []string{"userId", "movieId", "tag"}
	ratingColumns      = []string{"userId", "movieId", "rating"}
	genomeTagColumns   = []string{"tagId", "tag"}
	genomeScoreColumns = []string{"movieId", "tagId", "relevance"}
)

// ctxCheckEvery bounds how many rows are read between context checks.
const ctxCheckEvery = 1 << 16

func readTable[T any](
	ctx context.Context, l *Loader, name string, required bool,
	columns []string, parse rowParser[T],
) ([]T, error) {
	path := filepath.Join(l.dir, name)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Optional dataset file missing", zap.String("path", path))
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	start := time.Now()
	out, skipped, err := decode(ctx, f, columns, parse)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	l.logger.Info("Dataset file loaded",
		zap.String("path", path),
		zap.Int("rows", len(out)),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(start)),
	)
	return out, nil
}

// decode reads a CSV stream with a header row. Rows that fail to parse are skipped and counted.
func decode[T any](
	ctx context.Context, r io.Reader, columns []string, parse rowParser[T],
) ([]T, int, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range columns {
		if _, ok := col[c]; !ok {
			return nil, 0, fmt.Errorf("missing column %q", c)
		}
	}

	var out []T
	skipped := 0
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, fmt.Errorf("load canceled: %w", err)
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("read row: %w", err)
		}
		v, err := parse(rec, col)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func intField(rec []string, col map[string]int, name string) (int, error) {
	v, err := strconv.Atoi(field(rec, col, name))
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func floatField(rec []string, col map[string]int, name string) (float64, error) {
	v, err := strconv.ParseFloat(field(rec, col, name), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func parseMovie(rec []string, col map[string]int) (movie.Movie, error) {
	id, err := intField(rec, col, "movieId")
	if err != nil {
		return movie.Movie{}, err
	}
	return movie.Movie{
		ID:     id,
		Title:  field(rec, col, "title"),
		Genres: field(rec, col, "genres"),
	}, nil
}

func parseLink(rec []string, col map[string]int) (movie.Link, error) {
	id, err := intField(rec, col, "movieId")
	if err != nil {
		return movie.Link{}, err
	}
	imdb, err := intField(rec, col, "imdbId")
	if err != nil {
		return movie.Link{}, err
	}
	// tmdbId is blank for some movies
	tmdb, _ := intField(rec, col, "tmdbId")
	return movie.Link{MovieID: id, IMDbID: imdb, TMDbID: tmdb}, nil
}

func parseTag(rec []string, col map[string]int) (movie.TagAssignment, error) {
	user, err := intField(rec, col, "userId")
	if err != nil {
		return movie.TagAssignment{}, err
	}
	id, err := intField(rec, col, "movieId")
	if err != nil {
		return movie.TagAssignment{}, err
	}
	return movie.TagAssignment{UserID: user, MovieID: id, Tag: field(rec, col, "tag")}, nil
}

func parseRating(rec []string, col map[string]int) (movie.Rating, error) {
	user, err := intField(rec, col, "userId")
	if err != nil {
		return movie.Rating{}, err
	}
	id, err := intField(rec, col, "movieId")
	if err != nil {
		return movie.Rating{}, err
	}
	rating, err := floatField(rec, col, "rating")
	if err != nil {
		return movie.Rating{}, err
	}
	return movie.Rating{UserID: user, MovieID: id, Rating: rating}, nil
}

func parseGenomeTag(rec []string, col map[string]int) (movie.GenomeTag, error) {
	id, err := intField(rec, col, "tagId")
	if err != nil {
		return movie.GenomeTag{}, err
	}
	return movie.GenomeTag{ID: id, Tag: field(rec, col, "tag")}, nil
}

func parseGenomeScore(rec []string, col map[string]int) (movie.GenomeScore, error) {
	id, err := intField(rec, col, "movieId")
	if err != nil {
		return movie.GenomeScore{}, err
	}
	tag, err := intField(rec, col, "tagId")
	if err != nil {
		return movie.GenomeScore{}, err
	}
	rel, err := floatField(rec, col, "relevance")
	if err != nil {
		return movie.GenomeScore{}, err
	}
	return movie.GenomeScore{MovieID: id, TagID: tag, Relevance: rel}, nil
}
