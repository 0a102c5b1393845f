// Package recommend translates external movie identifiers into strategy runs and back.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/movie"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/logger"
	"github.com/kailas-cloud/movierec/internal/metrics"
	"github.com/kailas-cloud/movierec/internal/recommender"
)

// Config holds service-wide defaults.
type Config struct {
	DefaultTopN   int
	MaxTopN       int
	Weights       recommendation.Weights
	Collaborative recommender.CollaborativeOptions
}

// Query is one recommendation request in external terms.
type Query struct {
	Strategy recommendation.Strategy
	IMDbID   string
	// TopN of 0 selects the configured default.
	TopN int
	// SampleFrac of 0 selects the configured default. Only collaborative and hybrid use it.
	SampleFrac float64
}

// Item is one recommended movie.
type Item struct {
	IMDbID  string
	MovieID int
	Score   float64
}

// Result is the ranked answer to a Query.
type Result struct {
	Strategy recommendation.Strategy
	IMDbID   string
	Items    []Item
}

// IMDbIDs returns the external IDs of the items, best first.
func (r Result) IMDbIDs() []string {
	ids := make([]string, len(r.Items))
	for i, it := range r.Items {
		ids[i] = it.IMDbID
	}
	return ids
}

// Service resolves queries against the current dataset snapshot.
type Service struct {
	snapshots Snapshots
	rec       Recommender
	cfg       Config
}

// New creates a recommendation service. Invalid weights fail with ErrInvalidWeights.
func New(snapshots Snapshots, rec Recommender, cfg Config) (*Service, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Collaborative.Validate(); err != nil {
		return nil, err
	}
	if cfg.DefaultTopN <= 0 || cfg.MaxTopN < cfg.DefaultTopN {
		return nil, fmt.Errorf("%w: default %d, max %d", domain.ErrInvalidTopN, cfg.DefaultTopN, cfg.MaxTopN)
	}
	return &Service{snapshots: snapshots, rec: rec, cfg: cfg}, nil
}

// Recommend returns up to TopN movies similar to the queried one.
func (s *Service) Recommend(ctx context.Context, q Query) (Result, error) {
	start := time.Now()
	label := string(q.Strategy)
	if !q.Strategy.IsValid() {
		label = "unknown"
	}

	res, err := s.recommend(ctx, q)
	if err != nil {
		metrics.RecommendErrorsTotal.WithLabelValues(label, errorType(err)).Inc()
		return Result{}, err
	}

	metrics.RecommendDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.RecommendResults.WithLabelValues(label).Observe(float64(len(res.Items)))

	logger.FromContext(ctx).Debug("Recommendations computed",
		zap.String("strategy", string(q.Strategy)),
		zap.String("imdb_id", res.IMDbID),
		zap.Int("results", len(res.Items)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func (s *Service) recommend(ctx context.Context, q Query) (Result, error) {
	if !q.Strategy.IsValid() {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownStrategy, q.Strategy)
	}

	req, err := s.request(q)
	if err != nil {
		return Result{}, err
	}

	imdbNum, err := movie.ParseIMDbID(q.IMDbID)
	if err != nil {
		return Result{}, err
	}
	imdbID := movie.FormatIMDbID(imdbNum)

	b, err := s.snapshots.Current()
	if err != nil {
		return Result{}, fmt.Errorf("current dataset: %w", err)
	}

	movieID, ok := b.MovieByIMDb(imdbNum)
	if !ok {
		return Result{}, fmt.Errorf("%w: no movie linked to %s", domain.ErrReferenceNotFound, imdbID)
	}
	req.MovieID = movieID

	recs, err := s.rec.Recommend(ctx, b, req)
	if err != nil {
		return Result{}, fmt.Errorf("recommend %s: %w", q.Strategy, err)
	}

	items := make([]Item, 0, len(recs))
	for _, r := range recs {
		n, ok := b.IMDbByMovie(r.MovieID())
		if !ok {
			continue
		}
		items = append(items, Item{
			IMDbID:  movie.FormatIMDbID(n),
			MovieID: r.MovieID(),
			Score:   r.Score(),
		})
	}

	return Result{Strategy: q.Strategy, IMDbID: imdbID, Items: items}, nil
}

func (s *Service) request(q Query) (recommender.Request, error) {
	topN := q.TopN
	if topN == 0 {
		topN = s.cfg.DefaultTopN
	}
	if topN < 1 || topN > s.cfg.MaxTopN {
		return recommender.Request{}, fmt.Errorf("%w: %d not in [1, %d]", domain.ErrInvalidTopN, topN, s.cfg.MaxTopN)
	}

	cf := s.cfg.Collaborative
	if q.SampleFrac != 0 {
		cf.SampleFrac = q.SampleFrac
	}
	if err := cf.Validate(); err != nil {
		return recommender.Request{}, err
	}

	return recommender.Request{
		Strategy:      q.Strategy,
		TopN:          topN,
		Weights:       s.cfg.Weights,
		Collaborative: cf,
	}, nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrReferenceNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTopN),
		errors.Is(err, domain.ErrInvalidSampleFrac),
		errors.Is(err, domain.ErrInvalidExternalID),
		errors.Is(err, domain.ErrUnknownStrategy):
		return "invalid"
	case errors.Is(err, domain.ErrDatasetNotReady):
		return "not_ready"
	default:
		return "internal"
	}
}
