// Package reccache caches computed recommendations in a key-value store.
package reccache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/recommender"
)

const cacheKeyPrefix = "movierec:rec:"

// inner is the wrapped recommender.
type inner interface {
	Recommend(ctx context.Context, b *dataset.Bundle, req recommender.Request) ([]recommendation.Recommendation, error)
}

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	MovieID int     `json:"m"`
	Score   float64 `json:"s"`
}

// Cached wraps a recommender and memoizes its results per dataset version.
type Cached struct {
	inner      inner
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	in inner,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cached {
	return &Cached{
		inner:      in,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Recommend returns a cached result or computes and stores it.
// Cache failures degrade to a miss; only inner errors are returned. Errors are never cached.
func (c *Cached) Recommend(
	ctx context.Context, b *dataset.Bundle, req recommender.Request,
) ([]recommendation.Recommendation, error) {
	key := Key(b.Version(), req)

	if recs, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return recs, nil
	}

	c.incCache("miss")

	recs, err := c.inner.Recommend(ctx, b, req)
	if err != nil {
		return nil, err
	}

	c.putToCache(ctx, key, recs)
	return recs, nil
}

// Key derives the cache key from the dataset version and every parameter that affects the result.
func Key(version string, req recommender.Request) string {
	d := xxhash.New()
	_, _ = fmt.Fprintf(d, "%s|%d|%d|%v|%v|%v|%v|%v|%d",
		req.Strategy, req.MovieID, req.TopN,
		req.Weights.Genre, req.Weights.Tag, req.Weights.Collaborative, req.Weights.Genome,
		req.Collaborative.SampleFrac, req.Collaborative.Seed,
	)
	return cacheKeyPrefix + version + ":" + string(req.Strategy) + ":" + strconv.FormatUint(d.Sum64(), 16)
}

func (c *Cached) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cached) getFromCache(ctx context.Context, key string) ([]recommendation.Recommendation, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	recs := make([]recommendation.Recommendation, len(entries))
	for i, e := range entries {
		recs[i] = recommendation.New(e.MovieID, e.Score)
	}
	return recs, true
}

func (c *Cached) putToCache(ctx context.Context, key string, recs []recommendation.Recommendation) {
	entries := make([]entry, len(recs))
	for i, r := range recs {
		entries[i] = entry{MovieID: r.MovieID(), Score: r.Score()}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}
