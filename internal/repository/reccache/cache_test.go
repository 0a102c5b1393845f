package reccache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/recommender"
)

func genreRequest() recommender.Request {
	return recommender.Request{
		Strategy:      recommendation.Genre,
		MovieID:       1,
		TopN:          5,
		Weights:       recommendation.DefaultWeights(),
		Collaborative: recommender.DefaultCollaborativeOptions(),
	}
}

func TestRecommend_MissThenHit(t *testing.T) {
	inner := &mockRecommender{recs: []recommendation.Recommendation{
		recommendation.New(5, 1),
		recommendation.New(3, 1.0/3.0),
	}}
	c, ms := newTestCache(t, inner)
	b := testBundle("v1")

	first, err := c.Recommend(context.Background(), b, genreRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Len(t, ms.data, 1)
	assert.Equal(t, time.Hour, ms.lastTTL)

	second, err := c.Recommend(context.Background(), b, genreRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls, "second call is served from cache")
	assert.Equal(t, first, second, "scores survive the round trip exactly")
}

func TestRecommend_EmptyResultIsCached(t *testing.T) {
	inner := &mockRecommender{recs: []recommendation.Recommendation{}}
	c, _ := newTestCache(t, inner)
	b := testBundle("v1")

	for range 2 {
		recs, err := c.Recommend(context.Background(), b, genreRequest())
		require.NoError(t, err)
		assert.Empty(t, recs)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestRecommend_ErrorsAreNotCached(t *testing.T) {
	inner := &mockRecommender{err: domain.NewReferenceNotFound(1, "ratings")}
	c, ms := newTestCache(t, inner)

	_, err := c.Recommend(context.Background(), testBundle("v1"), genreRequest())
	require.ErrorIs(t, err, domain.ErrReferenceNotFound)
	assert.Empty(t, ms.data)
}

func TestRecommend_NewDatasetVersionMisses(t *testing.T) {
	inner := &mockRecommender{recs: []recommendation.Recommendation{recommendation.New(2, 0.5)}}
	c, _ := newTestCache(t, inner)

	_, err := c.Recommend(context.Background(), testBundle("v1"), genreRequest())
	require.NoError(t, err)
	_, err = c.Recommend(context.Background(), testBundle("v2"), genreRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestRecommend_StoreFailuresDegradeToMiss(t *testing.T) {
	inner := &mockRecommender{recs: []recommendation.Recommendation{recommendation.New(2, 0.5)}}
	c, ms := newTestCache(t, inner)
	ms.getErr = errors.New("connection refused")
	ms.setErr = errors.New("connection refused")

	recs, err := c.Recommend(context.Background(), testBundle("v1"), genreRequest())
	require.NoError(t, err)
	assert.Equal(t, []int{2}, recommendation.MovieIDs(recs))
}

func TestRecommend_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockRecommender{recs: []recommendation.Recommendation{recommendation.New(2, 0.5)}}
	c, ms := newTestCache(t, inner)
	b := testBundle("v1")
	ms.data[Key(b.Version(), genreRequest())] = []byte("not json")

	recs, err := c.Recommend(context.Background(), b, genreRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, []int{2}, recommendation.MovieIDs(recs))
}

func TestRecommend_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	inner := &mockRecommender{recs: []recommendation.Recommendation{recommendation.New(2, 0.5)}}
	ms := &mockKVStore{data: make(map[string][]byte)}
	c := New(inner, ms, time.Minute, counter, zap.NewNop())
	b := testBundle("v1")

	for range 3 {
		_, err := c.Recommend(context.Background(), b, genreRequest())
		require.NoError(t, err)
	}

	assert.InDelta(t, 1, testutil.ToFloat64(counter.WithLabelValues("miss")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(counter.WithLabelValues("hit")), 0)
}

func TestKey(t *testing.T) {
	base := genreRequest()
	k := Key("v1", base)
	assert.Equal(t, k, Key("v1", base), "deterministic")
	assert.Contains(t, k, "v1:genre:")

	variants := map[string]recommender.Request{}
	r := base
	r.MovieID = 2
	variants["movie"] = r
	r = base
	r.TopN = 10
	variants["top_n"] = r
	r = base
	r.Strategy = recommendation.Tag
	variants["strategy"] = r
	r = base
	r.Collaborative.SampleFrac = 0.5
	variants["sample_frac"] = r
	r = base
	r.Collaborative.Seed = 7
	variants["seed"] = r
	r = base
	r.Weights = recommendation.Weights{Genre: 1}
	variants["weights"] = r

	for name, v := range variants {
		assert.NotEqual(t, k, Key("v1", v), name)
	}
	assert.NotEqual(t, k, Key("v2", base), "version")
}
