package reccache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/db"
	"github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/domain/recommendation"
	"github.com/kailas-cloud/movierec/internal/recommender"
)

type mockRecommender struct {
	recs  []recommendation.Recommendation
	err   error
	calls int
}

func (m *mockRecommender) Recommend(
	_ context.Context, _ *dataset.Bundle, _ recommender.Request,
) ([]recommendation.Recommendation, error) {
	m.calls++
	return m.recs, m.err
}

// mockKVStore is an in-memory store that records the last TTL.
type mockKVStore struct {
	data    map[string][]byte
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func (m *mockKVStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func newTestCache(t *testing.T, inner *mockRecommender) (*Cached, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{data: make(map[string][]byte)}
	c := New(inner, ms, time.Hour, nil, zap.NewNop())
	return c, ms
}

func testBundle(version string) *dataset.Bundle {
	return dataset.New(version, dataset.Tables{})
}
