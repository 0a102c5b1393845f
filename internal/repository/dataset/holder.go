package dataset

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/movierec/internal/domain"
	domds "github.com/kailas-cloud/movierec/internal/domain/dataset"
	"github.com/kailas-cloud/movierec/internal/metrics"
)

// Source produces a fresh bundle.
type Source interface {
	Load(ctx context.Context) (*domds.Bundle, error)
}

// Holder publishes dataset snapshots.
// Readers get whichever bundle is current when they ask and keep it for the
// whole request; a reload swaps the pointer and never mutates a published bundle.
type Holder struct {
	src     Source
	current atomic.Pointer[domds.Bundle]
	reload  sync.Mutex
	logger  *zap.Logger
}

// NewHolder creates an empty holder. Call Reload to publish the first snapshot.
func NewHolder(src Source, logger *zap.Logger) *Holder {
	return &Holder{src: src, logger: logger}
}

// Current returns the published bundle, or ErrDatasetNotReady before the first load.
func (h *Holder) Current() (*domds.Bundle, error) {
	b := h.current.Load()
	if b == nil {
		return nil, domain.ErrDatasetNotReady
	}
	return b, nil
}

// Ready reports whether a bundle has been published.
func (h *Holder) Ready() bool {
	return h.current.Load() != nil
}

// Reload loads a new bundle and publishes it. On failure the current bundle stays in place.
func (h *Holder) Reload(ctx context.Context) error {
	h.reload.Lock()
	defer h.reload.Unlock()

	start := time.Now()
	b, err := h.src.Load(ctx)
	if err != nil {
		metrics.DatasetReloadsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("load dataset: %w", err)
	}
	took := time.Since(start)

	prev := h.current.Swap(b)
	metrics.DatasetReloadsTotal.WithLabelValues("ok").Inc()
	observe(b, took)

	st := b.Stats()
	fields := []zap.Field{
		zap.String("version", b.Version()),
		zap.Int("movies", st.Movies),
		zap.Int("dropped_movies", st.DroppedMovies),
		zap.Int("tag_assignments", st.TagAssignments),
		zap.Int("ratings", st.Ratings),
		zap.Int("genome_movies", st.GenomeMovies),
		zap.Int("genome_tags", st.GenomeTags),
		zap.Int("links", st.Links),
		zap.Duration("took", took),
	}
	if prev != nil {
		fields = append(fields, zap.String("previous_version", prev.Version()))
	}
	h.logger.Info("Dataset published", fields...)
	return nil
}

func observe(b *domds.Bundle, took time.Duration) {
	st := b.Stats()
	metrics.DatasetRows.WithLabelValues("movies").Set(float64(st.Movies))
	metrics.DatasetRows.WithLabelValues("tags").Set(float64(st.TagAssignments))
	metrics.DatasetRows.WithLabelValues("ratings").Set(float64(st.Ratings))
	metrics.DatasetRows.WithLabelValues("genome_movies").Set(float64(st.GenomeMovies))
	metrics.DatasetRows.WithLabelValues("genome_tags").Set(float64(st.GenomeTags))
	metrics.DatasetRows.WithLabelValues("links").Set(float64(st.Links))
	metrics.DatasetLoadDuration.Set(took.Seconds())
	metrics.DatasetLoadedTimestamp.Set(float64(st.LoadedAt.Unix()))
}
