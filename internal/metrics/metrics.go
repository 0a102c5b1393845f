// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "movierec"

var registerOnce sync.Once

// Register registers all collectors with reg. Must be called once from main; repeated calls are no-ops.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			httpRequestsInFlight,
			RecommendDuration,
			RecommendResults,
			RecommendErrorsTotal,
			CacheTotal,
			DatasetRows,
			DatasetLoadDuration,
			DatasetLoadedTimestamp,
			DatasetReloadsTotal,
		)
	})
}
