package health

import "context"

// DatasetChecker reports whether a dataset snapshot is published.
type DatasetChecker interface {
	Ready() bool
}

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
