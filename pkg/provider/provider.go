package provider

import (
	"context"
	"errors"

	"traceroad/pkg/datastructure"
)

var (
	// ErrEmptyGraph is returned when a fetch succeeded but no routable road
	// was found inside the requested radius. The region cache treats this
	// like any other provider failure and expands the radius.
	ErrEmptyGraph = errors.New("no routable ways inside requested radius")

	ErrUnknownNetworkType = errors.New("unknown network type")
)

// GraphProvider returns a routable road graph around a center point. radiusM
// is in meters. Implementations must be side effect free: the caller owns
// caching. Network-bound implementations should honor ctx for timeouts and
// cancellation, the engine itself never retries beyond the configured
// radius/network ladders.
type GraphProvider interface {
	FetchGraph(ctx context.Context, centerLat, centerLon, radiusM float64, networkType string) (*datastructure.Graph, error)
}
