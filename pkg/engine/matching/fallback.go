package matching

import (
	"context"
	"log"

	"traceroad/pkg/cache"
	"traceroad/pkg/datastructure"
	"traceroad/pkg/engine/routing"
	"traceroad/pkg/geo"
	"traceroad/pkg/provider"
)

// FallbackRouter resolves waypoints to a road-aligned polyline with two
// tiers. Tier 1 walks the configured network-type priority over the cached
// region graphs. Tier 2 downloads a minimal graph around just the first and
// last waypoint, for routes that fall outside every cached region footprint.
// Tiers run strictly in sequence; a nil result means both were exhausted.
type FallbackRouter struct {
	cache        *cache.RegionGraphCache
	provider     provider.GraphProvider
	routeFinder  *routing.RouteFinder
	networkTypes []string
	bboxPadM     float64
}

func NewFallbackRouter(c *cache.RegionGraphCache, p provider.GraphProvider,
	rf *routing.RouteFinder, networkTypes []string, bboxPadM float64) *FallbackRouter {

	if len(networkTypes) == 0 {
		networkTypes = []string{datastructure.NetworkWalk, datastructure.NetworkDrive}
	}
	return &FallbackRouter{
		cache:        c,
		provider:     p,
		routeFinder:  rf,
		networkTypes: networkTypes,
		bboxPadM:     bboxPadM,
	}
}

func usable(line datastructure.Polyline) bool {
	return len(line) >= 2
}

// Resolve returns a matched polyline for the waypoints or nil. Graph fetch
// errors never escape: they only advance the tier walk.
func (fr *FallbackRouter) Resolve(ctx context.Context, regionID int64, waypoints datastructure.Polyline) datastructure.Polyline {
	if len(waypoints) < 2 {
		return nil
	}

	for _, networkType := range fr.networkTypes {
		g, err := fr.cache.GetWithExpand(ctx, regionID, networkType)
		if err != nil {
			log.Printf("region %d graph (%s) unavailable: %v", regionID, networkType, err)
			continue
		}
		if line := fr.routeFinder.Route(g, waypoints); usable(line) {
			return line
		}
	}

	return fr.resolveOutOfRegion(ctx, waypoints)
}

// resolveOutOfRegion is the last resort: a graph covering only the segment's
// own endpoints plus padding.
func (fr *FallbackRouter) resolveOutOfRegion(ctx context.Context, waypoints datastructure.Polyline) datastructure.Polyline {
	start := waypoints[0]
	end := waypoints[len(waypoints)-1]

	centerLat, centerLon := geo.MidPoint(start.Lat, start.Lon, end.Lat, end.Lon)
	radiusM := geo.HaversineMeter(start.Lat, start.Lon, end.Lat, end.Lon)/2.0 + fr.bboxPadM

	for _, networkType := range fr.networkTypes {
		g, err := fr.provider.FetchGraph(ctx, centerLat, centerLon, radiusM, networkType)
		if err != nil {
			continue
		}
		if line := fr.routeFinder.Route(g, waypoints); usable(line) {
			return line
		}
	}
	return nil
}
