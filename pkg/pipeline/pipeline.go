package pipeline

import (
	"context"
	"log"

	"traceroad/pkg/cache"
	"traceroad/pkg/config"
	"traceroad/pkg/datastructure"
	"traceroad/pkg/engine/grouping"
	"traceroad/pkg/engine/matching"
	"traceroad/pkg/engine/resample"
	"traceroad/pkg/engine/routing"
	"traceroad/pkg/engine/stitching"
	"traceroad/pkg/geo"
	"traceroad/pkg/geom"
	"traceroad/pkg/kv"
	"traceroad/pkg/provider"
)

// Result is everything one run produces for downstream consumers: the
// per-segment matched lines (nil for unmatched), the stitched chunks, the
// proximity groups and the uniform samples per merged island.
type Result struct {
	MatchedLines   []datastructure.Polyline
	Chunks         []datastructure.Chunk
	Groups         []datastructure.Group
	Samples        []datastructure.Coordinate
	FailedSegments int
	BridgesBuilt   int
	ForcedSplits   int
}

// Pipeline wires match -> stitch -> group -> resample. Each Run builds a
// fresh region cache and fresh outputs: nothing is shared across runs except
// the provider and the optional persistent graph store.
type Pipeline struct {
	cfg      *config.Config
	provider provider.GraphProvider
	store    *kv.GraphStore // may be nil
}

func New(cfg *config.Config, p provider.GraphProvider, store *kv.GraphStore) *Pipeline {
	return &Pipeline{cfg: cfg, provider: p, store: store}
}

// Run executes the whole trace-cleaning pass over one batch of segments.
// Single-threaded by design; the region cache built here is single-writer.
func (pl *Pipeline) Run(ctx context.Context, regions []datastructure.Region, segments []datastructure.Segment) (*Result, error) {
	regionCache := cache.NewRegionGraphCache(regions, pl.provider, pl.store,
		pl.cfg.Graph.RadiusBaseM, pl.cfg.Graph.RadiusExpansionsM)

	routeFinder := routing.NewRouteFinder()
	router := matching.NewFallbackRouter(regionCache, pl.provider, routeFinder,
		pl.cfg.Graph.NetworkTypes, pl.cfg.Graph.BBoxPadM)
	matcher := matching.NewSegmentMatcher(router)
	stitcher := stitching.NewPathStitcher(router, stitching.Config{
		GapBreakM:     pl.cfg.Stitch.GapBreakM,
		MaxBridgeTryM: pl.cfg.Stitch.MaxBridgeTryM,
		MaxEndToEndM:  pl.cfg.Stitch.MaxEndToEndM,
		EpsConnectM:   pl.cfg.Stitch.EpsConnectM,
	})
	grouper := grouping.NewSpatialGrouper(pl.cfg.Group.ToleranceM)
	resampler := resample.NewResampler(geom.NewLineMerger(), pl.cfg.Resample.StepM)

	prepared := pl.prepareSegments(regions, segments)

	matched := matcher.MatchAll(ctx, prepared)
	log.Printf("matched %d/%d segments", countMatched(matched), len(segments))

	regionIDs := make([]int64, len(prepared))
	for i, seg := range prepared {
		regionIDs[i] = seg.RegionID
	}

	chunks := stitcher.Stitch(ctx, matched, regionIDs)
	groups := grouper.Group(chunks)
	samples := resampler.Resample(chunks)

	log.Printf("stitched %d chunks into %d groups, %d sample points",
		len(chunks), len(groups), len(samples))

	return &Result{
		MatchedLines:   matched,
		Chunks:         chunks,
		Groups:         groups,
		Samples:        samples,
		FailedSegments: matcher.FailedSegments(),
		BridgesBuilt:   stitcher.BridgesBuilt(),
		ForcedSplits:   stitcher.ForcedSplits(),
	}, nil
}

// prepareSegments assigns missing region ids and clears the waypoints of
// physically implausible traces (gps jumps) so the matcher skips them
// without any network access.
func (pl *Pipeline) prepareSegments(regions []datastructure.Region, segments []datastructure.Segment) []datastructure.Segment {
	known := make(map[int64]struct{}, len(regions))
	for _, r := range regions {
		known[r.ID] = struct{}{}
	}

	prepared := make([]datastructure.Segment, len(segments))
	for i, seg := range segments {
		if _, ok := known[seg.RegionID]; !ok && len(regions) > 0 && len(seg.Waypoints) > 0 {
			seg.RegionID = NearestRegion(regions, seg.Waypoints[0])
		}
		if !pl.plausible(seg) {
			log.Printf("segment %s excluded: implausible ground speed", seg.ID)
			seg.Waypoints = nil
		}
		prepared[i] = seg
	}
	return prepared
}

// plausible rejects traces whose straight-line speed exceeds the ground
// speed limit while also covering a non-local distance - the signature of a
// gps jump between cities, not of fast driving.
func (pl *Pipeline) plausible(seg datastructure.Segment) bool {
	if len(seg.Waypoints) < 2 || seg.DurationSec <= 0 {
		return true
	}
	start := seg.Waypoints[0]
	end := seg.Waypoints[len(seg.Waypoints)-1]
	distM := geo.HaversineMeter(start.Lat, start.Lon, end.Lat, end.Lon)
	speedKmh := distM / seg.DurationSec * 3.6

	return speedKmh <= pl.cfg.Filter.MaxGroundSpeedKmh || distM <= pl.cfg.Filter.MinNonLocalDistanceM
}

// NearestRegion returns the id of the region whose centroid is closest to c.
func NearestRegion(regions []datastructure.Region, c datastructure.Coordinate) int64 {
	best := regions[0].ID
	bestDist := geo.HaversineMeter(c.Lat, c.Lon, regions[0].CenterLat, regions[0].CenterLon)
	for _, r := range regions[1:] {
		if d := geo.HaversineMeter(c.Lat, c.Lon, r.CenterLat, r.CenterLon); d < bestDist {
			bestDist = d
			best = r.ID
		}
	}
	return best
}

func countMatched(lines []datastructure.Polyline) int {
	n := 0
	for _, l := range lines {
		if len(l) >= 2 {
			n++
		}
	}
	return n
}
