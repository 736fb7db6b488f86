package matching

import (
	"context"
	"log"

	"traceroad/pkg/datastructure"
)

// Router is what SegmentMatcher needs from the fallback router.
type Router interface {
	Resolve(ctx context.Context, regionID int64, waypoints datastructure.Polyline) datastructure.Polyline
}

// SegmentMatcher applies the fallback router to every trajectory segment.
// Each segment is independent: one unroutable segment never aborts the
// batch, it just contributes a nil entry.
type SegmentMatcher struct {
	router Router

	failedSegments int
}

func NewSegmentMatcher(router Router) *SegmentMatcher {
	return &SegmentMatcher{router: router}
}

// MatchAll returns one entry per input segment, same order: the matched
// polyline or nil. Segments with fewer than two distinct waypoints are
// skipped without touching the cache or the provider.
func (m *SegmentMatcher) MatchAll(ctx context.Context, segments []datastructure.Segment) []datastructure.Polyline {
	matched := make([]datastructure.Polyline, 0, len(segments))
	for _, seg := range segments {
		waypoints := seg.DistinctWaypoints()
		if len(waypoints) < 2 {
			matched = append(matched, nil)
			continue
		}

		line := m.router.Resolve(ctx, seg.RegionID, waypoints)
		if line == nil {
			m.failedSegments++
			log.Printf("segment %s: no route found", seg.ID)
		}
		matched = append(matched, line)
	}
	return matched
}

// FailedSegments counts eligible segments that produced no match, for
// diagnostics.
func (m *SegmentMatcher) FailedSegments() int {
	return m.failedSegments
}
