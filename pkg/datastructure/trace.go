package datastructure

// Region is a predefined geographic area used to scope road-graph retrieval.
// Owned by the caller, referenced by ID everywhere else.
type Region struct {
	ID        int64   `json:"region_id"`
	CenterLat float64 `json:"center_lat"`
	CenterLon float64 `json:"center_lon"`
}

// Segment is one raw ordered gps trace between two logical stops. RegionID
// is assigned once by the caller (or by the pipeline's nearest-region
// fallback when left at zero with no matching region).
type Segment struct {
	ID          string   `json:"segment_id"`
	RegionID    int64    `json:"region_id"`
	Waypoints   Polyline `json:"waypoints"`
	DurationSec float64  `json:"duration_sec,omitempty"`
}

// DistinctWaypoints returns the waypoints with exactly repeated consecutive
// coordinates removed. A segment needs at least two distinct waypoints to be
// eligible for matching.
func (s Segment) DistinctWaypoints() Polyline {
	return CompactConsecutive(s.Waypoints)
}
