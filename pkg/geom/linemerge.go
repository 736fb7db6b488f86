package geom

import (
	"traceroad/pkg/datastructure"
)

// coordinate hash precision: 1e-7 degree (~1cm), matching the exactness the
// stitcher guarantees for shared endpoints.
const keyScale = 1e7

type pointKey struct {
	latE7 int64
	lonE7 int64
}

func keyOf(c datastructure.Coordinate) pointKey {
	return pointKey{
		latE7: int64(c.Lat*keyScale + 0.5*sign(c.Lat)),
		lonE7: int64(c.Lon*keyScale + 0.5*sign(c.Lon)),
	}
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

type atomicSegment struct {
	a, b    pointKey
	visited bool
}

// LineMerger implements the geometry-engine contract the resampler needs:
// union of overlapping lines, then merge of touching endpoints. Overlap
// handling is exact-duplicate removal of atomic sub-segments; merging walks
// endpoint chains through degree-2 points into maximal island polylines.
// Deliberately not a planar-sweep kernel - chunks coming out of the stitcher
// share coordinates exactly when they touch.
type LineMerger struct{}

func NewLineMerger() *LineMerger {
	return &LineMerger{}
}

// UnionAndMerge collapses overlapping/duplicate chunk geometry into a
// minimal set of disjoint island polylines. Disjoint inputs stay separate.
func (lm *LineMerger) UnionAndMerge(lines []datastructure.Polyline) []datastructure.Polyline {
	coordOf := make(map[pointKey]datastructure.Coordinate)
	seen := make(map[[2]pointKey]struct{})
	segments := make([]*atomicSegment, 0)
	incident := make(map[pointKey][]*atomicSegment)

	for _, line := range lines {
		for i := 0; i < len(line)-1; i++ {
			a, b := keyOf(line[i]), keyOf(line[i+1])
			if a == b {
				continue
			}
			if _, ok := coordOf[a]; !ok {
				coordOf[a] = line[i]
			}
			if _, ok := coordOf[b]; !ok {
				coordOf[b] = line[i+1]
			}

			// undirected duplicate removal (the union step)
			normKey := [2]pointKey{a, b}
			if b.latE7 < a.latE7 || (b.latE7 == a.latE7 && b.lonE7 < a.lonE7) {
				normKey = [2]pointKey{b, a}
			}
			if _, dup := seen[normKey]; dup {
				continue
			}
			seen[normKey] = struct{}{}

			seg := &atomicSegment{a: a, b: b}
			segments = append(segments, seg)
			incident[a] = append(incident[a], seg)
			incident[b] = append(incident[b], seg)
		}
	}

	merged := make([]datastructure.Polyline, 0)

	// chains starting at non-degree-2 endpoints
	for _, seg := range segments {
		if seg.visited {
			continue
		}
		var start pointKey
		switch {
		case len(incident[seg.a]) != 2:
			start = seg.a
		case len(incident[seg.b]) != 2:
			start = seg.b
		default:
			continue // interior of a chain or part of a cycle
		}
		merged = append(merged, lm.walkChain(start, seg, incident, coordOf))
	}

	// leftover cycles
	for _, seg := range segments {
		if !seg.visited {
			merged = append(merged, lm.walkChain(seg.a, seg, incident, coordOf))
		}
	}

	return merged
}

func (lm *LineMerger) walkChain(start pointKey, first *atomicSegment,
	incident map[pointKey][]*atomicSegment, coordOf map[pointKey]datastructure.Coordinate) datastructure.Polyline {

	chain := datastructure.Polyline{coordOf[start]}
	curr := start
	seg := first

	for seg != nil && !seg.visited {
		seg.visited = true
		next := seg.a
		if next == curr {
			next = seg.b
		}
		chain = append(chain, coordOf[next])
		curr = next

		seg = nil
		if len(incident[curr]) == 2 {
			for _, candidate := range incident[curr] {
				if !candidate.visited {
					seg = candidate
					break
				}
			}
		}
	}
	return chain
}
