package resample

import (
	"log"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"
)

// GeometryEngine collapses overlapping/duplicate polylines into a minimal
// set of disjoint islands: touching/overlapping lines merge into one,
// disjoint lines remain separate.
type GeometryEngine interface {
	UnionAndMerge(lines []datastructure.Polyline) []datastructure.Polyline
}

// Resampler walks merged islands and emits uniformly spaced points at the
// configured arc-length step. Accumulated distance is never carried across
// an island boundary - the invariant that prevents spurious long
// straight-line samples bridging two unrelated trajectories.
type Resampler struct {
	engine GeometryEngine
	stepM  float64
}

func NewResampler(engine GeometryEngine, stepM float64) *Resampler {
	return &Resampler{engine: engine, stepM: stepM}
}

// Resample merges the chunks into islands and samples each island
// independently. Output keeps per-island ordering, islands concatenated.
func (r *Resampler) Resample(chunks []datastructure.Chunk) []datastructure.Coordinate {
	lines := make([]datastructure.Polyline, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk) >= 2 {
			lines = append(lines, chunk)
		}
	}
	if len(lines) == 0 {
		return nil
	}

	islands := r.engine.UnionAndMerge(lines)
	log.Printf("resample: %d chunks merged into %d islands", len(lines), len(islands))

	points := make([]datastructure.Coordinate, 0)
	for _, island := range islands {
		points = append(points, r.ResampleIsland(island)...)
	}
	return points
}

// ResampleIsland walks one island and emits its start point plus a point at
// every stepM meters of accumulated arc length, linearly interpolated at
// the exact offset.
func (r *Resampler) ResampleIsland(island datastructure.Polyline) []datastructure.Coordinate {
	if len(island) < 2 || r.stepM <= 0 {
		return nil
	}

	points := []datastructure.Coordinate{island[0]}
	distSince := 0.0

	for i := 0; i < len(island)-1; i++ {
		p1 := island[i]
		p2 := island[i+1]

		segDist := geo.HaversineMeter(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
		traveled := 0.0

		for distSince+(segDist-traveled) >= r.stepM {
			need := r.stepM - distSince
			ratio := 0.0
			if segDist > 0 {
				ratio = (traveled + need) / segDist
			}
			lat, lon := geo.InterpolatePoint(p1.Lat, p1.Lon, p2.Lat, p2.Lon, ratio)
			points = append(points, datastructure.NewCoordinate(lat, lon))

			traveled += need
			distSince = 0.0
		}

		distSince += segDist - traveled
	}

	return points
}
