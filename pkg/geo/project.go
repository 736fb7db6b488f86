package geo

import (
	"traceroad/pkg/datastructure"

	"github.com/golang/geo/s2"
)

// ProjectPointToSegment projects snap onto the great-circle segment
// (segStart, segEnd) and returns the projected coordinate.
func ProjectPointToSegment(segStart, segEnd, snap datastructure.Coordinate) datastructure.Coordinate {
	startS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(segStart.Lat, segStart.Lon))
	endS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(segEnd.Lat, segEnd.Lon))
	snapS2 := s2.PointFromLatLng(s2.LatLngFromDegrees(snap.Lat, snap.Lon))

	projection := s2.Project(snapS2, startS2, endS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// PointToSegmentDistanceMeter returns the distance in meters from p to its
// projection on the segment (segStart, segEnd).
func PointToSegmentDistanceMeter(segStart, segEnd, p datastructure.Coordinate) float64 {
	proj := ProjectPointToSegment(segStart, segEnd, p)
	return HaversineMeter(p.Lat, p.Lon, proj.Lat, proj.Lon)
}

// PolylineDistanceMeter sums the haversine length of every consecutive pair.
func PolylineDistanceMeter(line datastructure.Polyline) float64 {
	total := 0.0
	for i := 0; i < len(line)-1; i++ {
		total += HaversineMeter(line[i].Lat, line[i].Lon, line[i+1].Lat, line[i+1].Lon)
	}
	return total
}

// MinPolylineSeparationMeter returns the minimum separation between two
// polylines: the smallest distance from any vertex of one line to any segment
// of the other. Symmetric.
func MinPolylineSeparationMeter(a, b datastructure.Polyline) float64 {
	minDist := pointsToLineMinDist(a, b)
	if d := pointsToLineMinDist(b, a); d < minDist {
		minDist = d
	}
	return minDist
}

func pointsToLineMinDist(points, line datastructure.Polyline) float64 {
	minDist := HaversineMeter(points[0].Lat, points[0].Lon, line[0].Lat, line[0].Lon)
	for _, p := range points {
		if len(line) == 1 {
			if d := HaversineMeter(p.Lat, p.Lon, line[0].Lat, line[0].Lon); d < minDist {
				minDist = d
			}
			continue
		}
		for i := 0; i < len(line)-1; i++ {
			if d := PointToSegmentDistanceMeter(line[i], line[i+1], p); d < minDist {
				minDist = d
			}
		}
	}
	return minDist
}
