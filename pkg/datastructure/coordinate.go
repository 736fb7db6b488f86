package datastructure

import (
	"github.com/twpayne/go-polyline"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{Lat: lat, Lon: lon}
}

// Polyline is an ordered coordinate sequence. A matched segment, a bridge,
// a chunk, and a merged island are all polylines.
type Polyline []Coordinate

// AppendDedup appends src to dst, skipping src's first coordinate when it
// exactly equals dst's last one (shared endpoint between consecutive edge
// geometries / bridged lines).
func AppendDedup(dst Polyline, src Polyline) Polyline {
	if len(src) == 0 {
		return dst
	}
	if len(dst) > 0 && dst[len(dst)-1] == src[0] {
		return append(dst, src[1:]...)
	}
	return append(dst, src...)
}

// CompactConsecutive drops exactly repeated consecutive coordinates.
func CompactConsecutive(coords Polyline) Polyline {
	if len(coords) == 0 {
		return coords
	}
	out := make(Polyline, 0, len(coords))
	out = append(out, coords[0])
	for _, c := range coords[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// RenderPath encodes a polyline as a google encoded polyline string.
func RenderPath(path Polyline) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat, p.Lon})
	}
	return string(polyline.EncodeCoords(coords))
}

// Chunk is a maximal continuous matched/bridged polyline produced by the
// stitcher. Always >= 2 coordinates.
type Chunk = Polyline

// Group is a set of chunks joined by spatial proximity (an island before
// geometric merging).
type Group []Chunk
