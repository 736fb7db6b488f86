package grouping

import (
	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"

	"github.com/dhconnelly/rtreego"
)

const metersPerDegree = 111000.0

type chunkItem struct {
	index int
	rect  *rtreego.Rect
}

func (c *chunkItem) Bounds() *rtreego.Rect {
	return c.rect
}

// SpatialGrouper clusters chunks that geometrically touch (minimum
// separation below a near-zero tolerance) into islands, transitively:
// several independently stitched chunks may share a road and should be
// analyzed as one trajectory mass. An r-tree over padded chunk bounding
// boxes prefilters the pairwise distance checks.
type SpatialGrouper struct {
	toleranceM float64
}

func NewSpatialGrouper(toleranceM float64) *SpatialGrouper {
	return &SpatialGrouper{toleranceM: toleranceM}
}

// Group computes connected components over the touching relation and
// returns one group per component. Chunk order inside a group follows the
// input order; order across groups is not meaningful.
func (sg *SpatialGrouper) Group(chunks []datastructure.Chunk) []datastructure.Group {
	if len(chunks) == 0 {
		return nil
	}

	padDeg := sg.toleranceM/metersPerDegree*2.0 + 1e-7

	tree := rtreego.NewTree(2, 25, 50)
	items := make([]*chunkItem, len(chunks))
	for i, chunk := range chunks {
		items[i] = &chunkItem{index: i, rect: chunkRect(chunk, padDeg)}
		tree.Insert(items[i])
	}

	parent := make([]int, len(chunks))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i, item := range items {
		for _, candidate := range tree.SearchIntersect(item.rect) {
			other := candidate.(*chunkItem)
			if other.index <= i || find(other.index) == find(i) {
				continue
			}
			if geo.MinPolylineSeparationMeter(chunks[i], chunks[other.index]) < sg.toleranceM {
				union(i, other.index)
			}
		}
	}

	componentOf := make(map[int][]int)
	order := make([]int, 0)
	for i := range chunks {
		root := find(i)
		if _, ok := componentOf[root]; !ok {
			order = append(order, root)
		}
		componentOf[root] = append(componentOf[root], i)
	}

	groups := make([]datastructure.Group, 0, len(order))
	for _, root := range order {
		group := make(datastructure.Group, 0, len(componentOf[root]))
		for _, idx := range componentOf[root] {
			group = append(group, chunks[idx])
		}
		groups = append(groups, group)
	}
	return groups
}

func chunkRect(chunk datastructure.Chunk, padDeg float64) *rtreego.Rect {
	minLat, minLon := chunk[0].Lat, chunk[0].Lon
	maxLat, maxLon := minLat, minLon
	for _, c := range chunk[1:] {
		minLat = min(minLat, c.Lat)
		minLon = min(minLon, c.Lon)
		maxLat = max(maxLat, c.Lat)
		maxLon = max(maxLon, c.Lon)
	}
	rect, err := rtreego.NewRectFromPoints(
		rtreego.Point{minLat - padDeg, minLon - padDeg},
		rtreego.Point{maxLat + padDeg, maxLon + padDeg},
	)
	if err != nil {
		// cannot happen with padded corners, fall back to a unit rect
		rect, _ = rtreego.NewRect(rtreego.Point{minLat, minLon}, []float64{padDeg, padDeg})
	}
	return rect
}
