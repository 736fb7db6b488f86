package snap

import (
	"errors"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"

	"github.com/dhconnelly/rtreego"
	"github.com/uber/h3-go/v4"
)

// ErrSnapFailed means a coordinate could not be matched to any node or edge
// of the graph.
var ErrSnapFailed = errors.New("coordinate could not be snapped to the road network")

const (
	h3SnapResolution = 9 // ~174m cell edge
	h3MaxGridRing    = 2

	// tiny padding so degenerate (point-like) edge rects stay valid
	rectPadDeg = 1e-6
)

type edgeItem struct {
	edgeID int32
	rect   *rtreego.Rect
}

func (e *edgeItem) Bounds() *rtreego.Rect {
	return e.rect
}

// NodeSnapper maps a coordinate to the nearest usable node of one graph.
// Primary strategy: h3-bucketed nearest node lookup. Fallback: r-tree
// nearest-edge search, picking whichever edge endpoint is geodesically
// closer. The fallback keeps snapping reliable on sparse graphs where the
// cell lookup comes up empty near dead ends.
type NodeSnapper struct {
	graph     *datastructure.Graph
	nodeCells map[h3.Cell][]int64
	edgeTree  *rtreego.Rtree
}

func NewNodeSnapper(g *datastructure.Graph) *NodeSnapper {
	s := &NodeSnapper{
		graph:     g,
		nodeCells: make(map[h3.Cell][]int64),
		edgeTree:  rtreego.NewTree(2, 25, 50),
	}

	for id, node := range g.Nodes {
		cell := h3.LatLngToCell(h3.NewLatLng(node.Lat, node.Lon), h3SnapResolution)
		s.nodeCells[cell] = append(s.nodeCells[cell], id)
	}

	for _, edge := range g.Edges {
		from, okFrom := g.GetNode(edge.FromNodeID)
		to, okTo := g.GetNode(edge.ToNodeID)
		if !okFrom || !okTo {
			continue
		}
		rect, err := rtreego.NewRectFromPoints(
			rtreego.Point{min(from.Lat, to.Lat) - rectPadDeg, min(from.Lon, to.Lon) - rectPadDeg},
			rtreego.Point{max(from.Lat, to.Lat) + rectPadDeg, max(from.Lon, to.Lon) + rectPadDeg},
		)
		if err != nil {
			continue
		}
		s.edgeTree.Insert(&edgeItem{edgeID: edge.EdgeID, rect: rect})
	}

	return s
}

// SnapNode returns the id of the graph node nearest to c. Fails with
// ErrSnapFailed only when both strategies fail.
func (s *NodeSnapper) SnapNode(c datastructure.Coordinate) (int64, error) {
	if nodeID, ok := s.snapNearestNode(c); ok {
		return nodeID, nil
	}
	if nodeID, ok := s.snapNearestEdgeEndpoint(c); ok {
		return nodeID, nil
	}
	return 0, ErrSnapFailed
}

func (s *NodeSnapper) snapNearestNode(c datastructure.Coordinate) (int64, bool) {
	origin := h3.LatLngToCell(h3.NewLatLng(c.Lat, c.Lon), h3SnapResolution)

	bestID := int64(0)
	bestDist := -1.0
	for _, cell := range h3.GridDisk(origin, h3MaxGridRing) {
		for _, nodeID := range s.nodeCells[cell] {
			node, _ := s.graph.GetNode(nodeID)
			dist := geo.HaversineMeter(c.Lat, c.Lon, node.Lat, node.Lon)
			if bestDist < 0 || dist < bestDist {
				bestDist = dist
				bestID = nodeID
			}
		}
	}
	if bestDist < 0 {
		return 0, false
	}
	return bestID, true
}

func (s *NodeSnapper) snapNearestEdgeEndpoint(c datastructure.Coordinate) (int64, bool) {
	nearest := s.edgeTree.NearestNeighbor(rtreego.Point{c.Lat, c.Lon})
	if nearest == nil {
		return 0, false
	}
	item, ok := nearest.(*edgeItem)
	if !ok {
		return 0, false
	}

	edge := s.graph.GetEdge(item.edgeID)
	from, _ := s.graph.GetNode(edge.FromNodeID)
	to, _ := s.graph.GetNode(edge.ToNodeID)

	du := geo.HaversineMeter(c.Lat, c.Lon, from.Lat, from.Lon)
	dv := geo.HaversineMeter(c.Lat, c.Lon, to.Lat, to.Lon)
	if du <= dv {
		return edge.FromNodeID, true
	}
	return edge.ToNodeID, true
}
