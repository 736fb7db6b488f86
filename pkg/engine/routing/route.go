package routing

import (
	"traceroad/pkg/datastructure"
	"traceroad/pkg/snap"
)

type cameFromPair struct {
	EdgeID int32
	NodeID int64
}

// RouteFinder turns an ordered list of waypoints into one continuous
// polyline on a given graph: snap every waypoint, run dijkstra between
// consecutive snapped nodes, concatenate the real edge geometries. Any snap
// or search failure makes the whole call return nil - partial routes are
// never returned, the caller treats nil as an unroutable segment.
type RouteFinder struct {
	snappers map[*datastructure.Graph]*snap.NodeSnapper
}

func NewRouteFinder() *RouteFinder {
	return &RouteFinder{
		snappers: make(map[*datastructure.Graph]*snap.NodeSnapper),
	}
}

func (rf *RouteFinder) snapperFor(g *datastructure.Graph) *snap.NodeSnapper {
	if s, ok := rf.snappers[g]; ok {
		return s
	}
	s := snap.NewNodeSnapper(g)
	rf.snappers[g] = s
	return s
}

// Route maps waypoints onto g and returns the stitched polyline, or nil when
// the waypoints cannot be routed. A single remaining node after consecutive
// dedup yields a degenerate zero-length line at that node - a valid
// non-error outcome for a segment whose waypoints all snapped together.
func (rf *RouteFinder) Route(g *datastructure.Graph, waypoints datastructure.Polyline) datastructure.Polyline {
	if len(waypoints) < 2 {
		return nil
	}

	snapper := rf.snapperFor(g)
	nodeIDs := make([]int64, 0, len(waypoints))
	for _, wp := range waypoints {
		nodeID, err := snapper.SnapNode(wp)
		if err != nil {
			return nil
		}
		nodeIDs = append(nodeIDs, nodeID)
	}

	// collapse no-op movement between identical snapped nodes
	uniqueNodes := nodeIDs[:1]
	for _, id := range nodeIDs[1:] {
		if id != uniqueNodes[len(uniqueNodes)-1] {
			uniqueNodes = append(uniqueNodes, id)
		}
	}

	if len(uniqueNodes) < 2 {
		node, ok := g.GetNode(uniqueNodes[0])
		if !ok {
			return nil
		}
		return datastructure.Polyline{node.Coordinate(), node.Coordinate()}
	}

	fullCoords := make(datastructure.Polyline, 0)
	for i := 0; i < len(uniqueNodes)-1; i++ {
		pairCoords := rf.shortestPath(g, uniqueNodes[i], uniqueNodes[i+1])
		if pairCoords == nil {
			return nil
		}
		fullCoords = datastructure.AppendDedup(fullCoords, pairCoords)
	}

	if len(fullCoords) < 2 {
		return nil
	}
	return fullCoords
}

// shortestPath runs dijkstra weighted by edge length and returns the full
// edge geometry of the found path, nil when no path exists. Parallel edges
// between the same node pair lose to the shortest one during relaxation.
func (rf *RouteFinder) shortestPath(g *datastructure.Graph, from, to int64) datastructure.Polyline {
	pq := datastructure.NewMinHeap[int64]()
	pq.Insert(datastructure.PriorityQueueNode[int64]{Rank: 0, Item: from})

	costSoFar := make(map[int64]float64)
	costSoFar[from] = 0.0

	cameFrom := make(map[int64]cameFromPair)
	cameFrom[from] = cameFromPair{EdgeID: -1, NodeID: -1}

	visited := make(map[int64]struct{})

	for {
		current, ok := pq.ExtractMin()
		if !ok {
			return nil
		}

		if current.Item == to {
			return rf.reconstructGeometry(g, cameFrom, from, to)
		}

		if _, ok := visited[current.Item]; ok {
			continue
		}
		visited[current.Item] = struct{}{}

		for _, edgeID := range g.GetOutEdges(current.Item) {
			edge := g.GetEdge(edgeID)
			if _, ok := visited[edge.ToNodeID]; ok {
				continue
			}

			newCost := costSoFar[current.Item] + edge.Dist
			oldCost, seen := costSoFar[edge.ToNodeID]
			if !seen {
				costSoFar[edge.ToNodeID] = newCost
				cameFrom[edge.ToNodeID] = cameFromPair{EdgeID: edgeID, NodeID: current.Item}
				pq.Insert(datastructure.PriorityQueueNode[int64]{Rank: newCost, Item: edge.ToNodeID})
			} else if newCost < oldCost {
				costSoFar[edge.ToNodeID] = newCost
				cameFrom[edge.ToNodeID] = cameFromPair{EdgeID: edgeID, NodeID: current.Item}
				pq.DecreaseKey(datastructure.PriorityQueueNode[int64]{Rank: newCost, Item: edge.ToNodeID})
			}
		}
	}
}

func (rf *RouteFinder) reconstructGeometry(g *datastructure.Graph, cameFrom map[int64]cameFromPair, from, to int64) datastructure.Polyline {
	edgePath := make([]int32, 0)
	for curr := to; curr != from; {
		pair := cameFrom[curr]
		edgePath = append(edgePath, pair.EdgeID)
		curr = pair.NodeID
	}

	coords := make(datastructure.Polyline, 0)
	for i := len(edgePath) - 1; i >= 0; i-- {
		coords = datastructure.AppendDedup(coords, g.EdgeGeometry(edgePath[i]))
	}
	return coords
}
