package provider

import (
	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"
)

// rawNode / rawWay are the provider-independent shape of openstreetmap data.
// Both the overpass and the pbf provider funnel through buildGraph.
type rawNode struct {
	ID  int64
	Lat float64
	Lon float64
}

type rawWay struct {
	ID      int64
	NodeIDs []int64
	Tags    map[string]string
}

var walkSkipHighway = map[string]struct{}{
	"motorway":      {},
	"motorway_link": {},
	"trunk":         {},
	"trunk_link":    {},
	"busway":        {},
	"bus_guideway":  {},
	"raceway":       {},
	"construction":  {},
	"proposed":      {},
	"abandoned":     {},
	"platform":      {},
	"elevator":      {},
	"bus_stop":      {},
	"street_lamp":   {},
	"speed_camera":  {},
	"toll_gantry":   {},
}

var driveSkipHighway = map[string]struct{}{
	"footway":      {},
	"pedestrian":   {},
	"path":         {},
	"steps":        {},
	"cycleway":     {},
	"bridleway":    {},
	"corridor":     {},
	"track":        {},
	"busway":       {},
	"bus_guideway": {},
	"raceway":      {},
	"construction": {},
	"proposed":     {},
	"abandoned":    {},
	"platform":     {},
	"elevator":     {},
	"bus_stop":     {},
	"crossing":     {},
	"street_lamp":  {},
	"speed_camera": {},
	"toll_gantry":  {},
}

func acceptWay(way rawWay, networkType string) bool {
	if len(way.NodeIDs) < 2 {
		return false
	}
	highway, ok := way.Tags["highway"]
	if !ok || highway == "" {
		return false
	}
	if way.Tags["area"] == "yes" {
		return false
	}
	switch access := way.Tags["access"]; access {
	case "private", "no":
		return false
	}

	switch networkType {
	case datastructure.NetworkWalk:
		if _, skip := walkSkipHighway[highway]; skip {
			return false
		}
		if way.Tags["foot"] == "no" {
			return false
		}
	case datastructure.NetworkDrive:
		if _, skip := driveSkipHighway[highway]; skip {
			return false
		}
		if way.Tags["motor_vehicle"] == "no" {
			return false
		}
	default:
		return false
	}
	return true
}

// wayDirection reports whether edges are built forward / backward along the
// node order. Walking ignores oneway restrictions.
func wayDirection(way rawWay, networkType string) (forward, backward bool) {
	if networkType == datastructure.NetworkWalk {
		return true, true
	}
	switch way.Tags["oneway"] {
	case "yes", "1", "true":
		return true, false
	case "-1":
		return false, true
	}
	if way.Tags["junction"] == "roundabout" {
		return true, false
	}
	return true, true
}

// buildGraph compresses accepted ways into a routable graph: ways are split
// at intersection nodes (nodes shared by more than one way and way
// endpoints); everything in between becomes the edge geometry.
func buildGraph(networkType string, nodes map[int64]rawNode, ways []rawWay) (*datastructure.Graph, error) {
	accepted := make([]rawWay, 0, len(ways))
	useCount := make(map[int64]int)
	for _, way := range ways {
		if !acceptWay(way, networkType) {
			continue
		}
		// drop node refs without coordinates (clipped extract boundary)
		nodeIDs := make([]int64, 0, len(way.NodeIDs))
		for _, id := range way.NodeIDs {
			if _, ok := nodes[id]; ok {
				nodeIDs = append(nodeIDs, id)
			}
		}
		if len(nodeIDs) < 2 {
			continue
		}
		way.NodeIDs = nodeIDs
		accepted = append(accepted, way)

		for i, id := range nodeIDs {
			useCount[id]++
			if i == 0 || i == len(nodeIDs)-1 {
				useCount[id]++ // endpoints always split
			}
		}
	}

	graph := datastructure.NewGraph(networkType)
	for _, way := range accepted {
		forward, backward := wayDirection(way, networkType)
		chainStart := 0
		for i := 1; i < len(way.NodeIDs); i++ {
			isCut := useCount[way.NodeIDs[i]] >= 2 || i == len(way.NodeIDs)-1
			if !isCut {
				continue
			}
			addCompressedEdge(graph, nodes, way.NodeIDs[chainStart:i+1], forward, backward)
			chainStart = i
		}
	}

	if graph.NumEdges() == 0 {
		return nil, ErrEmptyGraph
	}
	return graph, nil
}

func addCompressedEdge(graph *datastructure.Graph, nodes map[int64]rawNode, chain []int64, forward, backward bool) {
	if len(chain) < 2 {
		return
	}
	geometry := make([]datastructure.Coordinate, 0, len(chain))
	dist := 0.0
	for i, id := range chain {
		n := nodes[id]
		geometry = append(geometry, datastructure.NewCoordinate(n.Lat, n.Lon))
		if i > 0 {
			prev := nodes[chain[i-1]]
			dist += geo.HaversineMeter(prev.Lat, prev.Lon, n.Lat, n.Lon)
		}
	}

	fromID, toID := chain[0], chain[len(chain)-1]
	from := nodes[fromID]
	to := nodes[toID]
	graph.AddNode(datastructure.NewNode(fromID, from.Lat, from.Lon))
	graph.AddNode(datastructure.NewNode(toID, to.Lat, to.Lon))

	if forward {
		graph.AddEdge(fromID, toID, dist, geometry)
	}
	if backward {
		reversed := make([]datastructure.Coordinate, len(geometry))
		for i, c := range geometry {
			reversed[len(geometry)-1-i] = c
		}
		graph.AddEdge(toID, fromID, dist, reversed)
	}
}
