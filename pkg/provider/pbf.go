package provider

import (
	"context"
	"fmt"
	"log"
	"os"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
)

// PBFProvider builds road graphs from a local .osm.pbf extract. Two scans
// over the file per fetch: highway ways first, then the coordinates of the
// nodes those ways reference. Ways are kept when at least one of their nodes
// falls inside the requested radius.
type PBFProvider struct {
	mapFile string
}

func NewPBFProvider(mapFile string) *PBFProvider {
	return &PBFProvider{mapFile: mapFile}
}

func (p *PBFProvider) FetchGraph(ctx context.Context, centerLat, centerLon, radiusM float64, networkType string) (*datastructure.Graph, error) {
	switch networkType {
	case datastructure.NetworkWalk, datastructure.NetworkDrive:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNetworkType, networkType)
	}

	ways, wantedNodes, err := p.scanWays(ctx)
	if err != nil {
		return nil, err
	}

	nodes, err := p.scanNodes(ctx, wantedNodes)
	if err != nil {
		return nil, err
	}

	clipped := make([]rawWay, 0, len(ways))
	for _, way := range ways {
		inside := false
		for _, id := range way.NodeIDs {
			n, ok := nodes[id]
			if !ok {
				continue
			}
			if geo.HaversineMeter(centerLat, centerLon, n.Lat, n.Lon) <= radiusM {
				inside = true
				break
			}
		}
		if inside {
			clipped = append(clipped, way)
		}
	}

	log.Printf("pbf fetch: %d/%d highway ways inside radius %.0fm", len(clipped), len(ways), radiusM)
	return buildGraph(networkType, nodes, clipped)
}

func (p *PBFProvider) scanWays(ctx context.Context) ([]rawWay, map[int64]struct{}, error) {
	f, err := os.Open(p.mapFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 0)
	defer scanner.Close()

	ways := make([]rawWay, 0)
	wantedNodes := make(map[int64]struct{})
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeWay {
			continue
		}
		way := o.(*osm.Way)
		if way.Tags.Find("highway") == "" || len(way.Nodes) < 2 {
			continue
		}

		tags := make(map[string]string, len(way.Tags))
		for _, tag := range way.Tags {
			tags[tag.Key] = tag.Value
		}
		nodeIDs := make([]int64, 0, len(way.Nodes))
		for _, wn := range way.Nodes {
			nodeIDs = append(nodeIDs, int64(wn.ID))
			wantedNodes[int64(wn.ID)] = struct{}{}
		}
		ways = append(ways, rawWay{ID: int64(way.ID), NodeIDs: nodeIDs, Tags: tags})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("pbf way scan: %w", err)
	}
	return ways, wantedNodes, nil
}

func (p *PBFProvider) scanNodes(ctx context.Context, wanted map[int64]struct{}) (map[int64]rawNode, error) {
	f, err := os.Open(p.mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := osmpbf.New(ctx, f, 0)
	defer scanner.Close()

	nodes := make(map[int64]rawNode, len(wanted))
	for scanner.Scan() {
		o := scanner.Object()
		if o.ObjectID().Type() != osm.TypeNode {
			continue
		}
		node := o.(*osm.Node)
		if _, ok := wanted[int64(node.ID)]; !ok {
			continue
		}
		nodes[int64(node.ID)] = rawNode{ID: int64(node.ID), Lat: node.Lat, Lon: node.Lon}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pbf node scan: %w", err)
	}
	return nodes, nil
}
