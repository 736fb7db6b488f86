package datastructure

// network types. determine which roads are eligible for routing.
const (
	NetworkWalk  = "walk"
	NetworkDrive = "drive"
)

type Node struct {
	ID  int64
	Lat float64
	Lon float64
}

func NewNode(id int64, lat, lon float64) Node {
	return Node{ID: id, Lat: lat, Lon: lon}
}

func (n Node) Coordinate() Coordinate {
	return Coordinate{Lat: n.Lat, Lon: n.Lon}
}

// Edge is one directed road segment between two intersection nodes. Dist is
// the summed haversine length of the geometry in meters. Geometry keeps the
// precise road shape (>= 2 coordinates, from-node first); it may be nil for
// synthetic straight edges.
type Edge struct {
	EdgeID     int32
	FromNodeID int64
	ToNodeID   int64
	Dist       float64
	Geometry   []Coordinate
}

// Graph is a directed routable road network. Built once by a graph provider,
// never mutated after insertion into the region cache. All fields stay
// exported so graph blobs can round-trip through the kv store encoder.
type Graph struct {
	Network       string
	Nodes         map[int64]Node
	Edges         []Edge
	FirstOutEdges map[int64][]int32
}

func NewGraph(network string) *Graph {
	return &Graph{
		Network:       network,
		Nodes:         make(map[int64]Node),
		Edges:         make([]Edge, 0),
		FirstOutEdges: make(map[int64][]int32),
	}
}

func (g *Graph) AddNode(n Node) {
	g.Nodes[n.ID] = n
}

func (g *Graph) AddEdge(fromID, toID int64, dist float64, geometry []Coordinate) int32 {
	edgeID := int32(len(g.Edges))
	g.Edges = append(g.Edges, Edge{
		EdgeID:     edgeID,
		FromNodeID: fromID,
		ToNodeID:   toID,
		Dist:       dist,
		Geometry:   geometry,
	})
	g.FirstOutEdges[fromID] = append(g.FirstOutEdges[fromID], edgeID)
	return edgeID
}

func (g *Graph) GetNode(id int64) (Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

func (g *Graph) GetOutEdges(nodeID int64) []int32 {
	return g.FirstOutEdges[nodeID]
}

func (g *Graph) GetEdge(edgeID int32) Edge {
	return g.Edges[edgeID]
}

func (g *Graph) NumNodes() int {
	return len(g.Nodes)
}

func (g *Graph) NumEdges() int {
	return len(g.Edges)
}

// EdgeGeometry returns the precise geometry of an edge when present,
// otherwise the straight segment between its endpoint coordinates.
func (g *Graph) EdgeGeometry(edgeID int32) []Coordinate {
	edge := g.Edges[edgeID]
	if len(edge.Geometry) >= 2 {
		return edge.Geometry
	}
	from := g.Nodes[edge.FromNodeID]
	to := g.Nodes[edge.ToNodeID]
	return []Coordinate{from.Coordinate(), to.Coordinate()}
}
