package provider

import (
	"testing"

	"traceroad/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNodes() map[int64]rawNode {
	return map[int64]rawNode{
		1: {ID: 1, Lat: -7.550, Lon: 110.770},
		2: {ID: 2, Lat: -7.550, Lon: 110.772},
		3: {ID: 3, Lat: -7.550, Lon: 110.774},
		4: {ID: 4, Lat: -7.548, Lon: 110.772},
		5: {ID: 5, Lat: -7.552, Lon: 110.772},
	}
}

func TestBuildGraphCompressesChains(t *testing.T) {
	t.Run("way without interior intersections becomes one edge pair", func(t *testing.T) {
		ways := []rawWay{
			{ID: 10, NodeIDs: []int64{1, 2, 3}, Tags: map[string]string{"highway": "residential"}},
		}
		g, err := buildGraph(datastructure.NetworkDrive, testNodes(), ways)
		require.NoError(t, err)

		assert.Equal(t, 2, g.NumNodes()) // interior node 2 compressed away
		assert.Equal(t, 2, g.NumEdges())

		edge := g.GetEdge(g.GetOutEdges(1)[0])
		assert.Equal(t, int64(3), edge.ToNodeID)
		assert.Len(t, edge.Geometry, 3)
		assert.InDelta(t, 441, edge.Dist, 10) // 0.004 deg lon at -7.55 lat
	})

	t.Run("shared node splits both ways", func(t *testing.T) {
		ways := []rawWay{
			{ID: 10, NodeIDs: []int64{1, 2, 3}, Tags: map[string]string{"highway": "residential"}},
			{ID: 11, NodeIDs: []int64{4, 2, 5}, Tags: map[string]string{"highway": "residential"}},
		}
		g, err := buildGraph(datastructure.NetworkDrive, testNodes(), ways)
		require.NoError(t, err)

		assert.Equal(t, 5, g.NumNodes())
		assert.Equal(t, 8, g.NumEdges()) // 4 undirected edges, both directions
		assert.Len(t, g.GetOutEdges(2), 4)
	})
}

func TestBuildGraphOneway(t *testing.T) {
	cases := []struct {
		name          string
		tags          map[string]string
		edgesFromOne  int
		edgesFromFive bool
	}{
		{
			name:         "oneway yes builds forward only",
			tags:         map[string]string{"highway": "residential", "oneway": "yes"},
			edgesFromOne: 1,
		},
		{
			name:         "oneway -1 builds backward only",
			tags:         map[string]string{"highway": "residential", "oneway": "-1"},
			edgesFromOne: 0,
		},
		{
			name:         "roundabout implies forward only",
			tags:         map[string]string{"highway": "residential", "junction": "roundabout"},
			edgesFromOne: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ways := []rawWay{{ID: 10, NodeIDs: []int64{1, 2, 3}, Tags: tc.tags}}
			g, err := buildGraph(datastructure.NetworkDrive, testNodes(), ways)
			require.NoError(t, err)
			assert.Len(t, g.GetOutEdges(1), tc.edgesFromOne)
		})
	}

	t.Run("walking ignores oneway", func(t *testing.T) {
		ways := []rawWay{
			{ID: 10, NodeIDs: []int64{1, 2, 3}, Tags: map[string]string{"highway": "residential", "oneway": "yes"}},
		}
		g, err := buildGraph(datastructure.NetworkWalk, testNodes(), ways)
		require.NoError(t, err)
		assert.Equal(t, 2, g.NumEdges())
	})
}

func TestAcceptWay(t *testing.T) {
	cases := []struct {
		name        string
		tags        map[string]string
		networkType string
		accepted    bool
	}{
		{"motorway rejected for walking", map[string]string{"highway": "motorway"}, datastructure.NetworkWalk, false},
		{"motorway accepted for driving", map[string]string{"highway": "motorway"}, datastructure.NetworkDrive, true},
		{"footway rejected for driving", map[string]string{"highway": "footway"}, datastructure.NetworkDrive, false},
		{"footway accepted for walking", map[string]string{"highway": "footway"}, datastructure.NetworkWalk, true},
		{"missing highway tag rejected", map[string]string{"building": "yes"}, datastructure.NetworkDrive, false},
		{"area rejected", map[string]string{"highway": "pedestrian", "area": "yes"}, datastructure.NetworkWalk, false},
		{"private access rejected", map[string]string{"highway": "residential", "access": "private"}, datastructure.NetworkDrive, false},
		{"foot=no rejected for walking", map[string]string{"highway": "residential", "foot": "no"}, datastructure.NetworkWalk, false},
		{"motor_vehicle=no rejected for driving", map[string]string{"highway": "residential", "motor_vehicle": "no"}, datastructure.NetworkDrive, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			way := rawWay{ID: 1, NodeIDs: []int64{1, 2}, Tags: tc.tags}
			assert.Equal(t, tc.accepted, acceptWay(way, tc.networkType))
		})
	}
}

func TestBuildGraphEmpty(t *testing.T) {
	t.Run("no routable ways", func(t *testing.T) {
		ways := []rawWay{
			{ID: 10, NodeIDs: []int64{1, 2}, Tags: map[string]string{"building": "yes"}},
		}
		_, err := buildGraph(datastructure.NetworkDrive, testNodes(), ways)
		assert.ErrorIs(t, err, ErrEmptyGraph)
	})

	t.Run("node refs without coordinates are dropped", func(t *testing.T) {
		ways := []rawWay{
			{ID: 10, NodeIDs: []int64{1, 999, 3}, Tags: map[string]string{"highway": "residential"}},
		}
		g, err := buildGraph(datastructure.NetworkDrive, testNodes(), ways)
		require.NoError(t, err)
		edge := g.GetEdge(g.GetOutEdges(1)[0])
		assert.Len(t, edge.Geometry, 2)
	})
}
