package cache_test

import (
	"context"
	"testing"

	"traceroad/pkg/cache"
	"traceroad/pkg/datastructure"
	"traceroad/pkg/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetchCall struct {
	radiusM     float64
	networkType string
}

// fakeProvider fails the first failUntil calls, then returns a fixed graph.
type fakeProvider struct {
	calls     []fetchCall
	failUntil int
	graph     *datastructure.Graph
}

func (f *fakeProvider) FetchGraph(_ context.Context, _, _ float64, radiusM float64, networkType string) (*datastructure.Graph, error) {
	f.calls = append(f.calls, fetchCall{radiusM: radiusM, networkType: networkType})
	if len(f.calls) <= f.failUntil {
		return nil, provider.ErrEmptyGraph
	}
	return f.graph, nil
}

func smallGraph() *datastructure.Graph {
	g := datastructure.NewGraph(datastructure.NetworkWalk)
	g.AddNode(datastructure.NewNode(1, -7.55, 110.77))
	g.AddNode(datastructure.NewNode(2, -7.55, 110.78))
	g.AddEdge(1, 2, 1100, nil)
	return g
}

func testRegions() []datastructure.Region {
	return []datastructure.Region{{ID: 7, CenterLat: -7.55, CenterLon: 110.77}}
}

func TestGetWithExpand(t *testing.T) {
	ctx := context.Background()

	t.Run("first radius succeeds", func(t *testing.T) {
		p := &fakeProvider{graph: smallGraph()}
		c := cache.NewRegionGraphCache(testRegions(), p, nil, 5000, []float64{0, 3000, 6000})

		g, err := c.GetWithExpand(ctx, 7, datastructure.NetworkWalk)
		require.NoError(t, err)
		assert.Same(t, p.graph, g)
		require.Len(t, p.calls, 1)
		assert.Equal(t, 5000.0, p.calls[0].radiusM)
	})

	t.Run("provider failure expands the radius", func(t *testing.T) {
		p := &fakeProvider{graph: smallGraph(), failUntil: 2}
		c := cache.NewRegionGraphCache(testRegions(), p, nil, 5000, []float64{0, 3000, 6000})

		g, err := c.GetWithExpand(ctx, 7, datastructure.NetworkWalk)
		require.NoError(t, err)
		assert.NotNil(t, g)
		require.Len(t, p.calls, 3)
		assert.Equal(t, 8000.0, p.calls[1].radiusM)
		assert.Equal(t, 11000.0, p.calls[2].radiusM)
	})

	t.Run("memory hit short circuits the provider", func(t *testing.T) {
		p := &fakeProvider{graph: smallGraph()}
		c := cache.NewRegionGraphCache(testRegions(), p, nil, 5000, []float64{0})

		_, err := c.GetWithExpand(ctx, 7, datastructure.NetworkWalk)
		require.NoError(t, err)
		_, err = c.GetWithExpand(ctx, 7, datastructure.NetworkWalk)
		require.NoError(t, err)

		assert.Len(t, p.calls, 1)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("network types cache independently", func(t *testing.T) {
		p := &fakeProvider{graph: smallGraph()}
		c := cache.NewRegionGraphCache(testRegions(), p, nil, 5000, []float64{0})

		_, err := c.GetWithExpand(ctx, 7, datastructure.NetworkWalk)
		require.NoError(t, err)
		_, err = c.GetWithExpand(ctx, 7, datastructure.NetworkDrive)
		require.NoError(t, err)

		require.Len(t, p.calls, 2)
		assert.Equal(t, datastructure.NetworkDrive, p.calls[1].networkType)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("exhausted ladder fails", func(t *testing.T) {
		p := &fakeProvider{graph: smallGraph(), failUntil: 99}
		c := cache.NewRegionGraphCache(testRegions(), p, nil, 5000, []float64{0, 3000})

		_, err := c.GetWithExpand(ctx, 7, datastructure.NetworkWalk)
		assert.ErrorIs(t, err, cache.ErrGraphUnavailable)
		assert.Len(t, p.calls, 2)
	})

	t.Run("unknown region fails without provider calls", func(t *testing.T) {
		p := &fakeProvider{graph: smallGraph()}
		c := cache.NewRegionGraphCache(testRegions(), p, nil, 5000, nil)

		_, err := c.GetWithExpand(ctx, 404, datastructure.NetworkWalk)
		assert.ErrorIs(t, err, cache.ErrUnknownRegion)
		assert.Empty(t, p.calls)
	})
}

func TestCacheKeyString(t *testing.T) {
	key := cache.CacheKey{RegionID: 7, NetworkType: "walk", RadiusM: 5000}
	assert.Equal(t, "graph/7/walk/5000", key.String())
}
