package snap_test

import (
	"testing"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/snap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSnapGraph() *datastructure.Graph {
	g := datastructure.NewGraph(datastructure.NetworkWalk)
	g.AddNode(datastructure.NewNode(1, -7.550, 110.770))
	g.AddNode(datastructure.NewNode(2, -7.550, 110.780))
	g.AddEdge(1, 2, 1100, nil)
	g.AddEdge(2, 1, 1100, nil)
	return g
}

func TestSnapNode(t *testing.T) {
	snapper := snap.NewNodeSnapper(buildSnapGraph())

	t.Run("nearby point snaps to the nearest node", func(t *testing.T) {
		nodeID, err := snapper.SnapNode(datastructure.NewCoordinate(-7.5501, 110.7701))
		require.NoError(t, err)
		assert.Equal(t, int64(1), nodeID)
	})

	t.Run("point near the other node snaps there", func(t *testing.T) {
		nodeID, err := snapper.SnapNode(datastructure.NewCoordinate(-7.5499, 110.7799))
		require.NoError(t, err)
		assert.Equal(t, int64(2), nodeID)
	})

	t.Run("far point falls back to the closer edge endpoint", func(t *testing.T) {
		// ~2.5km from both nodes, outside the cell neighborhood, closer to node 2
		nodeID, err := snapper.SnapNode(datastructure.NewCoordinate(-7.570, 110.790))
		require.NoError(t, err)
		assert.Equal(t, int64(2), nodeID)
	})
}

func TestSnapNodeEmptyGraph(t *testing.T) {
	snapper := snap.NewNodeSnapper(datastructure.NewGraph(datastructure.NetworkWalk))
	_, err := snapper.SnapNode(datastructure.NewCoordinate(-7.55, 110.77))
	assert.ErrorIs(t, err, snap.ErrSnapFailed)
}
