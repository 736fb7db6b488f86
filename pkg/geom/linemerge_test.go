package geom_test

import (
	"testing"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coord(lat, lon float64) datastructure.Coordinate {
	return datastructure.NewCoordinate(lat, lon)
}

func TestUnionAndMerge(t *testing.T) {
	lm := geom.NewLineMerger()

	t.Run("touching lines merge into one island", func(t *testing.T) {
		islands := lm.UnionAndMerge([]datastructure.Polyline{
			{coord(-7.550, 110.770), coord(-7.550, 110.771)},
			{coord(-7.550, 110.771), coord(-7.550, 110.772)},
		})
		require.Len(t, islands, 1)
		assert.Len(t, islands[0], 3)
	})

	t.Run("duplicate geometry unions away", func(t *testing.T) {
		line := datastructure.Polyline{coord(-7.550, 110.770), coord(-7.550, 110.771)}
		reversed := datastructure.Polyline{coord(-7.550, 110.771), coord(-7.550, 110.770)}

		islands := lm.UnionAndMerge([]datastructure.Polyline{line, line, reversed})
		require.Len(t, islands, 1)
		assert.Len(t, islands[0], 2)
	})

	t.Run("disjoint lines stay separate", func(t *testing.T) {
		islands := lm.UnionAndMerge([]datastructure.Polyline{
			{coord(-7.550, 110.770), coord(-7.550, 110.771)},
			{coord(-7.560, 110.770), coord(-7.560, 110.771)},
		})
		assert.Len(t, islands, 2)
	})

	t.Run("junction of degree three splits the chains", func(t *testing.T) {
		center := coord(-7.550, 110.771)
		islands := lm.UnionAndMerge([]datastructure.Polyline{
			{coord(-7.550, 110.770), center},
			{center, coord(-7.550, 110.772)},
			{center, coord(-7.549, 110.771)},
		})
		// three spokes, none may run through the junction
		require.Len(t, islands, 3)
		for _, island := range islands {
			assert.Len(t, island, 2)
		}
	})

	t.Run("closed loop survives as a single ring", func(t *testing.T) {
		a, b, c, d := coord(-7.550, 110.770), coord(-7.550, 110.771), coord(-7.549, 110.771), coord(-7.549, 110.770)
		islands := lm.UnionAndMerge([]datastructure.Polyline{
			{a, b}, {b, c}, {c, d}, {d, a},
		})
		require.Len(t, islands, 1)
		require.Len(t, islands[0], 5)
		assert.Equal(t, islands[0][0], islands[0][4])
	})

	t.Run("overlapping sub segments collapse", func(t *testing.T) {
		// second line re-traces the middle of the first
		islands := lm.UnionAndMerge([]datastructure.Polyline{
			{coord(-7.550, 110.770), coord(-7.550, 110.771), coord(-7.550, 110.772), coord(-7.550, 110.773)},
			{coord(-7.550, 110.771), coord(-7.550, 110.772)},
		})
		require.Len(t, islands, 1)
		assert.Len(t, islands[0], 4)
	})
}
