package grouping_test

import (
	"testing"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/engine/grouping"
	"traceroad/pkg/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// eastLine is a two point chunk running east between the given meter marks.
func eastLine(startM, endM float64) datastructure.Chunk {
	sLat, sLon := geo.GetDestinationPoint(-7.55, 110.77, 90, startM/1000.0)
	eLat, eLon := geo.GetDestinationPoint(-7.55, 110.77, 90, endM/1000.0)
	return datastructure.Chunk{
		datastructure.NewCoordinate(sLat, sLon),
		datastructure.NewCoordinate(eLat, eLon),
	}
}

func TestGroup(t *testing.T) {
	grouper := grouping.NewSpatialGrouper(0.1)

	t.Run("touching chunks share a group", func(t *testing.T) {
		groups := grouper.Group([]datastructure.Chunk{
			eastLine(0, 100),
			eastLine(100, 200), // shares an endpoint
		})
		require.Len(t, groups, 1)
		assert.Len(t, groups[0], 2)
	})

	t.Run("distant chunks stay separate", func(t *testing.T) {
		groups := grouper.Group([]datastructure.Chunk{
			eastLine(0, 100),
			eastLine(500, 600),
		})
		assert.Len(t, groups, 2)
	})

	t.Run("touching is transitive", func(t *testing.T) {
		// a touches b, b touches c, a and c are 200m apart
		groups := grouper.Group([]datastructure.Chunk{
			eastLine(0, 100),
			eastLine(100, 200),
			eastLine(200, 300),
			eastLine(1000, 1100), // unrelated
		})
		require.Len(t, groups, 2)
		assert.Len(t, groups[0], 3)
		assert.Len(t, groups[1], 1)
	})

	t.Run("overlapping chunks group even without shared vertices", func(t *testing.T) {
		groups := grouper.Group([]datastructure.Chunk{
			eastLine(0, 100),
			eastLine(50, 150), // midpoint lies on the first line
		})
		assert.Len(t, groups, 1)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, grouper.Group(nil))
	})
}
