package geo_test

import (
	"testing"

	"traceroad/pkg/datastructure"
	"traceroad/pkg/geo"

	"github.com/stretchr/testify/assert"
)

func TestProjectPointToSegment(t *testing.T) {
	segStart := datastructure.NewCoordinate(-7.55, 110.77)
	segEnd := datastructure.NewCoordinate(-7.55, 110.79)

	t.Run("interior point projects onto the segment", func(t *testing.T) {
		p := datastructure.NewCoordinate(-7.551, 110.78)
		proj := geo.ProjectPointToSegment(segStart, segEnd, p)
		assert.InDelta(t, -7.55, proj.Lat, 1e-4)
		assert.InDelta(t, 110.78, proj.Lon, 1e-4)
	})

	t.Run("point beyond the end clamps to the endpoint", func(t *testing.T) {
		p := datastructure.NewCoordinate(-7.55, 110.85)
		proj := geo.ProjectPointToSegment(segStart, segEnd, p)
		assert.InDelta(t, 110.79, proj.Lon, 1e-4)
	})
}

func TestMinPolylineSeparationMeter(t *testing.T) {
	a := datastructure.Polyline{
		datastructure.NewCoordinate(-7.55, 110.77),
		datastructure.NewCoordinate(-7.55, 110.78),
	}

	t.Run("shared endpoint means zero separation", func(t *testing.T) {
		b := datastructure.Polyline{
			datastructure.NewCoordinate(-7.55, 110.78),
			datastructure.NewCoordinate(-7.55, 110.79),
		}
		assert.InDelta(t, 0.0, geo.MinPolylineSeparationMeter(a, b), 1e-6)
	})

	t.Run("parallel offset lines keep their offset", func(t *testing.T) {
		// ~111m north of a
		b := datastructure.Polyline{
			datastructure.NewCoordinate(-7.549, 110.77),
			datastructure.NewCoordinate(-7.549, 110.78),
		}
		sep := geo.MinPolylineSeparationMeter(a, b)
		assert.InDelta(t, 111.0, sep, 5.0)
	})

	t.Run("vertex closest to segment interior", func(t *testing.T) {
		// single point right above the middle of a
		b := datastructure.Polyline{datastructure.NewCoordinate(-7.5495, 110.775)}
		sep := geo.MinPolylineSeparationMeter(a, b)
		assert.InDelta(t, 55.0, sep, 5.0)
	})
}
