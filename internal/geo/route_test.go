package geo_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekinfo/internal/geo"
)

// Annapurna Base Camp approach, trimmed.
func abcRoute() []geo.RoutePoint {
	return []geo.RoutePoint{
		{DestinationID: 1, SequenceOrder: 1, Latitude: 28.2096, Longitude: 83.9856, Altitude: 820, LocationName: "Pokhara"},
		{DestinationID: 1, SequenceOrder: 2, Latitude: 28.3667, Longitude: 83.8167, Altitude: 1770, LocationName: "Ghandruk"},
		{DestinationID: 1, SequenceOrder: 3, Latitude: 28.4333, Longitude: 83.8500, Altitude: 2170, LocationName: "Chhomrong"},
		{DestinationID: 1, SequenceOrder: 4, Latitude: 28.5300, Longitude: 83.8780, Altitude: 4130, LocationName: "ABC"},
	}
}

func TestDistance_IdenticalPointsIsZero(t *testing.T) {
	p := geo.Point{Lat: 27.9881, Lon: 86.9250}
	assert.Equal(t, 0.0, geo.Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	a := geo.Point{Lat: 27.6857, Lon: 86.7314}
	b := geo.Point{Lat: 28.0026, Lon: 86.8528}
	assert.InDelta(t, geo.Distance(a, b), geo.Distance(b, a), 1e-9)
}

func TestDistance_KnownValue(t *testing.T) {
	// One degree of latitude along a meridian.
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 1, Lon: 0}
	assert.InDelta(t, 111.195, geo.Distance(a, b), 0.01)
}

func TestTotalDistance_SumsConsecutivePairs(t *testing.T) {
	route := abcRoute()
	want := 0.0
	for i := 1; i < len(route); i++ {
		want += geo.Distance(route[i-1].Point(), route[i].Point())
	}
	assert.InDelta(t, want, geo.TotalDistance(route), 1e-9)
}

func TestTotalDistance_OrdersBySequence(t *testing.T) {
	route := abcRoute()
	shuffled := []geo.RoutePoint{route[2], route[0], route[3], route[1]}
	assert.InDelta(t, geo.TotalDistance(route), geo.TotalDistance(shuffled), 1e-9)
	// Input must not be reordered in place.
	assert.Equal(t, 3, shuffled[0].SequenceOrder)
}

func TestTotalDistance_FewerThanTwoPoints(t *testing.T) {
	assert.Equal(t, 0.0, geo.TotalDistance(nil))
	assert.Equal(t, 0.0, geo.TotalDistance(abcRoute()[:1]))
}

func TestValidate(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		require.NoError(t, geo.Validate(abcRoute(), true))
	})

	t.Run("duplicate order", func(t *testing.T) {
		route := abcRoute()
		route[3].SequenceOrder = 2

		err := geo.Validate(route, false)
		var dup *geo.DuplicateOrderError
		require.True(t, errors.As(err, &dup))
		assert.Equal(t, 2, dup.Order)
		assert.Equal(t, 1, dup.DestinationID)
	})

	t.Run("same order on different destinations", func(t *testing.T) {
		route := abcRoute()
		route[3].DestinationID = 2
		route[3].SequenceOrder = 1
		require.NoError(t, geo.Validate(route, true))
	})

	t.Run("non-positive order", func(t *testing.T) {
		for _, order := range []int{0, -3} {
			route := abcRoute()
			route[1].SequenceOrder = order

			err := geo.Validate(route, true)
			var bad *geo.InvalidOrderError
			require.True(t, errors.As(err, &bad), "order %d", order)
			assert.Equal(t, order, bad.Order)
			assert.Contains(t, err.Error(), "must be positive")
		}
	})

	t.Run("empty and required", func(t *testing.T) {
		assert.ErrorIs(t, geo.Validate(nil, true), geo.ErrEmptyRoute)
	})

	t.Run("empty and optional", func(t *testing.T) {
		assert.NoError(t, geo.Validate(nil, false))
	})
}

func TestSummarize(t *testing.T) {
	s := geo.Summarize(abcRoute())
	assert.Equal(t, 4, s.Points)
	assert.Equal(t, 4130, s.MaxAltitude)
	assert.Equal(t, 4130-820, s.ElevationGain)
	assert.InDelta(t, geo.TotalDistance(abcRoute()), s.TotalKm, 1e-9)
}

func TestSummarize_DescentNotCounted(t *testing.T) {
	route := []geo.RoutePoint{
		{SequenceOrder: 1, Altitude: 3000},
		{SequenceOrder: 2, Altitude: 2000},
		{SequenceOrder: 3, Altitude: 2500},
	}
	assert.Equal(t, 500, geo.Summarize(route).ElevationGain)
}
