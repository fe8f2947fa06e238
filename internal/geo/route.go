package geo

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// ErrEmptyRoute is returned by Validate when a route is required but has no points.
var ErrEmptyRoute = errors.New("route has no points")

// DuplicateOrderError reports two waypoints sharing a sequence order.
type DuplicateOrderError struct {
	DestinationID int
	Order         int
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("destination %d: duplicate sequence order %d", e.DestinationID, e.Order)
}

// InvalidOrderError reports a waypoint whose sequence order is not positive.
type InvalidOrderError struct {
	DestinationID int
	Order         int
}

func (e *InvalidOrderError) Error() string {
	return fmt.Sprintf("destination %d: sequence order must be positive, got %d", e.DestinationID, e.Order)
}

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// RoutePoint is a single waypoint of a destination's trek.
type RoutePoint struct {
	DestinationID int     `json:"destination_id"`
	SequenceOrder int     `json:"sequence_order"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Altitude      int     `json:"altitude"`
	LocationName  string  `json:"location_name,omitempty"`
	Description   string  `json:"description,omitempty"`
}

// Point returns the waypoint's coordinate.
func (p RoutePoint) Point() Point {
	return Point{Lat: p.Latitude, Lon: p.Longitude}
}

// Distance returns the great-circle distance between a and b in kilometers.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// Sorted returns a copy of points ordered by SequenceOrder.
func Sorted(points []RoutePoint) []RoutePoint {
	out := make([]RoutePoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SequenceOrder < out[j].SequenceOrder
	})
	return out
}

// TotalDistance sums the distances between consecutive waypoints.
// Fewer than two points yields 0.
func TotalDistance(points []RoutePoint) float64 {
	if len(points) < 2 {
		return 0
	}

	ordered := Sorted(points)
	var total float64
	for i := 1; i < len(ordered); i++ {
		total += Distance(ordered[i-1].Point(), ordered[i].Point())
	}
	return total
}

// Validate checks that every sequence order is positive and that no two
// points of the same destination share one. When required is true an empty
// route is an error.
func Validate(points []RoutePoint, required bool) error {
	if len(points) == 0 {
		if required {
			return ErrEmptyRoute
		}
		return nil
	}

	type key struct{ dest, order int }
	seen := make(map[key]struct{}, len(points))
	for _, p := range points {
		if p.SequenceOrder <= 0 {
			return &InvalidOrderError{DestinationID: p.DestinationID, Order: p.SequenceOrder}
		}
		k := key{p.DestinationID, p.SequenceOrder}
		if _, dup := seen[k]; dup {
			return &DuplicateOrderError{DestinationID: p.DestinationID, Order: p.SequenceOrder}
		}
		seen[k] = struct{}{}
	}
	return nil
}

// Summary describes a whole route.
type Summary struct {
	Points        int     `json:"points"`
	TotalKm       float64 `json:"total_distance_km"`
	MaxAltitude   int     `json:"max_altitude"`
	ElevationGain int     `json:"elevation_gain"`
}

// Summarize computes cumulative figures for a route. ElevationGain counts
// only the ascending legs.
func Summarize(points []RoutePoint) Summary {
	ordered := Sorted(points)
	s := Summary{Points: len(ordered), TotalKm: TotalDistance(ordered)}
	for i, p := range ordered {
		if p.Altitude > s.MaxAltitude {
			s.MaxAltitude = p.Altitude
		}
		if i > 0 && p.Altitude > ordered[i-1].Altitude {
			s.ElevationGain += p.Altitude - ordered[i-1].Altitude
		}
	}
	return s
}
