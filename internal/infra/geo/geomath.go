// Package geo provides great-circle distance math over validated coordinates.
package geo

import (
	"math"

	"rota/internal/domain/entity"
)

const (
	// EarthRadiusKm is the mean Earth radius used by the haversine formula.
	EarthRadiusKm = 6371.0

	// UrbanCorrection approximates street-network distance from straight-line
	// distance in urban grids. Fixed empirical constant, not fitted per city.
	UrbanCorrection = 1.4
)

// Distance returns the great-circle distance between two coordinates in
// kilometers. Symmetric, zero iff a == b, always >= 0. Callers pass
// already-validated coordinates.
func Distance(a, b entity.Coordinate) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lng1 := a.Longitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	lng2 := b.Longitude * math.Pi / 180

	deltaLat := lat2 - lat1
	deltaLng := lng2 - lng1

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// CorrectedDistance is Distance scaled by the urban correction factor; it is
// the distance reported for tour legs.
func CorrectedDistance(a, b entity.Coordinate) float64 {
	return Distance(a, b) * UrbanCorrection
}
