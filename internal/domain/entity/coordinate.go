// Package entity contains the core business objects of the project.
package entity

import (
	"fmt"
	"math"

	domainerrors "rota/internal/domain/errors"
)

// Coordinate is an immutable geographic position.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`  // Degrees, [-90, 90]
	Longitude float64 `json:"longitude"` // Degrees, [-180, 180]
}

// Validate rejects NaN, infinities and out-of-range degrees. Every coordinate
// must pass before entering a computation; the numeric code never re-checks.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return domainerrors.ErrInvalidCoordinate.WithDetails("latitude or longitude is not a finite number")
	}

	if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
		return domainerrors.ErrInvalidCoordinate.WithDetails(
			fmt.Sprintf("(%v, %v) outside [-90,90]x[-180,180]", c.Latitude, c.Longitude))
	}

	return nil
}
