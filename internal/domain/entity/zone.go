package entity

import (
	"fmt"

	domainerrors "rota/internal/domain/errors"

	"github.com/google/uuid"
)

// ZoneKind tags the geometry variant of a zone.
type ZoneKind string

const (
	ZoneCircle  ZoneKind = "circle"
	ZonePolygon ZoneKind = "polygon"
)

// Zone is an operating area used for containment tests. Exactly one geometry
// applies depending on Kind: Center+RadiusKm for circles, Vertices for
// polygons.
type Zone struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Kind  ZoneKind  `json:"kind"`

	Center   *Coordinate  `json:"center,omitempty"`
	RadiusKm float64      `json:"radius_km,omitempty"`
	Vertices []Coordinate `json:"vertices,omitempty"`
}

// Validate rejects malformed geometry at construction rather than deep inside
// a containment test.
func (z Zone) Validate() error {
	switch z.Kind {
	case ZoneCircle:
		if z.Center == nil {
			return domainerrors.ErrInvalidGeometry.WithDetails("circle zone requires a center")
		}
		if err := z.Center.Validate(); err != nil {
			return err
		}
		if z.RadiusKm <= 0 {
			return domainerrors.ErrInvalidGeometry.WithDetails(
				fmt.Sprintf("circle radius %v km must be positive", z.RadiusKm))
		}
	case ZonePolygon:
		if len(z.Vertices) < 3 {
			return domainerrors.ErrInvalidGeometry.WithDetails(
				fmt.Sprintf("polygon needs at least 3 vertices, got %d", len(z.Vertices)))
		}
		for _, vertex := range z.Vertices {
			if err := vertex.Validate(); err != nil {
				return err
			}
		}
	default:
		return domainerrors.ErrInvalidGeometry.WithDetails(
			fmt.Sprintf("unknown zone kind %q", z.Kind))
	}

	return nil
}
