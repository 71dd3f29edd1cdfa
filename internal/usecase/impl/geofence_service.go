package impl

import (
	"context"
	"fmt"
	"sort"

	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"
	"rota/internal/infra/geo"
	"rota/internal/usecase"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type geofenceService struct{}

// NewGeofenceService creates a new geofence service instance
func NewGeofenceService() usecase.GeofenceUsecase {
	return &geofenceService{}
}

// PointInCircle reports whether p lies within radiusKm of center.
func (s *geofenceService) PointInCircle(ctx context.Context, p, center entity.Coordinate, radiusKm float64) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	if err := center.Validate(); err != nil {
		return false, err
	}

	if radiusKm <= 0 {
		return false, domainerrors.ErrInvalidGeometry.WithDetails(
			fmt.Sprintf("circle radius %v km must be positive", radiusKm))
	}

	return geo.Distance(p, center) <= radiusKm, nil
}

// PointInPolygon applies orb's planar ray casting (even-odd rule) over the
// vertices in the order given.
func (s *geofenceService) PointInPolygon(ctx context.Context, p entity.Coordinate, vertices []entity.Coordinate) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	if len(vertices) < 3 {
		return false, domainerrors.ErrInvalidGeometry.WithDetails(
			fmt.Sprintf("polygon needs at least 3 vertices, got %d", len(vertices)))
	}
	for _, vertex := range vertices {
		if err := vertex.Validate(); err != nil {
			return false, err
		}
	}

	return planar.RingContains(toRing(vertices), toPoint(p)), nil
}

// ZonesContaining evaluates every zone against p, containing zones first.
func (s *geofenceService) ZonesContaining(ctx context.Context, p entity.Coordinate, zones []entity.Zone) ([]usecase.ZoneResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	results := make([]usecase.ZoneResult, 0, len(zones))
	for _, zone := range zones {
		if err := zone.Validate(); err != nil {
			return nil, err
		}

		var contains bool
		switch zone.Kind {
		case entity.ZoneCircle:
			contains = geo.Distance(p, *zone.Center) <= zone.RadiusKm
		case entity.ZonePolygon:
			contains = planar.RingContains(toRing(zone.Vertices), toPoint(p))
		}

		results = append(results, usecase.ZoneResult{
			ZoneID:   zone.ID,
			Label:    zone.Label,
			Kind:     zone.Kind,
			Contains: contains,
		})
	}

	// Containing zones first, stable within each group.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Contains && !results[j].Contains
	})

	return results, nil
}

func toPoint(c entity.Coordinate) orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

func toRing(vertices []entity.Coordinate) orb.Ring {
	ring := make(orb.Ring, 0, len(vertices)+1)
	for _, vertex := range vertices {
		ring = append(ring, toPoint(vertex))
	}
	// Close the ring; orb expects first == last for a well-formed ring.
	ring = append(ring, ring[0])

	return ring
}
