package usecase

import (
	"context"

	"rota/internal/domain/entity"

	"github.com/google/uuid"
)

// ZoneResult is the containment verdict for one zone.
type ZoneResult struct {
	ZoneID   uuid.UUID       `json:"zone_id"`
	Label    string          `json:"label"`
	Kind     entity.ZoneKind `json:"kind"`
	Contains bool            `json:"contains"`
}

// GeofenceUsecase answers geometric containment questions.
type GeofenceUsecase interface {
	// PointInCircle reports whether p lies within radiusKm of center.
	PointInCircle(ctx context.Context, p, center entity.Coordinate, radiusKm float64) (bool, error)

	// PointInPolygon applies the even-odd rule over the vertices in the order
	// given. Works for convex and concave simple polygons; boundary behavior
	// is implementation-defined.
	PointInPolygon(ctx context.Context, p entity.Coordinate, vertices []entity.Coordinate) (bool, error)

	// ZonesContaining evaluates every zone against p. Results are ordered so
	// zones containing p precede the rest, stable within each group.
	ZonesContaining(ctx context.Context, p entity.Coordinate, zones []entity.Zone) ([]ZoneResult, error)
}
