package impl

import (
	"context"
	"testing"

	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareVertices() []entity.Coordinate {
	return []entity.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 10},
		{Latitude: 10, Longitude: 10},
		{Latitude: 10, Longitude: 0},
	}
}

func TestGeofenceService_PointInPolygon(t *testing.T) {
	service := NewGeofenceService()

	inside, err := service.PointInPolygon(context.Background(),
		entity.Coordinate{Latitude: 5, Longitude: 5}, squareVertices())
	require.NoError(t, err)
	assert.True(t, inside)

	outside, err := service.PointInPolygon(context.Background(),
		entity.Coordinate{Latitude: 15, Longitude: 15}, squareVertices())
	require.NoError(t, err)
	assert.False(t, outside)
}

func TestGeofenceService_PointInPolygon_TooFewVertices(t *testing.T) {
	service := NewGeofenceService()

	_, err := service.PointInPolygon(context.Background(),
		entity.Coordinate{Latitude: 5, Longitude: 5},
		squareVertices()[:2])
	assert.ErrorIs(t, err, domainerrors.ErrInvalidGeometry)
}

func TestGeofenceService_PointInCircle(t *testing.T) {
	service := NewGeofenceService()
	center := entity.Coordinate{Latitude: -23.5505, Longitude: -46.6333}

	inside, err := service.PointInCircle(context.Background(), center, center, 5)
	require.NoError(t, err)
	assert.True(t, inside, "the center itself is inside")

	outside, err := service.PointInCircle(context.Background(), rioCoord, center, 5)
	require.NoError(t, err)
	assert.False(t, outside, "Rio is ~357 km from Sao Paulo")
}

func TestGeofenceService_PointInCircle_RejectsNonPositiveRadius(t *testing.T) {
	service := NewGeofenceService()
	center := entity.Coordinate{Latitude: -23.5505, Longitude: -46.6333}

	_, err := service.PointInCircle(context.Background(), center, center, 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidGeometry)

	_, err = service.PointInCircle(context.Background(), center, center, -2)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidGeometry)
}

func TestGeofenceService_PointInCircle_RejectsInvalidCoordinate(t *testing.T) {
	service := NewGeofenceService()

	_, err := service.PointInCircle(context.Background(),
		entity.Coordinate{Latitude: 95, Longitude: 0},
		entity.Coordinate{Latitude: 0, Longitude: 0}, 5)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCoordinate)
}

func TestGeofenceService_ZonesContaining_ContainingZonesFirst(t *testing.T) {
	service := NewGeofenceService()
	point := entity.Coordinate{Latitude: 5, Longitude: 5}
	farCenter := entity.Coordinate{Latitude: 50, Longitude: 50}
	nearCenter := entity.Coordinate{Latitude: 5.01, Longitude: 5.01}

	zones := []entity.Zone{
		{ID: uuid.New(), Label: "far-circle", Kind: entity.ZoneCircle, Center: &farCenter, RadiusKm: 10},
		{ID: uuid.New(), Label: "square", Kind: entity.ZonePolygon, Vertices: squareVertices()},
		{ID: uuid.New(), Label: "near-circle", Kind: entity.ZoneCircle, Center: &nearCenter, RadiusKm: 10},
	}

	results, err := service.ZonesContaining(context.Background(), point, zones)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Contains)
	assert.True(t, results[1].Contains)
	assert.False(t, results[2].Contains)
	// Stable sort preserves the relative order of the containing zones.
	assert.Equal(t, "square", results[0].Label)
	assert.Equal(t, "near-circle", results[1].Label)
	assert.Equal(t, "far-circle", results[2].Label)
}

func TestGeofenceService_ZonesContaining_RejectsMalformedZone(t *testing.T) {
	service := NewGeofenceService()

	zones := []entity.Zone{
		{ID: uuid.New(), Label: "no-center", Kind: entity.ZoneCircle, RadiusKm: 10},
	}

	_, err := service.ZonesContaining(context.Background(),
		entity.Coordinate{Latitude: 0, Longitude: 0}, zones)
	assert.Error(t, err)
}
