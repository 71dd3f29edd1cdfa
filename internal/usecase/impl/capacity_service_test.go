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

func motoVehicle() entity.Vehicle {
	return entity.Vehicle{
		Type:             "moto",
		WeightCapacityKg: 25,
		VolumeCapacity:   8,
	}
}

func TestCapacityService_Validate_ZeroLoadFits(t *testing.T) {
	service := NewCapacityService()

	result, err := service.Validate(context.Background(), motoVehicle(), entity.CargoLoad{})
	require.NoError(t, err)

	assert.True(t, result.Fits)
	assert.Zero(t, result.WeightPercent)
	assert.Zero(t, result.VolumePercent)
	assert.Equal(t, 25.0, result.WeightMarginKg)
	assert.Equal(t, 8, result.VolumeMargin)
	assert.Empty(t, result.Alerts)
}

func TestCapacityService_Validate_OverweightLoad(t *testing.T) {
	service := NewCapacityService()

	result, err := service.Validate(context.Background(), motoVehicle(), entity.CargoLoad{
		WeightKg: 30,
		Volumes:  5,
	})
	require.NoError(t, err)

	assert.False(t, result.Fits)
	assert.InDelta(t, 120, result.WeightPercent, 1e-9)
	assert.InDelta(t, 62.5, result.VolumePercent, 1e-9)
	assert.InDelta(t, -5, result.WeightMarginKg, 1e-9)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, entity.AlertWarning, result.Alerts[0].Severity)
	assert.Contains(t, result.Alerts[0].Message, "overweight")
}

func TestCapacityService_Validate_OverVolumeLoad(t *testing.T) {
	service := NewCapacityService()

	result, err := service.Validate(context.Background(), motoVehicle(), entity.CargoLoad{
		WeightKg: 10,
		Volumes:  9,
	})
	require.NoError(t, err)

	assert.False(t, result.Fits)
	require.Len(t, result.Alerts, 1)
	assert.Contains(t, result.Alerts[0].Message, "over-volume")
}

func TestCapacityService_Validate_NearLimitInfoAlert(t *testing.T) {
	service := NewCapacityService()

	result, err := service.Validate(context.Background(), motoVehicle(), entity.CargoLoad{
		WeightKg: 23, // 92%
		Volumes:  4,
	})
	require.NoError(t, err)

	assert.True(t, result.Fits)
	require.Len(t, result.Alerts, 1)
	assert.Equal(t, entity.AlertInfo, result.Alerts[0].Severity)
	assert.Contains(t, result.Alerts[0].Message, "near limit")
}

func TestCapacityService_Validate_ExactlyFullFitsWithoutWarning(t *testing.T) {
	service := NewCapacityService()

	result, err := service.Validate(context.Background(), motoVehicle(), entity.CargoLoad{
		WeightKg: 25,
		Volumes:  8,
	})
	require.NoError(t, err)

	assert.True(t, result.Fits)
	for _, alert := range result.Alerts {
		assert.NotEqual(t, entity.AlertWarning, alert.Severity)
	}
}

func TestCapacityService_Validate_RejectsNegativeLoad(t *testing.T) {
	service := NewCapacityService()

	_, err := service.Validate(context.Background(), motoVehicle(), entity.CargoLoad{WeightKg: -1})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCapacity)
}

func TestCapacityService_Validate_RejectsInvalidVehicle(t *testing.T) {
	service := NewCapacityService()

	_, err := service.Validate(context.Background(),
		entity.Vehicle{Type: "moto", WeightCapacityKg: 0, VolumeCapacity: 8},
		entity.CargoLoad{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCapacity)
}

func TestCapacityService_ValidateRoute_AccumulatesAndFlagsOverflow(t *testing.T) {
	service := NewCapacityService()

	loads := []entity.StopLoad{
		{StopID: uuid.New(), CargoLoad: entity.CargoLoad{WeightKg: 10, Volumes: 3}},
		{StopID: uuid.New(), CargoLoad: entity.CargoLoad{WeightKg: 10, Volumes: 3}},
		{StopID: uuid.New(), CargoLoad: entity.CargoLoad{WeightKg: 10, Volumes: 3}},
	}

	result, err := service.ValidateRoute(context.Background(), motoVehicle(), loads)
	require.NoError(t, err)

	assert.False(t, result.Fits)
	assert.Equal(t, 2, result.FirstOverflow)
	require.Len(t, result.PerStop, 3, "full accumulation returned past the overflow")

	assert.False(t, result.PerStop[0].Exceeded)
	assert.False(t, result.PerStop[1].Exceeded)
	assert.True(t, result.PerStop[2].Exceeded)
	assert.InDelta(t, 40, result.PerStop[0].WeightPercent, 1e-9)
	assert.InDelta(t, 80, result.PerStop[1].WeightPercent, 1e-9)
	assert.InDelta(t, 120, result.PerStop[2].WeightPercent, 1e-9)

	require.Len(t, result.Alerts, 1)
	assert.Contains(t, result.Alerts[0].Message, "stop 3 of 3")
}

func TestCapacityService_ValidateRoute_AllWithinLimits(t *testing.T) {
	service := NewCapacityService()

	loads := []entity.StopLoad{
		{StopID: uuid.New(), CargoLoad: entity.CargoLoad{WeightKg: 5, Volumes: 2}},
		{StopID: uuid.New(), CargoLoad: entity.CargoLoad{WeightKg: 5, Volumes: 2}},
	}

	result, err := service.ValidateRoute(context.Background(), motoVehicle(), loads)
	require.NoError(t, err)

	assert.True(t, result.Fits)
	assert.Equal(t, -1, result.FirstOverflow)
	assert.Empty(t, result.Alerts)
}

func TestCapacityService_ValidateRoute_EmptyLoads(t *testing.T) {
	service := NewCapacityService()

	result, err := service.ValidateRoute(context.Background(), motoVehicle(), nil)
	require.NoError(t, err)

	assert.True(t, result.Fits)
	assert.Equal(t, -1, result.FirstOverflow)
	assert.Empty(t, result.PerStop)
}
