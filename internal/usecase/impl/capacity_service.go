package impl

import (
	"context"
	"fmt"

	"rota/internal/domain/entity"
	"rota/internal/usecase"
)

const nearLimitPercent = 90.0

type capacityService struct{}

// NewCapacityService creates a new cargo capacity validator instance
func NewCapacityService() usecase.CapacityUsecase {
	return &capacityService{}
}

// Validate compares an aggregate load against the vehicle limits.
func (s *capacityService) Validate(ctx context.Context, vehicle entity.Vehicle, load entity.CargoLoad) (*usecase.CapacityResult, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := load.Validate(); err != nil {
		return nil, err
	}

	weightPct := load.WeightKg / vehicle.WeightCapacityKg * 100
	volumePct := float64(load.Volumes) / float64(vehicle.VolumeCapacity) * 100

	result := &usecase.CapacityResult{
		Fits:           weightPct <= 100 && volumePct <= 100,
		WeightPercent:  weightPct,
		VolumePercent:  volumePct,
		WeightMarginKg: vehicle.WeightCapacityKg - load.WeightKg,
		VolumeMargin:   vehicle.VolumeCapacity - load.Volumes,
		Alerts:         []entity.Alert{},
	}

	if weightPct > 100 {
		result.Alerts = append(result.Alerts, entity.Alert{
			Severity: entity.AlertWarning,
			Message:  fmt.Sprintf("overweight: load is %.1f%% of the weight capacity", weightPct),
			Action:   "remove cargo or assign a larger vehicle",
		})
	}
	if volumePct > 100 {
		result.Alerts = append(result.Alerts, entity.Alert{
			Severity: entity.AlertWarning,
			Message:  fmt.Sprintf("over-volume: load is %.1f%% of the volume capacity", volumePct),
			Action:   "remove cargo or assign a larger vehicle",
		})
	}
	if result.Fits && (weightPct >= nearLimitPercent || volumePct >= nearLimitPercent) {
		result.Alerts = append(result.Alerts, entity.Alert{
			Severity: entity.AlertInfo,
			Message: fmt.Sprintf("near limit: weight at %.1f%%, volume at %.1f%%",
				weightPct, volumePct),
			Action: "verify the load before departure",
		})
	}

	return result, nil
}

// ValidateRoute accumulates load stop by stop. The full accumulation is
// returned even after an overflow so the caller can see where it occurs.
func (s *capacityService) ValidateRoute(ctx context.Context, vehicle entity.Vehicle, loads []entity.StopLoad) (*usecase.RouteCapacityResult, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	for _, load := range loads {
		if err := load.Validate(); err != nil {
			return nil, err
		}
	}

	result := &usecase.RouteCapacityResult{
		Fits:          true,
		PerStop:       make([]usecase.StopCapacity, 0, len(loads)),
		FirstOverflow: -1,
		Alerts:        []entity.Alert{},
	}

	var runningKg float64
	var runningVolumes int
	for i, load := range loads {
		runningKg += load.WeightKg
		runningVolumes += load.Volumes

		weightPct := runningKg / vehicle.WeightCapacityKg * 100
		volumePct := float64(runningVolumes) / float64(vehicle.VolumeCapacity) * 100
		exceeded := weightPct > 100 || volumePct > 100

		if exceeded && result.FirstOverflow < 0 {
			result.FirstOverflow = i
			result.Fits = false
			result.Alerts = append(result.Alerts, entity.Alert{
				Severity: entity.AlertWarning,
				Message: fmt.Sprintf("capacity exceeded at stop %d of %d (weight %.1f%%, volume %.1f%%)",
					i+1, len(loads), weightPct, volumePct),
				Action: "split the load or schedule a second trip",
			})
		}

		result.PerStop = append(result.PerStop, usecase.StopCapacity{
			StopID:        load.StopID,
			WeightPercent: weightPct,
			VolumePercent: volumePct,
			Exceeded:      exceeded,
		})
	}

	return result, nil
}
