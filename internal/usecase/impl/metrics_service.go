package impl

import (
	"context"

	"rota/config"
	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"
	"rota/internal/infra/traffic"
	"rota/internal/usecase"
)

type metricsService struct {
	cfg *config.PlannerConfig
}

// NewMetricsService creates a new route metrics service instance. The config
// is validated at load; divisors are trusted to be positive here.
func NewMetricsService(cfg *config.PlannerConfig) usecase.MetricsUsecase {
	if cfg == nil {
		cfg = config.DefaultPlannerConfig()
	}

	return &metricsService{cfg: cfg}
}

// Compute aggregates distance, time, fuel and cost over a built tour.
func (s *metricsService) Compute(ctx context.Context, input usecase.ComputeMetricsInput) (*entity.RouteMetrics, error) {
	if input.ReturnLegKm < 0 {
		return nil, domainerrors.ErrInvalidStop.WithDetails("return leg distance must be >= 0 km")
	}

	totalKm := input.ReturnLegKm
	if n := len(input.Tour); n > 0 {
		totalKm += input.Tour[n-1].CumulativeKm
	}

	travelTimeMin := totalKm / s.cfg.UrbanSpeedKmh * 60
	serviceTimeMin := float64(len(input.Tour)) * s.cfg.ServiceMinutesPerStop
	totalTimeMin := travelTimeMin + serviceTimeMin

	factor := traffic.FactorAt(input.At)
	fuelLiters := totalKm / s.cfg.FuelConsumptionKmPerLiter

	return &entity.RouteMetrics{
		TotalKm:         totalKm,
		TravelTimeMin:   travelTimeMin,
		ServiceTimeMin:  serviceTimeMin,
		TotalTimeMin:    totalTimeMin,
		AdjustedTimeMin: totalTimeMin * factor,
		FuelLiters:      fuelLiters,
		FuelCost:        fuelLiters * s.cfg.FuelPricePerLiter,
		TrafficFactor:   factor,
	}, nil
}
