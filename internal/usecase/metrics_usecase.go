package usecase

import (
	"context"
	"time"

	"rota/internal/domain/entity"
)

// ComputeMetricsInput aggregates a built tour. At is the reference wall-clock
// time for the traffic factor; the service never reads the ambient clock.
type ComputeMetricsInput struct {
	Tour []entity.OrderedStop `json:"tour"`
	// Optional distance of the return leg to the origin, in km. Zero means no
	// return leg.
	ReturnLegKm float64   `json:"return_leg_km"`
	At          time.Time `json:"at"`
}

// MetricsUsecase derives distance/time/fuel/cost aggregates from a tour.
type MetricsUsecase interface {
	Compute(ctx context.Context, input ComputeMetricsInput) (*entity.RouteMetrics, error)
}
