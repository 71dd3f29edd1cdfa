package usecase

import (
	"context"

	"rota/internal/domain/entity"

	"github.com/google/uuid"
)

// CapacityResult compares a cargo load against vehicle limits. Fits is true
// iff both percentages are at or below 100.
type CapacityResult struct {
	Fits           bool           `json:"fits"`
	WeightPercent  float64        `json:"weight_percent"`
	VolumePercent  float64        `json:"volume_percent"`
	WeightMarginKg float64        `json:"weight_margin_kg"`
	VolumeMargin   int            `json:"volume_margin"`
	Alerts         []entity.Alert `json:"alerts,omitempty"`
}

// StopCapacity is the running utilization after loading one stop.
type StopCapacity struct {
	StopID        uuid.UUID `json:"stop_id"`
	WeightPercent float64   `json:"weight_percent"`
	VolumePercent float64   `json:"volume_percent"`
	Exceeded      bool      `json:"exceeded"`
}

// RouteCapacityResult accumulates load stop by stop. The full accumulation is
// always returned so the caller can see where an overflow occurs;
// FirstOverflow is the index into PerStop of the earliest excess, or -1.
type RouteCapacityResult struct {
	Fits          bool           `json:"fits"`
	PerStop       []StopCapacity `json:"per_stop"`
	FirstOverflow int            `json:"first_overflow"`
	Alerts        []entity.Alert `json:"alerts,omitempty"`
}

// CapacityUsecase validates cargo loads against vehicle limits.
type CapacityUsecase interface {
	Validate(ctx context.Context, vehicle entity.Vehicle, load entity.CargoLoad) (*CapacityResult, error)
	ValidateRoute(ctx context.Context, vehicle entity.Vehicle, loads []entity.StopLoad) (*RouteCapacityResult, error)
}
