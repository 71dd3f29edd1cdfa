package entity

import (
	"fmt"

	domainerrors "rota/internal/domain/errors"

	"github.com/google/uuid"
)

// Vehicle describes the carrying limits of a delivery vehicle.
type Vehicle struct {
	Type             string  `json:"type"` // e.g. "moto", "van"
	WeightCapacityKg float64 `json:"weight_capacity_kg"`
	VolumeCapacity   int     `json:"volume_capacity"` // number of volumes
}

// Validate rejects non-positive capacities before any percentage is computed.
func (v Vehicle) Validate() error {
	if v.WeightCapacityKg <= 0 {
		return domainerrors.ErrInvalidCapacity.WithDetails(
			fmt.Sprintf("weight capacity %v must be positive", v.WeightCapacityKg))
	}

	if v.VolumeCapacity <= 0 {
		return domainerrors.ErrInvalidCapacity.WithDetails(
			fmt.Sprintf("volume capacity %d must be positive", v.VolumeCapacity))
	}

	return nil
}

// CargoLoad is a weight/volume pair, per stop or aggregate.
type CargoLoad struct {
	WeightKg float64 `json:"weight_kg"`
	Volumes  int     `json:"volumes"`
}

// Validate rejects negative loads.
func (l CargoLoad) Validate() error {
	if l.WeightKg < 0 {
		return domainerrors.ErrInvalidCapacity.WithDetails(
			fmt.Sprintf("load weight %v must be >= 0", l.WeightKg))
	}

	if l.Volumes < 0 {
		return domainerrors.ErrInvalidCapacity.WithDetails(
			fmt.Sprintf("load volumes %d must be >= 0", l.Volumes))
	}

	return nil
}

// StopLoad attaches a cargo load to a stop for route-level accumulation.
type StopLoad struct {
	StopID uuid.UUID `json:"stop_id"`
	CargoLoad
}
