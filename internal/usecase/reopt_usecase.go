package usecase

import (
	"context"

	"rota/internal/domain/entity"

	"github.com/google/uuid"
)

// ReoptimizeAction names what the engine did with an event.
type ReoptimizeAction string

const (
	ActionNone           ReoptimizeAction = "none"
	ActionRebuild        ReoptimizeAction = "rebuild"
	ActionResortByWindow ReoptimizeAction = "resort_by_window"
	ActionMoveToEnd      ReoptimizeAction = "move_to_end"
	ActionInsertBestFit  ReoptimizeAction = "insert_best_fit"
	ActionSkipStop       ReoptimizeAction = "skip_stop"
)

// ReoptimizeInput applies a live event to a finalized tour. Requests for the
// same route ID are serialized; a second in-flight request is rejected busy.
type ReoptimizeInput struct {
	RouteID         uuid.UUID                  `json:"route_id"`
	CurrentPosition entity.Coordinate          `json:"current_position"`
	Tour            []entity.OrderedStop       `json:"tour"`
	Event           entity.ReoptimizationEvent `json:"event"`
}

// ReoptimizationResult reports the corrective action. The prior tour is never
// mutated; Tour is its replacement. Deltas are present only when the tour was
// rebuilt or resequenced, and are savings versus the prior tour (negative
// when the new tour is worse; the caller decides whether to accept).
type ReoptimizationResult struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message"`
	Action       ReoptimizeAction     `json:"action"`
	StopsAltered int                  `json:"stops_altered"`
	Tour         []entity.OrderedStop `json:"tour"`
	SavedKm      *float64             `json:"saved_km,omitempty"`
	SavedMin     *float64             `json:"saved_min,omitempty"`
	Alerts       []entity.Alert       `json:"alerts,omitempty"`
}

// ReoptimizationUsecase classifies live events and drives corrective
// recomputation over the current tour.
type ReoptimizationUsecase interface {
	Reoptimize(ctx context.Context, input ReoptimizeInput) (*ReoptimizationResult, error)
}
