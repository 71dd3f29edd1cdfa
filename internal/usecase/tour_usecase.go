package usecase

import (
	"context"

	"rota/internal/domain/entity"
)

// BuildTourInput carries everything tour construction needs. Stops may be
// empty; the result is then an empty tour, not an error.
type BuildTourInput struct {
	Origin entity.Origin `json:"origin"`
	Stops  []entity.Stop `json:"stops"`
	// Prioritize pre-sorts stops by priority and time-window end before the
	// nearest-neighbor pass.
	Prioritize bool `json:"prioritize"`
}

// TourUsecase builds visiting orders over a set of stops.
type TourUsecase interface {
	// BuildTour orders stops by the greedy nearest-neighbor heuristic from the
	// origin. Output is a permutation of the input: same length, every stop
	// exactly once, cumulative distance non-decreasing.
	BuildTour(ctx context.Context, input BuildTourInput) ([]entity.OrderedStop, error)

	// Sequence records legs over stops in the order given, without reordering.
	// Used when a re-optimization has already decided the order.
	Sequence(ctx context.Context, from entity.Coordinate, stops []entity.Stop) ([]entity.OrderedStop, error)
}
