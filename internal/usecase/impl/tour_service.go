// Package impl contains the concrete usecase services.
package impl

import (
	"context"
	"sort"

	"rota/config"
	"rota/internal/domain/entity"
	"rota/internal/infra/geo"
	"rota/internal/usecase"
)

const (
	// fallback defaults to keep planning functional when config is missing/invalid
	defaultUrbanSpeedKmh = 30.0
)

type tourService struct {
	urbanSpeedKmh float64
}

// NewTourService creates a new tour construction service instance
func NewTourService(cfg *config.PlannerConfig) usecase.TourUsecase {
	speedKmh := defaultUrbanSpeedKmh
	if cfg != nil && cfg.UrbanSpeedKmh > 0 {
		speedKmh = cfg.UrbanSpeedKmh
	}

	return &tourService{urbanSpeedKmh: speedKmh}
}

// BuildTour orders stops by greedy nearest neighbor from the origin.
func (s *tourService) BuildTour(ctx context.Context, input usecase.BuildTourInput) ([]entity.OrderedStop, error) {
	if err := input.Origin.Validate(); err != nil {
		return nil, err
	}

	for _, stop := range input.Stops {
		if err := stop.Validate(); err != nil {
			return nil, err
		}
	}

	if len(input.Stops) == 0 {
		return []entity.OrderedStop{}, nil
	}

	candidates := make([]entity.Stop, len(input.Stops))
	copy(candidates, input.Stops)

	if input.Prioritize {
		candidates = presortStops(candidates)
	}

	tour := make([]entity.OrderedStop, 0, len(candidates))
	current := input.Origin.Coordinate
	cumulativeKm := 0.0
	cumulativeMin := 0.0

	for len(candidates) > 0 {
		// Selection uses the raw great-circle distance; ties break to the
		// first candidate in input order (strict less-than), which keeps the
		// ordering deterministic.
		nearest := 0
		nearestKm := geo.Distance(current, candidates[0].Coordinate)
		for i := 1; i < len(candidates); i++ {
			if d := geo.Distance(current, candidates[i].Coordinate); d < nearestKm {
				nearest = i
				nearestKm = d
			}
		}

		chosen := candidates[nearest]
		candidates = append(candidates[:nearest], candidates[nearest+1:]...)

		// Reported legs carry the urban-corrected distance.
		legKm := geo.CorrectedDistance(current, chosen.Coordinate)
		legMin := legKm / s.urbanSpeedKmh * 60
		cumulativeKm += legKm
		cumulativeMin += legMin

		tour = append(tour, entity.OrderedStop{
			Stop:          chosen,
			Order:         len(tour) + 1,
			LegKm:         legKm,
			CumulativeKm:  cumulativeKm,
			LegMin:        legMin,
			CumulativeMin: cumulativeMin,
		})
		current = chosen.Coordinate
	}

	return tour, nil
}

// Sequence records legs over the stops in the order given.
func (s *tourService) Sequence(ctx context.Context, from entity.Coordinate, stops []entity.Stop) ([]entity.OrderedStop, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}

	for _, stop := range stops {
		if err := stop.Validate(); err != nil {
			return nil, err
		}
	}

	tour := make([]entity.OrderedStop, 0, len(stops))
	current := from
	cumulativeKm := 0.0
	cumulativeMin := 0.0

	for i, stop := range stops {
		legKm := geo.CorrectedDistance(current, stop.Coordinate)
		legMin := legKm / s.urbanSpeedKmh * 60
		cumulativeKm += legKm
		cumulativeMin += legMin

		tour = append(tour, entity.OrderedStop{
			Stop:          stop,
			Order:         i + 1,
			LegKm:         legKm,
			CumulativeKm:  cumulativeKm,
			LegMin:        legMin,
			CumulativeMin: cumulativeMin,
		})
		current = stop.Coordinate
	}

	return tour, nil
}

// presortStops pulls high-priority stops to the front; within a priority,
// stops with an earlier time-window end sort earlier and windowless stops
// sort last. The sort is stable so equal stops keep their input order.
func presortStops(stops []entity.Stop) []entity.Stop {
	sorted := make([]entity.Stop, len(stops))
	copy(sorted, stops)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := sorted[i].Priority.Rank(), sorted[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}

		return windowEndMinutes(sorted[i]) < windowEndMinutes(sorted[j])
	})

	return sorted
}

// windowEndMinutes sorts windowless stops after any windowed stop.
func windowEndMinutes(stop entity.Stop) int {
	if stop.Window == nil {
		return 24 * 60
	}

	return stop.Window.End.Minutes()
}
