package impl

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rota/config"
	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"
	"rota/internal/infra/geo"
	"rota/internal/usecase"

	"github.com/google/uuid"
)

const (
	defaultHeavyTrafficThreshold = 1.5
	defaultDelayMarginMinutes    = 15.0
)

type reoptService struct {
	tours                 usecase.TourUsecase
	heavyTrafficThreshold float64
	delayMarginMin        float64

	// One in-flight re-optimization per route id; a concurrent request for
	// the same route is rejected busy rather than queued.
	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewReoptimizationService creates a new re-optimization engine instance
func NewReoptimizationService(tours usecase.TourUsecase, cfg *config.PlannerConfig) usecase.ReoptimizationUsecase {
	threshold := defaultHeavyTrafficThreshold
	margin := defaultDelayMarginMinutes
	if cfg != nil && cfg.HeavyTrafficThreshold > 0 {
		threshold = cfg.HeavyTrafficThreshold
	}
	if cfg != nil && cfg.DelayMarginMinutes > 0 {
		margin = cfg.DelayMarginMinutes
	}

	return &reoptService{
		tours:                 tours,
		heavyTrafficThreshold: threshold,
		delayMarginMin:        margin,
		inFlight:              make(map[uuid.UUID]struct{}),
	}
}

// Reoptimize classifies the event and produces a replacement tour. The input
// tour is never mutated.
func (s *reoptService) Reoptimize(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	if err := input.CurrentPosition.Validate(); err != nil {
		return nil, err
	}

	if len(input.Tour) == 0 {
		return nil, domainerrors.ErrEmptyTour.WithDetails("cannot re-optimize a route with no remaining stops")
	}

	if err := input.Event.Validate(); err != nil {
		return nil, err
	}

	if !s.acquire(input.RouteID) {
		return nil, domainerrors.ErrRouteBusy.WithDetails(fmt.Sprintf("route %s", input.RouteID))
	}
	defer s.release(input.RouteID)

	switch input.Event.Scenario {
	case entity.ScenarioCancellation:
		return s.cancelStop(ctx, input)
	case entity.ScenarioHeavyTraffic:
		return s.heavyTraffic(ctx, input)
	case entity.ScenarioAccumulatedDelay:
		return s.accumulatedDelay(ctx, input)
	case entity.ScenarioRecipientAbsent:
		return s.recipientAbsent(ctx, input)
	case entity.ScenarioUrgentNewStop:
		return s.insertUrgentStop(ctx, input)
	case entity.ScenarioUnresolvableAddress:
		return s.skipUnresolvable(ctx, input)
	case entity.ScenarioRescheduledWindow:
		return s.rescheduleWindow(ctx, input)
	default:
		// Event.Validate already rejected unknown tags; kept for exhaustiveness.
		return nil, domainerrors.ErrUnsupportedScenario.WithDetails(string(input.Event.Scenario))
	}
}

// cancelStop removes the withdrawn stop and rebuilds the remaining tour with
// nearest neighbor from the current position.
func (s *reoptService) cancelStop(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	remaining, err := removeStop(input.Tour, *input.Event.TargetStopID)
	if err != nil {
		return nil, err
	}

	if len(remaining) == 0 {
		result := resultWithDeltas(input.Tour, []entity.OrderedStop{}, usecase.ActionRebuild,
			"stop cancelled; no stops remain")
		result.StopsAltered = 1

		return result, nil
	}

	rebuilt, err := s.tours.BuildTour(ctx, usecase.BuildTourInput{
		Origin: positionOrigin(input),
		Stops:  remaining,
	})
	if err != nil {
		return nil, err
	}

	result := resultWithDeltas(input.Tour, rebuilt, usecase.ActionRebuild,
		"stop cancelled; remaining tour rebuilt from current position")
	result.StopsAltered = 1 + changedPositions(input.Tour, rebuilt)

	return result, nil
}

// heavyTraffic re-sorts the remaining stops by time-window urgency when the
// observed factor reaches the configured threshold.
func (s *reoptService) heavyTraffic(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	factor := *input.Event.TrafficFactor
	if factor < s.heavyTrafficThreshold {
		return noActionResult(input.Tour, fmt.Sprintf(
			"traffic factor %.2f below threshold %.2f; keeping current order", factor, s.heavyTrafficThreshold)), nil
	}

	return s.resortByWindow(ctx, input, fmt.Sprintf(
		"heavy traffic (factor %.2f); remaining stops re-sorted by time-window urgency", factor))
}

// accumulatedDelay prioritizes the earliest remaining time windows once the
// delay exceeds the configured margin.
func (s *reoptService) accumulatedDelay(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	delay := *input.Event.DelayMin
	if delay <= s.delayMarginMin {
		return noActionResult(input.Tour, fmt.Sprintf(
			"delay of %.0f min within the %.0f min margin; keeping current order", delay, s.delayMarginMin)), nil
	}

	return s.resortByWindow(ctx, input, fmt.Sprintf(
		"%.0f min behind plan; stops with the earliest windows prioritized", delay))
}

func (s *reoptService) resortByWindow(ctx context.Context, input usecase.ReoptimizeInput, message string) (*usecase.ReoptimizationResult, error) {
	stops := stopsOf(input.Tour)
	sort.SliceStable(stops, func(i, j int) bool {
		return windowEndMinutes(stops[i]) < windowEndMinutes(stops[j])
	})

	resequenced, err := s.tours.Sequence(ctx, input.CurrentPosition, stops)
	if err != nil {
		return nil, err
	}

	result := resultWithDeltas(input.Tour, resequenced, usecase.ActionResortByWindow, message)
	result.StopsAltered = changedPositions(input.Tour, resequenced)

	return result, nil
}

// recipientAbsent pushes the failed stop to the end of the remaining tour.
func (s *reoptService) recipientAbsent(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	targetID := *input.Event.TargetStopID
	idx := indexOf(input.Tour, targetID)
	if idx < 0 {
		return nil, domainerrors.ErrStopNotFound.WithDetails(fmt.Sprintf("stop %s", targetID))
	}

	stops := stopsOf(input.Tour)
	moved := stops[idx]
	stops = append(stops[:idx], stops[idx+1:]...)
	stops = append(stops, moved)

	resequenced, err := s.tours.Sequence(ctx, input.CurrentPosition, stops)
	if err != nil {
		return nil, err
	}

	result := resultWithDeltas(input.Tour, resequenced, usecase.ActionMoveToEnd,
		"recipient not found; stop moved to the end of the tour for a later attempt")
	result.StopsAltered = changedPositions(input.Tour, resequenced)

	return result, nil
}

// insertUrgentStop inserts the new stop at the adjacent position adding the
// least detour. Local search over insertion points, not a full rebuild.
func (s *reoptService) insertUrgentStop(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	newStop := *input.Event.NewStop
	if newStop.Priority == "" {
		newStop.Priority = entity.PriorityHigh
	}

	stops := stopsOf(input.Tour)
	best := bestInsertionIndex(input.CurrentPosition, stops, newStop)

	inserted := make([]entity.Stop, 0, len(stops)+1)
	inserted = append(inserted, stops[:best]...)
	inserted = append(inserted, newStop)
	inserted = append(inserted, stops[best:]...)

	resequenced, err := s.tours.Sequence(ctx, input.CurrentPosition, inserted)
	if err != nil {
		return nil, err
	}

	result := resultWithDeltas(input.Tour, resequenced, usecase.ActionInsertBestFit,
		fmt.Sprintf("urgent stop inserted at position %d", best+1))
	result.StopsAltered = 1 + changedPositions(input.Tour, resequenced)

	return result, nil
}

// skipUnresolvable drops the stop whose address cannot be resolved and flags
// it for manual follow-up.
func (s *reoptService) skipUnresolvable(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	targetID := *input.Event.TargetStopID
	remaining, err := removeStop(input.Tour, targetID)
	if err != nil {
		return nil, err
	}

	resequenced, err := s.tours.Sequence(ctx, input.CurrentPosition, remaining)
	if err != nil {
		return nil, err
	}

	result := resultWithDeltas(input.Tour, resequenced, usecase.ActionSkipStop,
		"unresolvable address; stop skipped")
	result.StopsAltered = 1 + changedPositions(input.Tour, resequenced)
	result.Alerts = append(result.Alerts, entity.Alert{
		Severity: entity.AlertWarning,
		Message:  fmt.Sprintf("stop %s skipped: address could not be resolved", targetID),
		Action:   "flag for manual follow-up",
	})

	return result, nil
}

// rescheduleWindow applies the new window to the target stop and re-runs the
// priority/window pre-sort over the remaining stops.
func (s *reoptService) rescheduleWindow(ctx context.Context, input usecase.ReoptimizeInput) (*usecase.ReoptimizationResult, error) {
	targetID := *input.Event.TargetStopID
	idx := indexOf(input.Tour, targetID)
	if idx < 0 {
		return nil, domainerrors.ErrStopNotFound.WithDetails(fmt.Sprintf("stop %s", targetID))
	}

	stops := stopsOf(input.Tour)
	window := *input.Event.NewWindow
	stops[idx].Window = &window

	resequenced, err := s.tours.Sequence(ctx, input.CurrentPosition, presortStops(stops))
	if err != nil {
		return nil, err
	}

	result := resultWithDeltas(input.Tour, resequenced, usecase.ActionResortByWindow,
		fmt.Sprintf("window of stop %s rescheduled to %s-%s; tour re-sorted", targetID, window.Start, window.End))
	result.StopsAltered = changedPositions(input.Tour, resequenced)

	return result, nil
}

func (s *reoptService) acquire(routeID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[routeID]; busy {
		return false
	}
	s.inFlight[routeID] = struct{}{}

	return true
}

func (s *reoptService) release(routeID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, routeID)
}

// positionOrigin wraps the agent's current position as the origin of a rebuild.
func positionOrigin(input usecase.ReoptimizeInput) entity.Origin {
	return entity.Origin{
		Coordinate: input.CurrentPosition,
		Label:      "current position",
		Source:     entity.OriginSourceGPS,
		CapturedAt: input.Event.OccurredAt,
	}
}

func stopsOf(tour []entity.OrderedStop) []entity.Stop {
	stops := make([]entity.Stop, len(tour))
	for i, ordered := range tour {
		stops[i] = ordered.Stop
	}

	return stops
}

func indexOf(tour []entity.OrderedStop, id uuid.UUID) int {
	for i, ordered := range tour {
		if ordered.ID == id {
			return i
		}
	}

	return -1
}

func removeStop(tour []entity.OrderedStop, id uuid.UUID) ([]entity.Stop, error) {
	idx := indexOf(tour, id)
	if idx < 0 {
		return nil, domainerrors.ErrStopNotFound.WithDetails(fmt.Sprintf("stop %s", id))
	}

	stops := stopsOf(tour)

	return append(stops[:idx], stops[idx+1:]...), nil
}

// bestInsertionIndex returns the position in stops minimizing the corrected
// detour of inserting candidate between its would-be neighbors.
func bestInsertionIndex(from entity.Coordinate, stops []entity.Stop, candidate entity.Stop) int {
	best := 0
	bestDetour := 0.0

	for i := 0; i <= len(stops); i++ {
		prev := from
		if i > 0 {
			prev = stops[i-1].Coordinate
		}

		detour := geo.CorrectedDistance(prev, candidate.Coordinate)
		if i < len(stops) {
			next := stops[i].Coordinate
			detour += geo.CorrectedDistance(candidate.Coordinate, next) - geo.CorrectedDistance(prev, next)
		}

		if i == 0 || detour < bestDetour {
			best = i
			bestDetour = detour
		}
	}

	return best
}

// changedPositions counts stops of the new tour whose visiting order differs
// from the prior tour (stops absent from the prior tour count as changed).
func changedPositions(prior, next []entity.OrderedStop) int {
	priorOrder := make(map[uuid.UUID]int, len(prior))
	for _, ordered := range prior {
		priorOrder[ordered.ID] = ordered.Order
	}

	changed := 0
	for _, ordered := range next {
		if before, ok := priorOrder[ordered.ID]; !ok || before != ordered.Order {
			changed++
		}
	}

	return changed
}

func tourTotals(tour []entity.OrderedStop) (km, min float64) {
	if n := len(tour); n > 0 {
		return tour[n-1].CumulativeKm, tour[n-1].CumulativeMin
	}

	return 0, 0
}

// resultWithDeltas builds a successful result carrying the savings of the new
// tour versus the prior one. Negative savings mean the new tour is worse.
func resultWithDeltas(prior, next []entity.OrderedStop, action usecase.ReoptimizeAction, message string) *usecase.ReoptimizationResult {
	priorKm, priorMin := tourTotals(prior)
	nextKm, nextMin := tourTotals(next)
	savedKm := priorKm - nextKm
	savedMin := priorMin - nextMin

	return &usecase.ReoptimizationResult{
		Success:  true,
		Message:  message,
		Action:   action,
		Tour:     next,
		SavedKm:  &savedKm,
		SavedMin: &savedMin,
	}
}

func noActionResult(tour []entity.OrderedStop, message string) *usecase.ReoptimizationResult {
	return &usecase.ReoptimizationResult{
		Success: true,
		Message: message,
		Action:  usecase.ActionNone,
		Tour:    tour,
	}
}
