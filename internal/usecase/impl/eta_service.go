package impl

import (
	"context"
	"fmt"
	"time"

	"rota/config"
	"rota/internal/domain/entity"
	"rota/internal/infra/geo"
	"rota/internal/infra/traffic"
	"rota/internal/usecase"
)

const (
	confidenceFloor = 30.0
	confidenceCeil  = 100.0

	// confidence decay weights
	decayPerKm          = 0.5
	decayPerTrafficUnit = 20.0
	lowGeocodePenalty   = 15.0
	lowGeocodeThreshold = 0.8
)

type etaService struct {
	cfg *config.PlannerConfig
}

// NewEtaService creates a new arrival prediction service instance
func NewEtaService(cfg *config.PlannerConfig) usecase.EtaUsecase {
	if cfg == nil {
		cfg = config.DefaultPlannerConfig()
	}

	return &etaService{cfg: cfg}
}

// PredictArrivals walks the tour forward from the departure time, estimating
// per-stop arrival windows and a confidence that decays with distance,
// congestion and geocoding quality.
func (s *etaService) PredictArrivals(ctx context.Context, input usecase.PredictArrivalsInput) (*usecase.ArrivalForecast, error) {
	if err := input.Origin.Validate(); err != nil {
		return nil, err
	}

	forecast := &usecase.ArrivalForecast{
		Windows: make([]usecase.ArrivalWindow, 0, len(input.Tour)),
		Tour:    make([]entity.OrderedStop, 0, len(input.Tour)),
		Alerts:  []entity.Alert{},
	}
	if len(input.Tour) == 0 {
		return forecast, nil
	}

	buffer := time.Duration(s.cfg.EtaBufferMinutes * float64(time.Minute))
	serviceTime := time.Duration(s.cfg.ServiceMinutesPerStop * float64(time.Minute))

	cursor := input.StartAt
	for _, stop := range input.Tour {
		arrival := cursor.Add(time.Duration(stop.LegMin * float64(time.Minute)))
		arriveBy := arrival.Add(buffer)
		confidence := s.confidenceFor(stop, traffic.FactorAt(arrival))

		forecast.Windows = append(forecast.Windows, usecase.ArrivalWindow{
			StopID:        stop.ID,
			Order:         stop.Order,
			Arrival:       arrival,
			ArriveBy:      arriveBy,
			ConfidencePct: confidence,
		})

		annotated := stop
		annotated.Arrival = &arrival
		annotated.ArriveBy = &arriveBy
		annotated.ConfidencePct = &confidence
		forecast.Tour = append(forecast.Tour, annotated)

		cursor = arrival.Add(serviceTime)
	}

	last := input.Tour[len(input.Tour)-1]
	forecast.Efficiency = efficiencyRatio(input.Origin.Coordinate, last)
	forecast.Alerts = s.routeAlerts(input, last, forecast.Efficiency)

	return forecast, nil
}

// confidenceFor starts at 100 and decays with cumulative distance, the
// congestion level at the predicted arrival, and poor geocoding; clamped to
// [30,100] so a prediction is never reported as hopeless or as certain.
func (s *etaService) confidenceFor(stop entity.OrderedStop, factor float64) float64 {
	confidence := confidenceCeil
	confidence -= stop.CumulativeKm * decayPerKm
	confidence -= (factor - 1) * decayPerTrafficUnit

	if stop.GeocodeConfidence < lowGeocodeThreshold {
		confidence -= lowGeocodePenalty
	}

	if confidence < confidenceFloor {
		return confidenceFloor
	}
	if confidence > confidenceCeil {
		return confidenceCeil
	}

	return confidence
}

func (s *etaService) routeAlerts(input usecase.PredictArrivalsInput, last entity.OrderedStop, efficiency float64) []entity.Alert {
	alerts := []entity.Alert{}

	if last.CumulativeKm > s.cfg.LongRouteKm {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertWarning,
			Message:  fmt.Sprintf("route covers %.1f km, above the %.0f km threshold", last.CumulativeKm, s.cfg.LongRouteKm),
			Action:   "consider splitting the route across two days",
		})
	}

	if factor := traffic.FactorAt(input.StartAt); factor >= 1.5 {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertWarning,
			Message:  fmt.Sprintf("departure falls in a congestion band (factor %.1f)", factor),
			Action:   "consider departing outside peak hours",
		})
	}

	if efficiency < s.cfg.MinEfficiency {
		alerts = append(alerts, entity.Alert{
			Severity: entity.AlertInfo,
			Message:  fmt.Sprintf("route efficiency %.2f is below %.2f", efficiency, s.cfg.MinEfficiency),
			Action:   "consider regrouping stops by area",
		})
	}

	return alerts
}

// efficiencyRatio compares the straight line from origin to the last stop
// against the distance actually driven. Low values flag zig-zag routes.
func efficiencyRatio(origin entity.Coordinate, last entity.OrderedStop) float64 {
	if last.CumulativeKm <= 0 {
		return 0
	}

	return geo.Distance(origin, last.Coordinate) / last.CumulativeKm
}
