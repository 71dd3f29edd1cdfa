package usecase

import (
	"context"
	"time"

	"rota/internal/domain/entity"

	"github.com/google/uuid"
)

// PredictArrivalsInput walks a tour forward from a departure time. The origin
// is needed for the route efficiency ratio.
type PredictArrivalsInput struct {
	Origin  entity.Origin        `json:"origin"`
	Tour    []entity.OrderedStop `json:"tour"`
	StartAt time.Time            `json:"start_at"`
}

// ArrivalWindow is the predicted arrival for one stop.
type ArrivalWindow struct {
	StopID        uuid.UUID `json:"stop_id"`
	Order         int       `json:"order"`
	Arrival       time.Time `json:"arrival"`
	ArriveBy      time.Time `json:"arrive_by"`      // arrival plus the configured buffer
	ConfidencePct float64   `json:"confidence_pct"` // clamped to [30,100]
}

// ArrivalForecast is the full prediction output. Alerts are advisory and
// never block the result.
type ArrivalForecast struct {
	Windows []ArrivalWindow      `json:"windows"`
	Tour    []entity.OrderedStop `json:"tour"` // input tour annotated with arrivals
	Alerts  []entity.Alert       `json:"alerts"`
	// Efficiency is straight-line origin-to-last-stop distance divided by the
	// cumulative tour distance. Zero for an empty tour.
	Efficiency float64 `json:"efficiency"`
}

// EtaUsecase predicts per-stop arrival windows with confidence decay.
type EtaUsecase interface {
	PredictArrivals(ctx context.Context, input PredictArrivalsInput) (*ArrivalForecast, error)
}
