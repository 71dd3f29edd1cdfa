package handler

import (
	"log/slog"
	"net/http"
	"time"

	"rota/internal/delivery/http/response"
	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"
	"rota/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// RouteHandlerParams holds dependencies for RouteHandler, injected by Fx.
type RouteHandlerParams struct {
	fx.In

	TourUC    usecase.TourUsecase
	MetricsUC usecase.MetricsUsecase
	EtaUC     usecase.EtaUsecase
	ReoptUC   usecase.ReoptimizationUsecase
	Logger    *slog.Logger
}

// RouteHandler holds dependencies for route planning handlers
type RouteHandler struct {
	tourUC    usecase.TourUsecase
	metricsUC usecase.MetricsUsecase
	etaUC     usecase.EtaUsecase
	reoptUC   usecase.ReoptimizationUsecase
	logger    *slog.Logger
}

// NewRouteHandler is the constructor for RouteHandler
func NewRouteHandler(params RouteHandlerParams) *RouteHandler {
	return &RouteHandler{
		tourUC:    params.TourUC,
		metricsUC: params.MetricsUC,
		etaUC:     params.EtaUC,
		reoptUC:   params.ReoptUC,
		logger:    params.Logger,
	}
}

// BuildTourRequest represents the request body for building a tour
type BuildTourRequest struct {
	Origin     OriginRequest `json:"origin"`
	Stops      []StopRequest `json:"stops" validate:"dive"`
	Prioritize bool          `json:"prioritize"`
}

// ComputeMetricsRequest represents the request body for route metrics
type ComputeMetricsRequest struct {
	Tour        []entity.OrderedStop `json:"tour"`
	ReturnLegKm float64              `json:"return_leg_km" validate:"min=0"`
	// Reference wall-clock time for the traffic factor; defaults to now.
	At *time.Time `json:"at"`
}

// PredictArrivalsRequest represents the request body for arrival prediction
type PredictArrivalsRequest struct {
	Origin  OriginRequest        `json:"origin"`
	Tour    []entity.OrderedStop `json:"tour"`
	StartAt *time.Time           `json:"start_at"`
}

// EventRequest represents a live re-optimization trigger
type EventRequest struct {
	Scenario      string         `json:"scenario" validate:"required"`
	TargetStopID  *string        `json:"target_stop_id" validate:"omitempty,uuid"`
	NewStop       *StopRequest   `json:"new_stop"`
	NewWindow     *WindowRequest `json:"new_window"`
	TrafficFactor *float64       `json:"traffic_factor" validate:"omitempty,gt=0"`
	DelayMin      *float64       `json:"delay_min" validate:"omitempty,min=0"`
	OccurredAt    *time.Time     `json:"occurred_at"`
}

// ReoptimizeRequest represents the request body for re-optimizing a route
type ReoptimizeRequest struct {
	RouteID         string               `json:"route_id" validate:"required,uuid"`
	CurrentPosition CoordinateRequest    `json:"current_position"`
	Tour            []entity.OrderedStop `json:"tour"`
	Event           EventRequest         `json:"event"`
}

// BuildTour handles POST /routes/tour
func (h *RouteHandler) BuildTour(c echo.Context) error {
	var req BuildTourRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid tour input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	stops, err := toStops(req.Stops)
	if err != nil {
		return h.handleAppError(c, err)
	}

	tour, err := h.tourUC.BuildTour(c.Request().Context(), usecase.BuildTourInput{
		Origin:     req.Origin.toEntity(),
		Stops:      stops,
		Prioritize: req.Prioritize,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, tour, "Tour built successfully")
}

// ComputeMetrics handles POST /routes/metrics
func (h *RouteHandler) ComputeMetrics(c echo.Context) error {
	var req ComputeMetricsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid metrics input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	at := time.Now()
	if req.At != nil {
		at = *req.At
	}

	metrics, err := h.metricsUC.Compute(c.Request().Context(), usecase.ComputeMetricsInput{
		Tour:        req.Tour,
		ReturnLegKm: req.ReturnLegKm,
		At:          at,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, metrics, "Route metrics computed successfully")
}

// PredictArrivals handles POST /routes/arrivals
func (h *RouteHandler) PredictArrivals(c echo.Context) error {
	var req PredictArrivalsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid arrival prediction input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	startAt := time.Now()
	if req.StartAt != nil {
		startAt = *req.StartAt
	}

	forecast, err := h.etaUC.PredictArrivals(c.Request().Context(), usecase.PredictArrivalsInput{
		Origin:  req.Origin.toEntity(),
		Tour:    req.Tour,
		StartAt: startAt,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, forecast, "Arrivals predicted successfully")
}

// Reoptimize handles POST /routes/reoptimize
func (h *RouteHandler) Reoptimize(c echo.Context) error {
	var req ReoptimizeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid re-optimization input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid route ID")
	}

	event, err := req.Event.toEntity()
	if err != nil {
		return h.handleAppError(c, err)
	}

	result, err := h.reoptUC.Reoptimize(c.Request().Context(), usecase.ReoptimizeInput{
		RouteID:         routeID,
		CurrentPosition: req.CurrentPosition.toEntity(),
		Tour:            req.Tour,
		Event:           event,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Route re-optimized successfully")
}

func (r EventRequest) toEntity() (entity.ReoptimizationEvent, error) {
	scenario, err := entity.ParseScenario(r.Scenario)
	if err != nil {
		return entity.ReoptimizationEvent{}, err
	}

	event := entity.ReoptimizationEvent{
		Scenario:      scenario,
		TrafficFactor: r.TrafficFactor,
		DelayMin:      r.DelayMin,
		OccurredAt:    time.Now(),
	}
	if r.OccurredAt != nil {
		event.OccurredAt = *r.OccurredAt
	}

	if r.TargetStopID != nil {
		targetID, err := uuid.Parse(*r.TargetStopID)
		if err != nil {
			return entity.ReoptimizationEvent{}, domainerrors.ErrInvalidEvent.WithDetails(
				"target stop id is not a UUID")
		}
		event.TargetStopID = &targetID
	}

	if r.NewStop != nil {
		stop, err := r.NewStop.toEntity()
		if err != nil {
			return entity.ReoptimizationEvent{}, err
		}
		event.NewStop = &stop
	}

	if r.NewWindow != nil {
		window, err := r.NewWindow.toEntity()
		if err != nil {
			return entity.ReoptimizationEvent{}, err
		}
		event.NewWindow = window
	}

	return event, nil
}

// handleAppError handles application errors
func (h *RouteHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
