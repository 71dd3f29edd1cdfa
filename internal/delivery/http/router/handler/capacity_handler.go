package handler

import (
	"log/slog"
	"net/http"

	"rota/internal/delivery/http/response"
	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"
	"rota/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// CapacityHandlerParams holds dependencies for CapacityHandler, injected by Fx.
type CapacityHandlerParams struct {
	fx.In

	CapacityUC usecase.CapacityUsecase
	Logger     *slog.Logger
}

// CapacityHandler holds dependencies for cargo capacity handlers
type CapacityHandler struct {
	capacityUC usecase.CapacityUsecase
	logger     *slog.Logger
}

// NewCapacityHandler is the constructor for CapacityHandler
func NewCapacityHandler(params CapacityHandlerParams) *CapacityHandler {
	return &CapacityHandler{
		capacityUC: params.CapacityUC,
		logger:     params.Logger,
	}
}

// VehicleRequest represents the vehicle limits in a capacity check
type VehicleRequest struct {
	Type             string  `json:"type" validate:"required"`
	WeightCapacityKg float64 `json:"weight_capacity_kg" validate:"gt=0"`
	VolumeCapacity   int     `json:"volume_capacity" validate:"gt=0"`
}

func (r VehicleRequest) toEntity() entity.Vehicle {
	return entity.Vehicle{
		Type:             r.Type,
		WeightCapacityKg: r.WeightCapacityKg,
		VolumeCapacity:   r.VolumeCapacity,
	}
}

// CheckCapacityRequest represents the request body for a single load check
type CheckCapacityRequest struct {
	Vehicle  VehicleRequest `json:"vehicle"`
	WeightKg float64        `json:"weight_kg" validate:"min=0"`
	Volumes  int            `json:"volumes" validate:"min=0"`
}

// StopLoadRequest represents the cargo picked up for one stop
type StopLoadRequest struct {
	StopID   string  `json:"stop_id" validate:"required,uuid"`
	WeightKg float64 `json:"weight_kg" validate:"min=0"`
	Volumes  int     `json:"volumes" validate:"min=0"`
}

// CheckRouteCapacityRequest represents the request body for a route load check
type CheckRouteCapacityRequest struct {
	Vehicle VehicleRequest    `json:"vehicle"`
	Loads   []StopLoadRequest `json:"loads" validate:"dive"`
}

// CheckCapacity handles POST /capacity/check
func (h *CapacityHandler) CheckCapacity(c echo.Context) error {
	var req CheckCapacityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid capacity input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.capacityUC.Validate(c.Request().Context(), req.Vehicle.toEntity(), entity.CargoLoad{
		WeightKg: req.WeightKg,
		Volumes:  req.Volumes,
	})
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Capacity checked successfully")
}

// CheckRouteCapacity handles POST /capacity/route
func (h *CapacityHandler) CheckRouteCapacity(c echo.Context) error {
	var req CheckRouteCapacityRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid route capacity input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	loads := make([]entity.StopLoad, 0, len(req.Loads))
	for _, loadReq := range req.Loads {
		stopID, err := uuid.Parse(loadReq.StopID)
		if err != nil {
			return response.BadRequest(c, "INVALID_ID", "Invalid stop ID in loads")
		}
		loads = append(loads, entity.StopLoad{
			StopID:    stopID,
			CargoLoad: entity.CargoLoad{WeightKg: loadReq.WeightKg, Volumes: loadReq.Volumes},
		})
	}

	result, err := h.capacityUC.ValidateRoute(c.Request().Context(), req.Vehicle.toEntity(), loads)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, result, "Route capacity checked successfully")
}

// handleAppError handles application errors
func (h *CapacityHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
