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

// GeofenceHandlerParams holds dependencies for GeofenceHandler, injected by Fx.
type GeofenceHandlerParams struct {
	fx.In

	GeofenceUC usecase.GeofenceUsecase
	Logger     *slog.Logger
}

// GeofenceHandler holds dependencies for zone containment handlers
type GeofenceHandler struct {
	geofenceUC usecase.GeofenceUsecase
	logger     *slog.Logger
}

// NewGeofenceHandler is the constructor for GeofenceHandler
func NewGeofenceHandler(params GeofenceHandlerParams) *GeofenceHandler {
	return &GeofenceHandler{
		geofenceUC: params.GeofenceUC,
		logger:     params.Logger,
	}
}

// ZoneRequest represents one zone to test a point against
type ZoneRequest struct {
	ID       string              `json:"id" validate:"omitempty,uuid"`
	Label    string              `json:"label"`
	Kind     string              `json:"kind" validate:"required,oneof=circle polygon"`
	Center   *CoordinateRequest  `json:"center"`
	RadiusKm float64             `json:"radius_km" validate:"omitempty,gt=0"`
	Vertices []CoordinateRequest `json:"vertices" validate:"omitempty,dive"`
}

// CheckZonesRequest represents the request body for zone containment checks
type CheckZonesRequest struct {
	Point CoordinateRequest `json:"point"`
	Zones []ZoneRequest     `json:"zones" validate:"required,min=1,dive"`
}

// CheckZones handles POST /zones/check
func (h *GeofenceHandler) CheckZones(c echo.Context) error {
	var req CheckZonesRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid zone check input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	zones := make([]entity.Zone, 0, len(req.Zones))
	for _, zoneReq := range req.Zones {
		zone, err := zoneReq.toEntity()
		if err != nil {
			return h.handleAppError(c, err)
		}
		zones = append(zones, zone)
	}

	results, err := h.geofenceUC.ZonesContaining(c.Request().Context(), req.Point.toEntity(), zones)
	if err != nil {
		return h.handleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, results, "Zones checked successfully")
}

func (r ZoneRequest) toEntity() (entity.Zone, error) {
	id := uuid.New()
	if r.ID != "" {
		parsed, err := uuid.Parse(r.ID)
		if err != nil {
			return entity.Zone{}, domainerrors.ErrInvalidGeometry.WithDetails("zone id is not a UUID")
		}
		id = parsed
	}

	zone := entity.Zone{
		ID:       id,
		Label:    r.Label,
		Kind:     entity.ZoneKind(r.Kind),
		RadiusKm: r.RadiusKm,
	}

	if r.Center != nil {
		center := r.Center.toEntity()
		zone.Center = &center
	}
	for _, vertex := range r.Vertices {
		zone.Vertices = append(zone.Vertices, vertex.toEntity())
	}

	return zone, zone.Validate()
}

// handleAppError handles application errors
func (h *GeofenceHandler) handleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
	}

	return errors.WithStack(err)
}
