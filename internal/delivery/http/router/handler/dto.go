package handler

import (
	"fmt"
	"time"

	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"

	"github.com/google/uuid"
)

// CoordinateRequest is a bare lat/lng pair.
type CoordinateRequest struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

func (r CoordinateRequest) toEntity() entity.Coordinate {
	return entity.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude}
}

// OriginRequest represents the departure point of a route
type OriginRequest struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	Label     string   `json:"label"`
	Source    string   `json:"source" validate:"omitempty,oneof=gps manual"`
	AccuracyM *float64 `json:"accuracy_m" validate:"omitempty,min=0"`
}

func (r OriginRequest) toEntity() entity.Origin {
	source := entity.OriginSource(r.Source)
	if source == "" {
		source = entity.OriginSourceManual
	}

	return entity.Origin{
		Coordinate: entity.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		Label:      r.Label,
		Source:     source,
		AccuracyM:  r.AccuracyM,
		CapturedAt: time.Now(),
	}
}

// WindowRequest carries a delivery window as "HH:MM" wall-clock strings.
type WindowRequest struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

func (r WindowRequest) toEntity() (*entity.TimeWindow, error) {
	start, err := parseClock(r.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseClock(r.End)
	if err != nil {
		return nil, err
	}

	window := &entity.TimeWindow{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	return window, nil
}

func parseClock(s string) (entity.TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return entity.TimeOfDay{}, domainerrors.ErrInvalidTimeWindow.WithDetails(
			fmt.Sprintf("%q is not an HH:MM time", s))
	}

	clock := entity.TimeOfDay{Hour: hour, Minute: minute}
	if err := clock.Validate(); err != nil {
		return entity.TimeOfDay{}, err
	}

	return clock, nil
}

// StopRequest represents one delivery destination in a planning request
type StopRequest struct {
	ID                string         `json:"id" validate:"omitempty,uuid"`
	Latitude          float64        `json:"latitude" validate:"min=-90,max=90"`
	Longitude         float64        `json:"longitude" validate:"min=-180,max=180"`
	Recipient         string         `json:"recipient" validate:"required"`
	Address           string         `json:"address"`
	City              string         `json:"city"`
	Region            string         `json:"region" validate:"omitempty,len=2"`
	Supplier          string         `json:"supplier"`
	GeocodeConfidence *float64       `json:"geocode_confidence" validate:"omitempty,min=0,max=1"`
	Priority          string         `json:"priority" validate:"omitempty,oneof=high medium low"`
	Window            *WindowRequest `json:"window"`
	Source            string         `json:"source" validate:"omitempty,oneof=derived manual"`
}

func (r StopRequest) toEntity() (entity.Stop, error) {
	id := uuid.New()
	if r.ID != "" {
		parsed, err := uuid.Parse(r.ID)
		if err != nil {
			return entity.Stop{}, domainerrors.ErrInvalidStop.WithDetails(
				fmt.Sprintf("stop id %q is not a UUID", r.ID))
		}
		id = parsed
	}

	// Missing confidence means the coordinate was not geocoded; trust it fully.
	confidence := 1.0
	if r.GeocodeConfidence != nil {
		confidence = *r.GeocodeConfidence
	}

	source := entity.StopSource(r.Source)
	if source == "" {
		source = entity.StopSourceDerived
	}

	stop := entity.Stop{
		ID:                id,
		Coordinate:        entity.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		Recipient:         r.Recipient,
		Address:           r.Address,
		City:              r.City,
		Region:            r.Region,
		Supplier:          r.Supplier,
		GeocodeConfidence: confidence,
		Priority:          entity.Priority(r.Priority),
		Source:            source,
	}

	if r.Window != nil {
		window, err := r.Window.toEntity()
		if err != nil {
			return entity.Stop{}, err
		}
		stop.Window = window
	}

	return stop, nil
}

func toStops(requests []StopRequest) ([]entity.Stop, error) {
	stops := make([]entity.Stop, 0, len(requests))
	for _, req := range requests {
		stop, err := req.toEntity()
		if err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	return stops, nil
}
