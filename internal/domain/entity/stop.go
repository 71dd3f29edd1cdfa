package entity

import (
	"fmt"
	"time"

	domainerrors "rota/internal/domain/errors"

	"github.com/google/uuid"
)

// OriginSource tells how the departure point was captured.
type OriginSource string

const (
	OriginSourceGPS    OriginSource = "gps"
	OriginSourceManual OriginSource = "manual"
)

// Origin is the departure point of a route.
type Origin struct {
	Coordinate Coordinate   `json:"coordinate"`
	Label      string       `json:"label"`
	Source     OriginSource `json:"source"`
	// GPS accuracy in meters; nil when the source is manual.
	AccuracyM  *float64  `json:"accuracy_m,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// Validate checks the coordinate and, when present, the GPS accuracy.
func (o Origin) Validate() error {
	if err := o.Coordinate.Validate(); err != nil {
		return err
	}

	if o.AccuracyM != nil && *o.AccuracyM < 0 {
		return domainerrors.ErrInvalidStop.WithDetails("origin GPS accuracy must be >= 0 meters")
	}

	return nil
}

// StopSource tells how the stop's coordinate was obtained.
type StopSource string

const (
	StopSourceDerived StopSource = "derived" // geocoded from the address
	StopSourceManual  StopSource = "manual"
)

// Priority orders stops ahead of the distance heuristic.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps a priority to its sort order; lower sorts earlier. Unset or
// unknown priorities count as medium.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// TimeOfDay is a wall-clock time without a date, minute resolution.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Validate checks the clock bounds.
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return domainerrors.ErrInvalidTimeWindow.WithDetails(
			fmt.Sprintf("%d:%d is not a valid time of day", t.Hour, t.Minute))
	}

	return nil
}

// TimeWindow is the allowed delivery interval for a stop, start inclusive.
type TimeWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Validate rejects malformed or inverted windows.
func (w TimeWindow) Validate() error {
	if err := w.Start.Validate(); err != nil {
		return err
	}
	if err := w.End.Validate(); err != nil {
		return err
	}

	if w.Start.Minutes() >= w.End.Minutes() {
		return domainerrors.ErrInvalidTimeWindow.WithDetails(
			fmt.Sprintf("window start %s must precede end %s", w.Start, w.End))
	}

	return nil
}

// Stop is a delivery destination. Stops are read-only inside the planning
// core; re-optimization produces a new stop list rather than mutating one.
type Stop struct {
	ID         uuid.UUID  `json:"id"`
	Coordinate Coordinate `json:"coordinate"`
	Recipient  string     `json:"recipient"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	Region     string     `json:"region"` // two-letter region code
	Supplier   string     `json:"supplier,omitempty"`
	// Geocoding confidence in [0,1]; below 0.8 the ETA confidence takes a penalty.
	GeocodeConfidence float64     `json:"geocode_confidence"`
	Priority          Priority    `json:"priority,omitempty"`
	Window            *TimeWindow `json:"window,omitempty"`
	Source            StopSource  `json:"source"`
}

// Validate checks the coordinate, confidence range, region code and window.
func (s Stop) Validate() error {
	if err := s.Coordinate.Validate(); err != nil {
		return err
	}

	if s.GeocodeConfidence < 0 || s.GeocodeConfidence > 1 {
		return domainerrors.ErrInvalidStop.WithDetails(
			fmt.Sprintf("geocode confidence %v outside [0,1]", s.GeocodeConfidence))
	}

	if s.Region != "" && len(s.Region) != 2 {
		return domainerrors.ErrInvalidStop.WithDetails(
			fmt.Sprintf("region code %q must be two letters", s.Region))
	}

	if s.Window != nil {
		if err := s.Window.Validate(); err != nil {
			return err
		}
	}

	return nil
}
