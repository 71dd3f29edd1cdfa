package entity

import (
	"fmt"
	"time"

	domainerrors "rota/internal/domain/errors"

	"github.com/google/uuid"
)

// Scenario is the closed set of recognized re-optimization triggers.
// An unknown tag is a rejected request, never a silent no-op.
type Scenario string

const (
	ScenarioCancellation        Scenario = "cancellation"
	ScenarioHeavyTraffic        Scenario = "heavy_traffic"
	ScenarioAccumulatedDelay    Scenario = "accumulated_delay"
	ScenarioRecipientAbsent     Scenario = "recipient_absent"
	ScenarioUrgentNewStop       Scenario = "urgent_new_stop"
	ScenarioUnresolvableAddress Scenario = "unresolvable_address"
	ScenarioRescheduledWindow   Scenario = "rescheduled_window"
)

// ParseScenario maps a tag to its Scenario or fails with the unsupported
// scenario error.
func ParseScenario(tag string) (Scenario, error) {
	switch Scenario(tag) {
	case ScenarioCancellation, ScenarioHeavyTraffic, ScenarioAccumulatedDelay,
		ScenarioRecipientAbsent, ScenarioUrgentNewStop,
		ScenarioUnresolvableAddress, ScenarioRescheduledWindow:
		return Scenario(tag), nil
	default:
		return "", domainerrors.ErrUnsupportedScenario.WithDetails(fmt.Sprintf("scenario %q", tag))
	}
}

// ReoptimizationEvent is a live deviation from plan. The payload fields are
// scenario-specific; Validate enforces which ones must be present.
type ReoptimizationEvent struct {
	Scenario     Scenario    `json:"scenario"`
	TargetStopID *uuid.UUID  `json:"target_stop_id,omitempty"`
	NewStop      *Stop       `json:"new_stop,omitempty"`
	NewWindow    *TimeWindow `json:"new_window,omitempty"`
	// Observed traffic factor for heavy_traffic events.
	TrafficFactor *float64 `json:"traffic_factor,omitempty"`
	// Minutes behind plan for accumulated_delay events.
	DelayMin   *float64  `json:"delay_min,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks the scenario tag and its required payload.
func (e ReoptimizationEvent) Validate() error {
	if _, err := ParseScenario(string(e.Scenario)); err != nil {
		return err
	}

	switch e.Scenario {
	case ScenarioCancellation, ScenarioRecipientAbsent, ScenarioUnresolvableAddress:
		if e.TargetStopID == nil {
			return domainerrors.ErrInvalidEvent.WithDetails(
				fmt.Sprintf("scenario %q requires a target stop id", e.Scenario))
		}
	case ScenarioRescheduledWindow:
		if e.TargetStopID == nil {
			return domainerrors.ErrInvalidEvent.WithDetails("rescheduled_window requires a target stop id")
		}
		if e.NewWindow == nil {
			return domainerrors.ErrInvalidEvent.WithDetails("rescheduled_window requires the new window")
		}
		if err := e.NewWindow.Validate(); err != nil {
			return err
		}
	case ScenarioUrgentNewStop:
		if e.NewStop == nil {
			return domainerrors.ErrInvalidEvent.WithDetails("urgent_new_stop requires the new stop")
		}
		if err := e.NewStop.Validate(); err != nil {
			return err
		}
	case ScenarioHeavyTraffic:
		if e.TrafficFactor == nil {
			return domainerrors.ErrInvalidEvent.WithDetails("heavy_traffic requires the observed traffic factor")
		}
	case ScenarioAccumulatedDelay:
		if e.DelayMin == nil {
			return domainerrors.ErrInvalidEvent.WithDetails("accumulated_delay requires the delay in minutes")
		}
	}

	return nil
}
