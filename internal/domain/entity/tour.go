package entity

import "time"

// OrderedStop is a stop placed in a tour. Produced by tour construction,
// superseded (never mutated) by re-optimization. The arrival fields stay nil
// until arrival prediction annotates the tour.
type OrderedStop struct {
	Stop

	Order         int     `json:"order"`          // 1-based visiting order
	LegKm         float64 `json:"leg_km"`         // corrected distance from the previous point
	CumulativeKm  float64 `json:"cumulative_km"`  // running corrected distance
	LegMin        float64 `json:"leg_min"`        // travel time of this leg
	CumulativeMin float64 `json:"cumulative_min"` // running travel time

	Arrival       *time.Time `json:"arrival,omitempty"`        // predicted arrival; nil = not yet predicted
	ArriveBy      *time.Time `json:"arrive_by,omitempty"`      // arrival plus the configured buffer
	ConfidencePct *float64   `json:"confidence_pct,omitempty"` // arrival confidence, clamped to [30,100]
}

// RouteMetrics aggregates a tour. Derived data, recomputed on every change.
type RouteMetrics struct {
	TotalKm         float64 `json:"total_km"`
	TravelTimeMin   float64 `json:"travel_time_min"`
	ServiceTimeMin  float64 `json:"service_time_min"`
	TotalTimeMin    float64 `json:"total_time_min"`
	AdjustedTimeMin float64 `json:"adjusted_time_min"` // total time scaled by the traffic factor
	FuelLiters      float64 `json:"fuel_liters"`
	FuelCost        float64 `json:"fuel_cost"`
	TrafficFactor   float64 `json:"traffic_factor"`
}

// AlertSeverity classifies advisory alerts.
type AlertSeverity string

const (
	AlertWarning AlertSeverity = "warning"
	AlertInfo    AlertSeverity = "info"
)

// Alert is advisory output. Alerts never block a computation; the caller
// always receives a usable result alongside them.
type Alert struct {
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
	Action   string        `json:"action,omitempty"` // suggested follow-up
}
