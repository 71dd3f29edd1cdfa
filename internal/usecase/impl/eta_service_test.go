package impl

import (
	"context"
	"testing"
	"time"

	"rota/internal/domain/entity"
	"rota/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offPeak() time.Time {
	return time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local) // factor 1.0
}

func TestEtaService_PredictArrivals_EmptyTour(t *testing.T) {
	service := NewEtaService(testPlannerConfig())

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		StartAt: offPeak(),
	})
	require.NoError(t, err)

	assert.Empty(t, forecast.Windows)
	assert.Empty(t, forecast.Alerts)
	assert.Zero(t, forecast.Efficiency)
}

func TestEtaService_PredictArrivals_WalksForward(t *testing.T) {
	service := NewEtaService(testPlannerConfig())
	start := offPeak()

	tour := []entity.OrderedStop{
		{Stop: makeStop(-23.5, -46.6, "a"), Order: 1, LegKm: 6, LegMin: 12, CumulativeKm: 6, CumulativeMin: 12},
		{Stop: makeStop(-23.45, -46.55, "b"), Order: 2, LegKm: 9, LegMin: 18, CumulativeKm: 15, CumulativeMin: 30},
	}

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    tour,
		StartAt: start,
	})
	require.NoError(t, err)
	require.Len(t, forecast.Windows, 2)

	first := forecast.Windows[0]
	assert.Equal(t, start.Add(12*time.Minute), first.Arrival)
	assert.Equal(t, first.Arrival.Add(10*time.Minute), first.ArriveBy)

	// Second arrival includes 5 min of service at the first stop.
	second := forecast.Windows[1]
	assert.Equal(t, start.Add((12+5+18)*time.Minute), second.Arrival)

	// Annotated tour carries the same predictions.
	require.NotNil(t, forecast.Tour[0].Arrival)
	assert.Equal(t, first.Arrival, *forecast.Tour[0].Arrival)
	require.NotNil(t, forecast.Tour[1].ConfidencePct)
	assert.Equal(t, second.ConfidencePct, *forecast.Tour[1].ConfidencePct)
}

func TestEtaService_Confidence_DecaysWithDistance(t *testing.T) {
	service := NewEtaService(testPlannerConfig())

	tour := []entity.OrderedStop{
		{Stop: makeStop(-23.5, -46.6, "near"), Order: 1, LegKm: 10, LegMin: 20, CumulativeKm: 10, CumulativeMin: 20},
		{Stop: makeStop(-23.4, -46.5, "far"), Order: 2, LegKm: 30, LegMin: 60, CumulativeKm: 40, CumulativeMin: 80},
	}

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    tour,
		StartAt: offPeak(),
	})
	require.NoError(t, err)

	// Off-peak: confidence = 100 - 0.5*cumulativeKm
	assert.InDelta(t, 95, forecast.Windows[0].ConfidencePct, 1e-9)
	assert.InDelta(t, 80, forecast.Windows[1].ConfidencePct, 1e-9)
}

func TestEtaService_Confidence_LowGeocodePenalty(t *testing.T) {
	service := NewEtaService(testPlannerConfig())

	shaky := makeStop(-23.5, -46.6, "shaky")
	shaky.GeocodeConfidence = 0.5

	tour := []entity.OrderedStop{
		{Stop: shaky, Order: 1, LegKm: 10, LegMin: 20, CumulativeKm: 10, CumulativeMin: 20},
	}

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    tour,
		StartAt: offPeak(),
	})
	require.NoError(t, err)

	// 100 - 0.5*10 - 15 = 80
	assert.InDelta(t, 80, forecast.Windows[0].ConfidencePct, 1e-9)
}

func TestEtaService_Confidence_ClampedToFloorAndCeiling(t *testing.T) {
	service := NewEtaService(testPlannerConfig())

	// Very long route pushes raw confidence far below the floor.
	far := []entity.OrderedStop{
		{Stop: makeStop(-22.9, -43.2, "far"), Order: 1, LegKm: 500, LegMin: 1000, CumulativeKm: 500, CumulativeMin: 1000},
	}
	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    far,
		StartAt: offPeak(),
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, forecast.Windows[0].ConfidencePct)

	// Night factor 0.8 would push confidence above 100 on a short leg.
	night := time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local)
	short := []entity.OrderedStop{
		{Stop: makeStop(-23.5, -46.6, "near"), Order: 1, LegKm: 1, LegMin: 2, CumulativeKm: 1, CumulativeMin: 2},
	}
	forecast, err = service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    short,
		StartAt: night,
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, forecast.Windows[0].ConfidencePct)
}

func TestEtaService_Alerts_LongRoute(t *testing.T) {
	service := NewEtaService(testPlannerConfig())

	tour := []entity.OrderedStop{
		{Stop: makeStop(-22.9, -43.2, "far"), Order: 1, LegKm: 150, LegMin: 300, CumulativeKm: 150, CumulativeMin: 300},
	}

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    tour,
		StartAt: offPeak(),
	})
	require.NoError(t, err)

	require.NotEmpty(t, forecast.Alerts)
	assert.Contains(t, forecast.Alerts[0].Action, "splitting")
	assert.Equal(t, entity.AlertWarning, forecast.Alerts[0].Severity)
}

func TestEtaService_Alerts_PeakDeparture(t *testing.T) {
	service := NewEtaService(testPlannerConfig())
	peak := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local) // factor 1.5

	tour := []entity.OrderedStop{
		{Stop: makeStop(-23.5, -46.6, "a"), Order: 1, LegKm: 5, LegMin: 10, CumulativeKm: 5, CumulativeMin: 10},
	}

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    tour,
		StartAt: peak,
	})
	require.NoError(t, err)

	found := false
	for _, alert := range forecast.Alerts {
		if alert.Action == "consider departing outside peak hours" {
			found = true
		}
	}
	assert.True(t, found, "expected a peak-hour departure alert")
}

func TestEtaService_Alerts_LowEfficiency(t *testing.T) {
	service := NewEtaService(testPlannerConfig())

	// Last stop is close to the origin but the tour wandered 80 km.
	tour := []entity.OrderedStop{
		{Stop: makeStop(-23.55, -46.64, "loop"), Order: 1, LegKm: 80, LegMin: 160, CumulativeKm: 80, CumulativeMin: 160},
	}

	forecast, err := service.PredictArrivals(context.Background(), usecase.PredictArrivalsInput{
		Origin:  testOrigin,
		Tour:    tour,
		StartAt: offPeak(),
	})
	require.NoError(t, err)

	assert.Less(t, forecast.Efficiency, 0.3)

	found := false
	for _, alert := range forecast.Alerts {
		if alert.Action == "consider regrouping stops by area" {
			found = true
			assert.Equal(t, entity.AlertInfo, alert.Severity)
		}
	}
	assert.True(t, found, "expected a low-efficiency alert")
}
