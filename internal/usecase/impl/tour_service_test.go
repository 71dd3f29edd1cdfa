package impl

import (
	"context"
	"fmt"
	"testing"

	"rota/internal/domain/entity"
	domainerrors "rota/internal/domain/errors"
	"rota/internal/infra/geo"
	"rota/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourService_BuildTour_EmptyStops(t *testing.T) {
	service := NewTourService(testPlannerConfig())

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{Origin: testOrigin})
	require.NoError(t, err)
	assert.Empty(t, tour)
}

func TestTourService_BuildTour_IsPermutation(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	stops := []entity.Stop{
		makeStop(-23.56, -46.65, "a"),
		makeStop(-23.50, -46.60, "b"),
		makeStop(-23.60, -46.70, "c"),
		makeStop(-23.48, -46.55, "d"),
		makeStop(-23.52, -46.62, "e"),
	}

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{Origin: testOrigin, Stops: stops})
	require.NoError(t, err)
	require.Len(t, tour, len(stops))

	seen := make(map[uuid.UUID]bool)
	for i, ordered := range tour {
		assert.Equal(t, i+1, ordered.Order)
		assert.False(t, seen[ordered.ID], "stop visited twice")
		seen[ordered.ID] = true
	}
	for _, stop := range stops {
		assert.True(t, seen[stop.ID], "stop %s missing from tour", stop.Recipient)
	}
}

func TestTourService_BuildTour_CumulativeDistanceNonDecreasing(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	stops := []entity.Stop{
		makeStop(-23.47, -46.54, "a"),
		makeStop(-23.60, -46.70, "b"),
		makeStop(-22.91, -43.17, "c"),
	}

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{Origin: testOrigin, Stops: stops})
	require.NoError(t, err)

	previous := 0.0
	runningSum := 0.0
	for _, ordered := range tour {
		assert.GreaterOrEqual(t, ordered.CumulativeKm, previous)
		runningSum += ordered.LegKm
		assert.InDelta(t, runningSum, ordered.CumulativeKm, 1e-9)
		previous = ordered.CumulativeKm
	}
}

func TestTourService_BuildTour_NearestStopFirst(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	rio := makeStop(rioCoord.Latitude, rioCoord.Longitude, "rio")
	guarulhos := makeStop(guarulhosCoord.Latitude, guarulhosCoord.Longitude, "guarulhos")

	// Farther stop listed first; nearest neighbor must still visit Guarulhos first.
	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{
		Origin: testOrigin,
		Stops:  []entity.Stop{rio, guarulhos},
	})
	require.NoError(t, err)
	require.Len(t, tour, 2)

	assert.Equal(t, "guarulhos", tour[0].Recipient)
	assert.Equal(t, "rio", tour[1].Recipient)
}

func TestTourService_BuildTour_TieBreaksToInputOrder(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	// Two stops equidistant from the origin (mirror longitudes).
	first := makeStop(-23.5505, -46.7333, "west")
	second := makeStop(-23.5505, -46.5333, "east")

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{
		Origin: testOrigin,
		Stops:  []entity.Stop{first, second},
	})
	require.NoError(t, err)

	assert.Equal(t, "west", tour[0].Recipient)
}

func TestTourService_BuildTour_LegsUseCorrectedDistance(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	stop := makeStop(guarulhosCoord.Latitude, guarulhosCoord.Longitude, "guarulhos")

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{
		Origin: testOrigin,
		Stops:  []entity.Stop{stop},
	})
	require.NoError(t, err)

	raw := geo.Distance(testOrigin.Coordinate, stop.Coordinate)
	assert.InDelta(t, raw*1.4, tour[0].LegKm, 1e-9)
	// 30 km/h urban speed: leg minutes = km * 2
	assert.InDelta(t, tour[0].LegKm*2, tour[0].LegMin, 1e-9)
}

func TestTourService_BuildTour_PrioritizeChangesTieBreak(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	// Equidistant mirror stops; the greedy pass alone would pick "west"
	// (input order), but the pre-sort moves the high-priority "east" ahead.
	west := makeStop(-23.5505, -46.7333, "west")
	east := withPriority(makeStop(-23.5505, -46.5333, "east"), entity.PriorityHigh)

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{
		Origin:     testOrigin,
		Stops:      []entity.Stop{west, east},
		Prioritize: true,
	})
	require.NoError(t, err)
	require.Len(t, tour, 2)

	assert.Equal(t, "east", tour[0].Recipient)
}

func TestPresortStops_PriorityThenWindowEnd(t *testing.T) {
	lowEarly := withWindow(withPriority(makeStop(-23.5, -46.6, "low-early"), entity.PriorityLow), 8, 10)
	highLate := withWindow(withPriority(makeStop(-23.5, -46.6, "high-late"), entity.PriorityHigh), 14, 18)
	highEarly := withWindow(withPriority(makeStop(-23.5, -46.6, "high-early"), entity.PriorityHigh), 9, 11)
	mediumNoWindow := makeStop(-23.5, -46.6, "medium-none")

	sorted := presortStops([]entity.Stop{lowEarly, highLate, highEarly, mediumNoWindow})

	names := make([]string, len(sorted))
	for i, stop := range sorted {
		names[i] = stop.Recipient
	}

	assert.Equal(t, []string{"high-early", "high-late", "medium-none", "low-early"}, names)
}

func TestTourService_BuildTour_RejectsInvalidStop(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	bad := makeStop(95, 0, "broken")

	_, err := service.BuildTour(context.Background(), usecase.BuildTourInput{
		Origin: testOrigin,
		Stops:  []entity.Stop{bad},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCoordinate)
}

func TestTourService_BuildTour_FortyFourStops(t *testing.T) {
	service := NewTourService(testPlannerConfig())

	stops := make([]entity.Stop, 0, 44)
	for i := 0; i < 44; i++ {
		lat := -23.50 - 0.01*float64(i%11)
		lng := -46.55 - 0.015*float64(i%7)
		stops = append(stops, makeStop(lat, lng, fmt.Sprintf("stop-%02d", i)))
	}

	tour, err := service.BuildTour(context.Background(), usecase.BuildTourInput{Origin: testOrigin, Stops: stops})
	require.NoError(t, err)
	require.Len(t, tour, 44)

	// Total corrected distance must match 1.4x the raw legs of the chosen order.
	rawSum := 0.0
	current := testOrigin.Coordinate
	for _, ordered := range tour {
		rawSum += geo.Distance(current, ordered.Coordinate)
		current = ordered.Coordinate
	}

	total := tour[len(tour)-1].CumulativeKm
	assert.GreaterOrEqual(t, total, rawSum*1.4-1e-6)
}

func TestTourService_Sequence_KeepsOrder(t *testing.T) {
	service := NewTourService(testPlannerConfig())
	stops := []entity.Stop{
		makeStop(-22.91, -43.17, "far-first"),
		makeStop(-23.47, -46.54, "near-second"),
	}

	tour, err := service.Sequence(context.Background(), testOrigin.Coordinate, stops)
	require.NoError(t, err)
	require.Len(t, tour, 2)

	assert.Equal(t, "far-first", tour[0].Recipient)
	assert.Equal(t, "near-second", tour[1].Recipient)
	assert.Greater(t, tour[1].CumulativeKm, tour[0].CumulativeKm)
}
