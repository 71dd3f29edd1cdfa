package impl

import (
	"time"

	"rota/config"
	"rota/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	testOrigin = entity.Origin{
		Coordinate: entity.Coordinate{Latitude: -23.5505, Longitude: -46.6333}, // Sao Paulo
		Label:      "depot",
		Source:     entity.OriginSourceManual,
		CapturedAt: time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local),
	}

	guarulhosCoord = entity.Coordinate{Latitude: -23.4538, Longitude: -46.5333}
	rioCoord       = entity.Coordinate{Latitude: -22.9068, Longitude: -43.1729}
)

func testPlannerConfig() *config.PlannerConfig {
	return config.DefaultPlannerConfig()
}

func makeStop(lat, lng float64, recipient string) entity.Stop {
	return entity.Stop{
		ID:                uuid.New(),
		Coordinate:        entity.Coordinate{Latitude: lat, Longitude: lng},
		Recipient:         recipient,
		City:              "Sao Paulo",
		Region:            "SP",
		GeocodeConfidence: 0.95,
		Source:            entity.StopSourceDerived,
	}
}

func withWindow(stop entity.Stop, startHour, endHour int) entity.Stop {
	stop.Window = &entity.TimeWindow{
		Start: entity.TimeOfDay{Hour: startHour},
		End:   entity.TimeOfDay{Hour: endHour},
	}

	return stop
}

func withPriority(stop entity.Stop, priority entity.Priority) entity.Stop {
	stop.Priority = priority

	return stop
}
