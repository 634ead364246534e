package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/internal/dto"
	"incident-intelligence-backend/internal/mockdata"
)

// SimulationService injects incident-shaped log bursts into the mock log
// provider so a diagnosis has something to find. Used by the load
// generator; a no-op on live providers.
type SimulationService interface {
	Trigger(ctx context.Context, scenario string) (*dto.SimulationResponse, error)
}

type simulationService struct {
	logs *mockdata.LogRepository
}

func NewSimulationService(logs *mockdata.LogRepository) SimulationService {
	return &simulationService{logs: logs}
}

func (s *simulationService) Trigger(ctx context.Context, scenario string) (*dto.SimulationResponse, error) {
	start := time.Now()
	traceID := "trace_" + uuid.NewString()[:8]

	count, ok := s.logs.InjectScenario(scenario, traceID, time.Now().UTC())
	if !ok {
		return nil, fmt.Errorf("unknown scenario: %q (valid: %v)", scenario, mockdata.Scenarios())
	}

	log.Info().Str("scenario", scenario).Int("logs_generated", count).Str("trace_id", traceID).Msg("Incident scenario injected")
	return &dto.SimulationResponse{
		Scenario:      scenario,
		LogsGenerated: count,
		DurationMS:    time.Since(start).Milliseconds(),
		TraceID:       traceID,
	}, nil
}
