// Load generator: drives the simulation endpoints to create realistic
// incident scenarios, then asks for a diagnosis.
//
// Usage:
//
//	go run ./cmd/loadgen -url http://localhost:8080 -scenario all
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/internal/dto"
)

var scenarioSets = map[string][]string{
	"all":     {"db-exhaustion", "high-latency", "memory-leak", "multi-issue"},
	"db":      {"db-exhaustion"},
	"latency": {"high-latency"},
	"memory":  {"memory-leak"},
	"multi":   {"multi-issue"},
}

func main() {
	url := flag.String("url", "http://localhost:8080", "Base URL of the API")
	scenario := flag.String("scenario", "all", "Scenario to run (all, db, latency, memory, multi)")
	skipDiagnosis := flag.Bool("skip-diagnosis", false, "Skip the diagnosis step after load generation")
	wait := flag.Duration("wait", 5*time.Second, "Wait between load generation and diagnosis")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	scenarios, ok := scenarioSets[*scenario]
	if !ok {
		log.Fatal().Str("scenario", *scenario).Msg("Unknown scenario set")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	log.Info().Str("target", *url).Msg("Starting load generation")

	generateBaseline(client, *url, 5)
	for _, s := range scenarios {
		triggerScenario(client, *url, s)
		time.Sleep(time.Second)
	}

	if *skipDiagnosis {
		log.Info().Msg("Load generation complete (diagnosis skipped)")
		return
	}

	log.Info().Dur("wait", *wait).Msg("Waiting before diagnosis...")
	time.Sleep(*wait)
	runDiagnosis(*url, "What problems occurred in the last 15 minutes? Analyze the logs and metrics.")
}

func generateBaseline(client *http.Client, baseURL string, count int) {
	for i := 0; i < count; i++ {
		resp, err := client.Get(baseURL + "/")
		if err != nil {
			log.Warn().Err(err).Msg("Baseline request failed - is the server running?")
			continue
		}
		resp.Body.Close()
		log.Info().Int("status", resp.StatusCode).Msgf("Baseline request %d/%d", i+1, count)
		time.Sleep(500 * time.Millisecond)
	}
}

func triggerScenario(client *http.Client, baseURL, scenario string) {
	resp, err := client.Post(fmt.Sprintf("%s/simulate/%s", baseURL, scenario), "application/json", nil)
	if err != nil {
		log.Warn().Err(err).Str("scenario", scenario).Msg("Simulation request failed")
		return
	}
	defer resp.Body.Close()

	var result dto.SimulationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Warn().Err(err).Str("scenario", scenario).Msg("Failed to decode simulation response")
		return
	}
	log.Info().
		Str("scenario", result.Scenario).
		Int("logs_generated", result.LogsGenerated).
		Str("trace_id", result.TraceID).
		Msg("Scenario injected")
}

func runDiagnosis(baseURL, query string) {
	body, _ := json.Marshal(dto.DiagnoseRequest{Query: query, TimeRange: "15m"})

	client := &http.Client{Timeout: 90 * time.Second}
	resp, err := client.Post(baseURL+"/api/v1/diagnose", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatal().Err(err).Msg("Diagnosis request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatal().Int("status", resp.StatusCode).Msg("Diagnosis failed")
	}

	var result dto.DiagnosisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatal().Err(err).Msg("Failed to decode diagnosis response")
	}

	log.Info().
		Str("request_id", result.RequestID).
		Str("status", string(result.Status)).
		Int64("processing_time_ms", result.ProcessingTimeMS).
		Int("tools_executed", len(result.ToolsExecuted)).
		Msg("Diagnosis complete")
	for _, t := range result.ToolsExecuted {
		log.Info().
			Str("tool", t.ToolName).
			Str("summary", t.ResultSummary).
			Int64("execution_time_ms", t.ExecutionTimeMS).
			Msg("Tool executed")
	}
	fmt.Printf("\nAnalysis:\n%s\n", result.Analysis)
}
