package dto

type SimulationResponse struct {
	Scenario      string `json:"scenario"`
	LogsGenerated int    `json:"logs_generated"`
	DurationMS    int64  `json:"duration_ms"`
	TraceID       string `json:"trace_id"`
}
