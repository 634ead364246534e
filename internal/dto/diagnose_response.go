package dto

import "time"

type DiagnosisStatus string

const (
	StatusSuccess DiagnosisStatus = "success"
	StatusPartial DiagnosisStatus = "partial"
	StatusFailed  DiagnosisStatus = "failed"
)

// ToolExecution is one entry of the executed-tool trace.
type ToolExecution struct {
	ToolName        string `json:"tool_name"`
	ExecutionTimeMS int64  `json:"execution_time_ms"`
	ResultSummary   string `json:"result_summary"`
	DataPoints      int    `json:"data_points"`
}

// DiagnosisResult is the externally visible outcome of one diagnosis.
// Immutable once assembled; retained only in the bounded in-memory history.
type DiagnosisResult struct {
	RequestID        string          `json:"request_id"`
	Status           DiagnosisStatus `json:"status"`
	Query            string          `json:"query"`
	Analysis         string          `json:"analysis"`
	ToolsExecuted    []ToolExecution `json:"tools_executed"`
	ProcessingTimeMS int64           `json:"processing_time_ms"`
	Timestamp        time.Time       `json:"timestamp"`
}
