package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"incident-intelligence-backend/internal/dto"
	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/store"
	"incident-intelligence-backend/internal/tool"
)

const (
	// maxIterations bounds the number of model consultations per diagnosis.
	maxIterations = 5

	// exhaustedAnalysis is the sentinel returned when the iteration cap is
	// hit while the model is still requesting tools.
	exhaustedAnalysis = "Analysis incomplete: maximum tool call iterations reached."

	defaultTimeRange = "15m"
)

// DiagnosisService drives the tool-calling loop between the language model
// and the data-access tools, assembles the final diagnosis, and keeps a
// bounded history of completed diagnoses.
type DiagnosisService interface {
	Diagnose(ctx context.Context, req dto.DiagnoseRequest) (*dto.DiagnosisResult, error)
	GetDiagnosis(ctx context.Context, requestID string) (*dto.DiagnosisResult, error)
	RecentDiagnoses(ctx context.Context, limit int) ([]*dto.DiagnosisResult, error)
	ListTools() []dto.ToolInfo
}

type diagnosisAgent struct {
	llm      LLMService
	registry *tool.Registry
	history  store.DiagnosisStore
}

func NewDiagnosisService(llm LLMService, registry *tool.Registry, history store.DiagnosisStore) DiagnosisService {
	return &diagnosisAgent{llm: llm, registry: registry, history: history}
}

func (a *diagnosisAgent) ListTools() []dto.ToolInfo {
	return a.registry.Listing()
}

func (a *diagnosisAgent) GetDiagnosis(ctx context.Context, requestID string) (*dto.DiagnosisResult, error) {
	return a.history.Get(ctx, requestID)
}

func (a *diagnosisAgent) RecentDiagnoses(ctx context.Context, limit int) ([]*dto.DiagnosisResult, error) {
	return a.history.Recent(ctx, limit)
}

// Diagnose runs one bounded diagnosis. Tool-level failures are absorbed
// into the trace; only oracle failures abort the request.
func (a *diagnosisAgent) Diagnose(ctx context.Context, req dto.DiagnoseRequest) (*dto.DiagnosisResult, error) {
	requestID := "req_" + uuid.NewString()[:8]
	startedAt := time.Now()

	timeRange := req.TimeRange
	if timeRange == "" {
		timeRange = defaultTimeRange
	}

	log.Info().Str("request_id", requestID).Str("query", req.Query).Msg("Starting diagnosis")

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(req.ServiceName, timeRange)},
		{Role: openai.ChatMessageRoleUser, Content: req.Query},
	}
	definitions := a.registry.Definitions()

	var trace []dto.ToolExecution
	var analysis string
	answered := false

	for iteration := 0; iteration < maxIterations; iteration++ {
		log.Info().Str("request_id", requestID).Int("iteration", iteration+1).Int("max_iterations", maxIterations).Msg("Consulting model")

		assistant, err := a.llm.ChatWithTools(ctx, messages, definitions)
		if err != nil {
			return nil, fmt.Errorf("model consultation failed: %w", err)
		}

		if len(assistant.ToolCalls) == 0 {
			analysis = assistant.Content
			answered = true
			break
		}

		messages = append(messages, assistant)

		// Execute requested tools sequentially, in the order the model
		// listed them, so the trace and conversation stay deterministic.
		for _, call := range assistant.ToolCalls {
			result := a.dispatch(ctx, call)
			trace = append(trace, deriveExecution(call.Function.Name, result))
			messages = append(messages, toolMessage(call, result))
		}
	}

	if !answered {
		analysis = exhaustedAnalysis
		log.Warn().Str("request_id", requestID).Msg("Max iterations reached")
	}

	result := assembleResult(requestID, req.Query, analysis, trace, startedAt, time.Now())
	if err := a.history.Save(ctx, result); err != nil {
		log.Warn().Err(err).Str("request_id", requestID).Msg("Failed to record diagnosis history")
	}
	log.Info().Str("request_id", requestID).Int64("processing_time_ms", result.ProcessingTimeMS).Msg("Diagnosis complete")
	return result, nil
}

// dispatch resolves and runs one tool call. Unknown tool names and
// malformed argument payloads come straight from the model, so both are
// recorded as failed results rather than propagated.
func (a *diagnosisAgent) dispatch(ctx context.Context, call openai.ToolCall) tool.Result {
	name := call.Function.Name

	var args tool.Args
	if raw := call.Function.Arguments; raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			log.Warn().Err(err).Str("tool", name).Msg("Model produced malformed tool arguments")
			return tool.Result{
				Success:   false,
				Error:     fmt.Sprintf("malformed tool arguments: %v", err),
				Timestamp: time.Now().UTC(),
			}
		}
	}

	t, err := a.registry.Resolve(name)
	if err != nil {
		log.Warn().Err(err).Str("tool", name).Msg("Model requested unknown tool")
		return tool.Result{
			Success:   false,
			Error:     err.Error(),
			Timestamp: time.Now().UTC(),
		}
	}

	log.Info().Str("tool", name).Interface("args", args).Msg("Model requested tool")
	return tool.Run(ctx, t, args)
}

// toolMessage folds a tool result back into the conversation, correlated to
// the originating call. Failed executions contribute an empty object.
func toolMessage(call openai.ToolCall, result tool.Result) openai.ChatCompletionMessage {
	content := "{}"
	if result.Success {
		if encoded, err := json.Marshal(result.Data); err == nil {
			content = string(encoded)
		}
	}
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Name:       call.Function.Name,
		Content:    content,
		ToolCallID: call.ID,
	}
}

// deriveExecution turns a tool result into its trace record.
func deriveExecution(toolName string, result tool.Result) dto.ToolExecution {
	return dto.ToolExecution{
		ToolName:        toolName,
		ExecutionTimeMS: result.ExecutionTimeMS,
		ResultSummary:   summarizeResult(toolName, result),
		DataPoints:      countDataPoints(result),
	}
}

func summarizeResult(toolName string, result tool.Result) string {
	if !result.Success {
		return fmt.Sprintf("Error: %s", result.Error)
	}
	switch toolName {
	case "query_logs":
		return fmt.Sprintf("Found %d logs", intField(result.Data, "total_logs"))
	case "query_metrics":
		return fmt.Sprintf("Retrieved %d metric types", metricsLen(result.Data["metrics"]))
	}
	return "Executed successfully"
}

// intField reads an integer result field that may have round-tripped
// through JSON as a float64.
func intField(data map[string]interface{}, key string) int {
	switch v := data[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func metricsLen(v interface{}) int {
	switch m := v.(type) {
	case map[string][]model.MetricPoint:
		return len(m)
	case map[string]interface{}:
		return len(m)
	}
	return 0
}

func countDataPoints(result tool.Result) int {
	if !result.Success {
		return 0
	}
	if _, ok := result.Data["total_logs"]; ok {
		return intField(result.Data, "total_logs")
	}
	if _, ok := result.Data["data_points"]; ok {
		return intField(result.Data, "data_points")
	}
	return 0
}

// assembleResult builds the diagnosis record from the terminal loop state.
// Pure given its inputs; only the request id and timestamps vary per call.
func assembleResult(requestID, query, analysis string, trace []dto.ToolExecution, startedAt, finishedAt time.Time) *dto.DiagnosisResult {
	if trace == nil {
		trace = []dto.ToolExecution{}
	}
	return &dto.DiagnosisResult{
		RequestID: requestID,
		// The partial/failed taxonomy exists for future escalation; the
		// loop reports success even on iteration exhaustion.
		Status:           dto.StatusSuccess,
		Query:            query,
		Analysis:         analysis,
		ToolsExecuted:    trace,
		ProcessingTimeMS: finishedAt.Sub(startedAt).Milliseconds(),
		Timestamp:        finishedAt.UTC(),
	}
}

func buildSystemPrompt(serviceName, timeRange string) string {
	focus := serviceName
	if focus == "" {
		focus = "all services"
	}
	return fmt.Sprintf(`You are an expert SRE (Site Reliability Engineer) diagnosing production incidents.

Your role:
1. Analyze the user's question about an incident
2. Use available tools (query_logs, query_metrics) to gather data
3. Identify root causes, affected services, and timeline
4. Provide actionable remediation suggestions

Context:
- Service: %s
- Time range: %s

Be thorough but concise. Focus on actionable insights.`, focus, timeRange)
}
