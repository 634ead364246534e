package service

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incident-intelligence-backend/internal/dto"
	"incident-intelligence-backend/internal/mockdata"
	"incident-intelligence-backend/internal/store"
	"incident-intelligence-backend/internal/tool"
)

// scriptedLLM plays back a fixed sequence of assistant turns. The short
// sleep keeps measured processing time strictly positive.
type scriptedLLM struct {
	turns []openai.ChatCompletionMessage
	err   error

	calls    int
	received [][]openai.ChatCompletionMessage
}

func (s *scriptedLLM) ChatWithTools(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	time.Sleep(2 * time.Millisecond)
	s.received = append(s.received, append([]openai.ChatCompletionMessage(nil), messages...))
	if s.err != nil {
		return openai.ChatCompletionMessage{}, s.err
	}
	turn := s.turns[s.calls%len(s.turns)]
	s.calls++
	return turn, nil
}

func toolCallTurn(calls ...openai.ToolCall) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:      openai.ChatMessageRoleAssistant,
		ToolCalls: calls,
	}
}

func finalTurn(content string) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: content,
	}
}

func newTestRegistry(t *testing.T) *tool.Registry {
	t.Helper()
	registry, err := tool.NewRegistry(
		tool.NewLogsTool(nil, mockdata.NewLogRepository()),
		tool.NewMetricsTool(nil, mockdata.NewMetricRepository()),
	)
	require.NoError(t, err)
	return registry
}

func TestDiagnose_ToolLoopThenAnswer(t *testing.T) {
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{
		toolCallTurn(openai.ToolCall{
			ID:   "call_1",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "query_logs",
				Arguments: `{"service_name":"checkout-service","time_range":"1h","severity":"error"}`,
			},
		}),
		toolCallTurn(openai.ToolCall{
			ID:   "call_2",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "query_metrics",
				Arguments: `{"service_name":"checkout-service","time_range":"1h","metric_type":"all"}`,
			},
		}),
		finalTurn("Root cause: connection pool exhaustion in checkout-service."),
	}}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	result, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{
		Query:       "Why is checkout-service returning 500 errors?",
		ServiceName: "checkout-service",
		TimeRange:   "1h",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, llm.calls)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	assert.Equal(t, "Root cause: connection pool exhaustion in checkout-service.", result.Analysis)
	assert.Contains(t, result.RequestID, "req_")
	assert.Greater(t, result.ProcessingTimeMS, int64(0))

	require.Len(t, result.ToolsExecuted, 2)
	assert.Equal(t, "query_logs", result.ToolsExecuted[0].ToolName)
	assert.Equal(t, "query_metrics", result.ToolsExecuted[1].ToolName)
	assert.Contains(t, result.ToolsExecuted[0].ResultSummary, "Found")
	assert.Contains(t, result.ToolsExecuted[1].ResultSummary, "Retrieved 4 metric types")
	assert.Equal(t, 60, result.ToolsExecuted[1].DataPoints)
}

func TestDiagnose_ConversationCarriesToolResults(t *testing.T) {
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{
		toolCallTurn(openai.ToolCall{
			ID:   "call_9",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "query_logs",
				Arguments: `{"time_range":"15m"}`,
			},
		}),
		finalTurn("Done."),
	}}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	_, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "anything wrong?"})
	require.NoError(t, err)

	// Second consultation sees system, user, assistant and the correlated
	// tool message.
	require.Len(t, llm.received, 2)
	second := llm.received[1]
	require.Len(t, second, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, second[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, second[1].Role)
	assert.Equal(t, openai.ChatMessageRoleAssistant, second[2].Role)
	assert.Equal(t, openai.ChatMessageRoleTool, second[3].Role)
	assert.Equal(t, "call_9", second[3].ToolCallID)
	assert.Equal(t, "query_logs", second[3].Name)
	assert.Contains(t, second[3].Content, "total_logs")
}

func TestDiagnose_DefaultTimeRangeInSystemPrompt(t *testing.T) {
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{finalTurn("All quiet.")}}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	_, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "status?"})
	require.NoError(t, err)

	require.Len(t, llm.received, 1)
	system := llm.received[0][0]
	assert.Contains(t, system.Content, "Time range: 15m")
	assert.Contains(t, system.Content, "Service: all services")
}

func TestDiagnose_ExhaustionSentinel(t *testing.T) {
	// The model never stops asking for tools; the loop must cut it off
	// after five consultations and report the sentinel analysis.
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{
		toolCallTurn(openai.ToolCall{
			ID:   "call_loop",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "query_logs",
				Arguments: `{"time_range":"5m"}`,
			},
		}),
	}}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	result, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "keep digging"})
	require.NoError(t, err)

	assert.Equal(t, 5, llm.calls)
	assert.Equal(t, "Analysis incomplete: maximum tool call iterations reached.", result.Analysis)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	assert.Len(t, result.ToolsExecuted, 5)
}

func TestDiagnose_UnknownToolRecordedAsFailure(t *testing.T) {
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{
		toolCallTurn(openai.ToolCall{
			ID:   "call_x",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "query_traces",
				Arguments: `{}`,
			},
		}),
		finalTurn("Could not gather traces."),
	}}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	result, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "trace it"})
	require.NoError(t, err)

	require.Len(t, result.ToolsExecuted, 1)
	assert.Equal(t, "query_traces", result.ToolsExecuted[0].ToolName)
	assert.Contains(t, result.ToolsExecuted[0].ResultSummary, "Error:")
	assert.Equal(t, 0, result.ToolsExecuted[0].DataPoints)
	assert.Equal(t, "Could not gather traces.", result.Analysis)
}

func TestDiagnose_MalformedArgumentsRecordedAsFailure(t *testing.T) {
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{
		toolCallTurn(openai.ToolCall{
			ID:   "call_bad",
			Type: openai.ToolTypeFunction,
			Function: openai.FunctionCall{
				Name:      "query_logs",
				Arguments: `{"time_range": `,
			},
		}),
		finalTurn("Recovered."),
	}}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	result, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "bad args"})
	require.NoError(t, err)

	require.Len(t, result.ToolsExecuted, 1)
	assert.Contains(t, result.ToolsExecuted[0].ResultSummary, "malformed tool arguments")
	assert.Equal(t, "Recovered.", result.Analysis)
}

func TestDiagnose_OracleFailureAborts(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("rate limited")}
	agent := NewDiagnosisService(llm, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	result, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "anything"})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "model consultation failed")
}

func TestListTools(t *testing.T) {
	agent := NewDiagnosisService(&scriptedLLM{}, newTestRegistry(t), store.NewInMemoryDiagnosisStore())

	tools := agent.ListTools()
	require.Len(t, tools, 2)
	assert.Equal(t, "query_logs", tools[0].Name)
	assert.Equal(t, "query_metrics", tools[1].Name)
}

func TestDiagnose_RecordsHistory(t *testing.T) {
	llm := &scriptedLLM{turns: []openai.ChatCompletionMessage{finalTurn("All clear.")}}
	history := store.NewInMemoryDiagnosisStore()
	agent := NewDiagnosisService(llm, newTestRegistry(t), history)

	result, err := agent.Diagnose(context.Background(), dto.DiagnoseRequest{Query: "status?"})
	require.NoError(t, err)

	stored, err := agent.GetDiagnosis(context.Background(), result.RequestID)
	require.NoError(t, err)
	assert.Equal(t, result, stored)

	recent, err := agent.RecentDiagnoses(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, result.RequestID, recent[0].RequestID)

	_, err = agent.GetDiagnosis(context.Background(), "req_missing")
	assert.ErrorIs(t, err, store.ErrDiagnosisNotFound)
}

func TestAssembleResult(t *testing.T) {
	startedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	finishedAt := startedAt.Add(1250 * time.Millisecond)

	result := assembleResult("req_test", "why?", "because.", nil, startedAt, finishedAt)

	assert.Equal(t, "req_test", result.RequestID)
	assert.Equal(t, dto.StatusSuccess, result.Status)
	assert.Equal(t, "why?", result.Query)
	assert.Equal(t, "because.", result.Analysis)
	assert.NotNil(t, result.ToolsExecuted)
	assert.Empty(t, result.ToolsExecuted)
	assert.Equal(t, int64(1250), result.ProcessingTimeMS)
	assert.Equal(t, finishedAt, result.Timestamp)
}
