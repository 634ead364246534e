// Package tool implements the data-access tools the diagnosis agent can
// call, the execution wrapper that shapes their results, and the registry
// that exposes them to the language model.
package tool

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Args holds the argument mapping of one tool call, as decoded from the
// model's JSON. Accessors apply the tool defaults for missing keys.
type Args map[string]interface{}

func (a Args) StringOr(key, def string) string {
	if v, ok := a[key].(string); ok && v != "" {
		return v
	}
	return def
}

func (a Args) IntOr(key string, def int) int {
	switch v := a[key].(type) {
	case float64: // JSON numbers decode as float64
		return int(v)
	case int:
		return v
	}
	return def
}

// Tool is one capability the model can invoke.
type Tool interface {
	Name() string
	Description() string
	// Definition returns the function schema consumed by the model's
	// tool-calling API. It must stay in sync with Execute's contract.
	Definition() openai.Tool
	// Execute runs the tool. Failures are reported as an error; the Run
	// wrapper converts them into a Result envelope.
	Execute(ctx context.Context, args Args) (map[string]interface{}, error)
}

// Result is the envelope every tool execution produces. Exactly one of
// Data/Error is meaningful, gated by Success.
type Result struct {
	Success         bool                   `json:"success"`
	Data            map[string]interface{} `json:"data,omitempty"`
	Error           string                 `json:"error,omitempty"`
	ExecutionTimeMS int64                  `json:"execution_time_ms"`
	Timestamp       time.Time              `json:"timestamp"`
}

// Run executes a tool and always returns a Result: any error from the tool
// is absorbed into a failed envelope. This is the only boundary that turns
// tool failures into data.
func Run(ctx context.Context, t Tool, args Args) Result {
	start := time.Now()
	log.Info().Str("tool", t.Name()).Interface("params", args).Msg("Tool started")

	data, err := t.Execute(ctx, args)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		log.Error().Err(err).Str("tool", t.Name()).Int64("execution_time_ms", elapsed).Msg("Tool failed")
		return Result{
			Success:         false,
			Error:           err.Error(),
			ExecutionTimeMS: elapsed,
			Timestamp:       time.Now().UTC(),
		}
	}

	log.Info().Str("tool", t.Name()).Int64("execution_time_ms", elapsed).Msg("Tool completed")
	return Result{
		Success:         true,
		Data:            data,
		ExecutionTimeMS: elapsed,
		Timestamp:       time.Now().UTC(),
	}
}
