package tool

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/repository"
	"incident-intelligence-backend/internal/util"
)

// LogsTool queries application logs filtered by service, time range and
// severity. When the live provider errors, it degrades to the mock
// generator instead of failing the call.
type LogsTool struct {
	primary  repository.LogRepository // nil when running mock-only
	fallback repository.LogRepository
}

func NewLogsTool(primary, fallback repository.LogRepository) *LogsTool {
	return &LogsTool{primary: primary, fallback: fallback}
}

func (t *LogsTool) Name() string { return "query_logs" }

func (t *LogsTool) Description() string {
	return "Query application logs to find errors, warnings, and events. Use this to investigate what happened in the system."
}

func (t *LogsTool) Definition() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"service_name": {
						Type:        jsonschema.String,
						Description: "Name of the service to query (e.g., 'checkout-service', 'payment-service') or 'all' for all services. Defaults to 'all'.",
					},
					"time_range": {
						Type:        jsonschema.String,
						Enum:        util.TimeRangeTokens,
						Description: "Time range to query. Defaults to '15m'.",
					},
					"severity": {
						Type:        jsonschema.String,
						Enum:        []string{"info", "warning", "error", "critical", "all"},
						Description: "Log severity level to filter. Defaults to 'all'.",
					},
					"limit": {
						Type:        jsonschema.Integer,
						Description: "Maximum number of logs to return. Defaults to 100.",
					},
				},
			},
		},
	}
}

func (t *LogsTool) Execute(ctx context.Context, args Args) (map[string]interface{}, error) {
	timeRange := args.StringOr("time_range", "15m")
	minutes, err := util.ParseTimeRange(timeRange)
	if err != nil {
		return nil, err
	}

	q := repository.LogQuery{
		Service:  args.StringOr("service_name", "all"),
		Severity: strings.ToLower(args.StringOr("severity", "all")),
		Minutes:  minutes,
		Limit:    args.IntOr("limit", 100),
		End:      time.Now().UTC(),
	}
	if q.Limit < 0 {
		q.Limit = 0
	}

	logs, err := t.fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	// Providers are expected to honor order and limit; enforce both so the
	// result shape does not depend on which one answered.
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	if len(logs) > q.Limit {
		logs = logs[:q.Limit]
	}

	return map[string]interface{}{
		"total_logs": len(logs),
		"time_range": timeRange,
		"service":    q.Service,
		"logs":       logs,
	}, nil
}

func (t *LogsTool) fetch(ctx context.Context, q repository.LogQuery) ([]model.LogEntry, error) {
	if t.primary != nil {
		logs, err := t.primary.FetchLogs(ctx, q)
		if err == nil {
			return logs, nil
		}
		log.Warn().Err(err).Str("tool", t.Name()).Msg("Live log provider failed, falling back to mock data")
	}
	return t.fallback.FetchLogs(ctx, q)
}
