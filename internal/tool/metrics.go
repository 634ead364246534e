package tool

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/repository"
	"incident-intelligence-backend/internal/util"
)

// MetricsTool queries system metrics as per-minute time series. Unknown
// metric types yield an empty metrics mapping, not an error; the strict
// enum treatment is reserved for time_range.
type MetricsTool struct {
	primary  repository.MetricRepository // nil when running mock-only
	fallback repository.MetricRepository
}

func NewMetricsTool(primary, fallback repository.MetricRepository) *MetricsTool {
	return &MetricsTool{primary: primary, fallback: fallback}
}

func (t *MetricsTool) Name() string { return "query_metrics" }

func (t *MetricsTool) Description() string {
	return "Query system metrics like CPU usage, memory, latency, and error rates. Use this to understand system performance and resource utilization."
}

func (t *MetricsTool) Definition() openai.Tool {
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
						Description: "Name of the service to query or 'all' for all services. Defaults to 'all'.",
					},
					"metric_type": {
						Type:        jsonschema.String,
						Enum:        []string{"cpu", "memory", "latency", "error_rate", "all"},
						Description: "Type of metric to query. Defaults to 'all'.",
					},
					"time_range": {
						Type:        jsonschema.String,
						Enum:        util.TimeRangeTokens,
						Description: "Time range to query. Defaults to '15m'.",
					},
				},
			},
		},
	}
}

// metricKeys resolves a metric_type token to the series keys it implies.
// Unrecognized tokens resolve to nothing.
func metricKeys(metricType string) []string {
	switch metricType {
	case "cpu":
		return []string{model.MetricKeyCPU}
	case "memory":
		return []string{model.MetricKeyMemory}
	case "latency":
		return []string{model.MetricKeyLatency}
	case "error_rate":
		return []string{model.MetricKeyErrorRate}
	case "all":
		return []string{model.MetricKeyCPU, model.MetricKeyMemory, model.MetricKeyLatency, model.MetricKeyErrorRate}
	}
	return nil
}

func (t *MetricsTool) Execute(ctx context.Context, args Args) (map[string]interface{}, error) {
	timeRange := args.StringOr("time_range", "15m")
	minutes, err := util.ParseTimeRange(timeRange)
	if err != nil {
		return nil, err
	}

	service := args.StringOr("service_name", "all")
	metricType := args.StringOr("metric_type", "all")
	end := time.Now().UTC()

	metrics := map[string][]model.MetricPoint{}
	for _, key := range metricKeys(metricType) {
		q := repository.MetricQuery{
			Service:   service,
			MetricKey: key,
			Minutes:   minutes,
			End:       end,
		}
		series, err := t.fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		metrics[key] = series
	}

	return map[string]interface{}{
		"service":     service,
		"time_range":  timeRange,
		"metric_type": metricType,
		"data_points": minutes,
		"metrics":     metrics,
	}, nil
}

func (t *MetricsTool) fetch(ctx context.Context, q repository.MetricQuery) ([]model.MetricPoint, error) {
	if t.primary != nil {
		series, err := t.primary.FetchSeries(ctx, q)
		if err == nil {
			return series, nil
		}
		log.Warn().Err(err).Str("tool", t.Name()).Str("metric_key", q.MetricKey).Msg("Live metric provider failed, falling back to mock data")
	}
	return t.fallback.FetchSeries(ctx, q)
}
