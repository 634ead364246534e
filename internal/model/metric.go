package model

import "time"

type MetricPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Metric series keys as exposed in tool results, one per metric type.
const (
	MetricKeyCPU       = "cpu_usage_percent"
	MetricKeyMemory    = "memory_usage_percent"
	MetricKeyLatency   = "response_time_ms"
	MetricKeyErrorRate = "error_rate_percent"
)
