package repository

import "context"

// HealthChecker is implemented by live providers that can be probed.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// LiveProviders bundles the optional live backends. A nil field means the
// corresponding tool runs on mock data only.
type LiveProviders struct {
	Logs    LogRepository
	Metrics MetricRepository
}
