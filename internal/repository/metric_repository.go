package repository

import (
	"context"
	"time"

	"incident-intelligence-backend/internal/model"
)

// MetricQuery asks for one time series, one point per minute of the window.
type MetricQuery struct {
	Service   string // "all" aggregates across services
	MetricKey string // one of the model.MetricKey* series keys
	Minutes   int
	End       time.Time
}

type MetricRepository interface {
	FetchSeries(ctx context.Context, q MetricQuery) ([]model.MetricPoint, error)
}
