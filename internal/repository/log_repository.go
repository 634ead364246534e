package repository

import (
	"context"
	"time"

	"incident-intelligence-backend/internal/model"
)

// LogQuery describes one window of logs to fetch. End is the upper bound
// of the window; the lower bound is End minus Minutes.
type LogQuery struct {
	Service  string // "all" matches every service
	Severity string // "all" matches every severity, otherwise case-insensitive match
	Minutes  int
	Limit    int
	End      time.Time
}

type LogRepository interface {
	FetchLogs(ctx context.Context, q LogQuery) ([]model.LogEntry, error)
}
