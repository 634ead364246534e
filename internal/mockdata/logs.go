// Package mockdata provides deterministic synthetic log and metric
// providers. They back the query tools when no live backend is configured
// and serve as the fallback when a live backend fails.
package mockdata

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/repository"
)

type logTemplate struct {
	Severity string
	Message  string
	Service  string
}

var logTemplates = []logTemplate{
	{
		Severity: "ERROR",
		Message:  "Database connection pool exhausted: max_connections=100, active=100",
		Service:  "checkout-service",
	},
	{
		Severity: "WARNING",
		Message:  "High latency detected: response_time=5.2s (threshold: 1s)",
		Service:  "checkout-service",
	},
	{
		Severity: "ERROR",
		Message:  "Failed to acquire database connection: timeout after 30s",
		Service:  "payment-service",
	},
	{
		Severity: "INFO",
		Message:  "Successfully processed payment: transaction_id=xyz123",
		Service:  "payment-service",
	},
	{
		Severity: "CRITICAL",
		Message:  "Out of memory: heap usage 98%, triggering garbage collection",
		Service:  "checkout-service",
	},
}

// LogRepository generates synthetic log entries on demand. Simulation
// endpoints may inject additional incident bursts, which are kept in memory
// and merged into subsequent queries.
type LogRepository struct {
	mu       sync.RWMutex
	injected []model.LogEntry
}

func NewLogRepository() *LogRepository {
	return &LogRepository{}
}

// FetchLogs produces entries matching the query, most recent first.
// Output is deterministic for a given query and injected state.
func (r *LogRepository) FetchLogs(ctx context.Context, q repository.LogQuery) ([]model.LogEntry, error) {
	window := time.Duration(q.Minutes) * time.Minute
	since := q.End.Add(-window)

	templates := filterTemplates(q.Service, q.Severity)

	count := q.Minutes * 2
	if count < 10 {
		count = 10
	}
	if count > 50 {
		count = 50
	}
	if count > q.Limit {
		count = q.Limit
	}
	if len(templates) == 0 {
		count = 0
	}

	entries := make([]model.LogEntry, 0, count)
	for i := 0; i < count; i++ {
		tpl := templates[i%len(templates)]
		// Spread timestamps evenly back through the window.
		ts := q.End.Add(-time.Duration(i+1) * window / time.Duration(count+1))
		entries = append(entries, model.LogEntry{
			Timestamp: ts,
			Severity:  tpl.Severity,
			Service:   tpl.Service,
			Message:   tpl.Message,
			TraceID:   fmt.Sprintf("trace_%04d", 1000+(i*37)%9000),
		})
	}

	r.mu.RLock()
	for _, e := range r.injected {
		if e.Timestamp.Before(since) || e.Timestamp.After(q.End) {
			continue
		}
		if !matches(e, q.Service, q.Severity) {
			continue
		}
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > q.Limit {
		entries = entries[:q.Limit]
	}
	return entries, nil
}

// Inject appends incident-burst entries to the repository state.
func (r *LogRepository) Inject(entries []model.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.injected = append(r.injected, entries...)
}

func filterTemplates(service, severity string) []logTemplate {
	var out []logTemplate
	for _, t := range logTemplates {
		if service != "all" && t.Service != service {
			continue
		}
		if severity != "all" && !strings.EqualFold(t.Severity, severity) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matches(e model.LogEntry, service, severity string) bool {
	if service != "all" && e.Service != service {
		return false
	}
	if severity != "all" && !strings.EqualFold(e.Severity, severity) {
		return false
	}
	return true
}
