package mockdata

import (
	"time"

	"incident-intelligence-backend/internal/model"
)

// Incident scenarios the simulation endpoints can inject. Each burst is a
// fixed set of entries shaped like the corresponding production failure.
var scenarioBursts = map[string][]logTemplate{
	"db-exhaustion": {
		{Severity: "ERROR", Message: "Database connection pool exhausted: max_connections=100, active=100", Service: "checkout-service"},
		{Severity: "ERROR", Message: "Failed to acquire database connection: timeout after 30s", Service: "payment-service"},
		{Severity: "WARNING", Message: "Connection wait queue length 42 exceeds threshold 10", Service: "checkout-service"},
	},
	"high-latency": {
		{Severity: "WARNING", Message: "High latency detected: response_time=5.2s (threshold: 1s)", Service: "checkout-service"},
		{Severity: "WARNING", Message: "Upstream call to inventory-service took 3.8s", Service: "checkout-service"},
	},
	"memory-leak": {
		{Severity: "CRITICAL", Message: "Out of memory: heap usage 98%, triggering garbage collection", Service: "checkout-service"},
		{Severity: "WARNING", Message: "GC pause 1.9s, old generation at 96%", Service: "checkout-service"},
	},
	"multi-issue": {
		{Severity: "ERROR", Message: "Database connection pool exhausted: max_connections=100, active=100", Service: "checkout-service"},
		{Severity: "WARNING", Message: "High latency detected: response_time=5.2s (threshold: 1s)", Service: "checkout-service"},
		{Severity: "CRITICAL", Message: "Out of memory: heap usage 98%, triggering garbage collection", Service: "checkout-service"},
		{Severity: "ERROR", Message: "Failed to acquire database connection: timeout after 30s", Service: "payment-service"},
	},
}

// Scenarios lists the supported scenario names.
func Scenarios() []string {
	return []string{"db-exhaustion", "high-latency", "memory-leak", "multi-issue"}
}

// InjectScenario injects one burst of scenario-shaped entries, stamped a few
// seconds apart ending at now, all sharing the given trace id. Returns the
// number of injected entries; false when the scenario is unknown.
func (r *LogRepository) InjectScenario(scenario, traceID string, now time.Time) (int, bool) {
	templates, ok := scenarioBursts[scenario]
	if !ok {
		return 0, false
	}
	entries := make([]model.LogEntry, 0, len(templates))
	for i, tpl := range templates {
		entries = append(entries, model.LogEntry{
			Timestamp: now.Add(-time.Duration(len(templates)-i) * 2 * time.Second),
			Severity:  tpl.Severity,
			Service:   tpl.Service,
			Message:   tpl.Message,
			TraceID:   traceID,
		})
	}
	r.Inject(entries)
	return len(entries), true
}
