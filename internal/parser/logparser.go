package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"incident-intelligence-backend/internal/model"
)

// LogLineParser turns one raw application log line into a structured entry.
type LogLineParser interface {
	Parse(line string) (*model.LogEntry, error)
}

type appLogParser struct {
	lineRegex *regexp.Regexp
}

// NewAppLogParser parses the plain-text format the services emit:
//
//	2025-03-01T12:00:00Z ERROR checkout-service [trace_1042] Database connection pool exhausted
//
// The trace id segment is optional.
func NewAppLogParser() LogLineParser {
	// Groups: 1:Timestamp, 2:Severity, 3:Service, 4:TraceID (optional), 5:Message
	regex := regexp.MustCompile(`^(\S+)\s+(DEBUG|INFO|WARNING|WARN|ERROR|CRITICAL)\s+([\w\-]+)\s+(?:\[([\w\-]+)\]\s+)?(.*)$`)
	return &appLogParser{lineRegex: regex}
}

func (p *appLogParser) Parse(line string) (*model.LogEntry, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, fmt.Errorf("empty log line")
	}

	matches := p.lineRegex.FindStringSubmatch(trimmed)
	if matches == nil {
		return nil, fmt.Errorf("log line does not match expected format: %q", trimmed)
	}

	ts, err := time.Parse(time.RFC3339, matches[1])
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", matches[1], err)
	}

	severity := matches[2]
	if severity == "WARN" {
		severity = "WARNING"
	}

	return &model.LogEntry{
		Timestamp: ts.UTC(),
		Severity:  severity,
		Service:   matches[3],
		TraceID:   matches[4],
		Message:   matches[5],
	}, nil
}
