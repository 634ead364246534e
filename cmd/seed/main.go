// Seeds an Elasticsearch index with log entries so the live log provider
// has data to serve in demos. Entries come either from a plain-text log
// file or, by default, from the synthetic generator.
//
// Usage:
//
//	go run ./cmd/seed -addresses http://localhost:9200 -index incident-logs -count 500
//	go run ./cmd/seed -file app.log
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/internal/mockdata"
	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/parser"
	"incident-intelligence-backend/internal/repository"
)

func main() {
	addresses := flag.String("addresses", "http://localhost:9200", "Comma-separated Elasticsearch addresses")
	index := flag.String("index", "incident-logs", "Target index")
	count := flag.Int("count", 500, "Number of synthetic log entries to index")
	file := flag.String("file", "", "Plain-text log file to parse and index instead of synthetic entries")
	flag.Parse()

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: strings.Split(*addresses, ","),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating Elasticsearch client")
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     es,
		Index:      *index,
		NumWorkers: 2,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating bulk indexer")
	}

	ctx := context.Background()

	var entries []model.LogEntry
	if *file != "" {
		entries, err = parseLogFile(*file)
	} else {
		// Generate one day of synthetic entries via the mock provider.
		entries, err = mockdata.NewLogRepository().FetchLogs(ctx, repository.LogQuery{
			Service:  "all",
			Severity: "all",
			Minutes:  1440,
			Limit:    *count,
			End:      time.Now().UTC(),
		})
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Error collecting log entries")
	}

	for _, entry := range entries {
		doc, err := json.Marshal(entry)
		if err != nil {
			log.Error().Err(err).Msg("Error marshaling log entry")
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action: "index",
			Body:   bytes.NewReader(doc),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				log.Error().Err(err).Str("reason", res.Error.Reason).Msg("Failed to index log entry")
			},
		})
		if err != nil {
			log.Error().Err(err).Msg("Error adding entry to bulk indexer")
		}
	}

	if err := bi.Close(ctx); err != nil {
		log.Fatal().Err(err).Msg("Error closing bulk indexer")
	}

	stats := bi.Stats()
	log.Info().
		Uint64("indexed", stats.NumFlushed).
		Uint64("failed", stats.NumFailed).
		Str("index", *index).
		Msg("Seeding complete")
}

// parseLogFile reads a plain-text log file line by line. Lines that do not
// match the expected format are skipped with a warning.
func parseLogFile(path string) ([]model.LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p := parser.NewAppLogParser()
	var entries []model.LogEntry

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		entry, err := p.Parse(scanner.Text())
		if err != nil {
			log.Warn().Err(err).Int("line", lineNo).Msg("Skipping unparseable log line")
			continue
		}
		entries = append(entries, *entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	log.Info().Int("parsed", len(entries)).Str("file", path).Msg("Parsed log file")
	return entries, nil
}
