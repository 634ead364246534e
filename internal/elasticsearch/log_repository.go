// Package elasticsearch implements the live log provider on top of an
// Elasticsearch index of structured log entries.
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/config"
	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/repository"
)

type logRepository struct {
	esTypedClient *elasticsearch.TypedClient
	index         string
}

// NewLogRepository connects to Elasticsearch with retries and returns the
// live log provider. A connection failure is an error; the caller decides
// whether to degrade to mock data.
func NewLogRepository(cfg *config.Config) (repository.LogRepository, error) {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	esCfg := elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Transport: transport,
	}

	var typedClient *elasticsearch.TypedClient
	operation := func() error {
		var err error
		typedClient, err = elasticsearch.NewTypedClient(esCfg)
		if err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error creating the Elasticsearch client")
			return err
		}
		if _, err = typedClient.Info().Do(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Attempt failed: Error during Elasticsearch Info() call")
			return err
		}
		return nil
	}

	connectBackoff := backoff.NewExponentialBackOff()
	connectBackoff.InitialInterval = 2 * time.Second
	connectBackoff.MaxInterval = 15 * time.Second
	connectBackoff.MaxElapsedTime = 45 * time.Second

	log.Info().Msg("Attempting to connect to Elasticsearch with retries...")
	if err := backoff.Retry(operation, connectBackoff); err != nil {
		return nil, fmt.Errorf("elasticsearch connection failed: %w", err)
	}

	log.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Str("index", cfg.Elasticsearch.LogIndex).Msg("Elasticsearch log provider initialized")
	return &logRepository{
		esTypedClient: typedClient,
		index:         cfg.Elasticsearch.LogIndex,
	}, nil
}

func (r *logRepository) FetchLogs(ctx context.Context, q repository.LogQuery) ([]model.LogEntry, error) {
	start := q.End.Add(-time.Duration(q.Minutes) * time.Minute)
	startStr := start.Format(time.RFC3339)
	endStr := q.End.Format(time.RFC3339)

	queryParts := []types.Query{
		{
			Range: map[string]types.RangeQuery{
				"timestamp": types.DateRangeQuery{
					Gte: &startStr,
					Lte: &endStr,
				},
			},
		},
	}

	if q.Service != "all" {
		queryParts = append(queryParts, types.Query{
			Term: map[string]types.TermQuery{
				"service.keyword": {Value: q.Service},
			},
		})
	}

	if q.Severity != "all" {
		// Severity values are indexed upper-case; the query token arrives
		// lower-case.
		queryParts = append(queryParts, types.Query{
			Terms: &types.TermsQuery{
				TermsQuery: map[string]types.TermsQueryField{
					"severity.keyword": []types.FieldValue{toIndexedSeverity(q.Severity)},
				},
			},
		})
	}

	order := sortorder.Desc
	searchRequest := &search.Request{
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Filter: queryParts,
			},
		},
		Size: &q.Limit,
		Sort: []types.SortCombinations{
			types.SortOptions{
				SortOptions: map[string]types.FieldSort{
					"timestamp": {Order: &order},
				},
			},
		},
	}

	res, err := r.esTypedClient.Search().
		Index(r.index).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	logs := make([]model.LogEntry, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var entry model.LogEntry
		if hit.Source_ != nil {
			if err := json.Unmarshal(hit.Source_, &entry); err != nil {
				log.Error().Err(err).Msg("Error unmarshalling Elasticsearch hit source")
				continue
			}
			logs = append(logs, entry)
		}
	}

	log.Debug().Int("returned_hits", len(logs)).Msg("Elasticsearch search successful")
	return logs, nil
}

// Ping verifies the cluster is reachable. Used by the provider probe.
func (r *logRepository) Ping(ctx context.Context) error {
	if _, err := r.esTypedClient.Info().Do(ctx); err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	return nil
}

func toIndexedSeverity(severity string) string {
	switch severity {
	case "info":
		return "INFO"
	case "warning":
		return "WARNING"
	case "error":
		return "ERROR"
	case "critical":
		return "CRITICAL"
	}
	return severity
}
