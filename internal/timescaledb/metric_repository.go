// Package timescaledb implements the live metric provider on top of a
// TimescaleDB hypertable of per-service metric samples.
package timescaledb

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"incident-intelligence-backend/config"
	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/repository"
)

type metricRepository struct {
	pool        *pgxpool.Pool
	metricTable string
}

// NewMetricRepository connects to TimescaleDB and returns the live metric
// provider. The table is expected to hold rows of
// (time TIMESTAMPTZ, service TEXT, metric_name TEXT, value DOUBLE PRECISION).
func NewMetricRepository(cfg *config.Config) (repository.MetricRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.TimescaleDB.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse TimescaleDB DSN")
		return nil, fmt.Errorf("invalid TimescaleDB DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create connection pool to TimescaleDB")
		return nil, fmt.Errorf("failed to connect to TimescaleDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ping TimescaleDB")
		return nil, fmt.Errorf("failed to ping TimescaleDB: %w", err)
	}

	log.Info().Str("table", cfg.TimescaleDB.MetricTable).Msg("TimescaleDB metric provider initialized")
	return &metricRepository{
		pool:        pool,
		metricTable: cfg.TimescaleDB.MetricTable,
	}, nil
}

// FetchSeries aggregates samples into per-minute buckets and resamples them
// onto the exact minute grid of the window, so the series length always
// equals the requested minute count. Missing minutes read as zero; negative
// aggregates are clamped.
func (r *metricRepository) FetchSeries(ctx context.Context, q repository.MetricQuery) ([]model.MetricPoint, error) {
	start := q.End.Add(-time.Duration(q.Minutes) * time.Minute)

	sql := fmt.Sprintf(`
		SELECT time_bucket('1 minute', time) AS bucket, AVG(value) AS value
		FROM %s
		WHERE metric_name = $1 AND time >= $2 AND time < $3`, r.metricTable)
	args := []interface{}{q.MetricKey, start, q.End}
	if q.Service != "all" {
		sql += " AND service = $4"
		args = append(args, q.Service)
	}
	sql += " GROUP BY bucket ORDER BY bucket ASC"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		log.Error().Err(err).Str("metric_key", q.MetricKey).Msg("Failed to query metric buckets")
		return nil, fmt.Errorf("timescaledb query failed: %w", err)
	}
	defer rows.Close()

	buckets := make(map[int64]float64, q.Minutes)
	for rows.Next() {
		var bucket time.Time
		var value float64
		if err := rows.Scan(&bucket, &value); err != nil {
			return nil, fmt.Errorf("timescaledb row scan failed: %w", err)
		}
		buckets[bucket.UTC().Truncate(time.Minute).Unix()] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timescaledb rows failed: %w", err)
	}

	points := make([]model.MetricPoint, 0, q.Minutes)
	for i := 0; i < q.Minutes; i++ {
		ts := q.End.Add(-time.Duration(q.Minutes-i) * time.Minute)
		value := buckets[ts.UTC().Truncate(time.Minute).Unix()]
		if value < 0 {
			value = 0
		}
		points = append(points, model.MetricPoint{Timestamp: ts, Value: value})
	}
	return points, nil
}

// Ping verifies the database is reachable. Used by the provider probe.
func (r *metricRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("timescaledb ping failed: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *metricRepository) Close() {
	r.pool.Close()
}
