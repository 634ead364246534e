package mockdata

import (
	"context"
	"math"

	"time"

	"incident-intelligence-backend/internal/model"
	"incident-intelligence-backend/internal/repository"
)

// seriesProfile shapes one synthetic metric series: a base level with a
// bounded oscillation and periodic spikes standing in for incidents.
type seriesProfile struct {
	base       float64
	variance   float64
	spikeEvery int
	magnitude  float64
}

var seriesProfiles = map[string]seriesProfile{
	model.MetricKeyCPU:       {base: 60, variance: 20, spikeEvery: 10, magnitude: 2},
	model.MetricKeyMemory:    {base: 75, variance: 10, spikeEvery: 20, magnitude: 2},
	model.MetricKeyLatency:   {base: 250, variance: 100, spikeEvery: 7, magnitude: 3},
	model.MetricKeyErrorRate: {base: 0.5, variance: 0.3, spikeEvery: 5, magnitude: 10},
}

// MetricRepository generates synthetic time series, one point per minute.
type MetricRepository struct{}

func NewMetricRepository() *MetricRepository {
	return &MetricRepository{}
}

func (r *MetricRepository) FetchSeries(ctx context.Context, q repository.MetricQuery) ([]model.MetricPoint, error) {
	profile, ok := seriesProfiles[q.MetricKey]
	if !ok {
		// Unknown keys produce a flat zero series; the tool layer decides
		// which keys to ask for in the first place.
		profile = seriesProfile{spikeEvery: 1 << 30, magnitude: 1}
	}

	points := make([]model.MetricPoint, 0, q.Minutes)
	for i := 0; i < q.Minutes; i++ {
		ts := q.End.Add(-time.Duration(q.Minutes-i) * time.Minute)
		value := profile.base + profile.variance*math.Sin(float64(i)*0.7)
		if profile.spikeEvery > 0 && (i+1)%profile.spikeEvery == 0 {
			value *= profile.magnitude
		}
		if value < 0 {
			value = 0
		}
		points = append(points, model.MetricPoint{
			Timestamp: ts,
			Value:     math.Round(value*100) / 100,
		})
	}
	return points, nil
}
