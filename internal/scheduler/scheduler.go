package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"incident-intelligence-backend/config"
	"incident-intelligence-backend/internal/repository"
)

// NewProviderProbe schedules periodic health pings against the live
// providers. Failures are logged as warnings only: per-call fallback to
// mock data already covers the request path, the probe just makes an outage
// visible before a diagnosis trips over it.
func NewProviderProbe(lc fx.Lifecycle, cfg *config.Config, providers repository.LiveProviders) *cron.Cron {
	c := cron.New()

	probe := func(name string, target interface{}) {
		checker, ok := target.(repository.HealthChecker)
		if !ok || target == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := checker.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("provider", name).Msg("Live provider unreachable, tool calls will fall back to mock data")
			return
		}
		log.Debug().Str("provider", name).Msg("Live provider healthy")
	}

	_, err := c.AddFunc(cfg.Probe.Schedule, func() {
		probe("logs", providers.Logs)
		probe("metrics", providers.Metrics)
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Probe.Schedule).Msg("Failed to add provider probe job")
		return nil
	}
	log.Info().Str("schedule", cfg.Probe.Schedule).Msg("Scheduled provider health probe")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := c.Stop()
			select {
			case <-stopCtx.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return c
}
