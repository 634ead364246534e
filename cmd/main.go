package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"incident-intelligence-backend/config"
	_ "incident-intelligence-backend/docs" // generated by swag
	"incident-intelligence-backend/internal/controller"
	"incident-intelligence-backend/internal/elasticsearch"
	"incident-intelligence-backend/internal/mockdata"
	"incident-intelligence-backend/internal/repository"
	"incident-intelligence-backend/internal/scheduler"
	"incident-intelligence-backend/internal/service"
	"incident-intelligence-backend/internal/store"
	"incident-intelligence-backend/internal/timescaledb"
	"incident-intelligence-backend/internal/tool"
)

// @title           Incident Intelligence API
// @version         1.0
// @description     AI-assisted incident diagnosis. A language model investigates production incidents through log and metric query tools and returns a synthesized root-cause analysis with the tool-call trace.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

// @tag.name         diagnosis
// @tag.description  Incident diagnosis and tool discovery

// @tag.name         simulation
// @tag.description  Incident scenario injection for the mock provider

// @tag.name         health
// @tag.description  API health check operations

func main() {
	app := fx.New(
		// Core Dependencies
		fx.Provide(
			NewConfig,
		),
		// Infrastructure Dependencies
		fx.Provide(
			NewGinEngine,
			mockdata.NewLogRepository,
			mockdata.NewMetricRepository,
			NewLiveProviders,
			NewToolRegistry,
			store.NewInMemoryDiagnosisStore,
			service.NewOpenAILLMService,
			service.NewDiagnosisService,
			service.NewSimulationService,
			controller.NewDiagnosisController,
			controller.NewSimulationController,
		),
		fx.Invoke(
			RegisterAPIRoutes,
			RegisterProviderProbe,
		),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}
	<-app.Done()

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()
	log.Info().Msg("Shutting down application...")
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown due to error or timeout")
	}
}

func NewConfig() (*config.Config, error) {
	return config.NewConfig()
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// NewLiveProviders constructs the optional live backends. Connection
// failures degrade to mock data with a warning instead of aborting startup.
func NewLiveProviders(cfg *config.Config) repository.LiveProviders {
	var providers repository.LiveProviders
	if cfg.Agent.UseMockData {
		log.Info().Msg("USE_MOCK_DATA is set, running on mock providers only")
		return providers
	}

	logs, err := elasticsearch.NewLogRepository(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Live log provider unavailable, falling back to mock data")
	} else {
		providers.Logs = logs
	}

	metrics, err := timescaledb.NewMetricRepository(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Live metric provider unavailable, falling back to mock data")
	} else {
		providers.Metrics = metrics
	}

	return providers
}

func NewToolRegistry(
	providers repository.LiveProviders,
	mockLogs *mockdata.LogRepository,
	mockMetrics *mockdata.MetricRepository,
) (*tool.Registry, error) {
	return tool.NewRegistry(
		tool.NewLogsTool(providers.Logs, mockLogs),
		tool.NewMetricsTool(providers.Metrics, mockMetrics),
	)
}

// --- Invoker Functions ---

func RegisterAPIRoutes(
	lifecycle fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	diagnosisController *controller.DiagnosisController,
	simulationController *controller.SimulationController,
) {
	controller.RegisterDiagnosisRoutes(router, diagnosisController)
	controller.RegisterSimulationRoutes(router, simulationController)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Starting HTTP server on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("HTTP server ListenAndServe error")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Shutting down HTTP server...")
			return server.Shutdown(ctx)
		},
	})
}

func RegisterProviderProbe(lc fx.Lifecycle, cfg *config.Config, providers repository.LiveProviders) {
	scheduler.NewProviderProbe(lc, cfg, providers)
}
