// Package main provides the entrypoint for the ResilRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/analysis"
	"github.com/resilroute/resilroute/internal/api"
	"github.com/resilroute/resilroute/internal/api/middleware"
	"github.com/resilroute/resilroute/internal/narrative"
	"github.com/resilroute/resilroute/internal/narrative/gemini"
	"github.com/resilroute/resilroute/internal/news"
	"github.com/resilroute/resilroute/internal/news/thenewsapi"
	"github.com/resilroute/resilroute/internal/provider/resilient"
	"github.com/resilroute/resilroute/internal/road"
	"github.com/resilroute/resilroute/internal/road/overpass"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/routing/osrm"
	"github.com/resilroute/resilroute/internal/telemetry"
	"github.com/resilroute/resilroute/internal/weather"
	"github.com/resilroute/resilroute/internal/weather/openmeteo"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "resilroute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ResilRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Provider registry backs the ops status endpoint
	registry := resilient.NewRegistry()

	// Initialize routing service
	osrmClient := resilient.NewClient(resilient.DefaultClientConfig(osrm.ProviderName))
	registry.Register(osrmClient)
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: osrm.NewClient(osrm.ClientConfig{
			BaseURL:    os.Getenv("OSRM_BASE_URL"),
			HTTPClient: osrmClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("routing service initialized")

	// Initialize weather service
	weatherClient := resilient.NewClient(resilient.DefaultClientConfig(openmeteo.ProviderName))
	registry.Register(weatherClient)
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			BaseURL:    os.Getenv("OPENMETEO_BASE_URL"),
			HTTPClient: weatherClient,
			Logger:     log,
		}),
		Logger: log,
	})
	log.Info().Msg("weather service initialized")

	// Initialize road analyzer. The Overpass classifier is optional; segment
	// length heuristics take over when it is disabled or failing.
	var classifier road.Classifier
	if os.Getenv("OVERPASS_ENABLED") == "true" {
		overpassClient := resilient.NewClient(resilient.DefaultClientConfig(overpass.ClassifierName))
		registry.Register(overpassClient)
		classifier = overpass.NewClient(overpass.ClientConfig{
			BaseURL:    os.Getenv("OVERPASS_BASE_URL"),
			HTTPClient: overpassClient,
			Logger:     log,
		})
		log.Info().Msg("overpass road classifier initialized")
	} else {
		log.Warn().Msg("overpass disabled - road types from length heuristics")
	}
	roadAnalyzer := road.NewAnalyzer(road.AnalyzerConfig{
		Classifier: classifier,
		Logger:     log,
	})

	// Initialize news service (provider optional)
	var newsProvider news.Provider
	if token := os.Getenv("THENEWSAPI_TOKEN"); token != "" {
		newsClient := resilient.NewClient(resilient.DefaultClientConfig(thenewsapi.ProviderName))
		registry.Register(newsClient)
		newsProvider = thenewsapi.NewClient(thenewsapi.ClientConfig{
			APIToken:   token,
			Region:     os.Getenv("THENEWSAPI_REGION"),
			HTTPClient: newsClient,
			Logger:     log,
		})
		log.Info().Msg("news provider initialized")
	} else {
		log.Warn().Msg("THENEWSAPI_TOKEN not set - serving sample headlines")
	}
	newsService := news.NewService(news.ServiceConfig{
		Provider: newsProvider,
		Logger:   log,
	})

	// Initialize narrative service (generator optional)
	var generator narrative.Generator
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		geminiClient := resilient.NewClient(resilient.DefaultClientConfig(gemini.GeneratorName))
		registry.Register(geminiClient)
		generator = gemini.NewClient(gemini.ClientConfig{
			APIKey:     apiKey,
			Model:      os.Getenv("GEMINI_MODEL"),
			HTTPClient: geminiClient,
			Logger:     log,
		})
		log.Info().Msg("narrative generator initialized")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set - narratives from route-derived defaults")
	}
	narrativeService := narrative.NewService(narrative.ServiceConfig{
		Generator: generator,
		Logger:    log,
	})

	// Assemble the analysis pipeline
	analysisService := analysis.NewService(analysis.ServiceConfig{
		Routing:   routingService,
		Weather:   weatherService,
		Road:      roadAnalyzer,
		News:      newsService,
		Narrative: narrativeService,
		Logger:    log,
	})
	log.Info().Msg("analysis service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		Analysis:    analysisService,
		Registry:    registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
