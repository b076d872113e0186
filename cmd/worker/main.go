// Package main provides the entrypoint for the ResilRoute prewarm worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/analysis"
	"github.com/resilroute/resilroute/internal/news"
	"github.com/resilroute/resilroute/internal/news/thenewsapi"
	"github.com/resilroute/resilroute/internal/road"
	"github.com/resilroute/resilroute/internal/routing"
	"github.com/resilroute/resilroute/internal/routing/osrm"
	"github.com/resilroute/resilroute/internal/weather"
	"github.com/resilroute/resilroute/internal/weather/openmeteo"
	"github.com/resilroute/resilroute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "resilroute-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ResilRoute worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire the analysis pipeline. Narratives are skipped here; the prewarm
	// job targets the directions, weather, and news caches.
	analysisService := buildAnalysisService(log)

	prewarmJob := worker.NewPrewarmJob(worker.PrewarmJobConfig{
		Logger:   log,
		Analysis: analysisService,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Prefer Pub/Sub triggered jobs; fall back to an interval loop when no
	// subscription is configured.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			PrewarmJob:       prewarmJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		interval := 30 * time.Minute
		if v := os.Getenv("PREWARM_INTERVAL"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				interval = d
			}
		}

		go func() {
			log.Info().Dur("interval", interval).Msg("running prewarm on interval")
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			prewarmJob.Run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					prewarmJob.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func buildAnalysisService(log zerolog.Logger) *analysis.Service {
	routingService := routing.NewService(routing.ServiceConfig{
		Provider: osrm.NewClient(osrm.ClientConfig{
			BaseURL: os.Getenv("OSRM_BASE_URL"),
			Logger:  log,
		}),
		Logger: log,
	})

	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: openmeteo.NewClient(openmeteo.ClientConfig{
			BaseURL: os.Getenv("OPENMETEO_BASE_URL"),
			Logger:  log,
		}),
		Logger: log,
	})

	roadAnalyzer := road.NewAnalyzer(road.AnalyzerConfig{Logger: log})

	var newsProvider news.Provider
	if token := os.Getenv("THENEWSAPI_TOKEN"); token != "" {
		newsProvider = thenewsapi.NewClient(thenewsapi.ClientConfig{
			APIToken: token,
			Region:   os.Getenv("THENEWSAPI_REGION"),
			Logger:   log,
		})
	}
	newsService := news.NewService(news.ServiceConfig{
		Provider: newsProvider,
		Logger:   log,
	})

	return analysis.NewService(analysis.ServiceConfig{
		Routing: routingService,
		Weather: weatherService,
		Road:    roadAnalyzer,
		News:    newsService,
		Logger:  log,
	})
}
