package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/resilroute/resilroute/internal/analysis"
	"github.com/resilroute/resilroute/internal/routing"
)

// PrewarmJob runs the analysis pipeline for configured corridors so that
// directions, weather, and news caches are populated before user traffic
// arrives.
type PrewarmJob struct {
	config   PrewarmConfig
	logger   zerolog.Logger
	analysis *analysis.Service

	metrics *PrewarmMetrics
}

// PrewarmMetrics tracks prewarm job statistics.
type PrewarmMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns          int64
	SuccessfulAnalyses int64
	FailedAnalyses     int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// PrewarmJobConfig holds configuration for creating a PrewarmJob.
type PrewarmJobConfig struct {
	Config   PrewarmConfig
	Logger   zerolog.Logger
	Analysis *analysis.Service
}

// NewPrewarmJob creates a new prewarm job processor.
func NewPrewarmJob(cfg PrewarmJobConfig) *PrewarmJob {
	config := cfg.Config
	if len(config.Corridors) == 0 {
		config = DefaultPrewarmConfig()
	}
	if config.Concurrency == 0 {
		config.Concurrency = 3
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}

	return &PrewarmJob{
		config:   config,
		logger:   cfg.Logger,
		analysis: cfg.Analysis,
		metrics:  &PrewarmMetrics{},
	}
}

// PrewarmResult contains the result of one prewarm run.
type PrewarmResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalCorridors int
	Successful     int
	Failed         int
	Errors         []PrewarmError
}

// PrewarmError represents a failed corridor analysis.
type PrewarmError struct {
	Corridor string
	Error    string
}

// Run analyzes all configured corridors with bounded concurrency.
func (j *PrewarmJob) Run(ctx context.Context) *PrewarmResult {
	startTime := time.Now()
	result := &PrewarmResult{
		StartTime:      startTime,
		TotalCorridors: j.config.TotalCorridors(),
	}

	j.logger.Info().
		Int("total_corridors", result.TotalCorridors).
		Int("concurrency", j.config.Concurrency).
		Msg("starting corridor prewarm job")

	corridorsChan := make(chan Corridor, len(j.config.Corridors))
	resultsChan := make(chan corridorResult, len(j.config.Corridors))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.prewarmWorker(ctx, corridorsChan, resultsChan)
		}()
	}

	for _, c := range j.config.Corridors {
		corridorsChan <- c
	}
	close(corridorsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for cr := range resultsChan {
		if cr.success {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, PrewarmError{
				Corridor: cr.corridor,
				Error:    cr.err,
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("corridor prewarm job completed")

	return result
}

// RunCorridor analyzes a single corridor. Used for health checks and
// targeted refreshes.
func (j *PrewarmJob) RunCorridor(ctx context.Context, corridor Corridor) error {
	corridorCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	req := analysis.Request{
		Origin:      routing.Coordinate{Lat: corridor.Origin.Lat, Lon: corridor.Origin.Lon},
		Destination: routing.Coordinate{Lat: corridor.Destination.Lat, Lon: corridor.Destination.Lon},
	}
	if len(corridor.Cities) >= 2 {
		req.OriginName = corridor.Cities[0]
		req.DestinationName = corridor.Cities[len(corridor.Cities)-1]
	}

	res := j.analysis.Analyze(corridorCtx, req)
	if !res.AnalysisComplete {
		return &corridorError{corridor: corridor.Name, message: res.Error}
	}
	return nil
}

// Metrics returns a copy of the current metrics.
func (j *PrewarmJob) Metrics() PrewarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()
	return PrewarmMetrics{
		TotalRuns:          j.metrics.TotalRuns,
		SuccessfulAnalyses: j.metrics.SuccessfulAnalyses,
		FailedAnalyses:     j.metrics.FailedAnalyses,
		LastRunAt:          j.metrics.LastRunAt,
		LastRunDuration:    j.metrics.LastRunDuration,
		TotalDuration:      j.metrics.TotalDuration,
	}
}

type corridorResult struct {
	corridor string
	success  bool
	err      string
}

type corridorError struct {
	corridor string
	message  string
}

func (e *corridorError) Error() string {
	return "corridor " + e.corridor + ": " + e.message
}

func (j *PrewarmJob) prewarmWorker(ctx context.Context, corridors <-chan Corridor, results chan<- corridorResult) {
	for corridor := range corridors {
		select {
		case <-ctx.Done():
			return
		default:
			cr := corridorResult{corridor: corridor.Name, success: true}
			if err := j.RunCorridor(ctx, corridor); err != nil {
				cr.success = false
				cr.err = err.Error()
			}
			results <- cr
		}
	}
}

func (j *PrewarmJob) updateMetrics(result *PrewarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulAnalyses += int64(result.Successful)
	j.metrics.FailedAnalyses += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}
