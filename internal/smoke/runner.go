// Package smoke drives a running deployment through its documented behavior
// with a pool of concurrent workers.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/teamhub/pkg/logger"
)

var (
	ErrUnhealthy = errors.New("service health check failed")
	ErrFailures  = errors.New("smoke scenarios failed")
)

// Run executes the scenarios Rounds times across Workers goroutines.
// The returned Stats are valid even when err wraps ErrFailures.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	cfg := withDefaults(config)
	stats := &Stats{StartTime: time.Now(), Failures: map[string]string{}}

	logger.Get().Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("probeURL", cfg.probeURL()),
		logger.Int("workers", cfg.Workers),
		logger.Int("rounds", cfg.Rounds),
		logger.String("timeout", cfg.Timeout.String()))

	client := newHTTPClient(cfg.Timeout)
	if err := checkServiceHealth(ctx, client, cfg); err != nil {
		return stats, err
	}

	runScenarios(ctx, client, cfg, Scenarios(!cfg.SkipProbe), stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if cfg.ReportFile != "" {
		if err := saveReport(ctx, cfg.ReportFile, stats); err != nil {
			logger.Get().Warn(ctx, "failed to save report", logger.Error(err))
		}
	}

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d requests", ErrFailures, stats.Failed, stats.Requests)
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func withDefaults(c *Config) Config {
	cfg := *c
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultRounds
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return cfg
}

func checkServiceHealth(ctx context.Context, client *HTTPClient, cfg Config) error {
	status, _, err := client.Do(ctx, http.MethodGet, cfg.BaseURL+"/api/health", "")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func runScenarios(ctx context.Context, client *HTTPClient, cfg Config, scenarios []Scenario, stats *Stats) {
	var (
		requests int64
		passed   int64
		failed   int64
		mu       sync.Mutex
	)

	jobs := make(chan Scenario, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				if ctx.Err() != nil {
					continue
				}
				err := runScenario(ctx, client, cfg, sc)
				atomic.AddInt64(&requests, 1)
				if err == nil {
					atomic.AddInt64(&passed, 1)
					continue
				}
				atomic.AddInt64(&failed, 1)
				mu.Lock()
				if _, seen := stats.Failures[sc.Name]; !seen {
					stats.Failures[sc.Name] = err.Error()
				}
				mu.Unlock()
				if cfg.Verbose {
					logger.Get().Warn(ctx, "scenario failed", logger.String("scenario", sc.Name), logger.Error(err))
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for round := 0; round < cfg.Rounds; round++ {
			for _, sc := range scenarios {
				select {
				case <-ctx.Done():
					return
				case jobs <- sc:
				}
			}
		}
	}()

	wg.Wait()

	stats.Requests = atomic.LoadInt64(&requests)
	stats.Passed = atomic.LoadInt64(&passed)
	stats.Failed = atomic.LoadInt64(&failed)
}

func runScenario(ctx context.Context, client *HTTPClient, cfg Config, sc Scenario) error {
	base := cfg.BaseURL
	if sc.Probe {
		base = cfg.probeURL()
	}
	var body string
	if sc.Body != nil {
		body = sc.Body()
	}
	status, b, err := client.Do(ctx, sc.Method, base+sc.Path, body)
	if err != nil {
		return err
	}
	return sc.Check(status, b)
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, requestsPerSecond float64
	if stats.Requests > 0 {
		successRate = float64(stats.Passed) / float64(stats.Requests) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int64("requests", stats.Requests),
		logger.Int64("passed", stats.Passed),
		logger.Int64("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))

	names := make([]string, 0, len(stats.Failures))
	for name := range stats.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		logger.Get().Error(ctx, "scenario failure", logger.String("scenario", name), logger.String("reason", stats.Failures[name]))
	}
}
