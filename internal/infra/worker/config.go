// Package worker provides the scheduled-crawl daemon plumbing: environment
// configuration, a health check server, and job-level metrics.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"newscrawl/pkg/config"
)

// Config controls the crawl daemon: when jobs run, how long a single run
// may take, and where the health server listens.
type Config struct {
	// CronSchedule is a standard 5-field cron expression.
	// Default: "0 * * * *" (top of every hour).
	CronSchedule string

	// Timezone is the IANA timezone the schedule is evaluated in.
	Timezone string

	// CrawlTimeout bounds a single scheduled run across all sources.
	CrawlTimeout time.Duration

	// HealthPort is the listen port for the health check server.
	HealthPort int

	// MetricsPort is the listen port for the Prometheus metrics server.
	MetricsPort int
}

// DefaultConfig returns the daemon defaults: hourly runs in UTC, a
// 15-minute run timeout, and the conventional exporter ports.
func DefaultConfig() Config {
	return Config{
		CronSchedule: "0 * * * *",
		Timezone:     "UTC",
		CrawlTimeout: 15 * time.Minute,
		HealthPort:   9091,
		MetricsPort:  9090,
	}
}

// Validate checks every field, collecting all failures into one error.
func (c *Config) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDurationRange(c.CrawlTimeout, time.Minute, 4*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("crawl timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv reads the daemon configuration from environment
// variables, falling back to the default for any field that is unset or
// fails validation. The returned config is always usable (fail-open).
//
// Environment variables:
//   - CRON_SCHEDULE
//   - WORKER_TIMEZONE
//   - CRAWL_TIMEOUT (Go duration string, e.g. "15m")
//   - WORKER_HEALTH_PORT
//   - WORKER_METRICS_PORT
func LoadConfigFromEnv(logger *slog.Logger) *Config {
	def := DefaultConfig()
	cfg := Config{
		CronSchedule: config.GetEnvString("CRON_SCHEDULE", def.CronSchedule),
		Timezone:     config.GetEnvString("WORKER_TIMEZONE", def.Timezone),
		CrawlTimeout: config.GetEnvDuration("CRAWL_TIMEOUT", def.CrawlTimeout),
		HealthPort:   config.GetEnvInt("WORKER_HEALTH_PORT", def.HealthPort),
		MetricsPort:  config.GetEnvInt("WORKER_METRICS_PORT", def.MetricsPort),
	}

	if err := config.ValidateCronSchedule(cfg.CronSchedule); err != nil {
		logger.Warn("invalid cron schedule, using default",
			slog.String("value", cfg.CronSchedule),
			slog.String("default", def.CronSchedule),
			slog.Any("error", err))
		cfg.CronSchedule = def.CronSchedule
	}
	if err := config.ValidateTimezone(cfg.Timezone); err != nil {
		logger.Warn("invalid timezone, using default",
			slog.String("value", cfg.Timezone),
			slog.String("default", def.Timezone),
			slog.Any("error", err))
		cfg.Timezone = def.Timezone
	}
	if err := config.ValidateDurationRange(cfg.CrawlTimeout, time.Minute, 4*time.Hour); err != nil {
		logger.Warn("crawl timeout out of range, using default",
			slog.Duration("value", cfg.CrawlTimeout),
			slog.Duration("default", def.CrawlTimeout))
		cfg.CrawlTimeout = def.CrawlTimeout
	}
	if err := config.ValidateIntRange(cfg.HealthPort, 1024, 65535); err != nil {
		logger.Warn("health port out of range, using default",
			slog.Int("value", cfg.HealthPort),
			slog.Int("default", def.HealthPort))
		cfg.HealthPort = def.HealthPort
	}
	if err := config.ValidateIntRange(cfg.MetricsPort, 1024, 65535); err != nil {
		logger.Warn("metrics port out of range, using default",
			slog.Int("value", cfg.MetricsPort),
			slog.Int("default", def.MetricsPort))
		cfg.MetricsPort = def.MetricsPort
	}

	return &cfg
}
