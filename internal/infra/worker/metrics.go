package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks scheduled crawl job execution.
type Metrics struct {
	// JobRunsTotal counts scheduled runs by status (success/failure).
	JobRunsTotal *prometheus.CounterVec

	// JobDurationSeconds measures full-run duration across all sources.
	JobDurationSeconds prometheus.Histogram

	// SourcesProcessedTotal counts sources crawled across all runs.
	SourcesProcessedTotal prometheus.Counter

	// ArticlesStoredTotal counts articles newly persisted across all runs.
	ArticlesStoredTotal prometheus.Counter

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp prometheus.Gauge
}

// NewMetrics creates the daemon job metrics. Registration happens via
// promauto on the default registry at creation time.
func NewMetrics() *Metrics {
	return &Metrics{
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_job_runs_total",
			Help: "Total number of scheduled crawl runs by status (success/failure)",
		}, []string{"status"}),

		JobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crawler_job_duration_seconds",
			Help:    "Duration of a full scheduled crawl run in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		SourcesProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crawler_job_sources_processed_total",
			Help: "Total number of sources crawled across all runs",
		}),

		ArticlesStoredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crawler_job_articles_stored_total",
			Help: "Total number of articles newly persisted across all runs",
		}),

		LastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "crawler_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful crawl run",
		}),
	}
}

// RecordJobRun records one completed run with its outcome and duration.
func (m *Metrics) RecordJobRun(success bool, duration time.Duration) {
	status := "failure"
	if success {
		status = "success"
	}
	m.JobRunsTotal.WithLabelValues(status).Inc()
	m.JobDurationSeconds.Observe(duration.Seconds())
	if success {
		m.LastSuccessTimestamp.SetToCurrentTime()
	}
}

// RecordSourceProcessed records one crawled source.
func (m *Metrics) RecordSourceProcessed() {
	m.SourcesProcessedTotal.Inc()
}

// RecordArticlesStored records newly persisted articles from one run.
func (m *Metrics) RecordArticlesStored(n int) {
	m.ArticlesStoredTotal.Add(float64(n))
}
