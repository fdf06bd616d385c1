// Package metrics provides centralized Prometheus metrics for the crawler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch metrics track page retrieval patterns and performance
var (
	// PagesFetchedTotal counts page fetches by kind (landing/article) and result
	PagesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_pages_fetched_total",
			Help: "Total number of page fetches",
		},
		[]string{"kind", "result"},
	)

	// PageFetchDuration measures page fetch duration in seconds
	PageFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crawler_page_fetch_duration_seconds",
			Help:    "Page fetch duration in seconds",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
		[]string{"kind"},
	)

	// PageFetchSize measures fetched page size in bytes
	PageFetchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_page_fetch_size_bytes",
			Help:    "Fetched page size in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)
)

// Crawl metrics track pipeline-level operations
var (
	// LinksDiscoveredTotal counts article links discovered on landing pages
	LinksDiscoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_links_discovered_total",
			Help: "Total number of unique article links discovered",
		},
	)

	// ArticlesExtractedTotal counts successfully extracted articles
	ArticlesExtractedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_articles_extracted_total",
			Help: "Total number of articles extracted",
		},
	)

	// ArticlesDroppedTotal counts links dropped due to fetch failures
	ArticlesDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_articles_dropped_total",
			Help: "Total number of article links dropped after fetch failures",
		},
	)

	// ExtractionFallbacksTotal counts field-level extraction fallbacks by field
	ExtractionFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_extraction_fallbacks_total",
			Help: "Total number of field extractions that degraded to a fallback value",
		},
		[]string{"field"},
	)

	// CrawlDuration measures full crawl run duration in seconds
	CrawlDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_crawl_duration_seconds",
			Help:    "Duration of a full crawl run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)
