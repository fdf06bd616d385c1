package metrics

import "time"

// RecordPageFetch records a completed page fetch.
// Kind should be "landing" or "article"; result "success" or "failure".
func RecordPageFetch(kind string, success bool, duration time.Duration, size int) {
	result := "success"
	if !success {
		result = "failure"
	}
	PagesFetchedTotal.WithLabelValues(kind, result).Inc()
	PageFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if size > 0 {
		PageFetchSize.Observe(float64(size))
	}
}

// RecordLinksDiscovered records the number of unique article links found on
// a landing page.
func RecordLinksDiscovered(count int) {
	LinksDiscoveredTotal.Add(float64(count))
}

// RecordArticleExtracted records one successfully extracted article.
func RecordArticleExtracted() {
	ArticlesExtractedTotal.Inc()
}

// RecordArticleDropped records one link dropped after a fetch failure.
func RecordArticleDropped() {
	ArticlesDroppedTotal.Inc()
}

// RecordExtractionFallback records a field-level extraction fallback.
// Field should be one of "title", "date", "body".
func RecordExtractionFallback(field string) {
	ExtractionFallbacksTotal.WithLabelValues(field).Inc()
}

// RecordCrawlDuration records the duration of a full crawl run.
func RecordCrawlDuration(duration time.Duration) {
	CrawlDuration.Observe(duration.Seconds())
}
