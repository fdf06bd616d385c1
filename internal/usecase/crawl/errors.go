// Package crawl provides the use case for crawling a news site: landing
// page retrieval, article link discovery, and bounded-concurrency
// fetch+extract fan-out over the discovered links.
package crawl

import "errors"

// Sentinel errors for crawl use case operations.
var (
	// ErrEmptyResult indicates that a crawl run produced zero articles:
	// the landing page fetch failed, no article links were discovered, or
	// every article fetch failed. Individual article fetch failures below
	// this threshold are absorbed silently and never surface as errors.
	ErrEmptyResult = errors.New("crawl produced no articles")

	// ErrNoFeedDiscoverer indicates that a feed-based crawl was requested
	// but the service was constructed without a feed discoverer.
	ErrNoFeedDiscoverer = errors.New("no feed discoverer configured")
)
