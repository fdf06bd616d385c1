package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"newscrawl/internal/domain/entity"
	"newscrawl/internal/observability/logging"
	"newscrawl/internal/observability/metrics"
	"newscrawl/internal/observability/tracing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the default cap on simultaneously in-flight
// article fetches.
const DefaultConcurrency = 10

// PageResult holds a successfully fetched page.
type PageResult struct {
	HTML    string
	Elapsed time.Duration
}

// PageFetcher retrieves a single page over HTTP. Every failure path
// (network error, non-success status, timeout) is reported as an error;
// a nil error guarantees a usable PageResult.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*PageResult, error)
}

// LinkExtractor discovers article references in landing-page markup.
// The returned slice is deduplicated by URL; order is unspecified.
type LinkExtractor interface {
	ExtractLinks(html, baseURL string) []entity.ArticleRef
}

// ArticleExtractor extracts a structured article from a fetched page.
// It never fails: missing fields degrade to fallback values.
type ArticleExtractor interface {
	ExtractArticle(html string, ref entity.ArticleRef) entity.Article
}

// FeedDiscoverer discovers article references from a syndication feed
// instead of landing-page markup.
type FeedDiscoverer interface {
	Discover(ctx context.Context, feedURL string) ([]entity.ArticleRef, error)
}

// Config holds the crawl service configuration.
type Config struct {
	// Concurrency caps the number of simultaneously in-flight article
	// fetch+extract operations.
	Concurrency int
}

// Stats contains statistics about a single crawl run.
type Stats struct {
	Links    int64
	Fetched  int64
	Dropped  int64
	Duration time.Duration
}

// Service orchestrates the crawl pipeline. The landing-page fetch and link
// extraction are sequential; fan-out begins only once all links are known.
type Service struct {
	Fetcher  PageFetcher
	Links    LinkExtractor
	Articles ArticleExtractor
	Feed     FeedDiscoverer // optional, enables CrawlFeed
	cfg      Config
}

// NewService creates a new crawl Service. A non-positive concurrency falls
// back to DefaultConcurrency. The feed discoverer may be nil when only
// landing-page crawls are needed.
func NewService(fetcher PageFetcher, links LinkExtractor, articles ArticleExtractor, feed FeedDiscoverer, cfg Config) Service {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	return Service{
		Fetcher:  fetcher,
		Links:    links,
		Articles: articles,
		Feed:     feed,
		cfg:      cfg,
	}
}

// Crawl fetches the landing page at baseURL, discovers article links, and
// fetches+extracts each link with bounded concurrency.
//
// Returns ErrEmptyResult when the landing page fetch fails, no links are
// discovered, or no article fetch succeeds. Individual article fetch
// failures are dropped silently; the caller only ever sees the surviving
// articles. Result order is unspecified (completion order of workers).
func (s *Service) Crawl(ctx context.Context, baseURL string) ([]entity.Article, *Stats, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "crawl")
	defer span.End()

	logger := logging.WithRunID(logging.FromContext(ctx), uuid.NewString())
	start := time.Now()
	stats := &Stats{}

	logger.Info("fetching landing page", slog.String("url", baseURL))
	landing, err := s.Fetcher.FetchPage(ctx, baseURL)
	if err != nil {
		logger.Warn("landing page fetch failed",
			slog.String("url", baseURL),
			slog.Any("error", err))
		metrics.RecordPageFetch("landing", false, time.Since(start), 0)
		stats.Duration = time.Since(start)
		return nil, stats, fmt.Errorf("%w: landing page: %v", ErrEmptyResult, err)
	}
	metrics.RecordPageFetch("landing", true, landing.Elapsed, len(landing.HTML))
	logger.Info("landing page fetched", slog.Duration("elapsed", landing.Elapsed))

	refs := s.Links.ExtractLinks(landing.HTML, baseURL)
	metrics.RecordLinksDiscovered(len(refs))
	logger.Info("links discovered", slog.Int("count", len(refs)))
	if len(refs) == 0 {
		stats.Duration = time.Since(start)
		return nil, stats, fmt.Errorf("%w: no article links discovered", ErrEmptyResult)
	}

	articles := s.fetchAll(ctx, logger, refs, stats)

	stats.Duration = time.Since(start)
	metrics.RecordCrawlDuration(stats.Duration)
	logger.Info("crawl completed",
		slog.Int64("links", stats.Links),
		slog.Int64("fetched", stats.Fetched),
		slog.Int64("dropped", stats.Dropped),
		slog.Duration("duration", stats.Duration))

	if len(articles) == 0 {
		return nil, stats, fmt.Errorf("%w: every article fetch failed", ErrEmptyResult)
	}
	return articles, stats, nil
}

// CrawlFeed discovers article references from a syndication feed and runs
// the same fetch+extract fan-out over them. Failure semantics match Crawl.
func (s *Service) CrawlFeed(ctx context.Context, feedURL string) ([]entity.Article, *Stats, error) {
	if s.Feed == nil {
		return nil, &Stats{}, ErrNoFeedDiscoverer
	}

	ctx, span := tracing.GetTracer().Start(ctx, "crawl-feed")
	defer span.End()

	logger := logging.WithRunID(logging.FromContext(ctx), uuid.NewString())
	start := time.Now()
	stats := &Stats{}

	refs, err := s.Feed.Discover(ctx, feedURL)
	if err != nil {
		logger.Warn("feed discovery failed",
			slog.String("url", feedURL),
			slog.Any("error", err))
		stats.Duration = time.Since(start)
		return nil, stats, fmt.Errorf("%w: feed: %v", ErrEmptyResult, err)
	}
	metrics.RecordLinksDiscovered(len(refs))
	logger.Info("feed items discovered", slog.Int("count", len(refs)))
	if len(refs) == 0 {
		stats.Duration = time.Since(start)
		return nil, stats, fmt.Errorf("%w: feed is empty", ErrEmptyResult)
	}

	articles := s.fetchAll(ctx, logger, refs, stats)

	stats.Duration = time.Since(start)
	metrics.RecordCrawlDuration(stats.Duration)

	if len(articles) == 0 {
		return nil, stats, fmt.Errorf("%w: every article fetch failed", ErrEmptyResult)
	}
	return articles, stats, nil
}

// fetchAll fans out fetch+extract over refs, capped at cfg.Concurrency
// in-flight fetches via a channel semaphore. Fetch failures drop the link;
// successes are appended to a mutex-guarded slice in completion order.
func (s *Service) fetchAll(ctx context.Context, logger *slog.Logger, refs []entity.ArticleRef, stats *Stats) []entity.Article {
	sem := make(chan struct{}, s.cfg.Concurrency)
	eg, egCtx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	articles := make([]entity.Article, 0, len(refs))

	for _, articleRef := range refs {
		ref := articleRef
		atomic.AddInt64(&stats.Links, 1)

		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			page, err := s.Fetcher.FetchPage(egCtx, ref.URL)
			if err != nil {
				// Best-effort contract: a failed article fetch yields no
				// record and no error past this worker.
				atomic.AddInt64(&stats.Dropped, 1)
				metrics.RecordPageFetch("article", false, 0, 0)
				metrics.RecordArticleDropped()
				logger.Warn("article fetch failed, dropping link",
					slog.String("url", ref.URL),
					slog.Any("error", err))
				return nil
			}
			atomic.AddInt64(&stats.Fetched, 1)
			metrics.RecordPageFetch("article", true, page.Elapsed, len(page.HTML))
			logger.Debug("article fetched",
				slog.String("url", ref.URL),
				slog.Duration("elapsed", page.Elapsed))

			art := s.Articles.ExtractArticle(page.HTML, ref)
			metrics.RecordArticleExtracted()

			mu.Lock()
			articles = append(articles, art)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = eg.Wait()

	return articles
}
