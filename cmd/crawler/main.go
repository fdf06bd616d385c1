// Command crawler runs a single crawl of a news site and writes the
// extracted articles to the console or a JSON file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newscrawl/internal/domain/entity"
	"newscrawl/internal/infra/fetcher"
	"newscrawl/internal/infra/scraper"
	"newscrawl/internal/infra/sink"
	"newscrawl/internal/observability/logging"
	"newscrawl/internal/usecase/crawl"
)

const defaultURL = "https://www.cnn.com"

func main() {
	var (
		urlFlag        = flag.String("url", defaultURL, "landing page URL to crawl")
		threads        = flag.Int("threads", crawl.DefaultConcurrency, "maximum concurrent article fetches")
		userAgent      = flag.String("user-agent", "", "User-Agent header override")
		contentPreview = flag.String("content-preview", "300", "console body preview length: 300, 500, 1000, or all")
		output         = flag.String("output", "console", "output destination: console or json")
		file           = flag.String("file", sink.DefaultJSONFile, "output file for -output json")
		rss            = flag.Bool("rss", false, "treat the URL as an RSS/Atom feed instead of a landing page")
		useReadability = flag.Bool("readability", false, "recover article bodies via readability when selectors fail")
	)
	flag.Parse()

	logger := logging.NewTextLogger()
	slog.SetDefault(logger)

	preview, err := parsePreview(*contentPreview)
	if err != nil {
		logger.Error("invalid -content-preview value", slog.String("value", *contentPreview))
		os.Exit(2)
	}
	if *output != "console" && *output != "json" {
		logger.Error("invalid -output value", slog.String("value", *output))
		os.Exit(2)
	}

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load fetch configuration", slog.Any("error", err))
		os.Exit(2)
	}
	if *userAgent != "" {
		fetchCfg.UserAgent = *userAgent
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	feed := scraper.NewFeedDiscoverer(&http.Client{Timeout: fetchCfg.Timeout}, fetchCfg.UserAgent)
	svc := crawl.NewService(
		fetcher.New(fetchCfg),
		scraper.NewLinkExtractor(),
		scraper.NewArticleExtractor(*useReadability),
		feed,
		crawl.Config{Concurrency: *threads},
	)

	start := time.Now()
	var (
		articles []entity.Article
		stats    *crawl.Stats
	)
	if *rss {
		articles, stats, err = svc.CrawlFeed(ctx, *urlFlag)
	} else {
		articles, stats, err = svc.Crawl(ctx, *urlFlag)
	}
	if err != nil {
		if errors.Is(err, crawl.ErrEmptyResult) {
			logger.Error("no articles retrieved", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Error("crawl failed", slog.Any("error", err))
		os.Exit(1)
	}

	if err := writeArticles(articles, *output, *file, preview); err != nil {
		logger.Error("failed to write results", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("done",
		slog.Int("articles", len(articles)),
		slog.Int64("dropped", stats.Dropped),
		slog.Duration("total", time.Since(start)))
}

// parsePreview maps the -content-preview flag to a character count; "all"
// means unlimited.
func parsePreview(value string) (int, error) {
	switch value {
	case "all":
		return 0, nil
	case "300":
		return 300, nil
	case "500":
		return 500, nil
	case "1000":
		return 1000, nil
	default:
		return 0, fmt.Errorf("unsupported preview length %q", value)
	}
}

func writeArticles(articles []entity.Article, output, file string, preview int) error {
	if output == "json" {
		jsonSink := &sink.JSONSink{Path: file}
		return jsonSink.Write(articles)
	}
	consoleSink := &sink.ConsoleSink{Out: os.Stdout, Preview: preview}
	return consoleSink.Write(articles)
}
