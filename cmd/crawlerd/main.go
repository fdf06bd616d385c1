// Command crawlerd runs scheduled crawls of configured news sources and
// persists new articles to PostgreSQL when a database is configured.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	appconfig "newscrawl/internal/config"
	"newscrawl/internal/domain/entity"
	"newscrawl/internal/infra/adapter/persistence/postgres"
	"newscrawl/internal/infra/db"
	"newscrawl/internal/infra/fetcher"
	"newscrawl/internal/infra/scraper"
	workerPkg "newscrawl/internal/infra/worker"
	"newscrawl/internal/observability/logging"
	"newscrawl/internal/repository"
	"newscrawl/internal/usecase/crawl"
	"newscrawl/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	workerConfig := workerPkg.LoadConfigFromEnv(logger)
	logger.Info("daemon configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("crawl_timeout", workerConfig.CrawlTimeout),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("metrics_port", workerConfig.MetricsPort))

	sourcesPath := config.GetEnvString("SOURCES_FILE", "configs/sources.yaml")
	sources, err := appconfig.LoadSources(sourcesPath)
	if err != nil {
		logger.Error("failed to load sources", slog.String("path", sourcesPath), slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("sources loaded", slog.String("path", sourcesPath), slog.Int("count", len(sources)))

	artRepo := openRepository(logger)

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Error("failed to load fetch configuration", slog.Any("error", err))
		os.Exit(1)
	}

	feed := scraper.NewFeedDiscoverer(&http.Client{Timeout: fetchCfg.Timeout}, fetchCfg.UserAgent)
	svc := crawl.NewService(
		fetcher.New(fetchCfg),
		scraper.NewLinkExtractor(),
		scraper.NewArticleExtractor(config.GetEnvBool("SCRAPE_READABILITY", false)),
		feed,
		crawl.Config{},
	)

	jobMetrics := workerPkg.NewMetrics()

	startMetricsServer(ctx, logger, workerConfig.MetricsPort)

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerConfig.HealthPort), logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := &crawlJob{
		logger:  logger,
		svc:     svc,
		sources: sources,
		repo:    artRepo,
		metrics: jobMetrics,
		timeout: workerConfig.CrawlTimeout,
	}

	loc, err := time.LoadLocation(workerConfig.Timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC",
			slog.String("timezone", workerConfig.Timezone), slog.Any("error", err))
		loc = time.UTC
	}
	scheduler := cron.New(cron.WithLocation(loc))
	if _, err := scheduler.AddFunc(workerConfig.CronSchedule, job.run); err != nil {
		logger.Error("failed to register cron job", slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()

	healthServer.SetReady(true)
	logger.Info("daemon started",
		slog.String("schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone))

	<-ctx.Done()
	healthServer.SetReady(false)
	logger.Info("shutdown signal received, stopping scheduler")

	// Let a running job finish before exiting.
	stopCtx := scheduler.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(workerConfig.CrawlTimeout):
		logger.Warn("running job did not finish before shutdown deadline")
	}
	logger.Info("daemon stopped")
}

// openRepository connects to PostgreSQL when DATABASE_URL is set. Without
// it the daemon still runs; crawls are logged and counted but not stored.
func openRepository(logger *slog.Logger) repository.ArticleRepository {
	if os.Getenv("DATABASE_URL") == "" {
		logger.Info("DATABASE_URL not set, persistence disabled")
		return nil
	}
	database, err := db.Open()
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	return postgres.NewArticleRepo(database)
}

// crawlJob is one scheduled run across all configured sources.
type crawlJob struct {
	logger  *slog.Logger
	svc     crawl.Service
	sources []appconfig.Source
	repo    repository.ArticleRepository
	metrics *workerPkg.Metrics
	timeout time.Duration
}

// run crawls every source sequentially under a single run deadline. One
// failing source does not abort the run; the run counts as a failure only
// when every source fails.
func (j *crawlJob) run() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	ctx = logging.WithLogger(ctx, j.logger)

	j.logger.Info("scheduled crawl started", slog.Int("sources", len(j.sources)))

	succeeded := 0
	for _, src := range j.sources {
		if err := j.crawlSource(ctx, src); err != nil {
			j.logger.Error("source crawl failed",
				slog.String("source", src.Name),
				slog.Any("error", err))
			continue
		}
		succeeded++
	}

	duration := time.Since(start)
	j.metrics.RecordJobRun(succeeded > 0, duration)
	j.logger.Info("scheduled crawl finished",
		slog.Int("succeeded", succeeded),
		slog.Int("failed", len(j.sources)-succeeded),
		slog.Duration("duration", duration))
}

func (j *crawlJob) crawlSource(ctx context.Context, src appconfig.Source) error {
	svc := j.svc
	if src.Concurrency > 0 {
		svc = crawl.NewService(j.svc.Fetcher, j.svc.Links, j.svc.Articles, j.svc.Feed,
			crawl.Config{Concurrency: src.Concurrency})
	}

	var (
		articles []entity.Article
		err      error
	)
	if src.Type == appconfig.SourceTypeRSS {
		articles, _, err = svc.CrawlFeed(ctx, src.URL)
	} else {
		articles, _, err = svc.Crawl(ctx, src.URL)
	}
	if err != nil {
		return err
	}
	j.metrics.RecordSourceProcessed()

	if j.repo == nil {
		j.logger.Info("crawled source",
			slog.String("source", src.Name),
			slog.Int("articles", len(articles)))
		return nil
	}

	stored := 0
	for i := range articles {
		created, err := j.repo.Create(ctx, &articles[i])
		if err != nil {
			j.logger.Warn("failed to store article",
				slog.String("url", articles[i].URL),
				slog.Any("error", err))
			continue
		}
		if created {
			stored++
		}
	}
	j.metrics.RecordArticlesStored(stored)
	j.logger.Info("crawled source",
		slog.String("source", src.Name),
		slog.Int("articles", len(articles)),
		slog.Int("stored", stored))
	return nil
}
