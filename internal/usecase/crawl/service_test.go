package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"newscrawl/internal/domain/entity"
	"newscrawl/internal/usecase/crawl"
)

// fakeFetcher serves canned pages and records in-flight request counts.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]error
	delay time.Duration

	inFlight    int64
	maxInFlight int64
}

func (f *fakeFetcher) FetchPage(ctx context.Context, url string) (*crawl.PageResult, error) {
	current := atomic.AddInt64(&f.inFlight, 1)
	defer atomic.AddInt64(&f.inFlight, -1)
	for {
		max := atomic.LoadInt64(&f.maxInFlight)
		if current <= max || atomic.CompareAndSwapInt64(&f.maxInFlight, max, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return &crawl.PageResult{HTML: html, Elapsed: time.Millisecond}, nil
}

// fakeLinks returns a fixed reference list for any landing page.
type fakeLinks struct {
	refs []entity.ArticleRef
}

func (f *fakeLinks) ExtractLinks(html, baseURL string) []entity.ArticleRef {
	return f.refs
}

// fakeArticles echoes the reference and the page markup.
type fakeArticles struct{}

func (fakeArticles) ExtractArticle(html string, ref entity.ArticleRef) entity.Article {
	return entity.Article{
		Title:       ref.Title,
		PublishedAt: entity.NoDateFound,
		Body:        html,
		URL:         ref.URL,
	}
}

// fakeFeed returns fixed references or an error.
type fakeFeed struct {
	refs []entity.ArticleRef
	err  error
}

func (f *fakeFeed) Discover(ctx context.Context, feedURL string) ([]entity.ArticleRef, error) {
	return f.refs, f.err
}

func refsAndPages(n int) ([]entity.ArticleRef, map[string]string) {
	refs := make([]entity.ArticleRef, 0, n)
	pages := map[string]string{"https://example.com": "<html>landing</html>"}
	for i := 0; i < n; i++ {
		url := fmt.Sprintf("https://example.com/2023/05/02/story-%d/", i)
		refs = append(refs, entity.ArticleRef{Title: fmt.Sprintf("Story %d", i), URL: url})
		pages[url] = fmt.Sprintf("<html>story %d</html>", i)
	}
	return refs, pages
}

func TestService_Crawl_Success(t *testing.T) {
	refs, pages := refsAndPages(5)
	svc := crawl.NewService(
		&fakeFetcher{pages: pages},
		&fakeLinks{refs: refs},
		fakeArticles{},
		nil,
		crawl.Config{},
	)

	articles, stats, err := svc.Crawl(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(articles) != 5 {
		t.Errorf("Crawl() returned %d articles, want 5", len(articles))
	}
	if stats.Links != 5 || stats.Fetched != 5 || stats.Dropped != 0 {
		t.Errorf("stats = %+v, want 5 links, 5 fetched, 0 dropped", stats)
	}

	seen := make(map[string]bool, len(articles))
	for _, art := range articles {
		seen[art.URL] = true
	}
	for _, ref := range refs {
		if !seen[ref.URL] {
			t.Errorf("article for %s missing from results", ref.URL)
		}
	}
}

func TestService_Crawl_LandingPageFailure(t *testing.T) {
	svc := crawl.NewService(
		&fakeFetcher{fail: map[string]error{"https://example.com": errors.New("connection refused")}},
		&fakeLinks{},
		fakeArticles{},
		nil,
		crawl.Config{},
	)

	_, _, err := svc.Crawl(context.Background(), "https://example.com")
	if !errors.Is(err, crawl.ErrEmptyResult) {
		t.Errorf("Crawl() error = %v, want ErrEmptyResult", err)
	}
}

func TestService_Crawl_NoLinksDiscovered(t *testing.T) {
	svc := crawl.NewService(
		&fakeFetcher{pages: map[string]string{"https://example.com": "<html></html>"}},
		&fakeLinks{refs: nil},
		fakeArticles{},
		nil,
		crawl.Config{},
	)

	_, _, err := svc.Crawl(context.Background(), "https://example.com")
	if !errors.Is(err, crawl.ErrEmptyResult) {
		t.Errorf("Crawl() error = %v, want ErrEmptyResult", err)
	}
}

func TestService_Crawl_DropsFailedFetches(t *testing.T) {
	refs, pages := refsAndPages(4)
	// Two article fetches fail; the crawl must still succeed with the rest.
	fail := map[string]error{
		refs[1].URL: errors.New("timeout"),
		refs[3].URL: errors.New("status 500"),
	}
	delete(pages, refs[1].URL)
	delete(pages, refs[3].URL)

	svc := crawl.NewService(
		&fakeFetcher{pages: pages, fail: fail},
		&fakeLinks{refs: refs},
		fakeArticles{},
		nil,
		crawl.Config{},
	)

	articles, stats, err := svc.Crawl(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if len(articles) != 2 {
		t.Errorf("Crawl() returned %d articles, want 2", len(articles))
	}
	if stats.Dropped != 2 {
		t.Errorf("stats.Dropped = %d, want 2", stats.Dropped)
	}
	for _, art := range articles {
		if art.URL == refs[1].URL || art.URL == refs[3].URL {
			t.Errorf("failed link %s leaked into results", art.URL)
		}
	}
}

func TestService_Crawl_AllFetchesFailed(t *testing.T) {
	refs, pages := refsAndPages(3)
	fail := make(map[string]error, len(refs))
	for _, ref := range refs {
		fail[ref.URL] = errors.New("unreachable")
		delete(pages, ref.URL)
	}

	svc := crawl.NewService(
		&fakeFetcher{pages: pages, fail: fail},
		&fakeLinks{refs: refs},
		fakeArticles{},
		nil,
		crawl.Config{},
	)

	_, stats, err := svc.Crawl(context.Background(), "https://example.com")
	if !errors.Is(err, crawl.ErrEmptyResult) {
		t.Errorf("Crawl() error = %v, want ErrEmptyResult", err)
	}
	if stats.Dropped != 3 {
		t.Errorf("stats.Dropped = %d, want 3", stats.Dropped)
	}
}

func TestService_Crawl_ConcurrencyBound(t *testing.T) {
	refs, pages := refsAndPages(20)
	fetcher := &fakeFetcher{pages: pages, delay: 10 * time.Millisecond}

	svc := crawl.NewService(
		fetcher,
		&fakeLinks{refs: refs},
		fakeArticles{},
		nil,
		crawl.Config{Concurrency: 3},
	)

	if _, _, err := svc.Crawl(context.Background(), "https://example.com"); err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	if max := atomic.LoadInt64(&fetcher.maxInFlight); max > 3 {
		t.Errorf("max in-flight fetches = %d, want <= 3", max)
	}
}

func TestService_CrawlFeed(t *testing.T) {
	refs, pages := refsAndPages(2)

	svc := crawl.NewService(
		&fakeFetcher{pages: pages},
		&fakeLinks{},
		fakeArticles{},
		&fakeFeed{refs: refs},
		crawl.Config{},
	)

	articles, _, err := svc.CrawlFeed(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("CrawlFeed() error = %v", err)
	}
	if len(articles) != 2 {
		t.Errorf("CrawlFeed() returned %d articles, want 2", len(articles))
	}
}

func TestService_CrawlFeed_NoDiscoverer(t *testing.T) {
	svc := crawl.NewService(&fakeFetcher{}, &fakeLinks{}, fakeArticles{}, nil, crawl.Config{})

	_, _, err := svc.CrawlFeed(context.Background(), "https://example.com/feed.xml")
	if !errors.Is(err, crawl.ErrNoFeedDiscoverer) {
		t.Errorf("CrawlFeed() error = %v, want ErrNoFeedDiscoverer", err)
	}
}

func TestService_CrawlFeed_DiscoveryFailure(t *testing.T) {
	svc := crawl.NewService(
		&fakeFetcher{},
		&fakeLinks{},
		fakeArticles{},
		&fakeFeed{err: errors.New("malformed xml")},
		crawl.Config{},
	)

	_, _, err := svc.CrawlFeed(context.Background(), "https://example.com/feed.xml")
	if !errors.Is(err, crawl.ErrEmptyResult) {
		t.Errorf("CrawlFeed() error = %v, want ErrEmptyResult", err)
	}
}
