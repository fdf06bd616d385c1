package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"newscrawl/internal/infra/fetcher"
	"newscrawl/internal/infra/scraper"
	"newscrawl/internal/usecase/crawl"
)

// TestCrawlPipeline_EndToEnd wires the real fetcher, link extractor, and
// article extractor against a local site: a landing page with article,
// media, and navigation links, plus article pages with full and partial
// markup.
func TestCrawlPipeline_EndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `<html><body>
			<a href="/2023/05/02/politics/full-story/">Full story</a>
			<a href="/2023/05/02/politics/bare-story/">Bare story</a>
			<a href="/2023/05/02/politics/clip/">Video: press briefing</a>
			<a href="/about">About</a>
			<a href="%s/2023/05/03/world/absolute-story/">Absolute story</a>
		</body></html>`, server.URL)
	})
	mux.HandleFunc("/2023/05/02/politics/full-story/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<h1>Full story headline</h1>
			<div class="timestamp vossi-timestamp">Updated 10:17 AM EDT, Tue May 2, 2023</div>
			<div class="paragraph__content">Follow: @desk</div>
			<div class="paragraph__content">Paragraph one.</div>
			<div class="paragraph__content">Paragraph two.</div>
		</body></html>`)
	})
	mux.HandleFunc("/2023/05/02/politics/bare-story/", func(w http.ResponseWriter, r *http.Request) {
		// No heading, no timestamp, no paragraphs.
		fmt.Fprint(w, `<html><body><div>nothing structured</div></body></html>`)
	})
	mux.HandleFunc("/2023/05/03/world/absolute-story/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Absolute headline</h1><p>Only paragraph.</p></body></html>`)
	})

	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false

	svc := crawl.NewService(
		fetcher.New(cfg),
		scraper.NewLinkExtractor(),
		scraper.NewArticleExtractor(false),
		nil,
		crawl.Config{Concurrency: 2},
	)

	articles, stats, err := svc.Crawl(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Crawl() error = %v", err)
	}

	// The media link and the non-article links are filtered out.
	if len(articles) != 3 {
		t.Fatalf("Crawl() returned %d articles, want 3", len(articles))
	}
	if stats.Links != 3 || stats.Fetched != 3 || stats.Dropped != 0 {
		t.Errorf("stats = %+v, want 3 links, 3 fetched, 0 dropped", stats)
	}

	byURL := make(map[string]struct {
		title, date, body string
	}, len(articles))
	for _, art := range articles {
		byURL[art.URL] = struct{ title, date, body string }{art.Title, art.PublishedAt, art.Body}
	}

	full := byURL[server.URL+"/2023/05/02/politics/full-story/"]
	if full.title != "Full story headline" {
		t.Errorf("full story title = %q", full.title)
	}
	if full.date != "2023-05-02 10:17:00" {
		t.Errorf("full story date = %q", full.date)
	}
	if full.body != "@desk\nParagraph one.\nParagraph two." {
		t.Errorf("full story body = %q", full.body)
	}

	bare := byURL[server.URL+"/2023/05/02/politics/bare-story/"]
	if bare.title != "Bare story" {
		t.Errorf("bare story title = %q, want link text fallback", bare.title)
	}
	if bare.date != "No Date Found" {
		t.Errorf("bare story date = %q", bare.date)
	}
	if bare.body != "No Content Found" {
		t.Errorf("bare story body = %q", bare.body)
	}

	absolute := byURL[server.URL+"/2023/05/03/world/absolute-story/"]
	if absolute.title != "Absolute headline" {
		t.Errorf("absolute story title = %q", absolute.title)
	}
	if absolute.body != "Only paragraph." {
		t.Errorf("absolute story body = %q", absolute.body)
	}
}
