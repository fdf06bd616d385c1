package fetcher_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"newscrawl/internal/infra/fetcher"
)

// testConfig returns a config suitable for httptest servers, which listen
// on loopback addresses.
func testConfig() fetcher.Config {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false
	return cfg
}

func TestPageFetcher_FetchPage_Success(t *testing.T) {
	const body = "<html><body>hello</body></html>"

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if _, err := w.Write([]byte(body)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	f := fetcher.New(testConfig())
	result, err := f.FetchPage(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	if result.HTML != body {
		t.Errorf("HTML = %q, want %q", result.HTML, body)
	}
	if result.Elapsed <= 0 {
		t.Errorf("Elapsed = %v, want > 0", result.Elapsed)
	}
	if gotUA != fetcher.DefaultUserAgent {
		t.Errorf("User-Agent = %q, want default identity header", gotUA)
	}
}

func TestPageFetcher_FetchPage_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	f := fetcher.New(testConfig())
	_, err := f.FetchPage(context.Background(), server.URL)
	if err == nil {
		t.Fatal("FetchPage() expected error for 404 response")
	}

	var statusErr *fetcher.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("FetchPage() error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusNotFound)
	}
}

func TestPageFetcher_FetchPage_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.Timeout = 50 * time.Millisecond

	f := fetcher.New(cfg)
	_, err := f.FetchPage(context.Background(), server.URL)
	if !errors.Is(err, fetcher.ErrTimeout) {
		t.Errorf("FetchPage() error = %v, want ErrTimeout", err)
	}
}

func TestPageFetcher_FetchPage_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte(strings.Repeat("x", 4096))); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024

	f := fetcher.New(cfg)
	_, err := f.FetchPage(context.Background(), server.URL)
	if !errors.Is(err, fetcher.ErrBodyTooLarge) {
		t.Errorf("FetchPage() error = %v, want ErrBodyTooLarge", err)
	}
}

func TestPageFetcher_FetchPage_TooManyRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2

	f := fetcher.New(cfg)
	_, err := f.FetchPage(context.Background(), server.URL)
	if !errors.Is(err, fetcher.ErrTooManyRedirects) {
		t.Errorf("FetchPage() error = %v, want ErrTooManyRedirects", err)
	}
}

func TestPageFetcher_FetchPage_InvalidScheme(t *testing.T) {
	f := fetcher.New(testConfig())
	_, err := f.FetchPage(context.Background(), "ftp://example.com/file")
	if !errors.Is(err, fetcher.ErrInvalidURL) {
		t.Errorf("FetchPage() error = %v, want ErrInvalidURL", err)
	}
}

func TestPageFetcher_FetchPage_PrivateIPDenied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	cfg := fetcher.DefaultConfig() // DenyPrivateIPs stays true
	f := fetcher.New(cfg)
	_, err := f.FetchPage(context.Background(), server.URL)
	if !errors.Is(err, fetcher.ErrPrivateIP) {
		t.Errorf("FetchPage() error = %v, want ErrPrivateIP", err)
	}
}
