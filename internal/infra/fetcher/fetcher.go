package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"newscrawl/internal/resilience/circuitbreaker"
	"newscrawl/internal/usecase/crawl"

	"github.com/sony/gobreaker"
)

// PageFetcher implements crawl.PageFetcher over a shared HTTP client.
// The client and its configured headers are immutable after construction
// and safe for concurrent use by all worker tasks. A circuit breaker stops
// requests to a site that is consistently failing; a rejected request is
// reported as an ordinary fetch error and handled by the caller's
// drop-on-failure contract.
type PageFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	cfg            Config
}

// New creates a PageFetcher with the given configuration.
//
// The underlying HTTP client enforces TLS 1.2+, pools idle connections,
// validates every redirect target, and carries no per-client timeout; the
// per-request timeout comes from cfg.Timeout via request contexts.
func New(cfg Config) *PageFetcher {
	f := &PageFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.PageFetchConfig()),
		cfg:            cfg,
	}

	f.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12, // Enforce TLS 1.2+
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return f
}

// FetchPage issues a single GET for the given URL and returns the raw body
// with the elapsed fetch time. Any network error, non-success status code,
// or timeout is returned as an error; there are no retries.
func (f *PageFetcher) FetchPage(ctx context.Context, urlStr string) (*crawl.PageResult, error) {
	if err := validateURL(urlStr, f.cfg.DenyPrivateIPs); err != nil {
		return nil, err
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, urlStr)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("page fetch circuit breaker open, request rejected",
				slog.String("url", urlStr),
				slog.String("state", f.circuitBreaker.State().String()))
		}
		return nil, err
	}

	return result.(*crawl.PageResult), nil
}

// doFetch performs the actual HTTP request without the circuit breaker.
func (f *PageFetcher) doFetch(ctx context.Context, urlStr string) (*crawl.PageResult, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.cfg.Timeout)
		}
		// Unwrap redirect validation failures for a cleaner error chain.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	limitedReader := io.LimitReader(resp.Body, f.cfg.MaxBodySize+1)
	bodyBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(bodyBytes)) > f.cfg.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.cfg.MaxBodySize)
	}

	elapsed := time.Since(start)
	slog.Debug("page fetched",
		slog.String("url", urlStr),
		slog.Int("bytes", len(bodyBytes)),
		slog.Duration("elapsed", elapsed))

	return &crawl.PageResult{HTML: string(bodyBytes), Elapsed: elapsed}, nil
}
