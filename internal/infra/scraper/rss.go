package scraper

import (
	"context"
	"net/http"

	"newscrawl/internal/domain/entity"

	"github.com/mmcdole/gofeed"
)

// FeedDiscoverer implements crawl.FeedDiscoverer using the gofeed library.
// It turns RSS/Atom feed items into article references for sites that
// expose a feed, skipping landing-page markup entirely.
type FeedDiscoverer struct {
	client    *http.Client
	userAgent string
}

// NewFeedDiscoverer creates a new FeedDiscoverer with the given HTTP
// client and identity header.
func NewFeedDiscoverer(client *http.Client, userAgent string) *FeedDiscoverer {
	return &FeedDiscoverer{client: client, userAgent: userAgent}
}

// Discover retrieves and parses a feed, returning one reference per item
// that carries both a title and a link. References are deduplicated by
// URL with last-seen-wins semantics, matching landing-page discovery.
func (d *FeedDiscoverer) Discover(ctx context.Context, feedURL string) ([]entity.ArticleRef, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = d.userAgent
	fp.Client = d.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]entity.ArticleRef, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" || item.Title == "" {
			continue
		}
		unique[item.Link] = entity.ArticleRef{Title: item.Title, URL: item.Link}
	}

	refs := make([]entity.ArticleRef, 0, len(unique))
	for _, ref := range unique {
		refs = append(refs, ref)
	}
	return refs, nil
}
