// Package scraper provides markup-level extraction for the crawl pipeline:
// article link discovery on landing pages, structured article extraction,
// and feed-based discovery for sites that expose RSS/Atom.
package scraper

import (
	"log/slog"
	"regexp"
	"strings"

	"newscrawl/internal/domain/entity"

	"github.com/PuerkitoBio/goquery"
)

// articlePathPattern is the date-path heuristic for "this link is an
// article": /YYYY/MM/DD/ anywhere in the target.
var articlePathPattern = regexp.MustCompile(`/\d{4}/\d{2}/\d{2}/`)

// nonArticleLabels mark anchors that point at media pages rather than
// articles. Matching is case-sensitive on the visible anchor text.
var nonArticleLabels = []string{"Video", "Gallery"}

// LinkExtractor discovers article links in landing-page markup.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks scans every anchor in the landing-page markup and returns
// the references whose target matches the date-path pattern.
//
// Candidates are discarded when the anchor text contains a non-article
// label or is empty. Relative targets beginning with "/" are normalized
// against baseURL. References are deduplicated by target URL with
// last-seen-wins semantics; the returned order is unspecified.
func (e *LinkExtractor) ExtractLinks(html, baseURL string) []entity.ArticleRef {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("landing page parse failed", slog.Any("error", err))
		return nil
	}

	unique := make(map[string]entity.ArticleRef)

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		title := strings.TrimSpace(sel.Text())

		if hasNonArticleLabel(title) {
			return
		}
		if href == "" || !articlePathPattern.MatchString(href) {
			return
		}

		if strings.HasPrefix(href, "/") {
			href = strings.TrimRight(baseURL, "/") + href
		}

		if title == "" {
			return
		}

		// Last anchor with the same target wins.
		unique[href] = entity.ArticleRef{Title: title, URL: href}
	})

	refs := make([]entity.ArticleRef, 0, len(unique))
	for _, ref := range unique {
		refs = append(refs, ref)
	}
	return refs
}

func hasNonArticleLabel(title string) bool {
	for _, label := range nonArticleLabels {
		if strings.Contains(title, label) {
			return true
		}
	}
	return false
}
