package scraper

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"newscrawl/internal/domain/entity"
	"newscrawl/internal/observability/metrics"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	// timestampSelector matches the timestamp element on article pages.
	timestampSelector = "div.timestamp.vossi-timestamp"

	// paragraphSelector is the primary body-content selector; plain <p>
	// elements are the second tier.
	paragraphSelector = "div.paragraph__content"

	// updatedTimeLayout parses timestamps like
	// "Updated 10:17 AM EDT, Tue May 2, 2023". Unknown timezone
	// abbreviations are accepted with a zero offset; only genuinely
	// malformed text falls back to the sentinel.
	updatedTimeLayout = "Updated 3:04 PM MST, Mon January 2, 2006"

	// publishedAtLayout is the normalized output format.
	publishedAtLayout = "2006-01-02 15:04:05"

	// followToken is boilerplate embedded in article bodies; every
	// occurrence is stripped from the assembled text.
	followToken = "Follow:"
)

// ArticleExtractor extracts a structured article from a fetched page.
// Extraction never fails outward: every missing field degrades to a
// fallback value (the link text for the title, a sentinel for date and
// body).
type ArticleExtractor struct {
	// useReadability enables a third-tier body fallback through the
	// readability algorithm when neither paragraph selector matches.
	// Off by default to preserve the two-tier extraction contract.
	useReadability bool
}

// NewArticleExtractor creates a new ArticleExtractor.
func NewArticleExtractor(useReadability bool) *ArticleExtractor {
	return &ArticleExtractor{useReadability: useReadability}
}

// ExtractArticle extracts title, publish date, and body text from article
// page markup. The three fields are independent; each degrades on its own.
func (e *ArticleExtractor) ExtractArticle(html string, ref entity.ArticleRef) entity.Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("article page parse failed, using fallbacks",
			slog.String("url", ref.URL),
			slog.Any("error", err))
		return entity.Article{
			Title:       ref.Title,
			PublishedAt: entity.NoDateFound,
			Body:        entity.NoContentFound,
			URL:         ref.URL,
		}
	}

	return entity.Article{
		Title:       e.extractTitle(doc, ref),
		PublishedAt: e.extractDate(doc),
		Body:        e.extractBody(doc, html, ref),
		URL:         ref.URL,
	}
}

// extractTitle returns the first-level heading text, falling back to the
// link text the article was discovered under.
func (e *ArticleExtractor) extractTitle(doc *goquery.Document, ref entity.ArticleRef) string {
	heading := doc.Find("h1").First()
	if heading.Length() == 0 {
		metrics.RecordExtractionFallback("title")
		return ref.Title
	}
	return strings.TrimSpace(heading.Text())
}

// extractDate parses the timestamp element text. Absence and parse
// failure take the same fallback path: the NoDateFound sentinel.
func (e *ArticleExtractor) extractDate(doc *goquery.Document) string {
	dateText := strings.TrimSpace(doc.Find(timestampSelector).First().Text())
	if dateText == "" {
		metrics.RecordExtractionFallback("date")
		return entity.NoDateFound
	}

	t, err := time.Parse(updatedTimeLayout, dateText)
	if err != nil {
		metrics.RecordExtractionFallback("date")
		return entity.NoDateFound
	}
	return t.Format(publishedAtLayout)
}

// extractBody assembles paragraph text joined by newlines: the primary
// paragraph-content selector first, generic <p> elements second, the
// NoContentFound sentinel last (or the readability algorithm when
// enabled). Every "Follow:" token is stripped and the result trimmed.
func (e *ArticleExtractor) extractBody(doc *goquery.Document, html string, ref entity.ArticleRef) string {
	paragraphs := doc.Find(paragraphSelector)
	if paragraphs.Length() == 0 {
		paragraphs = doc.Find("p")
	}

	var body string
	if paragraphs.Length() > 0 {
		parts := make([]string, 0, paragraphs.Length())
		paragraphs.Each(func(i int, sel *goquery.Selection) {
			parts = append(parts, strings.TrimSpace(sel.Text()))
		})
		body = strings.Join(parts, "\n")
	} else {
		metrics.RecordExtractionFallback("body")
		body = e.readableBody(html, ref)
	}

	return strings.TrimSpace(strings.ReplaceAll(body, followToken, ""))
}

// readableBody runs the readability algorithm over the already-fetched
// markup, returning the NoContentFound sentinel when disabled or when no
// readable content is found.
func (e *ArticleExtractor) readableBody(html string, ref entity.ArticleRef) string {
	if !e.useReadability {
		return entity.NoContentFound
	}

	pageURL, err := url.Parse(ref.URL)
	if err != nil {
		pageURL = nil // readability can work without a URL
	}

	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil || strings.TrimSpace(article.TextContent) == "" {
		slog.Debug("readability fallback found no content", slog.String("url", ref.URL))
		return entity.NoContentFound
	}

	slog.Debug("body recovered via readability",
		slog.String("url", ref.URL),
		slog.Int("length", len(article.TextContent)))
	return strings.TrimSpace(article.TextContent)
}
