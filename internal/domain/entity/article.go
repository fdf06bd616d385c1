// Package entity defines the core domain entities for the crawler.
// It contains the fundamental business objects, ArticleRef and Article,
// along with the sentinel values used when extraction degrades.
package entity

// Sentinel values substituted when an expected field cannot be extracted.
// They are part of the output contract and must not be changed without
// breaking consumers of the JSON output.
const (
	// NoDateFound is set as PublishedAt when the timestamp element is
	// absent or its text does not parse.
	NoDateFound = "No Date Found"

	// NoContentFound is set as Body when neither the paragraph-content
	// selector nor a generic paragraph matches anything.
	NoContentFound = "No Content Found"
)

// ArticleRef is a discovered candidate article prior to fetching its page.
// URL is the deduplication key during link discovery; Title is the anchor
// text and may later be overridden by the article page's own heading.
type ArticleRef struct {
	Title string
	URL   string
}

// Article is a fully extracted article record. It is immutable once
// constructed and is the terminal output unit of a crawl.
//
// PublishedAt is either "2006-01-02 15:04:05"-formatted or the
// NoDateFound sentinel. Body is the newline-joined paragraph text or the
// NoContentFound sentinel. URL always equals the source ArticleRef URL.
type Article struct {
	Title       string
	PublishedAt string
	Body        string
	URL         string
}
