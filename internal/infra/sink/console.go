// Package sink provides result destinations for crawled articles:
// human-readable console output and a JSON file writer.
package sink

import (
	"fmt"
	"io"

	"newscrawl/internal/domain/entity"
)

// ConsoleSink writes articles as human-readable text.
type ConsoleSink struct {
	// Out is the destination writer, typically os.Stdout.
	Out io.Writer

	// Preview limits the number of body characters printed per article;
	// zero prints the full body.
	Preview int
}

// Write formats every article to the destination writer. A non-zero
// preview truncates the body to that many characters and appends an
// ellipsis.
func (s *ConsoleSink) Write(articles []entity.Article) error {
	for _, art := range articles {
		body := art.Body
		if s.Preview > 0 {
			runes := []rune(body)
			if len(runes) > s.Preview {
				runes = runes[:s.Preview]
			}
			body = string(runes) + "..."
		}

		if _, err := fmt.Fprintf(s.Out, "Title: %s\nDate: %s\nContent: %s\nURL: %s\n\n",
			art.Title, art.PublishedAt, body, art.URL); err != nil {
			return fmt.Errorf("write article: %w", err)
		}
	}
	return nil
}
