package sink

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"newscrawl/internal/domain/entity"
)

// DefaultJSONFile is the output path used when none is configured.
const DefaultJSONFile = "articles.json"

// articleJSON is the on-disk representation of an article. The key set
// and order are part of the external contract and must not change.
type articleJSON struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// JSONSink writes the full article set to a file as a pretty-indented
// JSON array. Non-ASCII text is preserved as-is (no escaping), UTF-8
// encoded.
type JSONSink struct {
	// Path is the output file; DefaultJSONFile when empty.
	Path string
}

// Write encodes the articles and writes them to the configured file,
// replacing any previous content.
func (s *JSONSink) Write(articles []entity.Article) error {
	path := s.Path
	if path == "" {
		path = DefaultJSONFile
	}

	out := make([]articleJSON, 0, len(articles))
	for _, art := range articles {
		out = append(out, articleJSON{
			Title:   art.Title,
			Date:    art.PublishedAt,
			Content: art.Body,
			URL:     art.URL,
		})
	}

	// json.Encoder is used instead of MarshalIndent for SetEscapeHTML(false);
	// its trailing newline is not part of the output contract and is dropped.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
