package sink

import (
	"bytes"
	"strings"
	"testing"

	"newscrawl/internal/domain/entity"
)

func TestConsoleSink_Write_FullBody(t *testing.T) {
	var buf bytes.Buffer
	s := &ConsoleSink{Out: &buf}

	articles := []entity.Article{
		{Title: "Headline", PublishedAt: "2023-05-02 10:17:00", Body: "Body text.", URL: "https://example.com/a"},
	}
	if err := s.Write(articles); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "Title: Headline\nDate: 2023-05-02 10:17:00\nContent: Body text.\nURL: https://example.com/a\n\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestConsoleSink_Write_PreviewTruncation(t *testing.T) {
	var buf bytes.Buffer
	s := &ConsoleSink{Out: &buf, Preview: 10}

	long := strings.Repeat("abcde", 10)
	if err := s.Write([]entity.Article{{Title: "T", Body: long, URL: "u"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.Contains(buf.String(), "Content: abcdeabcde...\n") {
		t.Errorf("output = %q, want truncated body with ellipsis", buf.String())
	}
}

func TestConsoleSink_Write_PreviewCountsRunes(t *testing.T) {
	var buf bytes.Buffer
	s := &ConsoleSink{Out: &buf, Preview: 3}

	if err := s.Write([]entity.Article{{Title: "T", Body: "日本語のテキスト", URL: "u"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !strings.Contains(buf.String(), "Content: 日本語...\n") {
		t.Errorf("output = %q, want 3-rune preview", buf.String())
	}
}

func TestConsoleSink_Write_ShortBodyStillGetsEllipsis(t *testing.T) {
	var buf bytes.Buffer
	s := &ConsoleSink{Out: &buf, Preview: 300}

	if err := s.Write([]entity.Article{{Title: "T", Body: "short", URL: "u"}}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Preview mode always marks the body as a preview.
	if !strings.Contains(buf.String(), "Content: short...\n") {
		t.Errorf("output = %q, want ellipsis suffix", buf.String())
	}
}
