// Package config loads the daemon's crawl source definitions from a YAML
// file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source kinds. HTML sources crawl a landing page for article links; RSS
// sources read article references from a feed.
const (
	SourceTypeHTML = "html"
	SourceTypeRSS  = "rss"
)

// Source is one site the daemon crawls on every scheduled run.
type Source struct {
	// Name identifies the source in logs and metrics.
	Name string `yaml:"name"`

	// URL is the landing page (html) or feed (rss) address.
	URL string `yaml:"url"`

	// Type selects the discovery strategy: "html" or "rss".
	// Defaults to "html" when empty.
	Type string `yaml:"type"`

	// Concurrency overrides the crawl worker count for this source.
	// Zero uses the crawler default.
	Concurrency int `yaml:"concurrency"`
}

// SourcesFile is the root of the sources YAML document.
type SourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads and validates a sources file.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sources file %s: %w", path, err)
	}

	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("sources file %s defines no sources", path)
	}

	for i := range file.Sources {
		src := &file.Sources[i]
		if src.Type == "" {
			src.Type = SourceTypeHTML
		}
		if err := src.validate(i); err != nil {
			return nil, err
		}
	}
	return file.Sources, nil
}

func (s *Source) validate(index int) error {
	if s.Name == "" {
		return fmt.Errorf("source %d: name is required", index)
	}
	if s.URL == "" {
		return fmt.Errorf("source %q: url is required", s.Name)
	}
	if s.Type != SourceTypeHTML && s.Type != SourceTypeRSS {
		return fmt.Errorf("source %q: unknown type %q (want %q or %q)",
			s.Name, s.Type, SourceTypeHTML, SourceTypeRSS)
	}
	if s.Concurrency < 0 {
		return fmt.Errorf("source %q: concurrency must not be negative", s.Name)
	}
	return nil
}
