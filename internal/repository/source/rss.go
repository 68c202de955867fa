package source

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/cbrief/chain-daily/internal/infrastructure"
	"github.com/cbrief/chain-daily/internal/model"
)

// RSSSource fetches items from an RSS/Atom feed (RSSHub endpoints for
// Cointelegraph, The Block, and similar outlets).
type RSSSource struct {
	name     string
	url      string
	priority int
	parser   *gofeed.Parser
}

// NewRSSSource creates an RSS feed adapter.
func NewRSSSource(name, url string, priority int) *RSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = "chain-daily/1.0"
	return &RSSSource{
		name:     name,
		url:      url,
		priority: priority,
		parser:   parser,
	}
}

func (s *RSSSource) Name() string  { return s.name }
func (s *RSSSource) Priority() int { return s.priority }

// Fetch parses the feed and returns entries published inside the
// window. Entries without a parseable publication date are dropped.
func (s *RSSSource) Fetch(ctx context.Context, window time.Duration) ([]model.RawItem, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", s.name, err)
	}

	cutoff := time.Now().Add(-window)
	var items []model.RawItem
	for _, entry := range feed.Items {
		if entry.PublishedParsed == nil {
			continue
		}
		if entry.PublishedParsed.Before(cutoff) {
			continue
		}

		content := entry.Content
		if content == "" {
			content = entry.Description
		}

		id := entry.GUID
		if id == "" {
			id = entry.Link
		}

		items = append(items, model.RawItem{
			ID:          s.name + "-" + id,
			Title:       cleanText(entry.Title),
			Content:     cleanText(content),
			Link:        entry.Link,
			Source:      s.name,
			PublishedAt: *entry.PublishedParsed,
		})
	}

	return items, nil
}

// FromConfigs builds adapters for the enabled source configs, ordered
// by priority then name so merged output is deterministic.
func FromConfigs(configs []infrastructure.SourceConfig) []Source {
	sources := make([]Source, 0, len(configs))
	for _, cfg := range configs {
		switch cfg.Kind {
		case infrastructure.SourceKindRSS:
			sources = append(sources, NewRSSSource(cfg.Name, cfg.URL, cfg.Priority))
		default:
			sources = append(sources, NewNewsflashSource(cfg.Name, cfg.URL, cfg.Priority, cfg.Limit))
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Priority() != sources[j].Priority() {
			return sources[i].Priority() < sources[j].Priority()
		}
		return sources[i].Name() < sources[j].Name()
	})
	return sources
}
