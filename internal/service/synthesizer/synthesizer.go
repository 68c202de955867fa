package synthesizer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
	"github.com/cbrief/chain-daily/internal/openrouter"
	"github.com/cbrief/chain-daily/internal/repository"
	"github.com/cbrief/chain-daily/internal/retry"
)

const systemPrompt = "You are a senior blockchain industry analyst and long-form content writer. " +
	"Your articles are information-dense, analytical, and written for professional readers."

// Synthesizer turns a filtered batch into exactly one article per run.
type Synthesizer struct {
	generator   repository.TextGenerator
	enabled     bool
	targetChars int
	retryPolicy retry.Policy
}

// New creates a synthesizer. When disabled, it falls back to basic
// formatting without calling the generation capability.
func New(generator repository.TextGenerator, enabled bool, targetChars int) *Synthesizer {
	return &Synthesizer{
		generator:   generator,
		enabled:     enabled,
		targetChars: targetChars,
		retryPolicy: retry.Policy{
			MaxAttempts:     3,
			InitialInterval: 2 * time.Second,
			MaxInterval:     30 * time.Second,
			Retryable:       openrouter.IsRateLimit,
		},
	}
}

// Synthesize generates the daily article from the batch. The returned
// error is fatal to the run: there is no article without text.
func (s *Synthesizer) Synthesize(ctx context.Context, batch model.Batch, date time.Time) (model.Article, error) {
	if !s.enabled {
		log.Printf("📝 Synthesis disabled, using basic formatting")
		return s.basicFormat(batch, date), nil
	}

	prompt := s.buildPrompt(batch, date)

	var raw string
	err := s.retryPolicy.Do(ctx, func() error {
		var genErr error
		raw, genErr = s.generator.GenerateText(ctx, systemPrompt, prompt, 16000)
		return genErr
	})
	if err != nil {
		return model.Article{}, fmt.Errorf("generating article: %w", err)
	}

	article := s.parseResponse(raw, date)
	log.Printf("📝 Article synthesized: %q (%d sections, tags: %s)",
		article.Title, len(article.Sections), strings.Join(article.Tags, ", "))
	return article, nil
}

// buildPrompt prepares the generation prompt from the batch.
func (s *Synthesizer) buildPrompt(batch model.Batch, date time.Time) string {
	var news strings.Builder
	for i, item := range batch.Items {
		fmt.Fprintf(&news, "%d. [%s] %s\n   %s\n\n", i+1, item.Source, item.Title, item.Content)
	}

	return fmt.Sprintf(`Turn the following blockchain news items into one detailed daily-observation blog article.

Date: %s

News items:
%s
Requirements:
1. Target length around %d characters; expand background, impact, and analysis for each important item.
2. Structure: an opening summary (plain prose, no heading), then themed sections, then a closing deep-analysis section.
3. Markdown format: "## " for section headings, "###" for major stories, "-" lists for minor items, bold for key figures.
4. Professional but accessible tone; support claims with the data present in the items; do not invent facts.
5. Output only the article body, starting with the opening summary prose.`,
		date.Format("2006-01-02"), news.String(), s.targetChars)
}

// parseResponse parses the delimited structure the generator is
// expected to emit. A malformed response degrades quality, not
// availability: the raw text is wrapped as a single un-sectioned
// article instead of failing the run.
func (s *Synthesizer) parseResponse(raw string, date time.Time) model.Article {
	article := model.Article{
		Title: fmt.Sprintf("Chain Daily Observer - %s", date.Format("2006-01-02")),
		Date:  date,
	}

	lines := strings.Split(strings.TrimSpace(raw), "\n")

	var descriptionLines []string
	contentStart := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			contentStart = i
			break
		}
		if strings.HasPrefix(trimmed, "# ") {
			article.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			continue
		}
		if trimmed != "" && len(descriptionLines) < 3 {
			descriptionLines = append(descriptionLines, trimmed)
		}
	}

	if len(descriptionLines) > 0 {
		article.Description = truncate(strings.Join(descriptionLines, " "), 200)
	} else {
		article.Description = article.Title
	}

	if contentStart < 0 {
		// No section structure at all: wrap everything.
		article.Sections = []model.Section{{Body: strings.TrimSpace(raw)}}
		article.Tags = extractTags(raw)
		return article
	}

	var sections []model.Section
	var current *model.Section
	for _, line := range lines[contentStart:] {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			if current != nil {
				current.Body = strings.TrimSpace(current.Body)
				sections = append(sections, *current)
			}
			current = &model.Section{Heading: strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))}
			continue
		}
		if current != nil {
			current.Body += line + "\n"
		}
	}
	if current != nil {
		current.Body = strings.TrimSpace(current.Body)
		sections = append(sections, *current)
	}

	article.Sections = sections
	article.Tags = extractTags(raw)
	return article
}

// basicFormat builds the article without generation: items grouped by
// source, one section per source.
func (s *Synthesizer) basicFormat(batch model.Batch, date time.Time) model.Article {
	article := model.Article{
		Title:       fmt.Sprintf("Chain Daily Observer - %s", date.Format("2006-01-02")),
		Date:        date,
		Description: fmt.Sprintf("Daily blockchain digest for %s with %d items", date.Format("2006-01-02"), len(batch.Items)),
		Tags:        []string{"blockchain", "daily"},
	}

	grouped := make(map[string][]model.RawItem)
	for _, item := range batch.Items {
		grouped[item.Source] = append(grouped[item.Source], item)
	}

	for _, source := range batch.Sources() {
		var body strings.Builder
		for _, item := range grouped[source] {
			fmt.Fprintf(&body, "- **%s**  \n  %s\n", item.Title, item.Content)
		}
		article.Sections = append(article.Sections, model.Section{
			Heading: source,
			Body:    strings.TrimSpace(body.String()),
		})
	}

	return article
}

// extractTags scans content for topic keywords.
func extractTags(content string) []string {
	tags := []string{"blockchain", "daily"}
	lower := strings.ToLower(content)

	keywords := []struct {
		tag     string
		markers []string
	}{
		{"DeFi", []string{"defi", "decentralized finance"}},
		{"NFT", []string{"nft"}},
		{"Bitcoin", []string{"bitcoin", "btc"}},
		{"Ethereum", []string{"ethereum", "eth "}},
		{"Regulation", []string{"regulation", "regulatory", "policy"}},
		{"Funding", []string{"funding", "investment", "raised"}},
	}
	for _, kw := range keywords {
		for _, marker := range kw.markers {
			if strings.Contains(lower, marker) {
				tags = append(tags, kw.tag)
				break
			}
		}
	}
	return tags
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
