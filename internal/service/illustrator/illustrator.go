package illustrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
	"github.com/cbrief/chain-daily/internal/openrouter"
	"github.com/cbrief/chain-daily/internal/repository"
	"github.com/cbrief/chain-daily/internal/retry"
)

// Options configures the illustration stage.
type Options struct {
	Enabled          bool
	FallbackEnabled  bool
	MaxIllustrations int
	Retries          int
	Delay            time.Duration
}

// Illustrator produces at most one illustration per eligible section,
// plus one cover keyed to the whole article, capped at the configured
// maximum. Every request is independent: one failure never cancels
// the others.
type Illustrator struct {
	generator repository.ImageGenerator
	opts      Options
	policy    retry.Policy
}

// New creates an illustrator.
func New(generator repository.ImageGenerator, opts Options) *Illustrator {
	if opts.MaxIllustrations < 1 {
		opts.MaxIllustrations = 1
	}
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	return &Illustrator{
		generator: generator,
		opts:      opts,
		policy: retry.Policy{
			MaxAttempts:     opts.Retries,
			InitialInterval: 2 * time.Second,
			MaxInterval:     30 * time.Second,
			Retryable:       openrouter.IsRateLimit,
		},
	}
}

// Illustrate annotates the article with whatever illustrations could
// be produced. Zero illustrations is a valid, non-error outcome.
func (il *Illustrator) Illustrate(ctx context.Context, article model.Article) []model.Illustration {
	requests := il.plan(article)
	if len(requests) == 0 {
		return nil
	}

	if !il.opts.Enabled {
		if !il.opts.FallbackEnabled {
			log.Printf("🎨 Illustration disabled, no fallback configured")
			return nil
		}
		log.Printf("🎨 Illustration disabled, substituting %d placeholders", len(requests))
		return il.placeholders(requests)
	}

	var results []model.Illustration
	for i, req := range requests {
		if i > 0 && il.opts.Delay > 0 {
			// Throttling discipline for the upstream rate limit, not
			// a correctness requirement.
			select {
			case <-time.After(il.opts.Delay):
			case <-ctx.Done():
			}
		}

		results = append(results, il.generate(ctx, req))
	}

	succeeded := 0
	for _, r := range results {
		if r.Usable() {
			succeeded++
		}
	}
	log.Printf("🎨 Illustrations done: %d/%d usable", succeeded, len(requests))
	return results
}

// Requested reports how many illustrations a given article would ask
// for under the configured cap (cover included).
func (il *Illustrator) Requested(article model.Article) int {
	return len(il.plan(article))
}

type request struct {
	section int
	title   string
	prompt  string
}

// plan lists the requests for this article: cover first, then sections
// in order, capped at the configured maximum.
func (il *Illustrator) plan(article model.Article) []request {
	var requests []request
	requests = append(requests, request{
		section: model.CoverSection,
		title:   article.Title,
		prompt:  coverPrompt(article),
	})

	for i, section := range article.Sections {
		if len(requests) >= il.opts.MaxIllustrations {
			break
		}
		if section.Heading == "" {
			continue
		}
		requests = append(requests, request{
			section: i,
			title:   section.Heading,
			prompt:  sectionPrompt(section),
		})
	}
	return requests
}

// generate runs one independent request with rate-limit retries.
func (il *Illustrator) generate(ctx context.Context, req request) model.Illustration {
	var payload []byte
	err := il.policy.Do(ctx, func() error {
		var genErr error
		payload, genErr = il.generator.GenerateImage(ctx, req.prompt)
		return genErr
	})
	if err == nil {
		log.Printf("🎨 Illustration generated: %s", req.title)
		return model.Illustration{
			Section: req.section,
			Title:   req.title,
			Payload: payload,
			Status:  model.IllustrationSucceeded,
		}
	}

	if openrouter.IsRateLimit(err) {
		// Retry budget exhausted: mark failed, continue to the next.
		log.Printf("❌ Illustration rate-limited past retry budget: %s", req.title)
		return model.Illustration{
			Section: req.section,
			Title:   req.title,
			Status:  model.IllustrationFailed,
			Reason:  err.Error(),
		}
	}

	if il.opts.FallbackEnabled {
		log.Printf("🎨 Illustration fell back to placeholder: %s (%v)", req.title, err)
		return il.placeholder(req)
	}

	log.Printf("❌ Illustration failed: %s (%v)", req.title, err)
	return model.Illustration{
		Section: req.section,
		Title:   req.title,
		Status:  model.IllustrationFailed,
		Reason:  err.Error(),
	}
}

func (il *Illustrator) placeholders(requests []request) []model.Illustration {
	results := make([]model.Illustration, 0, len(requests))
	for _, req := range requests {
		results = append(results, il.placeholder(req))
	}
	return results
}

func (il *Illustrator) placeholder(req request) model.Illustration {
	payload, err := renderPlaceholder(req.title)
	if err != nil {
		return model.Illustration{
			Section: req.section,
			Title:   req.title,
			Status:  model.IllustrationFailed,
			Reason:  fmt.Sprintf("placeholder render: %v", err),
		}
	}
	return model.Illustration{
		Section: req.section,
		Title:   req.title,
		Payload: payload,
		Status:  model.IllustrationFellBack,
	}
}

func coverPrompt(article model.Article) string {
	return fmt.Sprintf(`Create a professional 16:9 presentation-style cover image for a daily blockchain report titled "%s".
Style: modern business slide, gradient dark blue to purple background, large bold white title text, subtle cryptocurrency iconography, high contrast, clean layout.`,
		article.Title)
}

func sectionPrompt(section model.Section) string {
	return fmt.Sprintf(`Create a professional 16:9 infographic slide about "%s".
Style: business presentation, gradient dark background, large readable heading, 3 key points with flat icons, green for positive data and red for negative, blockchain themed, high contrast for video use.`,
		section.Heading)
}
