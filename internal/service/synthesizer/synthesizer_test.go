package synthesizer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) GenerateText(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error) {
	s.calls++
	return s.response, s.err
}

func testBatch() model.Batch {
	return model.Batch{Items: []model.RawItem{
		{Source: "jinse", Title: "BTC rallies", Content: "Bitcoin moved up sharply overnight on ETF inflows."},
		{Source: "theblock", Title: "DeFi protocol ships v2", Content: "A major lending protocol released its second version."},
	}}
}

func TestSynthesizeParsesStructuredResponse(t *testing.T) {
	gen := &stubGenerator{response: `# Crypto Markets Wake Up

The market saw broad gains today driven by ETF inflows.
Regulation news out of Europe added momentum.

## Market Movements

Bitcoin led the rally with **4%** gains.

## Regulation

### MiCA enforcement begins

European regulators started enforcement.
`}

	s := New(gen, true, 8000)
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	article, err := s.Synthesize(context.Background(), testBatch(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if article.Title != "Crypto Markets Wake Up" {
		t.Errorf("unexpected title: %q", article.Title)
	}
	if !strings.Contains(article.Description, "broad gains") {
		t.Errorf("description not taken from opening prose: %q", article.Description)
	}
	if len(article.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(article.Sections))
	}
	if article.Sections[0].Heading != "Market Movements" || article.Sections[1].Heading != "Regulation" {
		t.Errorf("section order not preserved: %+v", article.Sections)
	}
	if !containsTag(article.Tags, "Bitcoin") || !containsTag(article.Tags, "Regulation") {
		t.Errorf("expected keyword tags, got %v", article.Tags)
	}
}

func TestSynthesizeWrapsMalformedResponse(t *testing.T) {
	gen := &stubGenerator{response: "just a blob of prose with no headings at all"}
	s := New(gen, true, 8000)
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	article, err := s.Synthesize(context.Background(), testBatch(), date)
	if err != nil {
		t.Fatalf("malformed structure must not fail the run: %v", err)
	}

	if len(article.Sections) != 1 {
		t.Fatalf("expected single wrapped section, got %d", len(article.Sections))
	}
	if article.Sections[0].Body != gen.response {
		t.Errorf("raw response not preserved")
	}
	if article.Title == "" || article.Date.IsZero() {
		t.Error("fallback article must still carry title and date")
	}
}

func TestSynthesizeFailurePropagates(t *testing.T) {
	genErr := errors.New("upstream unavailable")
	gen := &stubGenerator{err: genErr}
	s := New(gen, true, 8000)

	_, err := s.Synthesize(context.Background(), testBatch(), time.Now())
	if !errors.Is(err, genErr) {
		t.Fatalf("expected generation error to propagate, got %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("non-rate-limit errors must not be retried, got %d calls", gen.calls)
	}
}

func TestSynthesizeDisabledUsesBasicFormat(t *testing.T) {
	gen := &stubGenerator{}
	s := New(gen, false, 8000)
	date := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	article, err := s.Synthesize(context.Background(), testBatch(), date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 0 {
		t.Error("disabled synthesizer must not call the generator")
	}
	if len(article.Sections) != 2 {
		t.Fatalf("expected one section per source, got %d", len(article.Sections))
	}
	if article.Sections[0].Heading != "jinse" {
		t.Errorf("sections should group by source in first-seen order, got %q", article.Sections[0].Heading)
	}
}

func containsTag(tags []string, want string) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}
