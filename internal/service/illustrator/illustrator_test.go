package illustrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
	"github.com/cbrief/chain-daily/internal/openrouter"
)

type stubImageGenerator struct {
	// errs is consumed in call order; nil means success.
	errs  []error
	calls int
}

func (s *stubImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	var err error
	if s.calls < len(s.errs) {
		err = s.errs[s.calls]
	}
	s.calls++
	if err != nil {
		return nil, err
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

func testArticle(sections int) model.Article {
	article := model.Article{Title: "Chain Daily", Date: time.Now()}
	for i := 0; i < sections; i++ {
		article.Sections = append(article.Sections, model.Section{
			Heading: "Section",
			Body:    "body",
		})
	}
	return article
}

func opts() Options {
	return Options{
		Enabled:          true,
		FallbackEnabled:  false,
		MaxIllustrations: 5,
		Retries:          2,
		Delay:            0,
	}
}

func TestIllustrateCoversAndCaps(t *testing.T) {
	gen := &stubImageGenerator{}
	il := New(gen, opts())

	results := il.Illustrate(context.Background(), testArticle(10))

	// Cap of 5 includes the cover.
	if len(results) != 5 {
		t.Fatalf("expected 5 illustrations, got %d", len(results))
	}
	if !results[0].IsCover() {
		t.Error("first illustration must be the cover")
	}
	for _, r := range results {
		if r.Status != model.IllustrationSucceeded {
			t.Errorf("expected success, got %s", r.Status)
		}
	}
}

func TestIllustrateContinuesPastFailures(t *testing.T) {
	rateLimited := &openrouter.RateLimitError{Body: "slow down"}
	gen := &stubImageGenerator{errs: []error{
		nil,                      // cover ok
		rateLimited, rateLimited, // section 0: retried twice, exhausted
		nil,                      // section 1 ok
		rateLimited, rateLimited, // section 2 exhausted
		rateLimited, rateLimited, // section 3 exhausted
	}}
	il := New(gen, opts())

	results := il.Illustrate(context.Background(), testArticle(4))

	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}

	usable := 0
	for _, r := range results {
		if r.Usable() {
			usable++
		}
	}
	if usable != 2 {
		t.Errorf("expected 2 usable illustrations, got %d", usable)
	}
	if results[1].Status != model.IllustrationFailed {
		t.Errorf("exhausted rate limit must mark Failed, got %s", results[1].Status)
	}
}

func TestIllustrateRetriesOnRateLimit(t *testing.T) {
	gen := &stubImageGenerator{errs: []error{&openrouter.RateLimitError{}, nil}}
	o := opts()
	o.MaxIllustrations = 1
	il := New(gen, o)

	results := il.Illustrate(context.Background(), testArticle(1))

	if len(results) != 1 || results[0].Status != model.IllustrationSucceeded {
		t.Fatalf("expected retried success, got %+v", results)
	}
	if gen.calls != 2 {
		t.Errorf("expected 2 calls, got %d", gen.calls)
	}
}

func TestIllustrateTransportErrorFallsBack(t *testing.T) {
	gen := &stubImageGenerator{errs: []error{errors.New("connection refused")}}
	o := opts()
	o.FallbackEnabled = true
	o.MaxIllustrations = 1
	il := New(gen, o)

	results := il.Illustrate(context.Background(), testArticle(1))

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != model.IllustrationFellBack {
		t.Errorf("expected FellBack, got %s", results[0].Status)
	}
	if !results[0].Usable() {
		t.Error("placeholder must carry a payload")
	}
}

func TestIllustrateDisabledWithFallback(t *testing.T) {
	gen := &stubImageGenerator{}
	o := opts()
	o.Enabled = false
	o.FallbackEnabled = true
	il := New(gen, o)

	results := il.Illustrate(context.Background(), testArticle(2))

	if gen.calls != 0 {
		t.Error("disabled illustrator must not call the generator")
	}
	if len(results) != 3 {
		t.Fatalf("expected cover plus 2 placeholders, got %d", len(results))
	}
	for _, r := range results {
		if r.Status != model.IllustrationFellBack || !r.Usable() {
			t.Errorf("expected usable placeholder, got %+v status %s", len(r.Payload), r.Status)
		}
	}
}

func TestIllustrateDisabledWithoutFallback(t *testing.T) {
	gen := &stubImageGenerator{}
	o := opts()
	o.Enabled = false
	il := New(gen, o)

	if results := il.Illustrate(context.Background(), testArticle(2)); len(results) != 0 {
		t.Fatalf("expected no illustrations, got %d", len(results))
	}
}

func TestRenderPlaceholderProducesPNG(t *testing.T) {
	data, err := renderPlaceholder("Market Movements")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("expected PNG payload")
	}
}
