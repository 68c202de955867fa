package repository

import (
	"context"

	"github.com/cbrief/chain-daily/internal/openrouter"
)

// TextGenerator is the text-generation boundary.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error)
}

// ImageGenerator is the image-generation boundary. Rate-limit signals
// surface as *openrouter.RateLimitError to drive the retry path.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type generatorRepository struct {
	client *openrouter.Client
}

// NewTextGenerator wraps the OpenRouter client as a TextGenerator.
func NewTextGenerator(client *openrouter.Client) TextGenerator {
	return &generatorRepository{client: client}
}

// NewImageGenerator wraps the OpenRouter client as an ImageGenerator.
func NewImageGenerator(client *openrouter.Client) ImageGenerator {
	return &generatorRepository{client: client}
}

func (g *generatorRepository) GenerateText(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error) {
	return g.client.GenerateText(ctx, systemPrompt, prompt, maxTokens)
}

func (g *generatorRepository) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return g.client.GenerateImage(ctx, prompt)
}
