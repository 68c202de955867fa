package openrouter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RateLimitError signals an upstream 429. It is distinguished from
// other transport errors so callers can drive the retry/backoff path.
type RateLimitError struct {
	Body string
}

func (e *RateLimitError) Error() string {
	return "openrouter: rate limited: " + e.Body
}

// IsRateLimit reports whether err is (or wraps) a rate-limit signal.
func IsRateLimit(err error) bool {
	var rle *RateLimitError
	return errors.As(err, &rle)
}

// Client handles OpenRouter chat-completions operations for both text
// and image generation.
type Client struct {
	apiKey     string
	baseURL    string
	textModel  string
	imageModel string
	httpClient *http.Client
}

// NewClient creates a new OpenRouter API client
func NewClient(apiKey, baseURL, textModel, imageModel string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		textModel:  textModel,
		imageModel: imageModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Images  []struct {
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateText invokes the text model once and returns the raw
// completion text.
func (c *Client) GenerateText(ctx context.Context, systemPrompt, prompt string, maxTokens int) (string, error) {
	messages := []chatMessage{}
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	resp, err := c.call(ctx, chatRequest{
		Model:       c.textModel,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage invokes the image model once and returns the decoded
// image bytes. The API returns either a base64 data URL or a plain
// HTTP URL to download.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := c.call(ctx, chatRequest{
		Model:       c.imageModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   4000,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Images) == 0 {
		return nil, fmt.Errorf("no image data in response")
	}

	imageURL := resp.Choices[0].Message.Images[0].ImageURL.URL
	switch {
	case strings.HasPrefix(imageURL, "data:image"):
		idx := strings.Index(imageURL, "base64,")
		if idx < 0 {
			return nil, fmt.Errorf("unsupported data URL encoding")
		}
		data, err := base64.StdEncoding.DecodeString(imageURL[idx+len("base64,"):])
		if err != nil {
			return nil, fmt.Errorf("decoding base64 image: %w", err)
		}
		return data, nil
	case strings.HasPrefix(imageURL, "http"):
		return c.download(ctx, imageURL)
	default:
		return nil, fmt.Errorf("unsupported image URL scheme")
	}
}

// call makes the actual API call to the chat-completions endpoint
func (c *Client) call(ctx context.Context, req chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &RateLimitError{Body: string(bodyBytes)}
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &chatResp, nil
}

// download fetches image bytes from a plain HTTP URL
func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
