package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// NewsflashSource fetches short-form items from a Jinse-style live
// newsflash JSON API.
type NewsflashSource struct {
	name       string
	url        string
	priority   int
	limit      int
	httpClient *http.Client
}

// NewNewsflashSource creates a newsflash API adapter.
func NewNewsflashSource(name, url string, priority, limit int) *NewsflashSource {
	if limit <= 0 {
		limit = 60
	}
	return &NewsflashSource{
		name:     name,
		url:      url,
		priority: priority,
		limit:    limit,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (s *NewsflashSource) Name() string  { return s.name }
func (s *NewsflashSource) Priority() int { return s.priority }

type newsflashResponse struct {
	List []struct {
		ID        int64  `json:"id"`
		Title     string `json:"content_prefix"`
		Content   string `json:"content"`
		Link      string `json:"link"`
		CreatedAt int64  `json:"created_at"`
	} `json:"list"`
}

// Fetch retrieves the latest newsflash entries inside the window.
func (s *NewsflashSource) Fetch(ctx context.Context, window time.Duration) ([]model.RawItem, error) {
	url := fmt.Sprintf("%s?limit=%d", s.url, s.limit)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", "chain-daily/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var payload newsflashResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", s.name, err)
	}

	cutoff := time.Now().Add(-window)
	var items []model.RawItem
	for _, entry := range payload.List {
		publishedAt := time.Unix(entry.CreatedAt, 0)
		if publishedAt.Before(cutoff) {
			continue
		}

		title := cleanText(entry.Title)
		content := cleanText(entry.Content)
		if title == "" {
			title = firstSentence(content, 60)
		}

		items = append(items, model.RawItem{
			ID:          s.name + "-" + strconv.FormatInt(entry.ID, 10),
			Title:       title,
			Content:     content,
			Link:        entry.Link,
			Source:      s.name,
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}

// cleanText strips HTML tags and collapses whitespace.
func cleanText(text string) string {
	text = htmlTagRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// firstSentence extracts a title-length prefix from body text.
func firstSentence(content string, maxLen int) string {
	for _, sep := range []string{"。", ". "} {
		if idx := strings.Index(content, sep); idx > 0 && idx < maxLen {
			return content[:idx+len(sep)]
		}
	}
	if len(content) > maxLen {
		runes := []rune(content)
		if len(runes) > maxLen {
			return string(runes[:maxLen-3]) + "..."
		}
	}
	return content
}
