package model

import "time"

// RawItem is a single news item as produced by a source adapter.
// Immutable once fetched.
type RawItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Batch is the deduplicated, time-windowed set of items feeding one
// synthesis call. Items are ordered newest first.
type Batch struct {
	Items []RawItem `json:"items"`
}

// Sources returns the distinct source names contributing to the batch,
// in first-seen order.
func (b Batch) Sources() []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range b.Items {
		if !seen[item.Source] {
			seen[item.Source] = true
			names = append(names, item.Source)
		}
	}
	return names
}

func (b Batch) IsEmpty() bool {
	return len(b.Items) == 0
}
