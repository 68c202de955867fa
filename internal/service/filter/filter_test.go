package filter

import (
	"fmt"
	"testing"
	"time"

	"github.com/cbrief/chain-daily/internal/model"
)

func item(title string, age time.Duration, now time.Time) model.RawItem {
	return model.RawItem{
		Title:       title,
		Content:     "some reasonably long body content for quality filtering purposes",
		PublishedAt: now.Add(-age),
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Bitcoin Hits $100K!", "bitcoin hits 100k"},
		{"  bitcoin   hits $100K ", "bitcoin hits 100k"},
		{"BITCOIN HITS $100K?!", "bitcoin hits 100k"},
		{"", ""},
		{"!!!", ""},
	}

	for _, test := range tests {
		if got := NormalizeTitle(test.input); got != test.expected {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", test.input, got, test.expected)
		}
	}
}

func TestApplyDeduplicatesByNormalizedTitle(t *testing.T) {
	now := time.Now()
	items := []model.RawItem{
		item("Bitcoin Hits $100K!", time.Hour, now),
		item("bitcoin hits 100k", 2*time.Hour, now),
		item("Ethereum upgrade ships", 3*time.Hour, now),
	}

	batch := Apply(items, Options{Window: 24 * time.Hour, MinLength: 10, Now: now})

	if len(batch.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch.Items))
	}
	// First occurrence wins.
	if batch.Items[0].Title != "Bitcoin Hits $100K!" {
		t.Errorf("expected original title kept, got %q", batch.Items[0].Title)
	}
}

func TestApplyDropsItemsOutsideWindow(t *testing.T) {
	now := time.Now()
	items := []model.RawItem{
		item("fresh news", time.Hour, now),
		item("stale news", 25*time.Hour, now),
	}

	batch := Apply(items, Options{Window: 24 * time.Hour, MinLength: 10, Now: now})

	if len(batch.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(batch.Items))
	}
	if batch.Items[0].Title != "fresh news" {
		t.Errorf("unexpected surviving item: %q", batch.Items[0].Title)
	}
}

func TestApplyDropsItemsAfterWindowEnd(t *testing.T) {
	// Backfill scenario: the window ends at the target day, so items
	// published later (or future-dated by a skewed clock) are dropped.
	windowEnd := time.Now().Add(-48 * time.Hour)
	items := []model.RawItem{
		item("inside window", time.Hour, windowEnd),
		{Title: "published later", Content: "long enough body content here", PublishedAt: windowEnd.Add(10 * time.Hour)},
	}

	batch := Apply(items, Options{Window: 24 * time.Hour, MinLength: 10, Now: windowEnd})

	if len(batch.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(batch.Items))
	}
	if batch.Items[0].Title != "inside window" {
		t.Errorf("unexpected surviving item: %q", batch.Items[0].Title)
	}
}

func TestApplyDropsUnparsableTimestampsAndShortContent(t *testing.T) {
	now := time.Now()
	items := []model.RawItem{
		{Title: "no timestamp", Content: "long enough body content here"},
		{Title: "too short", Content: "tiny", PublishedAt: now.Add(-time.Hour)},
		item("keeper", time.Hour, now),
	}

	batch := Apply(items, Options{Window: 24 * time.Hour, MinLength: 10, Now: now})

	if len(batch.Items) != 1 || batch.Items[0].Title != "keeper" {
		t.Fatalf("expected only the keeper to survive, got %+v", batch.Items)
	}
}

func TestApplyOrdersNewestFirst(t *testing.T) {
	now := time.Now()
	items := []model.RawItem{
		item("older", 5*time.Hour, now),
		item("newest", time.Hour, now),
		item("middle", 3*time.Hour, now),
	}

	batch := Apply(items, Options{Window: 24 * time.Hour, MinLength: 10, Now: now})

	want := []string{"newest", "middle", "older"}
	for i, title := range want {
		if batch.Items[i].Title != title {
			t.Errorf("position %d: got %q, want %q", i, batch.Items[i].Title, title)
		}
	}
}

func TestApplyFiftyItemScenario(t *testing.T) {
	// 50 raw items, 8 exact-duplicate titles, 5 older than the window
	// -> 37 survive, newest first.
	now := time.Now()
	var items []model.RawItem
	for i := 0; i < 37; i++ {
		items = append(items, item(fmt.Sprintf("unique story %d", i), time.Duration(i+1)*time.Minute, now))
	}
	for i := 0; i < 8; i++ {
		items = append(items, item("unique story 0", 40*time.Minute, now))
	}
	for i := 0; i < 5; i++ {
		items = append(items, item(fmt.Sprintf("old story %d", i), 30*time.Hour, now))
	}

	batch := Apply(items, Options{Window: 24 * time.Hour, MinLength: 10, Now: now})

	if len(batch.Items) != 37 {
		t.Fatalf("expected 37 items, got %d", len(batch.Items))
	}
	for i := 1; i < len(batch.Items); i++ {
		if batch.Items[i].PublishedAt.After(batch.Items[i-1].PublishedAt) {
			t.Fatalf("batch not ordered newest first at position %d", i)
		}
	}
}

func TestApplyEmptyInputIsValid(t *testing.T) {
	batch := Apply(nil, Options{Window: 24 * time.Hour, MinLength: 10})
	if !batch.IsEmpty() {
		t.Error("expected empty batch")
	}
}
