package filter

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/cbrief/chain-daily/internal/model"
)

// Options configures one filtering pass.
type Options struct {
	Window    time.Duration
	MinLength int
	Now       time.Time
}

// Apply deduplicates and filters the concatenated fetch output into a
// batch for synthesis. The result preserves descending recency so the
// synthesizer sees the freshest material first. An empty result is a
// valid outcome, not an error.
func Apply(items []model.RawItem, opts Options) model.Batch {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	cutoff := now.Add(-opts.Window)

	seen := make(map[string]bool, len(items))
	var kept []model.RawItem
	for _, item := range items {
		// Unparsable timestamps are unreliable data, not an error.
		if item.PublishedAt.IsZero() {
			continue
		}
		if item.PublishedAt.Before(cutoff) {
			continue
		}
		// The window is bounded on both ends: a backfill run must not
		// absorb items published after its target day, and clock-skewed
		// future timestamps are as unreliable as missing ones.
		if item.PublishedAt.After(now) {
			continue
		}
		if len(item.Content) < opts.MinLength {
			continue
		}

		key := NormalizeTitle(item.Title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, item)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].PublishedAt.After(kept[j].PublishedAt)
	})

	return model.Batch{Items: kept}
}

// NormalizeTitle produces the dedup key: case-folded, punctuation
// stripped, whitespace collapsed.
func NormalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
