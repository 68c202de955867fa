package model

// IllustrationStatus is the tagged outcome of one generation attempt.
type IllustrationStatus string

const (
	IllustrationSucceeded IllustrationStatus = "succeeded"
	IllustrationFellBack  IllustrationStatus = "fell_back"
	IllustrationFailed    IllustrationStatus = "failed"
)

// CoverSection marks an illustration keyed to the whole article rather
// than one of its sections.
const CoverSection = -1

// Illustration is an image generated for an article section, or for
// the article as a whole (Section == CoverSection). A Failed
// illustration carries no payload and is omitted from assembly.
type Illustration struct {
	Section int                `json:"section"`
	Title   string             `json:"title"`
	Payload []byte             `json:"-"`
	Status  IllustrationStatus `json:"status"`
	Reason  string             `json:"reason,omitempty"`
}

// Usable reports whether the illustration carries a renderable payload.
func (il Illustration) Usable() bool {
	return il.Status != IllustrationFailed && len(il.Payload) > 0
}

// IsCover reports whether the illustration is the article cover.
func (il Illustration) IsCover() bool {
	return il.Section == CoverSection
}
