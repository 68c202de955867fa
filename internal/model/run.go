package model

import (
	"fmt"
	"time"
)

// RunState is the orchestrator's current stage.
type RunState string

const (
	StateFetching     RunState = "fetching"
	StateFiltering    RunState = "filtering"
	StateSynthesizing RunState = "synthesizing"
	StateIllustrating RunState = "illustrating"
	StateAssembling   RunState = "assembling"
	StateDispatching  RunState = "dispatching"
	StateDone         RunState = "done"
	StateAborted      RunState = "aborted"
)

// AbortReason explains a terminal Aborted state.
type AbortReason string

const (
	AbortNone             AbortReason = ""
	AbortNoContent        AbortReason = "no_content"
	AbortSynthesisFailure AbortReason = "synthesis_failure"
	AbortAssemblyFailure  AbortReason = "assembly_failure"
)

// DeliveryStatus is the per-channel dispatch outcome. Ambiguous marks
// a transport error reported after the message was likely delivered;
// it requires manual verification and is never coalesced into success
// or failure.
type DeliveryStatus string

const (
	DeliverySkipped   DeliveryStatus = "skipped"
	DeliverySucceeded DeliveryStatus = "succeeded"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliveryAmbiguous DeliveryStatus = "ambiguous"
)

// Slug derives the run identity from its date. The same date always
// yields the same slug, which keys the datastore upsert and the
// artifact filename so re-runs overwrite instead of duplicating.
func Slug(prefix string, date time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, date.Format("2006-01-02"))
}

// RunRecord tracks one pipeline run from start to terminal state. It
// is owned exclusively by the active run; each stage records its
// outcome here.
type RunRecord struct {
	Slug      string    `json:"slug"`
	Date      time.Time `json:"date"`
	StartedAt time.Time `json:"started_at"`

	State       RunState    `json:"state"`
	AbortReason AbortReason `json:"abort_reason,omitempty"`

	FetchedItems           int      `json:"fetched_items"`
	FailedSources          []string `json:"failed_sources,omitempty"`
	FilteredItems          int      `json:"filtered_items"`
	Illustrations          int      `json:"illustrations"`
	IllustrationsRequested int      `json:"illustrations_requested"`

	Article *Article `json:"article,omitempty"`

	MailStatus    DeliveryStatus `json:"mail_status"`
	PersistStatus DeliveryStatus `json:"persist_status"`
	ArchiveStatus DeliveryStatus `json:"archive_status"`
}

// NewRunRecord creates the record at run start.
func NewRunRecord(prefix string, date time.Time) *RunRecord {
	return &RunRecord{
		Slug:          Slug(prefix, date),
		Date:          date,
		StartedAt:     time.Now(),
		State:         StateFetching,
		MailStatus:    DeliverySkipped,
		PersistStatus: DeliverySkipped,
		ArchiveStatus: DeliverySkipped,
	}
}

// Degraded reports whether the run completed but with optional
// sub-results failed or missing.
func (r *RunRecord) Degraded() bool {
	if r.State != StateDone {
		return false
	}
	if len(r.FailedSources) > 0 {
		return true
	}
	if r.Illustrations < r.IllustrationsRequested {
		return true
	}
	for _, st := range []DeliveryStatus{r.MailStatus, r.PersistStatus, r.ArchiveStatus} {
		if st == DeliveryFailed || st == DeliveryAmbiguous {
			return true
		}
	}
	return false
}

// Summary renders the user-visible run report. It always distinguishes
// full success from degraded success.
func (r *RunRecord) Summary() string {
	switch r.State {
	case StateAborted:
		return fmt.Sprintf("run %s aborted (%s) at stage counts: items %d fetched, %d after filtering",
			r.Slug, r.AbortReason, r.FetchedItems, r.FilteredItems)
	case StateDone:
		outcome := "success"
		if r.Degraded() {
			outcome = "degraded success"
		}
		s := fmt.Sprintf("run %s finished: %s | items: %d fetched, %d filtered | illustrations: %d/%d | mail: %s | persist: %s | archive: %s",
			r.Slug, outcome, r.FetchedItems, r.FilteredItems,
			r.Illustrations, r.IllustrationsRequested,
			r.MailStatus, r.PersistStatus, r.ArchiveStatus)
		if len(r.FailedSources) > 0 {
			s += fmt.Sprintf(" | failed sources: %v", r.FailedSources)
		}
		if r.MailStatus == DeliveryAmbiguous {
			s += " | NOTE: mail transport reported an ambiguous error, verify delivery manually"
		}
		return s
	default:
		return fmt.Sprintf("run %s in progress (%s)", r.Slug, r.State)
	}
}
