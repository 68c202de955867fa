package model

import (
	"strings"
	"testing"
	"time"
)

func TestSlugIsDeterministic(t *testing.T) {
	date := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	if got := Slug("chain-daily", date); got != "chain-daily-2026-08-29" {
		t.Errorf("unexpected slug: %q", got)
	}
	if Slug("chain-daily", date) != Slug("chain-daily", date.Add(3*time.Hour)) {
		t.Error("same day must yield same slug regardless of time")
	}
}

func TestDegraded(t *testing.T) {
	date := time.Now()

	clean := NewRunRecord("chain-daily", date)
	clean.State = StateDone
	clean.MailStatus = DeliverySucceeded
	clean.PersistStatus = DeliverySucceeded
	clean.ArchiveStatus = DeliverySucceeded
	if clean.Degraded() {
		t.Error("fully successful run must not be degraded")
	}

	failedSource := NewRunRecord("chain-daily", date)
	failedSource.State = StateDone
	failedSource.FailedSources = []string{"theblock"}
	if !failedSource.Degraded() {
		t.Error("failed source must degrade the run")
	}

	missingIllustrations := NewRunRecord("chain-daily", date)
	missingIllustrations.State = StateDone
	missingIllustrations.IllustrationsRequested = 5
	missingIllustrations.Illustrations = 2
	if !missingIllustrations.Degraded() {
		t.Error("missing illustrations must degrade the run")
	}

	ambiguousMail := NewRunRecord("chain-daily", date)
	ambiguousMail.State = StateDone
	ambiguousMail.MailStatus = DeliveryAmbiguous
	if !ambiguousMail.Degraded() {
		t.Error("ambiguous mail must degrade the run")
	}

	aborted := NewRunRecord("chain-daily", date)
	aborted.State = StateAborted
	if aborted.Degraded() {
		t.Error("aborted runs are not degraded, they are failed")
	}
}

func TestSummary(t *testing.T) {
	record := NewRunRecord("chain-daily", time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	record.State = StateDone
	record.FetchedItems = 50
	record.FilteredItems = 37
	record.IllustrationsRequested = 5
	record.Illustrations = 2
	record.MailStatus = DeliveryAmbiguous
	record.PersistStatus = DeliverySucceeded
	record.ArchiveStatus = DeliverySucceeded

	summary := record.Summary()

	if !strings.Contains(summary, "degraded success") {
		t.Errorf("degraded run must say so: %s", summary)
	}
	if !strings.Contains(summary, "2/5") {
		t.Errorf("summary must carry illustration ratio: %s", summary)
	}
	if !strings.Contains(summary, "verify delivery manually") {
		t.Errorf("ambiguous mail must carry the manual-verification note: %s", summary)
	}

	record.State = StateAborted
	record.AbortReason = AbortNoContent
	if !strings.Contains(record.Summary(), "no_content") {
		t.Errorf("abort summary must carry the reason: %s", record.Summary())
	}
}
