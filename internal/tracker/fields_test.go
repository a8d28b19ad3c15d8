package tracker

import (
	"testing"
	"time"

	"kazitracker/tracker-service/internal/lifecycle"
)

func day(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return &d
}

// Supplied values must win over the record; absent ones fall back.
func TestMergeFields_SuppliedWins(t *testing.T) {
	record := lifecycle.Fields{
		AppliedDate:     day(t, "2025-01-01"),
		InterviewDate:   day(t, "2025-01-10"),
		RejectionReason: "Culture fit",
	}
	supplied := lifecycle.Fields{
		InterviewDate: day(t, "2025-01-12"), // user corrected the date
	}

	merged := mergeFields(record, supplied)

	if !merged.AppliedDate.Equal(*record.AppliedDate) {
		t.Errorf("appliedDate should fall back to record value")
	}
	if !merged.InterviewDate.Equal(*supplied.InterviewDate) {
		t.Errorf("interviewDate = %v, want supplied %v", merged.InterviewDate, supplied.InterviewDate)
	}
	if merged.RejectionReason != "Culture fit" {
		t.Errorf("rejectionReason should fall back to record value, got %q", merged.RejectionReason)
	}
}

func TestMergeFields_OfferDetailsOverlay(t *testing.T) {
	record := lifecycle.Fields{
		OfferDetails: &lifecycle.OfferDetails{Title: "Backend Engineer", Salary: "80k"},
	}
	supplied := lifecycle.Fields{
		OfferDetails: &lifecycle.OfferDetails{Title: "Senior Backend Engineer"},
	}

	merged := mergeFields(record, supplied)
	if merged.OfferDetails.Title != "Senior Backend Engineer" {
		t.Errorf("supplied offer details should replace the record's, got %+v", merged.OfferDetails)
	}

	// Absent payload keeps the record's.
	merged = mergeFields(record, lifecycle.Fields{})
	if merged.OfferDetails == nil || merged.OfferDetails.Title != "Backend Engineer" {
		t.Errorf("record offer details should survive an empty overlay, got %+v", merged.OfferDetails)
	}
}

func TestMergeFields_EmptyRecord(t *testing.T) {
	supplied := lifecycle.Fields{
		AppliedDate:     day(t, "2025-01-01"),
		RejectedDate:    day(t, "2025-01-08"),
		RejectionReason: "Budget constraints",
	}
	merged := mergeFields(lifecycle.Fields{}, supplied)

	if merged.AppliedDate == nil || merged.RejectedDate == nil {
		t.Fatal("supplied dates lost in merge")
	}
	if merged.InterviewDate != nil || merged.OfferDate != nil {
		t.Error("merge invented dates that were never set")
	}
	if merged.RejectionReason != "Budget constraints" {
		t.Errorf("rejectionReason = %q", merged.RejectionReason)
	}
}
