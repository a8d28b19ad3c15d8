package lifecycle_test

import (
	"errors"
	"testing"
	"time"

	"kazitracker/tracker-service/internal/lifecycle"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return &d
}

func assertMissing(t *testing.T, err error, want ...string) {
	t.Helper()
	var mf *lifecycle.MissingFieldsError
	if !errors.As(err, &mf) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if len(mf.Fields) != len(want) {
		t.Fatalf("missing fields = %v, want %v", mf.Fields, want)
	}
	for i := range want {
		if mf.Fields[i] != want[i] {
			t.Fatalf("missing fields = %v, want %v", mf.Fields, want)
		}
	}
}

// ── Illegal edges ──────────────────────────────────────────────────────────

func TestValidateTransition_IllegalEdge(t *testing.T) {
	cases := []struct {
		from lifecycle.Status
		to   lifecycle.Status
	}{
		{lifecycle.StatusSaved, lifecycle.StatusInterview},
		{lifecycle.StatusSaved, lifecycle.StatusOffer},
		{lifecycle.StatusApplied, lifecycle.StatusOffer},
		{lifecycle.StatusOffer, lifecycle.StatusApplied},
		{lifecycle.StatusRejected, lifecycle.StatusOffer},
	}
	for _, c := range cases {
		_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{From: c.from, To: c.to})
		var ill *lifecycle.IllegalTransitionError
		if !errors.As(err, &ill) {
			t.Errorf("ValidateTransition(%s → %s) expected IllegalTransitionError, got %v", c.from, c.to, err)
			continue
		}
		if ill.From != c.from || ill.To != c.to {
			t.Errorf("IllegalTransitionError carries %s → %s, want %s → %s", ill.From, ill.To, c.from, c.to)
		}
	}
}

// ── Target: Applied ────────────────────────────────────────────────────────

func TestValidateTransition_AppliedRequiresAppliedDate(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusSaved,
		To:   lifecycle.StatusApplied,
	})
	assertMissing(t, err, lifecycle.FieldAppliedDate)
}

func TestValidateTransition_AppliedSucceeds(t *testing.T) {
	got, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From:   lifecycle.StatusSaved,
		To:     lifecycle.StatusApplied,
		Fields: lifecycle.Fields{AppliedDate: date(t, "2025-01-01")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != lifecycle.StatusApplied {
		t.Errorf("validated status = %s, want Applied", got.Status)
	}
}

// ── Target: Interview ──────────────────────────────────────────────────────

func TestValidateTransition_InterviewRequiresBothDates(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusApplied,
		To:   lifecycle.StatusInterview,
	})
	assertMissing(t, err, lifecycle.FieldAppliedDate, lifecycle.FieldInterviewDate)
}

// appliedDate already on the record satisfies the Interview contract.
func TestValidateTransition_InterviewWithRecordAppliedDate(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusApplied,
		To:   lifecycle.StatusInterview,
		Fields: lifecycle.Fields{
			AppliedDate:   date(t, "2025-01-01"),
			InterviewDate: date(t, "2025-01-10"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ── Target: Offer ──────────────────────────────────────────────────────────

// Spec scenario: Interview → Offer with neither offerDate nor
// offerDetails.title must list both missing fields in one error.
func TestValidateTransition_OfferCollectsAllMissing(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusInterview,
		To:   lifecycle.StatusOffer,
		Fields: lifecycle.Fields{
			AppliedDate:   date(t, "2025-01-01"),
			InterviewDate: date(t, "2025-01-10"),
		},
	})
	assertMissing(t, err, lifecycle.FieldOfferDate, lifecycle.FieldOfferTitle)
}

func TestValidateTransition_OfferEmptyTitleIsMissing(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusInterview,
		To:   lifecycle.StatusOffer,
		Fields: lifecycle.Fields{
			InterviewDate: date(t, "2025-01-10"),
			OfferDate:     date(t, "2025-01-20"),
			OfferDetails:  &lifecycle.OfferDetails{Salary: "85000 USD"},
		},
	})
	assertMissing(t, err, lifecycle.FieldOfferTitle)
}

func TestValidateTransition_OfferSucceeds(t *testing.T) {
	got, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusInterview,
		To:   lifecycle.StatusOffer,
		Fields: lifecycle.Fields{
			AppliedDate:   date(t, "2025-01-01"),
			InterviewDate: date(t, "2025-01-10"),
			OfferDate:     date(t, "2025-01-20"),
			OfferDetails:  &lifecycle.OfferDetails{Title: "Senior Backend Engineer"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fields.OfferDetails.Title != "Senior Backend Engineer" {
		t.Errorf("validated patch dropped the offer title")
	}
}

// ── Target: Rejected ───────────────────────────────────────────────────────

// Spec scenario: rejecting straight from Applied needs only a reason
// and a rejected date — no interview ever happened.
func TestValidateTransition_RejectDirectlyFromApplied(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusApplied,
		To:   lifecycle.StatusRejected,
		Fields: lifecycle.Fields{
			AppliedDate:     date(t, "2025-01-01"),
			RejectedDate:    date(t, "2025-01-08"),
			RejectionReason: "Budget constraints",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Spec scenario: rejecting from Offer without an interview date on the
// record must fail — the history would be unreconstructible.
func TestValidateTransition_RejectFromOfferNeedsInterviewDate(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusOffer,
		To:   lifecycle.StatusRejected,
		Fields: lifecycle.Fields{
			RejectedDate:    date(t, "2025-02-01"),
			RejectionReason: "Other: withdrew my application",
		},
	})
	assertMissing(t, err, lifecycle.FieldInterviewDate)
}

func TestValidateTransition_RejectFromInterviewNeedsInterviewDate(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusInterview,
		To:   lifecycle.StatusRejected,
		Fields: lifecycle.Fields{
			RejectedDate:    date(t, "2025-02-01"),
			RejectionReason: "Culture fit",
		},
	})
	assertMissing(t, err, lifecycle.FieldInterviewDate)
}

func TestValidateTransition_RejectedCollectsAllMissing(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusApplied,
		To:   lifecycle.StatusRejected,
	})
	assertMissing(t, err, lifecycle.FieldRejectedDate, lifecycle.FieldRejectionReason)
}

// ── Re-application after rejection ─────────────────────────────────────────

// Rejected → Applied starts a fresh cycle: the validated patch must
// drop the prior cycle's interview, offer and rejection data so the
// new applied date cannot conflict with history that no longer applies.
func TestValidateTransition_ReapplyClearsPriorCycle(t *testing.T) {
	got, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusRejected,
		To:   lifecycle.StatusApplied,
		Fields: lifecycle.Fields{
			AppliedDate:     date(t, "2025-02-01"), // new attempt
			InterviewDate:   date(t, "2025-01-05"),
			RejectedDate:    date(t, "2025-01-08"),
			RejectionReason: "Already filled",
			OfferDetails:    &lifecycle.OfferDetails{Title: "old role"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Fields.AppliedDate == nil || !got.Fields.AppliedDate.Equal(*date(t, "2025-02-01")) {
		t.Errorf("appliedDate not carried into the new cycle: %+v", got.Fields)
	}
	if got.Fields.InterviewDate != nil || got.Fields.RejectedDate != nil ||
		got.Fields.RejectionReason != "" || got.Fields.OfferDetails != nil {
		t.Errorf("prior cycle data survived re-application: %+v", got.Fields)
	}
	if err := lifecycle.ValidateDateOrder(got.Fields); err != nil {
		t.Errorf("cleared patch must order cleanly, got %v", err)
	}
}

// Any non-empty reason is accepted — the catalog is advisory.
func TestValidateTransition_FreeTextReasonAccepted(t *testing.T) {
	_, err := lifecycle.ValidateTransition(lifecycle.TransitionRequest{
		From: lifecycle.StatusApplied,
		To:   lifecycle.StatusRejected,
		Fields: lifecycle.Fields{
			RejectedDate:    date(t, "2025-01-08"),
			RejectionReason: "position re-scoped internally",
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
