package lifecycle_test

import (
	"errors"
	"testing"

	"kazitracker/tracker-service/internal/lifecycle"
)

func TestValidateDateOrder_AllPopulatedInOrder(t *testing.T) {
	err := lifecycle.ValidateDateOrder(lifecycle.Fields{
		AppliedDate:   date(t, "2025-01-01"),
		InterviewDate: date(t, "2025-01-10"),
		OfferDate:     date(t, "2025-01-20"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Spec example: interview on the 10th but offer on the 5th must fail
// naming exactly the conflicting pair.
func TestValidateDateOrder_OfferBeforeInterview(t *testing.T) {
	err := lifecycle.ValidateDateOrder(lifecycle.Fields{
		AppliedDate:   date(t, "2025-01-01"),
		InterviewDate: date(t, "2025-01-10"),
		OfferDate:     date(t, "2025-01-05"),
	})
	var oe *lifecycle.OrderError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OrderError, got %v", err)
	}
	if oe.Earlier != lifecycle.FieldInterviewDate || oe.Later != lifecycle.FieldOfferDate {
		t.Errorf("OrderError = (%s, %s), want (interviewDate, offerDate)", oe.Earlier, oe.Later)
	}
}

// Gaps are legal: rejection straight after applying has no interview
// or offer dates and still orders cleanly.
func TestValidateDateOrder_SkipsUnpopulated(t *testing.T) {
	err := lifecycle.ValidateDateOrder(lifecycle.Fields{
		AppliedDate:  date(t, "2025-01-01"),
		RejectedDate: date(t, "2025-01-08"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDateOrder_RejectedBeforeApplied(t *testing.T) {
	err := lifecycle.ValidateDateOrder(lifecycle.Fields{
		AppliedDate:  date(t, "2025-01-08"),
		RejectedDate: date(t, "2025-01-01"),
	})
	var oe *lifecycle.OrderError
	if !errors.As(err, &oe) {
		t.Fatalf("expected OrderError, got %v", err)
	}
	if oe.Earlier != lifecycle.FieldAppliedDate || oe.Later != lifecycle.FieldRejectedDate {
		t.Errorf("OrderError = (%s, %s), want (appliedDate, rejectedDate)", oe.Earlier, oe.Later)
	}
}

// Equal dates are allowed: the ordering is ≤, not <. Applying and
// interviewing on the same day happens.
func TestValidateDateOrder_EqualDatesAllowed(t *testing.T) {
	err := lifecycle.ValidateDateOrder(lifecycle.Fields{
		AppliedDate:   date(t, "2025-01-01"),
		InterviewDate: date(t, "2025-01-01"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDateOrder_EmptyAndSingle(t *testing.T) {
	if err := lifecycle.ValidateDateOrder(lifecycle.Fields{}); err != nil {
		t.Fatalf("no dates populated: unexpected error %v", err)
	}
	if err := lifecycle.ValidateDateOrder(lifecycle.Fields{OfferDate: date(t, "2025-01-20")}); err != nil {
		t.Fatalf("single date populated: unexpected error %v", err)
	}
}
