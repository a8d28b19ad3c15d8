package lifecycle

import (
	"fmt"
	"strings"
	"time"
)

// Field names as they appear in API payloads and validation errors.
const (
	FieldAppliedDate     = "appliedDate"
	FieldInterviewDate   = "interviewDate"
	FieldOfferDate       = "offerDate"
	FieldRejectedDate    = "rejectedDate"
	FieldRejectionReason = "rejectionReason"
	FieldOfferTitle      = "offerDetails.title"
)

// Fields is the merged view of the data a transition is evaluated
// against: the dates already on the application record overlaid with
// whatever the caller supplied for this transition. Nil pointers mean
// "not populated".
type Fields struct {
	AppliedDate     *time.Time
	InterviewDate   *time.Time
	OfferDate       *time.Time
	RejectedDate    *time.Time
	RejectionReason string
	OfferDetails    *OfferDetails
}

// TransitionRequest is the ephemeral input to a single transition
// evaluation. It is never persisted.
type TransitionRequest struct {
	From   Status
	To     Status
	Fields Fields
}

// ValidatedTransition carries the new status and the fields to persist
// after a successful validation.
type ValidatedTransition struct {
	Status Status
	Fields Fields
}

// IllegalTransitionError reports a (from → to) edge absent from the
// transition graph. It reflects a stale client or a UI bug and is
// surfaced to the caller verbatim.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("transition %s → %s is not allowed", e.From, e.To)
}

// MissingFieldsError lists every required field absent for the target
// status. Collection is all-at-once, not fail-fast, so the UI can
// highlight every missing field in one pass.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

// requiredDates maps each target status to the date fields it always
// requires. Conditional requirements (interviewDate when rejecting from
// Interview or Offer) are handled in ValidateTransition.
var requiredDates = map[Status][]string{
	StatusSaved:     {},
	StatusApplied:   {FieldAppliedDate},
	StatusInterview: {FieldAppliedDate, FieldInterviewDate},
	StatusOffer:     {FieldInterviewDate, FieldOfferDate},
	StatusRejected:  {FieldRejectedDate},
}

// ValidateTransition checks the requested transition against the graph
// and the target status's required-field contract. On success it
// returns the validated patch to hand to the persistence layer.
func ValidateTransition(req TransitionRequest) (*ValidatedTransition, error) {
	if !IsTransitionAllowed(req.From, req.To) {
		return nil, &IllegalTransitionError{From: req.From, To: req.To}
	}

	var missing []string
	for _, field := range requiredDates[req.To] {
		if req.Fields.date(field) == nil {
			missing = append(missing, field)
		}
	}

	switch req.To {
	case StatusOffer:
		if req.Fields.OfferDetails == nil || req.Fields.OfferDetails.Title == "" {
			missing = append(missing, FieldOfferTitle)
		}
	case StatusRejected:
		if req.Fields.RejectionReason == "" {
			missing = append(missing, FieldRejectionReason)
		}
		// Rejection after an interview stage must keep the interview
		// date so the record's history stays reconstructible.
		if (req.From == StatusInterview || req.From == StatusOffer) && req.Fields.InterviewDate == nil {
			missing = append(missing, FieldInterviewDate)
		}
	}

	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	fields := req.Fields
	if req.From == StatusRejected && req.To == StatusApplied {
		// Re-applying starts a fresh cycle. The prior cycle's interview,
		// offer and rejection data would otherwise violate the date
		// precedence order against the new applied date.
		fields = Fields{AppliedDate: fields.AppliedDate}
	}

	return &ValidatedTransition{Status: req.To, Fields: fields}, nil
}

// date returns the populated date pointer for a field name, or nil.
func (f Fields) date(name string) *time.Time {
	switch name {
	case FieldAppliedDate:
		return f.AppliedDate
	case FieldInterviewDate:
		return f.InterviewDate
	case FieldOfferDate:
		return f.OfferDate
	case FieldRejectedDate:
		return f.RejectedDate
	}
	return nil
}
