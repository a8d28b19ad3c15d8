package tracker

import "kazitracker/tracker-service/internal/lifecycle"

// recordFields extracts the lifecycle-relevant fields already held on
// the application record.
func recordFields(a *Application) lifecycle.Fields {
	f := lifecycle.Fields{
		AppliedDate:   a.AppliedDate,
		InterviewDate: a.InterviewDate,
		OfferDate:     a.OfferDate,
		RejectedDate:  a.RejectedDate,
		OfferDetails:  a.OfferDetails,
	}
	if a.RejectionReason != nil {
		f.RejectionReason = *a.RejectionReason
	}
	return f
}

// inputFields extracts the caller-supplied fields from a transition
// request body.
func inputFields(in TransitionInput) lifecycle.Fields {
	return lifecycle.Fields{
		AppliedDate:     in.AppliedDate,
		InterviewDate:   in.InterviewDate,
		OfferDate:       in.OfferDate,
		RejectedDate:    in.RejectedDate,
		RejectionReason: in.RejectionReason,
		OfferDetails:    in.OfferDetails,
	}
}

// mergeFields overlays caller-supplied fields on top of the record's
// fields. A supplied value wins; an absent one falls back to what the
// record already holds, so "appliedDate if not already set" style
// contracts evaluate against the full picture.
func mergeFields(record, supplied lifecycle.Fields) lifecycle.Fields {
	merged := record
	if supplied.AppliedDate != nil {
		merged.AppliedDate = supplied.AppliedDate
	}
	if supplied.InterviewDate != nil {
		merged.InterviewDate = supplied.InterviewDate
	}
	if supplied.OfferDate != nil {
		merged.OfferDate = supplied.OfferDate
	}
	if supplied.RejectedDate != nil {
		merged.RejectedDate = supplied.RejectedDate
	}
	if supplied.RejectionReason != "" {
		merged.RejectionReason = supplied.RejectionReason
	}
	if supplied.OfferDetails != nil {
		merged.OfferDetails = supplied.OfferDetails
	}
	return merged
}
