// Package lifecycle defines the status state machine for job applications.
//
// Valid status graph:
//
//	Saved ──► Applied ──► Interview ──► Offer
//	             ▲  │          │          │
//	             │  └──────────┴──────────┴──► Rejected
//	             └─────────────────────────────────┘
//
// Rejected → Applied is intentional: it permits re-applying after a
// rejection (e.g. a different role at the same company).
//
// The package is pure: every function is a decision over its explicit
// inputs, with no I/O and no shared state. Callers persist the result.
package lifecycle

import "fmt"

// Status values mirror the status strings stored on application rows.
type Status string

const (
	StatusSaved     Status = "Saved"
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
)

// statusTransitions lists every allowed (from → to) pair. Every status
// has an entry, even when it has no outgoing edges, so that an absent
// key always means an unknown status rather than a dead end.
var statusTransitions = map[Status][]Status{
	StatusSaved:     {StatusApplied},
	StatusApplied:   {StatusInterview, StatusRejected},
	StatusInterview: {StatusOffer, StatusRejected},
	StatusOffer:     {StatusRejected},
	StatusRejected:  {StatusApplied}, // re-apply after rejection
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusSaved, StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by
// the state machine.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AllowedTargets returns the statuses reachable from the given status.
// An unknown status is a configuration error, not an empty adjacency
// list: every defined status has an entry in the graph.
func AllowedTargets(from Status) ([]Status, error) {
	targets, ok := statusTransitions[from]
	if !ok {
		return nil, fmt.Errorf("no transition entry for status %q", from)
	}
	out := make([]Status, len(targets))
	copy(out, targets)
	return out, nil
}
