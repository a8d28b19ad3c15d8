package lifecycle

import (
	"fmt"
	"time"
)

// datePrecedence fixes the chronological order the lifecycle dates must
// respect: applied < interview < offer < rejected.
var datePrecedence = []string{
	FieldAppliedDate,
	FieldInterviewDate,
	FieldOfferDate,
	FieldRejectedDate,
}

// OrderError reports two populated dates that violate the precedence
// order. Both field names are carried so the UI can flag exactly which
// pair conflicts.
type OrderError struct {
	Earlier string
	Later   string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("%s must not be after %s", e.Earlier, e.Later)
}

// ValidateDateOrder checks that the populated lifecycle dates are
// internally consistent. Unpopulated dates are skipped: an application
// rejected straight from Applied has no interview date, and that is
// valid as long as appliedDate ≤ rejectedDate.
func ValidateDateOrder(f Fields) error {
	type populated struct {
		name string
		at   time.Time
	}
	present := make([]populated, 0, len(datePrecedence))
	for _, name := range datePrecedence {
		if d := f.date(name); d != nil {
			present = append(present, populated{name: name, at: *d})
		}
	}

	for i := 1; i < len(present); i++ {
		prev, next := present[i-1], present[i]
		if prev.at.After(next.at) {
			return &OrderError{Earlier: prev.name, Later: next.name}
		}
	}
	return nil
}
