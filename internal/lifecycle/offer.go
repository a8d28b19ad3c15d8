package lifecycle

import "encoding/json"

// OfferDetails is the structured payload captured when an application
// enters the Offer status. It is stored on the application row as a
// single opaque string; EncodeOfferDetails and DecodeOfferDetails are
// the only places that string is interpreted.
//
// Salary is free-form as entered in the UI ("85000 USD / year",
// "KES 250K monthly", …) — the core does not parse it.
type OfferDetails struct {
	Title     string `json:"title,omitempty"`
	Salary    string `json:"salary,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	Benefits  string `json:"benefits,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// EncodeOfferDetails serializes the payload to its canonical string
// form. Key order follows the struct definition, so equal values always
// encode to equal strings and round-trip exactly through
// DecodeOfferDetails.
func EncodeOfferDetails(d OfferDetails) string {
	raw, err := json.Marshal(d)
	if err != nil {
		// All fields are plain strings; Marshal cannot fail on them.
		return "{}"
	}
	return string(raw)
}

// DecodeOfferDetails parses a stored payload string. It never fails:
// empty, legacy-format, or corrupted input degrades to an empty
// OfferDetails with ok=false so a bad stored payload can never block
// the user from viewing or editing an application. Callers that want
// diagnosability log when ok is false.
func DecodeOfferDetails(raw string) (details OfferDetails, ok bool) {
	if raw == "" {
		return OfferDetails{}, false
	}
	if err := json.Unmarshal([]byte(raw), &details); err != nil {
		return OfferDetails{}, false
	}
	return details, true
}
