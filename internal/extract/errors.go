package extract

import (
	"fmt"
	"strings"
)

// InsufficientExtractionError reports that required fields stayed unmatched
// and fallback was unavailable or exhausted. It is a typed, inspectable
// outcome: the caller must be able to distinguish "nothing in this document"
// from "the engine could not evaluate this document".
type InsufficientExtractionError struct {
	VendorID      string
	Source        string
	MissingFields []string
}

func (e *InsufficientExtractionError) Error() string {
	return fmt.Sprintf("insufficient extraction for vendor %q: required fields unmatched: %s",
		e.VendorID, strings.Join(e.MissingFields, ", "))
}
