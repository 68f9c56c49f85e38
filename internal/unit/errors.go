package unit

import "fmt"

// ValidationError reports a name or definition that was rejected before any
// file or bus I/O took place.
type ValidationError struct {
	Field  string // what was validated, e.g. "service name"
	Value  string // the offending input, empty when not meaningful
	Reason string
}

// Error returns the formatted error string.
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("unit: invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("unit: invalid %s: %s", e.Field, e.Reason)
}
