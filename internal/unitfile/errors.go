package unitfile

import (
	"fmt"

	"github.com/unitworks/servitor/internal/unit"
)

// ResolutionError means no usable unit directory exists for the requested
// scope: the directory is missing, not a directory, or not writable.
type ResolutionError struct {
	Scope unit.Scope
	Dir   string
	Err   error
}

// Error returns the formatted error string.
func (e *ResolutionError) Error() string {
	if e.Dir == "" {
		return fmt.Sprintf("unitfile: no unit directory for %s scope: %v", e.Scope, e.Err)
	}
	return fmt.Sprintf("unitfile: unit directory %s (%s scope): %v", e.Dir, e.Scope, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ResolutionError) Unwrap() error { return e.Err }

// WriteError reports a filesystem failure while writing or removing a unit
// file. These are not retried automatically.
type WriteError struct {
	Path string
	Op   string // "write" or "remove"
	Err  error
}

// Error returns the formatted error string.
func (e *WriteError) Error() string {
	return fmt.Sprintf("unitfile: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error { return e.Err }
