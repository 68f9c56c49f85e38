package sdbus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	godbus "github.com/godbus/dbus/v5"

	"github.com/unitworks/servitor/internal/unit"
)

// D-Bus error names the transport classifies. These are part of the
// manager's published API and must match it exactly.
const (
	errNameNoSuchUnit    = "org.freedesktop.systemd1.NoSuchUnit"
	errNameUnknownObject = "org.freedesktop.DBus.Error.UnknownObject"
	errNameFileNotFound  = "org.freedesktop.DBus.Error.FileNotFound"
	errNameAccessDenied  = "org.freedesktop.DBus.Error.AccessDenied"
	errNameInteractive   = "org.freedesktop.DBus.Error.InteractiveAuthorizationRequired"
	errNameNoReply       = "org.freedesktop.DBus.Error.NoReply"
	errNameTimeout       = "org.freedesktop.DBus.Error.Timeout"
)

// ErrNoSuchUnit is wrapped by CallError when the manager does not know the
// unit. Callers match it with errors.Is.
var ErrNoSuchUnit = errors.New("no such unit")

// ConnectReason distinguishes why a bus connection could not be established.
type ConnectReason string

const (
	// ReasonUnreachable means the bus is not running or its socket is absent.
	ReasonUnreachable ConnectReason = "manager unreachable"
	// ReasonDenied means the bus rejected the connection or authentication.
	ReasonDenied ConnectReason = "access denied"
)

// ConnectError reports a failure to reach the service manager's bus.
type ConnectError struct {
	Scope  unit.Scope
	Reason ConnectReason
	Err    error
}

// Error returns the formatted error string.
func (e *ConnectError) Error() string {
	return fmt.Sprintf("sdbus: connect to %s bus: %s: %v", e.Scope, e.Reason, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConnectError) Unwrap() error { return e.Err }

// CallError reports an explicit failure returned by the manager for a method
// call or for the job the call queued.
type CallError struct {
	Op     string // operation, e.g. "start", "reload"
	Unit   string // full unit name; empty for manager-level calls
	Name   string // D-Bus error name, when the manager returned one
	Result string // job result, when a queued job ended unsuccessfully
	Denied bool   // the manager refused the call for lack of privileges
	Err    error
}

// Error returns the formatted error string.
func (e *CallError) Error() string {
	target := e.Op
	if e.Unit != "" {
		target = e.Op + " " + e.Unit
	}
	switch {
	case e.Result != "":
		return fmt.Sprintf("sdbus: %s: job ended as %q", target, e.Result)
	case e.Name != "":
		return fmt.Sprintf("sdbus: %s: %s", target, e.Name)
	default:
		return fmt.Sprintf("sdbus: %s: %v", target, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *CallError) Unwrap() error { return e.Err }

// TimeoutError reports that the manager did not reply within the operation's
// bound. The operation may still complete manager-side; the transport never
// retries on the caller's behalf.
type TimeoutError struct {
	Op   string
	Unit string
	Err  error
}

// Error returns the formatted error string.
func (e *TimeoutError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("sdbus: %s %s: no reply within the operation timeout", e.Op, e.Unit)
	}
	return fmt.Sprintf("sdbus: %s: no reply within the operation timeout", e.Op)
}

// Unwrap returns the underlying cause.
func (e *TimeoutError) Unwrap() error { return e.Err }

// errorName extracts the D-Bus error name from err. go-systemd surfaces
// method call failures as godbus errors; both the value and pointer forms
// occur in the wild.
func errorName(err error) string {
	var perr *godbus.Error
	if errors.As(err, &perr) {
		return perr.Name
	}
	var verr godbus.Error
	if errors.As(err, &verr) {
		return verr.Name
	}
	return ""
}

// classify translates a raw bus error into the typed taxonomy. Unknown D-Bus
// error names are preserved in CallError.Name rather than dropped.
func classify(op, unitName string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Unit: unitName, Err: err}
	}
	name := errorName(err)
	switch name {
	case errNameNoReply, errNameTimeout:
		return &TimeoutError{Op: op, Unit: unitName, Err: err}
	case errNameAccessDenied, errNameInteractive:
		return &CallError{Op: op, Unit: unitName, Name: name, Denied: true, Err: err}
	case errNameNoSuchUnit, errNameUnknownObject, errNameFileNotFound:
		return &CallError{Op: op, Unit: unitName, Name: name, Err: ErrNoSuchUnit}
	}
	// The manager reports missing units with NoSuchUnit, but be tolerant of
	// other spellings from older managers.
	if name == "" && strings.Contains(err.Error(), "NoSuchUnit") {
		return &CallError{Op: op, Unit: unitName, Err: ErrNoSuchUnit}
	}
	return &CallError{Op: op, Unit: unitName, Name: name, Err: err}
}

// classifyConnect translates a bus dial failure. Permission problems on the
// socket or an explicit authorization rejection count as denied; everything
// else means the manager is unreachable.
func classifyConnect(scope unit.Scope, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case errorName(err) == errNameAccessDenied,
		errors.Is(err, os.ErrPermission),
		strings.Contains(msg, "permission denied"),
		strings.Contains(msg, "rejected send message"),
		strings.Contains(msg, "auth"):
		return &ConnectError{Scope: scope, Reason: ReasonDenied, Err: err}
	default:
		return &ConnectError{Scope: scope, Reason: ReasonUnreachable, Err: err}
	}
}
