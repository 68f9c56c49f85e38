package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/unitworks/servitor/internal/control"
	"github.com/unitworks/servitor/internal/sdbus"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"NoError", nil, ExitOK},
		{"PlainError", errors.New("boom"), ExitFailure},
		{"Validation", &unit.ValidationError{Field: "service name", Reason: "empty"}, ExitUsage},
		{"AlreadyExists", &control.AlreadyExistsError{Service: "web", Path: "/etc/x"}, ExitConflict},
		{"StillRunning", &control.StillRunningError{Service: "web", State: unit.StateActive}, ExitConflict},
		{"NotRunning", &control.NotRunningError{Service: "web"}, ExitConflict},
		{"Timeout", &sdbus.TimeoutError{Op: "start", Unit: "web.servitor.service"}, ExitTimeout},
		{"DeadlineExceeded", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), ExitTimeout},
		{"ConnectDenied", &sdbus.ConnectError{Scope: unit.ScopeSystem, Reason: sdbus.ReasonDenied, Err: os.ErrPermission}, ExitDenied},
		{"ConnectUnreachable", &sdbus.ConnectError{Scope: unit.ScopeSystem, Reason: sdbus.ReasonUnreachable, Err: errors.New("no socket")}, ExitUnreachable},
		{"CallDenied", &sdbus.CallError{Op: "start", Denied: true, Err: errors.New("denied")}, ExitDenied},
		{"CallNoSuchUnit", &sdbus.CallError{Op: "stop", Unit: "web.servitor.service", Err: sdbus.ErrNoSuchUnit}, ExitNotFound},
		{"CallJobFailed", &sdbus.CallError{Op: "start", Unit: "web.servitor.service", Result: "failed"}, ExitFailure},
		{"ResolutionDenied", &unitfile.ResolutionError{Scope: unit.ScopeSystem, Dir: "/etc/systemd/system", Err: os.ErrPermission}, ExitDenied},
		{"ResolutionMissingDir", &unitfile.ResolutionError{Scope: unit.ScopeSystem, Dir: "/x", Err: errors.New("directory does not exist")}, ExitUsage},
		{"WriteDenied", &unitfile.WriteError{Path: "/etc/x", Op: "write", Err: os.ErrPermission}, ExitDenied},
		{"WriteFailure", &unitfile.WriteError{Path: "/etc/x", Op: "write", Err: io.ErrShortWrite}, ExitFailure},
		{"FileNotFound", fmt.Errorf("servitor cat: %w", os.ErrNotExist), ExitNotFound},
		{"PermissionBare", fmt.Errorf("servitor cat: %w", os.ErrPermission), ExitDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCode_WrappedByCommandPrefix(t *testing.T) {
	err := fmt.Errorf("servitor start: %w", &sdbus.CallError{Op: "start", Unit: "web.servitor.service", Err: sdbus.ErrNoSuchUnit})
	if got := ExitCode(err); got != ExitNotFound {
		t.Errorf("ExitCode() = %d, want %d", got, ExitNotFound)
	}
}

func TestExitCode_TimeoutBeatsCallClassification(t *testing.T) {
	// A timeout wrapped in a command prefix must stay a timeout even though
	// the chain also matches the generic failure arm.
	err := fmt.Errorf("servitor stop: %w", &sdbus.TimeoutError{Op: "stop", Unit: "web.servitor.service", Err: context.DeadlineExceeded})
	if got := ExitCode(err); got != ExitTimeout {
		t.Errorf("ExitCode() = %d, want %d", got, ExitTimeout)
	}
}
