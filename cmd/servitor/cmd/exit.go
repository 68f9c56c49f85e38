package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/unitworks/servitor/internal/control"
	"github.com/unitworks/servitor/internal/sdbus"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

// Exit codes. Scripts depend on these staying stable.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitNotFound    = 3
	ExitDenied      = 4
	ExitUnreachable = 5
	ExitTimeout     = 6
	ExitConflict    = 7
)

// ExitCode maps an error to the servitor process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		validation *unit.ValidationError
		connect    *sdbus.ConnectError
		call       *sdbus.CallError
		timeout    *sdbus.TimeoutError
		resolution *unitfile.ResolutionError
		write      *unitfile.WriteError
		exists     *control.AlreadyExistsError
		still      *control.StillRunningError
		notRunning *control.NotRunningError
	)

	switch {
	case errors.As(err, &validation):
		return ExitUsage
	case errors.As(err, &exists), errors.As(err, &still), errors.As(err, &notRunning):
		return ExitConflict
	case errors.As(err, &timeout), errors.Is(err, context.DeadlineExceeded):
		return ExitTimeout
	case errors.As(err, &connect):
		if connect.Reason == sdbus.ReasonDenied {
			return ExitDenied
		}
		return ExitUnreachable
	case errors.As(err, &call):
		switch {
		case call.Denied:
			return ExitDenied
		case errors.Is(err, sdbus.ErrNoSuchUnit):
			return ExitNotFound
		}
		return ExitFailure
	case errors.As(err, &resolution):
		if errors.Is(err, os.ErrPermission) {
			return ExitDenied
		}
		return ExitUsage
	case errors.As(err, &write):
		if errors.Is(err, os.ErrPermission) {
			return ExitDenied
		}
		return ExitFailure
	case errors.Is(err, os.ErrNotExist):
		return ExitNotFound
	case errors.Is(err, os.ErrPermission):
		return ExitDenied
	}
	return ExitFailure
}
