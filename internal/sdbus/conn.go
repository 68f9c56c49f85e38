// Package sdbus is the IPC transport to the systemd service manager. It
// wraps the manager's published D-Bus API, waits for queued jobs to finish,
// and translates the loosely-typed reply objects and error names into typed
// results. Nothing here retries: manager operations are not safely
// idempotent to retry blindly.
package sdbus

import (
	"context"
	"log/slog"

	systemd "github.com/coreos/go-systemd/v22/dbus"

	"github.com/unitworks/servitor/internal/unit"
)

// jobModeReplace lets a new job replace a conflicting queued one instead of
// failing the request.
const jobModeReplace = "replace"

// Job results reported by the manager. "done" and "skipped" both mean the
// unit reached the requested state.
const (
	jobResultDone    = "done"
	jobResultSkipped = "skipped"
)

// Conn is a live connection to one service manager. A Conn is acquired at
// command start, used by exactly one controller, and closed at command end;
// it is never global and never shared across invocations.
type Conn struct {
	scope  unit.Scope
	conn   *systemd.Conn
	logger *slog.Logger
}

// Connect dials the service manager for scope: the system bus, or the
// invoking user's session manager.
func Connect(ctx context.Context, scope unit.Scope, logger *slog.Logger) (*Conn, error) {
	var (
		conn *systemd.Conn
		err  error
	)
	switch scope {
	case unit.ScopeUser:
		conn, err = systemd.NewUserConnectionContext(ctx)
	default:
		conn, err = systemd.NewSystemConnectionContext(ctx)
	}
	if err != nil {
		return nil, classifyConnect(scope, err)
	}
	return &Conn{scope: scope, conn: conn, logger: logger.With("component", "sdbus")}, nil
}

// Close releases the bus connection.
func (c *Conn) Close() {
	c.conn.Close()
}

// StartUnit asks the manager to start a unit and waits for the queued job to
// finish. The method reply only confirms the job was queued; the job result
// decides success.
func (c *Conn) StartUnit(ctx context.Context, unitName string) error {
	return c.runJob(ctx, "start", unitName, c.conn.StartUnitContext)
}

// StopUnit asks the manager to stop a unit and waits for the job result.
func (c *Conn) StopUnit(ctx context.Context, unitName string) error {
	return c.runJob(ctx, "stop", unitName, c.conn.StopUnitContext)
}

// RestartUnit asks the manager to restart a unit (starting it if inactive)
// and waits for the job result.
func (c *Conn) RestartUnit(ctx context.Context, unitName string) error {
	return c.runJob(ctx, "restart", unitName, c.conn.RestartUnitContext)
}

// runJob issues one job-queueing call and waits for the job to leave the
// queue. A result of "failed", "timeout", "canceled" or "dependency" is the
// manager reporting the job itself went wrong, distinct from our own call
// timeout.
func (c *Conn) runJob(ctx context.Context, op, unitName string, call func(context.Context, string, string, chan<- string) (int, error)) error {
	// Buffered so the dispatcher can deliver a late result even after we
	// stopped waiting.
	results := make(chan string, 1)
	jobID, err := call(ctx, unitName, jobModeReplace, results)
	if err != nil {
		return classify(op, unitName, err)
	}
	c.logger.Debug("job queued", "op", op, "unit", unitName, "job_id", jobID)

	select {
	case result := <-results:
		if result == jobResultDone || result == jobResultSkipped {
			return nil
		}
		return &CallError{Op: op, Unit: unitName, Result: result}
	case <-ctx.Done():
		return &TimeoutError{Op: op, Unit: unitName, Err: ctx.Err()}
	}
}

// Reload makes the manager re-scan its unit files, picking up newly written
// or removed definitions.
func (c *Conn) Reload(ctx context.Context) error {
	if err := c.conn.ReloadContext(ctx); err != nil {
		return classify("daemon-reload", "", err)
	}
	return nil
}

// EnableUnit marks the unit for boot-start. Enablement is persistent, not
// runtime-only, and force replaces stale symlinks left behind by an earlier
// definition of the same name.
func (c *Conn) EnableUnit(ctx context.Context, unitName string) error {
	_, _, err := c.conn.EnableUnitFilesContext(ctx, []string{unitName}, false, true)
	if err != nil {
		return classify("enable", unitName, err)
	}
	return nil
}

// DisableUnit removes the unit's boot-start marking. Disabling a unit that
// is not enabled succeeds.
func (c *Conn) DisableUnit(ctx context.Context, unitName string) error {
	_, err := c.conn.DisableUnitFilesContext(ctx, []string{unitName}, false)
	if err != nil {
		return classify("disable", unitName, err)
	}
	return nil
}

// ResetFailed clears the manager's failed-state bookkeeping for a unit so a
// later definition under the same name starts from a clean slate.
func (c *Conn) ResetFailed(ctx context.Context, unitName string) error {
	if err := c.conn.ResetFailedUnitContext(ctx, unitName); err != nil {
		return classify("reset-failed", unitName, err)
	}
	return nil
}

// UnitProperties fetches the unit-interface properties for one unit. A unit
// the manager does not know yields a CallError wrapping ErrNoSuchUnit.
func (c *Conn) UnitProperties(ctx context.Context, unitName string) (UnitProps, error) {
	raw, err := c.conn.GetUnitPropertiesContext(ctx, unitName)
	if err != nil {
		return UnitProps{}, classify("query", unitName, err)
	}
	return unitPropsFrom(raw), nil
}

// ServiceProperties fetches the service-interface properties for one unit.
func (c *Conn) ServiceProperties(ctx context.Context, unitName string) (ServiceProps, error) {
	raw, err := c.conn.GetUnitTypePropertiesContext(ctx, unitName, "Service")
	if err != nil {
		return ServiceProps{}, classify("query", unitName, err)
	}
	return servicePropsFrom(raw), nil
}

// ListUnits returns the units the manager has loaded that match pattern.
func (c *Conn) ListUnits(ctx context.Context, pattern string) ([]UnitOverview, error) {
	statuses, err := c.conn.ListUnitsByPatternsContext(ctx, nil, []string{pattern})
	if err != nil {
		return nil, classify("list-units", "", err)
	}
	out := make([]UnitOverview, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, UnitOverview{
			Unit:        s.Name,
			Description: s.Description,
			Load:        s.LoadState,
			Active:      s.ActiveState,
			Sub:         s.SubState,
		})
	}
	return out, nil
}

// ListUnitFiles returns the installed unit files matching pattern, whether
// loaded or not.
func (c *Conn) ListUnitFiles(ctx context.Context, pattern string) ([]UnitFileEntry, error) {
	files, err := c.conn.ListUnitFilesByPatternsContext(ctx, nil, []string{pattern})
	if err != nil {
		return nil, classify("list-unit-files", "", err)
	}
	out := make([]UnitFileEntry, 0, len(files))
	for _, f := range files {
		out = append(out, UnitFileEntry{Path: f.Path, State: f.Type})
	}
	return out, nil
}
