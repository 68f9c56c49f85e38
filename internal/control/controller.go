// Package control orchestrates the service lifecycle. The Controller
// validates input, reconciles unit files on disk through the unitfile
// package and drives the service manager through a Manager connection; the
// Reporter turns manager and filesystem state into Status snapshots.
//
// Mutating operations are idempotent where the outcome already holds:
// starting an active service, stopping an inactive one and removing an
// undefined one all succeed without touching the manager's state.
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/unitworks/servitor/internal/sdbus"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

// Controller exposes the lifecycle operations of managed services. It owns
// the Manager for the duration of one command invocation.
type Controller struct {
	cfg      Config
	manager  Manager
	resolver unitfile.Resolver
	scope    unit.Scope
	logger   *slog.Logger
	reporter *Reporter
}

// New creates a Controller with defaults applied to the configuration.
func New(cfg Config, manager Manager, resolver unitfile.Resolver, scope unit.Scope, logger *slog.Logger) *Controller {
	cfg.ApplyDefaults()
	return &Controller{
		cfg:      cfg,
		manager:  manager,
		resolver: resolver,
		scope:    scope,
		logger:   logger.With("component", "control"),
		reporter: NewReporter(cfg, manager, resolver, scope, logger),
	}
}

// callCtx bounds one manager call. The parent context still applies, so a
// canceled command is not kept alive by the per-call timeout.
func (c *Controller) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.CallTimeout)
}

// Create validates the definition, writes the unit file atomically and makes
// the manager re-read its unit cache. An identical definition already on
// disk is rejected with *AlreadyExistsError unless overwrite is set; a
// differing one is replaced in place.
func (c *Controller) Create(ctx context.Context, name unit.Name, def unit.Definition, overwrite bool) error {
	// 1. Validate before anything touches disk.
	if err := def.Validate(); err != nil {
		return err
	}

	// 2. Resolve a writable target for the scope.
	path, err := c.resolver.ResolveForWrite(name, c.cfg.UnitSuffix, c.scope)
	if err != nil {
		return err
	}

	// 3. Compare against whatever is already there.
	existing, err := unitfile.Read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First definition under this name.
	case err != nil:
		// Unreadable or foreign content counts as a differing
		// definition and is replaced below.
		c.logger.Debug("existing unit file not comparable", "path", path.String(), "error", err)
	case existing.Equal(def) && !overwrite:
		return &AlreadyExistsError{Service: string(name), Path: path.String()}
	}

	// 4. Write the rendered unit file.
	if err := unitfile.Write(path, def); err != nil {
		return err
	}
	c.logger.Info("unit file written", "service", string(name), "path", path.String())

	// 5. Tell the manager to pick it up. On failure the file stays in
	// place; `servitor reload` re-issues the scan explicitly.
	rctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.Reload(rctx); err != nil {
		return fmt.Errorf("control: %s created but the manager did not reload: %w", name, err)
	}
	c.logger.Info("manager reloaded", "service", string(name))
	return nil
}

// Start asks the manager to start the service and waits for the job to
// finish, then confirms the outcome with a fresh status query. Starting an
// already-active service succeeds without effect.
func (c *Controller) Start(ctx context.Context, name unit.Name) (unit.Status, error) {
	unitName := name.Unit(c.cfg.UnitSuffix)
	jctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.StartUnit(jctx, unitName); err != nil {
		return unit.Status{}, err
	}
	c.logger.Info("service started", "service", string(name))
	return c.reporter.Get(ctx, name)
}

// Stop asks the manager to stop the service and waits for the job to
// finish. Stopping an already-stopped service succeeds; stopping a service
// that does not exist at all fails with *NotRunningError.
func (c *Controller) Stop(ctx context.Context, name unit.Name) (unit.Status, error) {
	st, err := c.reporter.Get(ctx, name)
	if err != nil {
		return unit.Status{}, err
	}
	if st.Lifecycle == unit.LifecycleUndefined {
		return unit.Status{}, &NotRunningError{Service: string(name)}
	}

	unitName := name.Unit(c.cfg.UnitSuffix)
	jctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.StopUnit(jctx, unitName); err != nil {
		// A defined unit the manager never loaded has nothing to stop.
		if errors.Is(err, sdbus.ErrNoSuchUnit) {
			return st, nil
		}
		return unit.Status{}, err
	}
	c.logger.Info("service stopped", "service", string(name))
	return c.reporter.Get(ctx, name)
}

// Restart asks the manager to restart the service, starting it if it was
// inactive, and confirms the outcome with a fresh status query.
func (c *Controller) Restart(ctx context.Context, name unit.Name) (unit.Status, error) {
	unitName := name.Unit(c.cfg.UnitSuffix)
	jctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.RestartUnit(jctx, unitName); err != nil {
		return unit.Status{}, err
	}
	c.logger.Info("service restarted", "service", string(name))
	return c.reporter.Get(ctx, name)
}

// Enable marks the service to start at boot. Runtime state is unaffected
// and enabling an already-enabled service succeeds.
func (c *Controller) Enable(ctx context.Context, name unit.Name) error {
	unitName := name.Unit(c.cfg.UnitSuffix)
	ectx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.EnableUnit(ectx, unitName); err != nil {
		return err
	}
	c.logger.Info("service enabled", "service", string(name))
	return nil
}

// Disable clears the service's boot-start marking. Runtime state is
// unaffected and disabling an already-disabled service succeeds.
func (c *Controller) Disable(ctx context.Context, name unit.Name) error {
	unitName := name.Unit(c.cfg.UnitSuffix)
	dctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.DisableUnit(dctx, unitName); err != nil {
		return err
	}
	c.logger.Info("service disabled", "service", string(name))
	return nil
}

// Remove deletes a service: its boot-start marking, its unit file and the
// manager's memory of it. A service that is not stopped is refused with
// *StillRunningError unless force is set, in which case it is stopped
// first. Removing an undefined service succeeds without effect.
func (c *Controller) Remove(ctx context.Context, name unit.Name, force bool) error {
	// 1. Find out what exists.
	st, err := c.reporter.Get(ctx, name)
	if err != nil {
		return err
	}
	if st.Lifecycle == unit.LifecycleUndefined {
		c.logger.Debug("nothing to remove", "service", string(name))
		return nil
	}
	unitName := name.Unit(c.cfg.UnitSuffix)

	// 2. Refuse to pull the definition out from under a live service.
	if st.Lifecycle == unit.LifecycleLoaded && !st.Active.Stopped() {
		if !force {
			return &StillRunningError{Service: string(name), State: st.Active}
		}
		sctx, cancel := c.callCtx(ctx)
		err := c.manager.StopUnit(sctx, unitName)
		cancel()
		if err != nil && !errors.Is(err, sdbus.ErrNoSuchUnit) {
			return err
		}
		c.logger.Info("service stopped", "service", string(name))
	}

	// 3. Clear the boot-start marking before the file goes away so no
	// enabled link outlives its target.
	dctx, cancel := c.callCtx(ctx)
	err = c.manager.DisableUnit(dctx, unitName)
	cancel()
	if err != nil && !errors.Is(err, sdbus.ErrNoSuchUnit) {
		return err
	}

	// 4. Delete the unit file. Already absent is fine.
	path, err := c.resolver.ResolveForWrite(name, c.cfg.UnitSuffix, c.scope)
	if err != nil {
		return err
	}
	if err := unitfile.Remove(path); err != nil {
		return err
	}
	c.logger.Info("unit file removed", "service", string(name), "path", path.String())

	// 5. Make the manager forget the unit.
	rctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.Reload(rctx); err != nil {
		return fmt.Errorf("control: %s removed but the manager did not reload: %w", name, err)
	}

	// 6. Clear failed-state residue so the name starts clean if it is
	// ever created again. Best effort.
	if st.Active == unit.StateFailed {
		fctx, cancel := c.callCtx(ctx)
		defer cancel()
		if err := c.manager.ResetFailed(fctx, unitName); err != nil {
			c.logger.Debug("reset failed state", "service", string(name), "error", err)
		}
	}
	c.logger.Info("service removed", "service", string(name))
	return nil
}

// Reload makes the manager re-scan unit files. Exposed for explicit
// recovery after a Create or Remove reported a reload failure.
func (c *Controller) Reload(ctx context.Context) error {
	rctx, cancel := c.callCtx(ctx)
	defer cancel()
	if err := c.manager.Reload(rctx); err != nil {
		return err
	}
	c.logger.Info("manager reloaded")
	return nil
}

// Status returns a fresh snapshot of one service. Always legal: an
// undefined service reports LifecycleUndefined, not an error.
func (c *Controller) Status(ctx context.Context, name unit.Name) (unit.Status, error) {
	return c.reporter.Get(ctx, name)
}

// List returns snapshots of every managed service, ordered by name.
func (c *Controller) List(ctx context.Context, filter Filter) ([]unit.Status, error) {
	return c.reporter.List(ctx, filter)
}
