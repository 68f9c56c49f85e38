package control

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/unitworks/servitor/internal/procfs"
	"github.com/unitworks/servitor/internal/sdbus"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

// Filter narrows List output. The zero value selects every managed service.
type Filter struct {
	// State selects services whose active state matches exactly.
	State unit.ActiveState

	// Enabled selects services by boot-start marking. Services whose
	// marking is unknown never match a non-nil Enabled.
	Enabled *bool
}

func (f Filter) matches(st unit.Status) bool {
	if f.State != "" && st.Active != f.State {
		return false
	}
	if f.Enabled != nil && (!st.EnablementKnown() || st.Enabled() != *f.Enabled) {
		return false
	}
	return true
}

// Reporter aggregates manager and filesystem state into Status snapshots.
// Only the identity and state pair of a query is mandatory; optional
// figures such as memory and CPU degrade to unknown instead of failing the
// whole query.
type Reporter struct {
	cfg      Config
	manager  Manager
	resolver unitfile.Resolver
	scope    unit.Scope
	logger   *slog.Logger

	// memoryFallback reads a live process's resident set when the
	// manager has memory accounting off. Swapped in tests.
	memoryFallback func(pid uint32) (uint64, error)
}

// NewReporter creates a Reporter with defaults applied to the configuration.
func NewReporter(cfg Config, manager Manager, resolver unitfile.Resolver, scope unit.Scope, logger *slog.Logger) *Reporter {
	cfg.ApplyDefaults()
	return &Reporter{
		cfg:            cfg,
		manager:        manager,
		resolver:       resolver,
		scope:          scope,
		logger:         logger.With("component", "report"),
		memoryFallback: procfs.ResidentBytes,
	}
}

// Get queries one service. Absence is a normal answer, not an error: a
// service with no unit file and no manager entry reports
// LifecycleUndefined, and one with only a unit file reports
// LifecycleDefined.
func (r *Reporter) Get(ctx context.Context, name unit.Name) (unit.Status, error) {
	unitName := name.Unit(r.cfg.UnitSuffix)
	st := unit.Status{Name: name, Unit: unitName, Active: unit.StateInactive}

	defined := false
	if path, err := r.resolver.Resolve(name, r.cfg.UnitSuffix, r.scope); err == nil {
		defined = unitfile.Exists(path)
	}

	qctx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
	defer cancel()

	props, err := r.manager.UnitProperties(qctx, unitName)
	switch {
	case errors.Is(err, sdbus.ErrNoSuchUnit):
		if defined {
			st.Lifecycle = unit.LifecycleDefined
		} else {
			st.Lifecycle = unit.LifecycleUndefined
		}
		return st, nil
	case err != nil:
		return unit.Status{}, err
	}

	st.Lifecycle = unit.LifecycleLoaded
	st.Description = props.Description
	st.Load = unit.LoadState(props.LoadState)
	st.Active = unit.ActiveState(props.ActiveState)
	st.Sub = props.SubState
	st.UnitFileState = props.UnitFileState
	st.Since = props.StateChange

	svc, err := r.manager.ServiceProperties(qctx, unitName)
	if err != nil {
		r.logger.Debug("service properties unavailable", "unit", unitName, "error", err)
		return st, nil
	}
	st.MainPID = svc.MainPID
	st.MemoryBytes = svc.MemoryCurrent
	st.CPUNanos = svc.CPUUsageNSec
	if svc.ExecMainCode != 0 {
		status := svc.ExecMainStatus
		st.ExitCode = &status
	}
	if st.MemoryBytes == 0 && st.MainPID > 0 {
		if rss, err := r.memoryFallback(st.MainPID); err == nil {
			st.MemoryBytes = rss
		} else {
			r.logger.Debug("memory fallback unavailable", "unit", unitName, "pid", st.MainPID, "error", err)
		}
	}
	return st, nil
}

// List discovers every managed service, on disk and loaded, and queries
// them in parallel bounded by ListConcurrency. A failing per-service query
// degrades to a minimal snapshot so one broken unit cannot hide the rest.
func (r *Reporter) List(ctx context.Context, filter Filter) ([]unit.Status, error) {
	names, err := r.discover(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]unit.Status, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.ListConcurrency)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			st, err := r.Get(gctx, name)
			if err != nil {
				r.logger.Debug("status query failed", "service", string(name), "error", err)
				st = unit.Status{Name: name, Unit: name.Unit(r.cfg.UnitSuffix)}
			}
			statuses[i] = st
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]unit.Status, 0, len(statuses))
	for _, st := range statuses {
		if filter.matches(st) {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// discover unions the managed units found on disk with those the manager
// knows about, deduplicated by short name. The manager listing is the
// mandatory leg; the disk glob and the unit file listing enrich it.
func (r *Reporter) discover(ctx context.Context) ([]unit.Name, error) {
	pattern := unit.Pattern(r.cfg.UnitSuffix)
	seen := make(map[unit.Name]struct{})

	if dir, err := r.resolver.Dir(r.scope); err == nil {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err == nil {
			for _, m := range matches {
				if name, ok := unit.FromUnit(filepath.Base(m), r.cfg.UnitSuffix); ok {
					seen[name] = struct{}{}
				}
			}
		}
	}

	lctx, cancel := context.WithTimeout(ctx, r.cfg.CallTimeout)
	defer cancel()
	overviews, err := r.manager.ListUnits(lctx, pattern)
	if err != nil {
		return nil, err
	}
	for _, o := range overviews {
		if name, ok := unit.FromUnit(o.Unit, r.cfg.UnitSuffix); ok {
			seen[name] = struct{}{}
		}
	}

	files, err := r.manager.ListUnitFiles(lctx, pattern)
	if err != nil {
		r.logger.Debug("unit file listing unavailable", "error", err)
	} else {
		for _, f := range files {
			if name, ok := unit.FromUnit(filepath.Base(f.Path), r.cfg.UnitSuffix); ok {
				seen[name] = struct{}{}
			}
		}
	}

	names := make([]unit.Name, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names, nil
}
