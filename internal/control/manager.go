package control

import (
	"context"

	"github.com/unitworks/servitor/internal/sdbus"
)

// Manager abstracts the service manager connection for testability.
// *sdbus.Conn is the production implementation.
type Manager interface {
	// StartUnit queues a start job and waits for its result.
	StartUnit(ctx context.Context, unitName string) error

	// StopUnit queues a stop job and waits for its result.
	StopUnit(ctx context.Context, unitName string) error

	// RestartUnit queues a restart job and waits for its result. An
	// inactive unit is started.
	RestartUnit(ctx context.Context, unitName string) error

	// Reload makes the manager re-scan unit files from disk.
	Reload(ctx context.Context) error

	// EnableUnit marks a unit to start at boot. Idempotent.
	EnableUnit(ctx context.Context, unitName string) error

	// DisableUnit clears a unit's boot-start marking. Idempotent.
	DisableUnit(ctx context.Context, unitName string) error

	// ResetFailed clears a unit's failed state.
	ResetFailed(ctx context.Context, unitName string) error

	// UnitProperties fetches the generic state of one unit.
	UnitProperties(ctx context.Context, unitName string) (sdbus.UnitProps, error)

	// ServiceProperties fetches the service-specific figures of one unit.
	ServiceProperties(ctx context.Context, unitName string) (sdbus.ServiceProps, error)

	// ListUnits returns the loaded units matching a glob pattern.
	ListUnits(ctx context.Context, pattern string) ([]sdbus.UnitOverview, error)

	// ListUnitFiles returns the installed unit files matching a glob
	// pattern, loaded or not.
	ListUnitFiles(ctx context.Context, pattern string) ([]sdbus.UnitFileEntry, error)
}
