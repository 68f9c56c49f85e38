package unit

import "time"

// Status is a point-in-time snapshot of one managed service. A new query
// produces a new Status; snapshots are never mutated after construction.
// Optional fields degrade to their zero value when the manager could not
// report them.
type Status struct {
	Name        Name
	Unit        string // full unit name in the managed namespace
	Description string
	Lifecycle   Lifecycle
	Load        LoadState
	Active      ActiveState
	Sub         string // manager sub-state, e.g. "running", "dead"

	// UnitFileState is the raw enablement state ("enabled", "disabled",
	// "static", ...). Empty when the manager could not report it.
	UnitFileState string

	MainPID     uint32 // 0 when the service has no main process
	MemoryBytes uint64 // 0 when unknown
	CPUNanos    uint64 // 0 when unknown
	ExitCode    *int32 // nil until the main process has exited at least once

	// Since is when the unit entered its current active state.
	// Zero when unknown.
	Since time.Time
}

// Enabled reports whether the unit is set to start at boot.
func (s *Status) Enabled() bool {
	return s.UnitFileState == "enabled" || s.UnitFileState == "enabled-runtime"
}

// EnablementKnown reports whether the manager reported a unit file state at
// all; when false, Enabled carries no information.
func (s *Status) EnablementKnown() bool {
	return s.UnitFileState != ""
}
