package unit

// ActiveState is the manager-reported runtime state of a unit. The raw string
// is always preserved: values outside the known set flow through unchanged so
// states introduced by future manager versions never break callers.
type ActiveState string

// Runtime states this tool understands.
const (
	StateActive       ActiveState = "active"
	StateInactive     ActiveState = "inactive"
	StateFailed       ActiveState = "failed"
	StateActivating   ActiveState = "activating"
	StateDeactivating ActiveState = "deactivating"
)

// Known reports whether s is one of the recognized runtime states.
func (s ActiveState) Known() bool {
	switch s {
	case StateActive, StateInactive, StateFailed, StateActivating, StateDeactivating:
		return true
	}
	return false
}

// Stopped reports whether the unit has come to rest: inactive or failed.
// Unknown states count as not stopped, which keeps guards conservative.
func (s ActiveState) Stopped() bool {
	return s == StateInactive || s == StateFailed
}

// LoadState is the manager-reported load state of a unit definition.
// Like ActiveState, unrecognized values are preserved as-is.
type LoadState string

// Load states this tool understands.
const (
	LoadLoaded     LoadState = "loaded"
	LoadNotFound   LoadState = "not-found"
	LoadError      LoadState = "error"
	LoadMasked     LoadState = "masked"
	LoadBadSetting LoadState = "bad-setting"
)

// Lifecycle places a service on the definition axis, independent of its
// runtime state: whether a unit file exists and whether the manager has
// read it.
type Lifecycle string

const (
	// LifecycleUndefined means no unit file exists and the manager does
	// not know the unit. Absence is a normal state, not a failure.
	LifecycleUndefined Lifecycle = "undefined"
	// LifecycleDefined means the unit file is on disk but the manager has
	// not loaded it, typically pending a daemon reload.
	LifecycleDefined Lifecycle = "defined"
	// LifecycleLoaded means the manager has read the definition.
	LifecycleLoaded Lifecycle = "loaded"
)
