package sdbus

import (
	"math"
	"time"
)

// UnitOverview is one row of the manager's unit listing.
type UnitOverview struct {
	Unit        string // full unit name
	Description string
	Load        string
	Active      string
	Sub         string
}

// UnitFileEntry is one row of the manager's unit file listing.
type UnitFileEntry struct {
	Path  string // absolute unit file path
	State string // enablement state: "enabled", "disabled", "static", ...
}

// UnitProps are the unit-interface properties this tool consumes, typed at
// the transport boundary. State strings are passed through raw; the domain
// layer decides what it recognizes.
type UnitProps struct {
	Description   string
	LoadState     string
	ActiveState   string
	SubState      string
	UnitFileState string
	FragmentPath  string

	// StateChange is when the unit last changed active state.
	// Zero when the manager did not report it.
	StateChange time.Time
}

// ServiceProps are the service-interface properties this tool consumes.
// Resource counters the manager reports as "accounting off" are normalized
// to zero, the local spelling of unknown.
type ServiceProps struct {
	MainPID        uint32
	MemoryCurrent  uint64 // bytes; 0 when unknown
	CPUUsageNSec   uint64 // 0 when unknown
	ExecMainCode   int32  // 0 until the main process has exited at least once
	ExecMainStatus int32
}

func unitPropsFrom(raw map[string]interface{}) UnitProps {
	return UnitProps{
		Description:   propString(raw, "Description"),
		LoadState:     propString(raw, "LoadState"),
		ActiveState:   propString(raw, "ActiveState"),
		SubState:      propString(raw, "SubState"),
		UnitFileState: propString(raw, "UnitFileState"),
		FragmentPath:  propString(raw, "FragmentPath"),
		StateChange:   propTimestamp(raw, "StateChangeTimestamp"),
	}
}

func servicePropsFrom(raw map[string]interface{}) ServiceProps {
	return ServiceProps{
		MainPID:        propUint32(raw, "MainPID"),
		MemoryCurrent:  normalizeCounter(propUint64(raw, "MemoryCurrent")),
		CPUUsageNSec:   normalizeCounter(propUint64(raw, "CPUUsageNSec")),
		ExecMainCode:   propInt32(raw, "ExecMainCode"),
		ExecMainStatus: propInt32(raw, "ExecMainStatus"),
	}
}

// normalizeCounter maps the manager's "accounting disabled" sentinel to zero.
func normalizeCounter(v uint64) uint64 {
	if v == math.MaxUint64 {
		return 0
	}
	return v
}

func propString(props map[string]interface{}, key string) string {
	s, _ := props[key].(string)
	return s
}

func propUint32(props map[string]interface{}, key string) uint32 {
	v, _ := props[key].(uint32)
	return v
}

func propUint64(props map[string]interface{}, key string) uint64 {
	v, _ := props[key].(uint64)
	return v
}

func propInt32(props map[string]interface{}, key string) int32 {
	v, _ := props[key].(int32)
	return v
}

// propTimestamp converts a manager timestamp, microseconds since the epoch,
// into a time.Time. Zero and the unset sentinel yield the zero time.
func propTimestamp(props map[string]interface{}, key string) time.Time {
	usec, _ := props[key].(uint64)
	if usec == 0 || usec == math.MaxUint64 {
		return time.Time{}
	}
	return time.UnixMicro(int64(usec))
}
