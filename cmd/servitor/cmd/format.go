package cmd

import (
	"fmt"
	"time"

	"github.com/unitworks/servitor/internal/unit"
)

// formatState renders the composite lifecycle/activity column.
func formatState(st unit.Status) string {
	switch st.Lifecycle {
	case unit.LifecycleUndefined:
		return "undefined"
	case unit.LifecycleDefined:
		return "defined"
	}
	if st.Active == "" {
		return "unknown"
	}
	if st.Sub != "" {
		return fmt.Sprintf("%s (%s)", st.Active, st.Sub)
	}
	return string(st.Active)
}

// formatEnabled renders the boot-start column.
func formatEnabled(st unit.Status) string {
	if !st.EnablementKnown() {
		return "-"
	}
	if st.Enabled() {
		return "yes"
	}
	return "no"
}

// formatPID renders the main PID column, "-" when there is none.
func formatPID(pid uint32) string {
	if pid == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", pid)
}

// formatBytes renders a byte count in binary units, "-" when unknown.
func formatBytes(n uint64) string {
	if n == 0 {
		return "-"
	}
	const step = 1024
	if n < step {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(step), 0
	for m := n / step; m >= step; m /= step {
		div *= step
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatCPU renders consumed CPU time, "-" when unknown.
func formatCPU(nanos uint64) string {
	if nanos == 0 {
		return "-"
	}
	return time.Duration(nanos).Round(time.Millisecond).String()
}

// formatSince renders how long ago a state change happened, "-" when the
// manager reported no timestamp.
func formatSince(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	d := time.Since(ts).Round(time.Second)
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%s (%s ago)", ts.Format("2006-01-02 15:04:05"), d)
}
