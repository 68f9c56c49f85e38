package unitfile

import (
	"fmt"
	"strings"

	"github.com/unitworks/servitor/internal/unit"
)

// header marks generated files so readers know where edits belong.
const header = "# Generated by servitor. Manual edits are overwritten on the next create."

// DefaultTarget returns the install target units attach to in each scope.
func DefaultTarget(scope unit.Scope) string {
	if scope == unit.ScopeUser {
		return "default.target"
	}
	return "multi-user.target"
}

// Render produces the unit file text for a definition. The output uses only
// plain section headers and key=value lines so it round-trips through the
// manager's own loader unchanged. Environment lines are emitted in sorted key
// order, which keeps rendering deterministic.
func Render(def unit.Definition, scope unit.Scope) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n[Unit]\n")
	if def.Description != "" {
		fmt.Fprintf(&b, "Description=%s\n", def.Description)
	}
	b.WriteString("After=network.target\n")

	b.WriteString("\n[Service]\n")
	b.WriteString("Type=simple\n")
	if def.User != "" {
		fmt.Fprintf(&b, "User=%s\n", def.User)
	}
	if def.WorkingDirectory != "" {
		fmt.Fprintf(&b, "WorkingDirectory=%s\n", def.WorkingDirectory)
	}
	fmt.Fprintf(&b, "ExecStart=%s\n", def.ExecStart)
	fmt.Fprintf(&b, "Restart=%s\n", def.Restart.UnitValue())
	for _, k := range def.EnvKeys() {
		// Values are validated to exclude quotes, backslashes and newlines,
		// so plain quoting survives the manager's unquoting untouched.
		fmt.Fprintf(&b, "Environment=\"%s=%s\"\n", k, def.Environment[k])
	}

	fmt.Fprintf(&b, "\n[Install]\nWantedBy=%s\n", DefaultTarget(scope))
	return b.String()
}
