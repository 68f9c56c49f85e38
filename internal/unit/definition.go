// Package unit defines the domain model for services managed by servitor:
// validated service names, immutable service definitions, and the state
// types reported back by the service manager.
package unit

import (
	"maps"
	"path/filepath"
	"sort"
	"strings"
)

// RestartPolicy controls when the service manager restarts an exited service.
type RestartPolicy string

// Supported restart policies.
const (
	RestartNever     RestartPolicy = "never"
	RestartOnFailure RestartPolicy = "on-failure"
	RestartAlways    RestartPolicy = "always"
)

// ParseRestartPolicy converts user input into a RestartPolicy.
func ParseRestartPolicy(raw string) (RestartPolicy, error) {
	switch p := RestartPolicy(raw); p {
	case RestartNever, RestartOnFailure, RestartAlways:
		return p, nil
	default:
		return "", &ValidationError{
			Field:  "restart policy",
			Value:  raw,
			Reason: `must be "never", "on-failure" or "always"`,
		}
	}
}

// UnitValue returns the Restart= directive value for the policy.
// The manager spells "never" as "no".
func (p RestartPolicy) UnitValue() string {
	switch p {
	case RestartOnFailure, RestartAlways:
		return string(p)
	default:
		return "no"
	}
}

// normal maps the zero value to RestartNever so comparisons and rendering
// treat an unset policy and an explicit "never" identically.
func (p RestartPolicy) normal() RestartPolicy {
	if p == "" {
		return RestartNever
	}
	return p
}

// Definition describes everything needed to render a service unit file.
// Definitions are value types: construct, validate, render. A definition
// handed to the unit file writer is never mutated afterwards.
type Definition struct {
	// ExecStart is the full command line. The first word must be an
	// absolute path; the manager rejects relative ones.
	ExecStart string

	// Description is the human-readable unit description. Optional.
	Description string

	// WorkingDirectory is the directory the command runs in.
	// Optional; absolute when set.
	WorkingDirectory string

	// Environment holds additional environment variables for the service.
	// Keys are unique by construction.
	Environment map[string]string

	// User runs the service as this system user instead of the manager's
	// default. Optional; meaningful in system scope only.
	User string

	// Restart selects the restart policy. The zero value means RestartNever.
	Restart RestartPolicy
}

// Validate checks the definition against the constraints documented on the
// fields. It returns a *ValidationError describing the first violation.
func (d *Definition) Validate() error {
	exec := strings.TrimSpace(d.ExecStart)
	if exec == "" {
		return &ValidationError{Field: "definition", Reason: "ExecStart is required"}
	}
	if strings.ContainsAny(d.ExecStart, "\n\r") {
		return &ValidationError{Field: "definition", Reason: "ExecStart must not span multiple lines"}
	}
	if cmd := strings.Fields(exec)[0]; !filepath.IsAbs(cmd) {
		return &ValidationError{Field: "definition", Value: cmd, Reason: "ExecStart command must be an absolute path"}
	}
	if strings.ContainsAny(d.Description, "\n\r") {
		return &ValidationError{Field: "definition", Reason: "Description must not span multiple lines"}
	}
	if d.WorkingDirectory != "" {
		if strings.ContainsAny(d.WorkingDirectory, "\n\r") {
			return &ValidationError{Field: "definition", Reason: "WorkingDirectory must not span multiple lines"}
		}
		if !filepath.IsAbs(d.WorkingDirectory) {
			return &ValidationError{Field: "definition", Value: d.WorkingDirectory, Reason: "WorkingDirectory must be an absolute path"}
		}
	}
	if d.User != "" && strings.ContainsAny(d.User, " \t\n\r") {
		return &ValidationError{Field: "definition", Value: d.User, Reason: "User must not contain whitespace"}
	}
	for _, k := range d.EnvKeys() {
		if !validEnvKey(k) {
			return &ValidationError{Field: "definition", Value: k, Reason: "environment key is not a valid identifier"}
		}
		if strings.ContainsAny(d.Environment[k], "\n\r\"\\") {
			return &ValidationError{Field: "definition", Value: k, Reason: "environment value must not contain newlines, quotes or backslashes"}
		}
	}
	if d.Restart != "" {
		if _, err := ParseRestartPolicy(string(d.Restart)); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether two definitions are semantically identical.
// Environment comparison is order-independent and an unset restart policy
// equals an explicit "never".
func (d Definition) Equal(o Definition) bool {
	return d.ExecStart == o.ExecStart &&
		d.Description == o.Description &&
		d.WorkingDirectory == o.WorkingDirectory &&
		d.User == o.User &&
		d.Restart.normal() == o.Restart.normal() &&
		maps.Equal(d.Environment, o.Environment)
}

// EnvKeys returns the environment keys in lexical order so validation errors
// and rendered files are deterministic.
func (d Definition) EnvKeys() []string {
	keys := make([]string, 0, len(d.Environment))
	for k := range d.Environment {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validEnvKey reports whether k is a POSIX-style variable name.
func validEnvKey(k string) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
