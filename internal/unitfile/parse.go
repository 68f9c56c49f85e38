package unitfile

import (
	"fmt"
	"strings"

	"github.com/unitworks/servitor/internal/unit"
)

// Parse recovers a service definition from unit file text. It is
// intentionally narrow: section headers, key=value lines, comments and blank
// lines. That is enough to compare what is on disk against a new definition and to
// sanity-check edited files, not a general unit file parser. Keys it does not
// generate are ignored.
func Parse(text string) (unit.Definition, error) {
	var def unit.Definition
	section := ""
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line[1 : len(line)-1]
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return unit.Definition{}, fmt.Errorf("unitfile: parse: line %d is not a key=value assignment", n+1)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch section {
		case "Unit":
			if key == "Description" {
				def.Description = value
			}
		case "Service":
			switch key {
			case "ExecStart":
				def.ExecStart = value
			case "WorkingDirectory":
				def.WorkingDirectory = value
			case "User":
				def.User = value
			case "Restart":
				def.Restart = restartFromUnit(value)
			case "Environment":
				k, v, err := splitEnvAssignment(value)
				if err != nil {
					return unit.Definition{}, fmt.Errorf("unitfile: parse: line %d: %w", n+1, err)
				}
				if def.Environment == nil {
					def.Environment = make(map[string]string)
				}
				def.Environment[k] = v
			}
		}
	}
	if def.ExecStart == "" {
		return unit.Definition{}, fmt.Errorf("unitfile: parse: no ExecStart in [Service] section")
	}
	return def, nil
}

// restartFromUnit maps a Restart= directive value back to a policy. The
// manager spells "never" as "no"; directive values this tool does not
// generate fall back to never rather than failing the comparison.
func restartFromUnit(value string) unit.RestartPolicy {
	switch value {
	case "always":
		return unit.RestartAlways
	case "on-failure":
		return unit.RestartOnFailure
	default:
		return unit.RestartNever
	}
}

// splitEnvAssignment splits an Environment= directive value of the form
// "KEY=VALUE" (with or without the surrounding quotes) into key and value.
func splitEnvAssignment(raw string) (string, string, error) {
	v := raw
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		v = v[1 : len(v)-1]
	}
	k, val, ok := strings.Cut(v, "=")
	if !ok || k == "" {
		return "", "", fmt.Errorf("environment assignment %q has no KEY=VALUE form", raw)
	}
	return k, val, nil
}
