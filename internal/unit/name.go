package unit

import "strings"

// MaxNameLen bounds the short service name. Combined with the bounded
// namespace suffix this keeps every generated unit name well under the
// manager's 255-byte unit name limit.
const MaxNameLen = 128

// reservedNames are short names that would shadow well-known system units.
// They are rejected at validation, before any file or bus I/O.
var reservedNames = map[string]struct{}{
	"basic":      {},
	"default":    {},
	"emergency":  {},
	"exit":       {},
	"getty":      {},
	"graphical":  {},
	"halt":       {},
	"hibernate":  {},
	"init":       {},
	"kexec":      {},
	"multi-user": {},
	"network":    {},
	"poweroff":   {},
	"reboot":     {},
	"rescue":     {},
	"shutdown":   {},
	"suspend":    {},
	"sysinit":    {},
	"systemd":    {},
}

// Name is a validated short service name. The full unit name managed on the
// caller's behalf is derived with Unit, which appends the namespace suffix
// and the ".service" type.
type Name string

// ParseName validates raw as a short service name.
func ParseName(raw string) (Name, error) {
	if raw == "" {
		return "", &ValidationError{Field: "service name", Reason: "must not be empty"}
	}
	if len(raw) > MaxNameLen {
		return "", &ValidationError{Field: "service name", Value: raw, Reason: "exceeds 128 characters"}
	}
	if !isAlnum(raw[0]) {
		return "", &ValidationError{Field: "service name", Value: raw, Reason: "must start with a letter or digit"}
	}
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if isAlnum(c) || c == ':' || c == '_' || c == '.' || c == '-' {
			continue
		}
		if c == '@' {
			return "", &ValidationError{Field: "service name", Value: raw, Reason: "template instances are not managed"}
		}
		return "", &ValidationError{Field: "service name", Value: raw, Reason: "contains characters outside [a-zA-Z0-9:_.-]"}
	}
	if strings.HasSuffix(raw, ".service") {
		return "", &ValidationError{Field: "service name", Value: raw, Reason: `must not carry the ".service" suffix`}
	}
	if _, reserved := reservedNames[raw]; reserved || strings.HasPrefix(raw, "systemd-") {
		return "", &ValidationError{Field: "service name", Value: raw, Reason: "shadows a reserved system unit"}
	}
	return Name(raw), nil
}

// Unit returns the full unit name inside the managed namespace, e.g.
// "web" with suffix "servitor" becomes "web.servitor.service".
func (n Name) Unit(suffix string) string {
	return string(n) + "." + suffix + ".service"
}

// FromUnit maps a full managed unit name back to its short Name. It reports
// false for units outside the managed namespace.
func FromUnit(unitName, suffix string) (Name, bool) {
	short, ok := strings.CutSuffix(unitName, "."+suffix+".service")
	if !ok {
		return "", false
	}
	name, err := ParseName(short)
	if err != nil {
		return "", false
	}
	return name, true
}

// Pattern returns the glob matching every unit in the managed namespace.
func Pattern(suffix string) string {
	return "*." + suffix + ".service"
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
