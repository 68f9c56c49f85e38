package unit

// Scope selects the unit namespace: the system-wide manager or the invoking
// user's manager.
type Scope string

const (
	ScopeSystem Scope = "system"
	ScopeUser   Scope = "user"
)

// ParseScope converts user input into a Scope.
func ParseScope(raw string) (Scope, error) {
	switch s := Scope(raw); s {
	case ScopeSystem, ScopeUser:
		return s, nil
	default:
		return "", &ValidationError{
			Field:  "scope",
			Value:  raw,
			Reason: `must be "system" or "user"`,
		}
	}
}
