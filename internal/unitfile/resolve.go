// Package unitfile locates, renders, parses and atomically writes systemd
// service unit files for the managed namespace.
package unitfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/unitworks/servitor/internal/unit"
)

// DefaultSystemDir is where system-scope service units live.
const DefaultSystemDir = "/etc/systemd/system"

// Path is a resolved unit file location. Paths are derived fresh for every
// operation and never cached across operations; the directories are shared
// with the manager and other tools and can change between runs.
type Path struct {
	Scope unit.Scope
	Dir   string
	Unit  string // unit file name, e.g. "web.servitor.service"
}

// String returns the absolute file path.
func (p Path) String() string {
	return filepath.Join(p.Dir, p.Unit)
}

// Resolver locates unit directories per scope. The zero value resolves the
// standard locations; the fields exist so tests and packaging can redirect
// them.
type Resolver struct {
	// SystemDir overrides the system-scope unit directory.
	SystemDir string
	// UserDir overrides the user-scope unit directory.
	UserDir string
}

// Dir returns the unit directory for scope. The user directory follows the
// XDG base directory convention: $XDG_CONFIG_HOME/systemd/user, falling back
// to ~/.config/systemd/user.
func (r Resolver) Dir(scope unit.Scope) (string, error) {
	switch scope {
	case unit.ScopeSystem:
		if r.SystemDir != "" {
			return r.SystemDir, nil
		}
		return DefaultSystemDir, nil
	case unit.ScopeUser:
		if r.UserDir != "" {
			return r.UserDir, nil
		}
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "systemd", "user"), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", &ResolutionError{Scope: scope, Err: fmt.Errorf("home directory: %w", err)}
		}
		return filepath.Join(home, ".config", "systemd", "user"), nil
	default:
		return "", &ResolutionError{Scope: scope, Err: errors.New("unknown scope")}
	}
}

// Resolve derives the unit file path for a service. It performs no writes and
// no existence requirements: read-only operations must work even when the
// directory is absent or owned by another user.
func (r Resolver) Resolve(name unit.Name, suffix string, scope unit.Scope) (Path, error) {
	dir, err := r.Dir(scope)
	if err != nil {
		return Path{}, err
	}
	return Path{Scope: scope, Dir: dir, Unit: name.Unit(suffix)}, nil
}

// ResolveForWrite is Resolve plus the checks a mutating operation needs: the
// system directory must exist and be writable; a user directory may be absent
// (the writer creates it) but an existing one must be writable.
func (r Resolver) ResolveForWrite(name unit.Name, suffix string, scope unit.Scope) (Path, error) {
	p, err := r.Resolve(name, suffix, scope)
	if err != nil {
		return Path{}, err
	}
	info, err := os.Stat(p.Dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if scope == unit.ScopeSystem {
			return Path{}, &ResolutionError{Scope: scope, Dir: p.Dir, Err: errors.New("directory does not exist")}
		}
	case err != nil:
		return Path{}, &ResolutionError{Scope: scope, Dir: p.Dir, Err: err}
	case !info.IsDir():
		return Path{}, &ResolutionError{Scope: scope, Dir: p.Dir, Err: errors.New("not a directory")}
	default:
		if err := unix.Access(p.Dir, unix.W_OK); err != nil {
			return Path{}, &ResolutionError{Scope: scope, Dir: p.Dir, Err: fmt.Errorf("not writable: %w", err)}
		}
	}
	return p, nil
}
