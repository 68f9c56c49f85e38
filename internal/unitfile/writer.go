package unitfile

import (
	"errors"
	"os"

	"github.com/unitworks/servitor/internal/fsutil"
	"github.com/unitworks/servitor/internal/unit"
)

// unitFileMode keeps unit files world-readable; the manager and systemctl
// read them as other users.
const unitFileMode = 0o644

// unitDirMode applies when the per-user unit directory has to be created.
const unitDirMode = 0o755

// Write renders the definition and writes it to path atomically: temp file in
// the same directory, fsync, rename. The manager can scan the directory at
// any moment and never observes a partial file. The parent directory is
// created if missing, which first-time user-scope writes rely on.
func Write(path Path, def unit.Definition) error {
	if err := os.MkdirAll(path.Dir, unitDirMode); err != nil {
		return &WriteError{Path: path.String(), Op: "write", Err: err}
	}
	data := []byte(Render(def, path.Scope))
	if err := fsutil.WriteFileAtomic(path.Dir, path.Unit, data, unitFileMode); err != nil {
		return &WriteError{Path: path.String(), Op: "write", Err: err}
	}
	return nil
}

// Remove deletes the unit file at path. An already-absent file is success:
// remove is idempotent.
func Remove(path Path) error {
	if err := os.Remove(path.String()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &WriteError{Path: path.String(), Op: "remove", Err: err}
	}
	return nil
}

// Read loads and parses the unit file at path. A missing file surfaces as
// os.ErrNotExist so callers can treat absence as the normal undefined state.
func Read(path Path) (unit.Definition, error) {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return unit.Definition{}, err
	}
	return Parse(string(data))
}

// Exists reports whether a regular unit file is on disk at path right now.
// The answer is advisory: the directory is shared with the manager and other
// tools, so callers re-check close to the point of use.
func Exists(path Path) bool {
	info, err := os.Stat(path.String())
	return err == nil && info.Mode().IsRegular()
}
