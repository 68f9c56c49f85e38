package control

import (
	"fmt"

	"github.com/unitworks/servitor/internal/unit"
)

// AlreadyExistsError means Create found an identical definition on disk and
// overwrite was not requested.
type AlreadyExistsError struct {
	Service string
	Path    string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("control: service %q already exists with the same definition at %s", e.Service, e.Path)
}

// StillRunningError means Remove refused to delete a service that is not
// stopped. Force skips the guard by stopping the service first.
type StillRunningError struct {
	Service string
	State   unit.ActiveState
}

func (e *StillRunningError) Error() string {
	return fmt.Sprintf("control: service %q is %s; stop it first or remove with force", e.Service, e.State)
}

// NotRunningError means Stop was asked for a service that does not exist.
type NotRunningError struct {
	Service string
}

func (e *NotRunningError) Error() string {
	return fmt.Sprintf("control: service %q is not running: no such service", e.Service)
}
