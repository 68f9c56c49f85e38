package control

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"go.uber.org/goleak"

	"github.com/unitworks/servitor/internal/sdbus"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	_ Manager = (*sdbus.Conn)(nil)
	_ Manager = (*mockManager)(nil)
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustName(t *testing.T, raw string) unit.Name {
	t.Helper()
	name, err := unit.ParseName(raw)
	if err != nil {
		t.Fatalf("ParseName(%q) returned error: %v", raw, err)
	}
	return name
}

// servicePath addresses a managed unit file inside a test directory.
func servicePath(dir, name string) unitfile.Path {
	return unitfile.Path{
		Scope: unit.ScopeSystem,
		Dir:   dir,
		Unit:  name + "." + DefaultUnitSuffix + ".service",
	}
}

func testDefinition() unit.Definition {
	return unit.Definition{
		ExecStart:   "/usr/bin/web --port 8080",
		Description: "Web frontend",
	}
}

// mockManager scripts manager answers per unit name and records every call.
type mockManager struct {
	startErr   error
	stopErr    error
	restartErr error
	reloadErr  error
	enableErr  error
	disableErr error
	resetErr   error

	units        map[string]sdbus.UnitProps
	unitErrs     map[string]error
	services     map[string]sdbus.ServiceProps
	serviceErr   error
	loaded       []sdbus.UnitOverview
	loadedErr    error
	unitFiles    []sdbus.UnitFileEntry
	unitFilesErr error

	startCalls   []string
	stopCalls    []string
	restartCalls []string
	reloadCalls  int
	enableCalls  []string
	disableCalls []string
	resetCalls   []string
}

func (m *mockManager) StartUnit(_ context.Context, unitName string) error {
	m.startCalls = append(m.startCalls, unitName)
	return m.startErr
}

func (m *mockManager) StopUnit(_ context.Context, unitName string) error {
	m.stopCalls = append(m.stopCalls, unitName)
	return m.stopErr
}

func (m *mockManager) RestartUnit(_ context.Context, unitName string) error {
	m.restartCalls = append(m.restartCalls, unitName)
	return m.restartErr
}

func (m *mockManager) Reload(_ context.Context) error {
	m.reloadCalls++
	return m.reloadErr
}

func (m *mockManager) EnableUnit(_ context.Context, unitName string) error {
	m.enableCalls = append(m.enableCalls, unitName)
	return m.enableErr
}

func (m *mockManager) DisableUnit(_ context.Context, unitName string) error {
	m.disableCalls = append(m.disableCalls, unitName)
	return m.disableErr
}

func (m *mockManager) ResetFailed(_ context.Context, unitName string) error {
	m.resetCalls = append(m.resetCalls, unitName)
	return m.resetErr
}

func (m *mockManager) UnitProperties(_ context.Context, unitName string) (sdbus.UnitProps, error) {
	if err, ok := m.unitErrs[unitName]; ok {
		return sdbus.UnitProps{}, err
	}
	if props, ok := m.units[unitName]; ok {
		return props, nil
	}
	return sdbus.UnitProps{}, &sdbus.CallError{Op: "query", Unit: unitName, Err: sdbus.ErrNoSuchUnit}
}

func (m *mockManager) ServiceProperties(_ context.Context, unitName string) (sdbus.ServiceProps, error) {
	if m.serviceErr != nil {
		return sdbus.ServiceProps{}, m.serviceErr
	}
	return m.services[unitName], nil
}

func (m *mockManager) ListUnits(_ context.Context, _ string) ([]sdbus.UnitOverview, error) {
	return m.loaded, m.loadedErr
}

func (m *mockManager) ListUnitFiles(_ context.Context, _ string) ([]sdbus.UnitFileEntry, error) {
	return m.unitFiles, m.unitFilesErr
}

// loadedUnit registers a unit as loaded with the given generic state.
func (m *mockManager) loadedUnit(unitName string, props sdbus.UnitProps) {
	if m.units == nil {
		m.units = make(map[string]sdbus.UnitProps)
	}
	m.units[unitName] = props
}

// serviceFigures registers the service-specific answers for a unit.
func (m *mockManager) serviceFigures(unitName string, props sdbus.ServiceProps) {
	if m.services == nil {
		m.services = make(map[string]sdbus.ServiceProps)
	}
	m.services[unitName] = props
}
