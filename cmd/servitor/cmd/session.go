package cmd

import (
	"context"
	"log/slog"

	"github.com/unitworks/servitor/internal/config"
	"github.com/unitworks/servitor/internal/control"
	"github.com/unitworks/servitor/internal/sdbus"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

// session wires one command invocation: configuration, logger, manager
// connection and controller. Close releases the connection.
type session struct {
	cfg    *config.File
	cc     control.Config
	scope  unit.Scope
	logger *slog.Logger
	conn   *sdbus.Conn
	ctrl   *control.Controller
}

func newSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := cfg.ControlConfig()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.LogLevel)
	scope := cfg.ManagerScope()

	conn, err := sdbus.Connect(ctx, scope, logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		cc:     cc,
		scope:  scope,
		logger: logger,
		conn:   conn,
		ctrl:   control.New(cc, conn, cfg.Resolver(), scope, logger),
	}, nil
}

func (s *session) Close() { s.conn.Close() }

// unitPath resolves the unit file location for a managed service.
func (s *session) unitPath(name unit.Name) (unitfile.Path, error) {
	return s.cfg.Resolver().Resolve(name, s.cc.UnitSuffix, s.scope)
}

// localSetup loads the configuration for commands that stay off the bus.
func localSetup() (*config.File, control.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, control.Config{}, err
	}
	cc, err := cfg.ControlConfig()
	if err != nil {
		return nil, control.Config{}, err
	}
	return cfg, cc, nil
}
