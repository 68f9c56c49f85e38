// Package config loads the servitor configuration file. Every value has a
// default, so running without a file is fully supported.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unitworks/servitor/internal/control"
	"github.com/unitworks/servitor/internal/unit"
	"github.com/unitworks/servitor/internal/unitfile"
)

const (
	// DefaultPath is where the configuration file is looked up when no
	// --config flag is given.
	DefaultPath = "/etc/servitor/config.yaml"

	// DefaultScope is the default manager scope.
	DefaultScope = "system"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultJournalLines is the default number of journal lines shown
	// by the logs command.
	DefaultJournalLines = 100
)

// File is the top-level configuration for servitor, populated from a YAML
// file via Parse. All fields are optional.
type File struct {
	// Scope selects the manager instance: "system" or "user".
	// Default: "system"
	Scope string `yaml:"scope"`

	// LogLevel is the log level: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// UnitSuffix is inserted between the service name and ".service" in
	// every unit name servitor manages.
	// Default: "servitor"
	UnitSuffix string `yaml:"unit_suffix"`

	// SystemDir overrides the system scope unit directory.
	// Default: /etc/systemd/system
	SystemDir string `yaml:"system_dir"`

	// UserDir overrides the user scope unit directory.
	// Default: $XDG_CONFIG_HOME/systemd/user
	UserDir string `yaml:"user_dir"`

	// CallTimeout bounds one manager call, as a duration string such as
	// "30s".
	// Default: "25s"
	CallTimeout string `yaml:"call_timeout"`

	// ListConcurrency bounds the parallel per-service queries issued by
	// the list command.
	// Default: 4
	ListConcurrency int `yaml:"list_concurrency"`

	// JournalLines is how many journal lines the logs command shows.
	// Default: 100
	JournalLines int `yaml:"journal_lines"`

	// Editor opens unit files in the edit command when neither $VISUAL
	// nor $EDITOR is set.
	// Default: "vi"
	Editor string `yaml:"editor"`
}

// ApplyDefaults sets default values for zero-valued fields. Fields consumed
// by the control package keep their zero values here; control applies its
// own defaults.
func (c *File) ApplyDefaults() {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.JournalLines == 0 {
		c.JournalLines = DefaultJournalLines
	}
}

// Validate checks that configuration values are acceptable.
func (c *File) Validate() error {
	if c.Scope != "system" && c.Scope != "user" {
		return fmt.Errorf("config: invalid scope %q (must be \"system\" or \"user\")", c.Scope)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log_level %q (must be \"debug\", \"info\", \"warn\" or \"error\")", c.LogLevel)
	}
	if c.JournalLines < 1 {
		return errors.New("config: journal_lines must be at least 1")
	}
	cc, err := c.ControlConfig()
	if err != nil {
		return err
	}
	return cc.Validate()
}

// ControlConfig converts the file values into the control package's
// configuration, with that package's defaults applied.
func (c *File) ControlConfig() (control.Config, error) {
	cfg := control.Config{
		UnitSuffix:      c.UnitSuffix,
		ListConcurrency: c.ListConcurrency,
	}
	if c.CallTimeout != "" {
		d, err := time.ParseDuration(c.CallTimeout)
		if err != nil {
			return control.Config{}, fmt.Errorf("config: invalid call_timeout %q: %w", c.CallTimeout, err)
		}
		cfg.CallTimeout = d
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Resolver builds the unit directory resolver with any configured
// overrides. The zero overrides select the standard locations.
func (c *File) Resolver() unitfile.Resolver {
	return unitfile.Resolver{SystemDir: c.SystemDir, UserDir: c.UserDir}
}

// ManagerScope returns the configured scope as the domain type. Only valid
// after Validate.
func (c *File) ManagerScope() unit.Scope {
	if c.Scope == string(unit.ScopeUser) {
		return unit.ScopeUser
	}
	return unit.ScopeSystem
}

// Parse reads a YAML configuration file, applies defaults and validates the
// result.
func Parse(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load behaves like Parse but treats a missing file as the empty
// configuration. Commands use it for the default path, which need not
// exist.
func Load(path string) (*File, error) {
	cfg, err := Parse(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		cfg = &File{}
		cfg.ApplyDefaults()
		return cfg, nil
	}
	return cfg, err
}
