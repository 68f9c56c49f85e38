package control

import (
	"errors"
	"fmt"
	"time"
)

// Config tunes the controller and reporter. It is passed as a constructor
// argument; no file I/O happens in this package.
type Config struct {
	// UnitSuffix is inserted between the service name and ".service" in
	// every unit name this tool manages. It is what separates managed
	// units from the rest of the system.
	// Default: "servitor"
	UnitSuffix string

	// CallTimeout bounds a single manager call, job completion included.
	// Default: 25s
	CallTimeout time.Duration

	// ListConcurrency bounds the parallel per-service queries issued by
	// List.
	// Default: 4
	ListConcurrency int
}

// DefaultUnitSuffix is the default managed-namespace suffix.
const DefaultUnitSuffix = "servitor"

// DefaultCallTimeout is the default bound for one manager call. It matches
// the bus method timeout, so a stuck job surfaces before the bus gives up.
const DefaultCallTimeout = 25 * time.Second

// DefaultListConcurrency is the default parallel query limit for List.
const DefaultListConcurrency = 4

// maxUnitSuffixLen keeps composed unit names well under the manager's
// 255 byte unit name limit.
const maxUnitSuffixLen = 32

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.UnitSuffix == "" {
		c.UnitSuffix = DefaultUnitSuffix
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.ListConcurrency == 0 {
		c.ListConcurrency = DefaultListConcurrency
	}
}

// Validate checks that configuration values are acceptable.
func (c *Config) Validate() error {
	if c.UnitSuffix == "" {
		return errors.New("control: config: UnitSuffix is required")
	}
	if len(c.UnitSuffix) > maxUnitSuffixLen {
		return fmt.Errorf("control: config: UnitSuffix exceeds %d characters", maxUnitSuffixLen)
	}
	for i := 0; i < len(c.UnitSuffix); i++ {
		if !suffixByte(c.UnitSuffix[i]) {
			return fmt.Errorf("control: config: UnitSuffix %q may only contain letters, digits, - and _", c.UnitSuffix)
		}
	}
	if c.CallTimeout < time.Second {
		return errors.New("control: config: CallTimeout must be at least 1s")
	}
	if c.ListConcurrency < 1 {
		return errors.New("control: config: ListConcurrency must be at least 1")
	}
	return nil
}

func suffixByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-', b == '_':
		return true
	}
	return false
}
