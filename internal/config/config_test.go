package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/unitworks/servitor/internal/control"
	"github.com/unitworks/servitor/internal/unit"
)

func TestFile_ApplyDefaults(t *testing.T) {
	var cfg File
	cfg.ApplyDefaults()

	if cfg.Scope != DefaultScope {
		t.Errorf("Scope = %q, want %q", cfg.Scope, DefaultScope)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.JournalLines != DefaultJournalLines {
		t.Errorf("JournalLines = %d, want %d", cfg.JournalLines, DefaultJournalLines)
	}
	if cfg.UnitSuffix != "" {
		t.Errorf("UnitSuffix = %q, want empty until control applies its default", cfg.UnitSuffix)
	}
}

func TestParse_ValidYAML(t *testing.T) {
	yaml := `
scope: user
log_level: debug
unit_suffix: ops
system_dir: /tmp/units
call_timeout: "40s"
list_concurrency: 8
journal_lines: 250
editor: nano
`
	path := writeTemp(t, yaml)
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Scope != "user" {
		t.Errorf("Scope = %q, want %q", cfg.Scope, "user")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.UnitSuffix != "ops" {
		t.Errorf("UnitSuffix = %q, want %q", cfg.UnitSuffix, "ops")
	}
	if cfg.SystemDir != "/tmp/units" {
		t.Errorf("SystemDir = %q, want %q", cfg.SystemDir, "/tmp/units")
	}
	if cfg.CallTimeout != "40s" {
		t.Errorf("CallTimeout = %q, want %q", cfg.CallTimeout, "40s")
	}
	if cfg.ListConcurrency != 8 {
		t.Errorf("ListConcurrency = %d, want 8", cfg.ListConcurrency)
	}
	if cfg.JournalLines != 250 {
		t.Errorf("JournalLines = %d, want 250", cfg.JournalLines)
	}
	if cfg.Editor != "nano" {
		t.Errorf("Editor = %q, want %q", cfg.Editor, "nano")
	}
}

func TestParse_DefaultValues(t *testing.T) {
	path := writeTemp(t, "scope: system\n")
	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.JournalLines != DefaultJournalLines {
		t.Errorf("JournalLines = %d, want %d", cfg.JournalLines, DefaultJournalLines)
	}
}

func TestParse_FileNotFound(t *testing.T) {
	_, err := Parse("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for non-existent file")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Parse(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad scope", "scope: global\n", "invalid scope"},
		{"bad log level", "log_level: chatty\n", "invalid log_level"},
		{"bad call timeout", "call_timeout: soon\n", "invalid call_timeout"},
		{"negative journal lines", "journal_lines: -5\n", "journal_lines"},
		{"bad unit suffix", "unit_suffix: a.b\n", "UnitSuffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, tt.yaml)
			_, err := Parse(path)
			if err == nil {
				t.Fatal("Parse accepted an invalid config")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFileServesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scope != DefaultScope {
		t.Errorf("Scope = %q, want %q", cfg.Scope, DefaultScope)
	}
}

func TestLoad_BrokenFileStillFails(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	if _, err := Load(path); err == nil {
		t.Fatal("Load accepted invalid YAML")
	}
}

func TestControlConfig(t *testing.T) {
	cfg := File{UnitSuffix: "ops", CallTimeout: "10s", ListConcurrency: 2}
	cc, err := cfg.ControlConfig()
	if err != nil {
		t.Fatalf("ControlConfig: %v", err)
	}
	if cc.UnitSuffix != "ops" {
		t.Errorf("UnitSuffix = %q, want %q", cc.UnitSuffix, "ops")
	}
	if cc.CallTimeout != 10*time.Second {
		t.Errorf("CallTimeout = %v, want %v", cc.CallTimeout, 10*time.Second)
	}
	if cc.ListConcurrency != 2 {
		t.Errorf("ListConcurrency = %d, want 2", cc.ListConcurrency)
	}
}

func TestControlConfig_EmptyFallsBackToControlDefaults(t *testing.T) {
	var cfg File
	cfg.ApplyDefaults()
	cc, err := cfg.ControlConfig()
	if err != nil {
		t.Fatalf("ControlConfig: %v", err)
	}
	if cc.UnitSuffix != control.DefaultUnitSuffix {
		t.Errorf("UnitSuffix = %q, want %q", cc.UnitSuffix, control.DefaultUnitSuffix)
	}
	if cc.CallTimeout != control.DefaultCallTimeout {
		t.Errorf("CallTimeout = %v, want %v", cc.CallTimeout, control.DefaultCallTimeout)
	}
	if cc.ListConcurrency != control.DefaultListConcurrency {
		t.Errorf("ListConcurrency = %d, want %d", cc.ListConcurrency, control.DefaultListConcurrency)
	}
}

func TestManagerScope(t *testing.T) {
	cfg := File{Scope: "user"}
	if got := cfg.ManagerScope(); got != unit.ScopeUser {
		t.Errorf("ManagerScope() = %q, want %q", got, unit.ScopeUser)
	}
	cfg.Scope = "system"
	if got := cfg.ManagerScope(); got != unit.ScopeSystem {
		t.Errorf("ManagerScope() = %q, want %q", got, unit.ScopeSystem)
	}
}

func TestResolver_Overrides(t *testing.T) {
	cfg := File{SystemDir: "/tmp/sys", UserDir: "/tmp/usr"}
	r := cfg.Resolver()
	if r.SystemDir != "/tmp/sys" {
		t.Errorf("SystemDir = %q, want %q", r.SystemDir, "/tmp/sys")
	}
	if r.UserDir != "/tmp/usr" {
		t.Errorf("UserDir = %q, want %q", r.UserDir, "/tmp/usr")
	}
}

// writeTemp writes content to a temporary YAML file and returns its path.
func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
