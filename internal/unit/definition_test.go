package unit

import (
	"errors"
	"strings"
	"testing"
)

func validDefinition() Definition {
	return Definition{
		ExecStart:        "/usr/bin/node /srv/app/index.js",
		Description:      "app server",
		WorkingDirectory: "/srv/app",
		Environment:      map[string]string{"PORT": "8080", "NODE_ENV": "production"},
		Restart:          RestartOnFailure,
	}
}

func TestDefinitionValidate_Valid(t *testing.T) {
	def := validDefinition()
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}

func TestDefinitionValidate_MinimalValid(t *testing.T) {
	def := Definition{ExecStart: "/usr/bin/true"}
	if err := def.Validate(); err != nil {
		t.Fatalf("Validate() returned error: %v", err)
	}
}

func TestDefinitionValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Definition)
		reason string
	}{
		{"empty exec", func(d *Definition) { d.ExecStart = "" }, "ExecStart is required"},
		{"blank exec", func(d *Definition) { d.ExecStart = "   " }, "ExecStart is required"},
		{"relative exec", func(d *Definition) { d.ExecStart = "node index.js" }, "absolute path"},
		{"multiline exec", func(d *Definition) { d.ExecStart = "/usr/bin/true\nExecStartPre=/bin/evil" }, "multiple lines"},
		{"multiline description", func(d *Definition) { d.Description = "a\nb" }, "multiple lines"},
		{"relative workdir", func(d *Definition) { d.WorkingDirectory = "srv/app" }, "absolute path"},
		{"multiline workdir", func(d *Definition) { d.WorkingDirectory = "/srv\n/app" }, "multiple lines"},
		{"user with space", func(d *Definition) { d.User = "web user" }, "whitespace"},
		{"bad env key", func(d *Definition) { d.Environment = map[string]string{"2PORT": "x"} }, "not a valid identifier"},
		{"env key with equals", func(d *Definition) { d.Environment = map[string]string{"A=B": "x"} }, "not a valid identifier"},
		{"env value with quote", func(d *Definition) { d.Environment = map[string]string{"A": `say "hi"`} }, "quotes"},
		{"env value with newline", func(d *Definition) { d.Environment = map[string]string{"A": "x\ny"} }, "newlines"},
		{"env value with backslash", func(d *Definition) { d.Environment = map[string]string{"A": `c:\tmp`} }, "backslashes"},
		{"bad restart policy", func(d *Definition) { d.Restart = "sometimes" }, "must be"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := validDefinition()
			tc.mutate(&def)
			err := def.Validate()
			if err == nil {
				t.Fatal("Validate() succeeded, want error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error type = %T, want *ValidationError", err)
			}
			if !strings.Contains(verr.Reason, tc.reason) {
				t.Errorf("Validate() reason = %q, want it to mention %q", verr.Reason, tc.reason)
			}
		})
	}
}

func TestDefinitionEqual(t *testing.T) {
	a := validDefinition()
	b := validDefinition()
	if !a.Equal(b) {
		t.Error("Equal() = false for identical definitions, want true")
	}

	b.Environment = map[string]string{"NODE_ENV": "production", "PORT": "8080"}
	if !a.Equal(b) {
		t.Error("Equal() = false for reordered environment, want true")
	}

	b = validDefinition()
	b.ExecStart = "/usr/bin/node /srv/app/other.js"
	if a.Equal(b) {
		t.Error("Equal() = true for differing ExecStart, want false")
	}
}

func TestDefinitionEqual_UnsetRestartMeansNever(t *testing.T) {
	a := Definition{ExecStart: "/usr/bin/true"}
	b := Definition{ExecStart: "/usr/bin/true", Restart: RestartNever}
	if !a.Equal(b) {
		t.Error("Equal() = false for unset vs explicit never restart, want true")
	}
}

func TestParseRestartPolicy(t *testing.T) {
	for _, raw := range []string{"never", "on-failure", "always"} {
		p, err := ParseRestartPolicy(raw)
		if err != nil {
			t.Fatalf("ParseRestartPolicy(%q) returned error: %v", raw, err)
		}
		if string(p) != raw {
			t.Errorf("ParseRestartPolicy(%q) = %q, want input preserved", raw, p)
		}
	}
	if _, err := ParseRestartPolicy("unless-stopped"); err == nil {
		t.Error("ParseRestartPolicy(\"unless-stopped\") succeeded, want error")
	}
}

func TestRestartPolicy_UnitValue(t *testing.T) {
	cases := []struct {
		policy RestartPolicy
		want   string
	}{
		{RestartNever, "no"},
		{RestartPolicy(""), "no"},
		{RestartOnFailure, "on-failure"},
		{RestartAlways, "always"},
	}
	for _, tc := range cases {
		if got := tc.policy.UnitValue(); got != tc.want {
			t.Errorf("UnitValue(%q) = %q, want %q", tc.policy, got, tc.want)
		}
	}
}

func TestEnvKeys_Sorted(t *testing.T) {
	def := Definition{Environment: map[string]string{"Z": "1", "A": "2", "M": "3"}}
	got := def.EnvKeys()
	want := []string{"A", "M", "Z"}
	if len(got) != len(want) {
		t.Fatalf("EnvKeys() returned %d keys, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EnvKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
