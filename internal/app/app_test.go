package app

import (
	"testing"

	"github.com/zx06/sshrun/internal/config"
	"github.com/zx06/sshrun/internal/output"
	"github.com/zx06/sshrun/internal/secret"
)

func TestBuildSpecHasSchemaVersion(t *testing.T) {
	a := New("dev", "abc123", "2024-01-01")
	s := a.BuildSpec()
	if s.SchemaVersion != output.SchemaVersion {
		t.Fatalf("schema_version=%d want %d", s.SchemaVersion, output.SchemaVersion)
	}
	if len(s.ErrorCodes) == 0 {
		t.Fatalf("expected error codes")
	}
	if len(s.Commands) == 0 || len(s.Commands[0].Flags) == 0 {
		t.Fatalf("expected commands/flags")
	}
	envs := map[string]string{}
	for _, f := range s.Commands[0].Flags {
		if f.Env != "" {
			envs[f.Name] = f.Env
		}
	}
	want := map[string]string{
		"profile": config.EnvProfile,
		"host":    config.EnvHost,
		"user":    config.EnvUser,
		"port":    config.EnvPort,
	}
	for name, env := range want {
		if envs[name] != env {
			t.Errorf("flag %s env=%q want %q", name, envs[name], env)
		}
	}
}

func TestBuildSpecPasswordSourcesOrdered(t *testing.T) {
	s := New("dev", "", "").BuildSpec()
	if len(s.PasswordSources) != 4 {
		t.Fatalf("password_sources=%d want 4", len(s.PasswordSources))
	}
	if s.PasswordSources[0].Env != secret.EnvPasswordFile || s.PasswordSources[1].Env != secret.EnvPassword {
		t.Errorf("unexpected order: %+v", s.PasswordSources)
	}
	for i, src := range s.PasswordSources {
		if src.Order != i+1 {
			t.Errorf("source %d order=%d", i, src.Order)
		}
	}
}

func TestVersionInfo(t *testing.T) {
	a := New("v1.0.0", "abc123", "2024-01-01")
	v := a.VersionInfo()
	if v.Version != "v1.0.0" {
		t.Errorf("version=%s want v1.0.0", v.Version)
	}
	if v.Commit != "abc123" {
		t.Errorf("commit=%s want abc123", v.Commit)
	}
	if v.Date != "2024-01-01" {
		t.Errorf("date=%s want 2024-01-01", v.Date)
	}
}
