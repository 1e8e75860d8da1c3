package config

import (
	"testing"
)

func TestResolveDefaultsCloud(t *testing.T) {
	t.Setenv("ETERNA_BUILD_TARGET", "cloud")
	unsetEnv(t, "ETERNA_DB_DRIVER")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("unexpected mapping: %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsLocal(t *testing.T) {
	t.Setenv("ETERNA_BUILD_TARGET", "local")
	unsetEnv(t, "ETERNA_DB_DRIVER", "ETERNA_SQLITE_PATH")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != DriverSQLite || cfg.SQLitePath == "" {
		t.Fatalf("unexpected mapping for local: %s %q", cfg.DBDriver, cfg.SQLitePath)
	}
}

func TestResolveDefaultsOverride(t *testing.T) {
	t.Setenv("ETERNA_BUILD_TARGET", "local")
	t.Setenv("ETERNA_DB_DRIVER", "postgres")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != DriverPostgres {
		t.Fatalf("override failed, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknown(t *testing.T) {
	cfg := &Config{BuildTarget: "mars"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatalf("expected error for unknown build target")
	}
	cfg = &Config{BuildTarget: TargetCloud, DBDriver: "oracle"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
