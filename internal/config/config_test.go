package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
	if cfg.RequestTimeout.Std() != 60*time.Second {
		t.Fatalf("timeout = %v", cfg.RequestTimeout.Std())
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "backend_url: http://file.example:9000\nrequest_timeout: 30s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("SUMMIT_BACKEND_URL", "http://env.example:7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://env.example:7000" {
		t.Fatalf("backend url = %q, want env override", cfg.BackendURL)
	}
	if cfg.RequestTimeout.Std() != 30*time.Second {
		t.Fatalf("timeout = %v, want file value", cfg.RequestTimeout.Std())
	}
}

func TestDurationEnvOverride(t *testing.T) {
	t.Setenv("SUMMIT_REQUEST_TIMEOUT", "90s")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RequestTimeout.Std() != 90*time.Second {
		t.Fatalf("timeout = %v, want env value", cfg.RequestTimeout.Std())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	want := Config{BackendURL: "http://saved:8000", RequestTimeout: Duration(15 * time.Second), LogLevel: "debug"}
	if err := Save(want, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.BackendURL != want.BackendURL || got.RequestTimeout != want.RequestTimeout || got.LogLevel != want.LogLevel {
		t.Fatalf("round trip mismatch:\n got: %+v\nwant: %+v", got, want)
	}
}
