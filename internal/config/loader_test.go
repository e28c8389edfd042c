package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	return path
}

func useEmptyUserDir(t *testing.T) {
	t.Helper()
	SetConfigDirOverride(t.TempDir())
	t.Cleanup(Reset)
}

func TestLoadEmbeddedDefault(t *testing.T) {
	useEmptyUserDir(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := DefaultEngineConfig()
	if cfg != want {
		t.Errorf("embedded default = %+v, want %+v", cfg, want)
	}
}

func TestLoadCustomYAML(t *testing.T) {
	useEmptyUserDir(t)
	path := writeFile(t, t.TempDir(), "engine.yaml", `
title: Test Build
tick_rate: 30
server:
  listen: ":2222"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Title != "Test Build" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Test Build")
	}
	if cfg.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", cfg.TickRate)
	}
	if cfg.Server.Listen != ":2222" {
		t.Errorf("Listen = %q, want :2222", cfg.Server.Listen)
	}
	// Missing fields keep defaults
	if cfg.Server.IdleTimeout != 30 {
		t.Errorf("IdleTimeout = %d, want default 30", cfg.Server.IdleTimeout)
	}
}

func TestLoadCustomTOML(t *testing.T) {
	useEmptyUserDir(t)
	path := writeFile(t, t.TempDir(), "engine.toml", `
title = "Toml Build"
tick_rate = 120
seed = 7

[server]
db = "/tmp/sessions.db"
idle_timeout = 5

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Title != "Toml Build" || cfg.TickRate != 120 || cfg.Seed != 7 {
		t.Errorf("unexpected top-level values: %+v", cfg)
	}
	if cfg.Server.DBPath != "/tmp/sessions.db" || cfg.Server.IdleTimeout != 5 {
		t.Errorf("unexpected server values: %+v", cfg.Server)
	}
	if cfg.Server.Listen != ":23234" {
		t.Errorf("Listen = %q, want default", cfg.Server.Listen)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadCustomMissing(t *testing.T) {
	useEmptyUserDir(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing custom config")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadCustomInvalid(t *testing.T) {
	useEmptyUserDir(t)
	path := writeFile(t, t.TempDir(), "broken.toml", "title = [unterminated")

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	writeFile(t, dir, "config.toml", `tick_rate = 24`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.TickRate != 24 {
		t.Errorf("TickRate = %d, want 24 from user config", cfg.TickRate)
	}
}

func TestLoadUserConfigPrefersYAML(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)
	writeFile(t, dir, "config.yaml", "tick_rate: 50\n")
	writeFile(t, dir, "config.toml", "tick_rate = 24\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.TickRate != 50 {
		t.Errorf("TickRate = %d, want 50 from config.yaml", cfg.TickRate)
	}
}

func TestDefaultYAMLEmbedded(t *testing.T) {
	if len(GetDefaultYAML()) == 0 {
		t.Fatal("embedded default YAML is empty")
	}
}
