package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_MissingFile_UsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "no-such.toml"))
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Database.DSN != "" {
		t.Fatalf("expected empty DSN by default, got %q", cfg.Database.DSN)
	}
	if cfg.Schedule.WiggleSeconds != 1800 {
		t.Fatalf("expected default wiggle 1800, got %d", cfg.Schedule.WiggleSeconds)
	}
	if cfg.Wiggle() != 30*time.Minute {
		t.Fatalf("expected Wiggle 30m, got %v", cfg.Wiggle())
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Fatalf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoadFrom_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memocha.toml")
	data := `
[server]
addr = ":9090"

[schedule]
wiggle_seconds = 600
timezone = "UTC"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Schedule.WiggleSeconds != 600 {
		t.Fatalf("expected wiggle 600, got %d", cfg.Schedule.WiggleSeconds)
	}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", cfg.Location())
	}
	// lo no mencionado conserva el default
	if cfg.Log.Format != "text" {
		t.Fatalf("expected default log format, got %q", cfg.Log.Format)
	}
}

func TestLoadFrom_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memocha.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MEMOCHA_ADDR", ":7070")
	t.Setenv("MEMOCHA_WIGGLE_SECONDS", "900")
	t.Setenv("MEMOCHA_LOG_LEVEL", "warn")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}

	if cfg.Server.Addr != ":7070" {
		t.Fatalf("expected env addr :7070, got %q", cfg.Server.Addr)
	}
	if cfg.Schedule.WiggleSeconds != 900 {
		t.Fatalf("expected env wiggle 900, got %d", cfg.Schedule.WiggleSeconds)
	}
	if cfg.Log.Level != "warn" {
		t.Fatalf("expected env log level warn, got %q", cfg.Log.Level)
	}
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name string
		toml string
	}{
		{"empty addr", "[server]\naddr = \" \"\n"},
		{"zero wiggle", "[schedule]\nwiggle_seconds = 0\n"},
		{"bad timezone", "[schedule]\ntimezone = \"Mars/Olympus\"\n"},
	}
	for _, c := range cases {
		path := filepath.Join(dir, c.name+".toml")
		if err := os.WriteFile(path, []byte(c.toml), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadFrom(path); err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
	}
}

func TestLoadFrom_RejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("server = {"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
