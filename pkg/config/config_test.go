package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Backend.Command != "python backend/server.py" {
		t.Errorf("Command = %q", cfg.Backend.Command)
	}
	if cfg.Backend.GracePeriod != 2*time.Second {
		t.Errorf("GracePeriod = %s, want 2s", cfg.Backend.GracePeriod)
	}
	if cfg.Window.Width != 1200 || cfg.Window.Height != 600 {
		t.Errorf("window size = %dx%d, want 1200x600", cfg.Window.Width, cfg.Window.Height)
	}
	if len(cfg.Window.Switches) != 1 || cfg.Window.Switches[0] != "disable-features=OutOfBlinkCors" {
		t.Errorf("Switches = %v", cfg.Window.Switches)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
backend:
  command: ./server --port 8000
  dir: backend
  grace_period: 500ms
  env:
    MODE: desktop
window:
  width: 800
  devtools: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppRoot != dir {
		t.Errorf("AppRoot = %q, want %q", cfg.AppRoot, dir)
	}
	if cfg.Path != path {
		t.Errorf("Path = %q, want %q", cfg.Path, path)
	}
	if cfg.Backend.Command != "./server --port 8000" {
		t.Errorf("Command = %q", cfg.Backend.Command)
	}
	if cfg.Backend.GracePeriod != 500*time.Millisecond {
		t.Errorf("GracePeriod = %s, want 500ms", cfg.Backend.GracePeriod)
	}
	if cfg.Window.Width != 800 {
		t.Errorf("Width = %d, want 800", cfg.Window.Width)
	}
	// Omitted keys keep their defaults
	if cfg.Window.Height != 600 {
		t.Errorf("Height = %d, want default 600", cfg.Window.Height)
	}
	if cfg.Window.DevTools {
		t.Error("DevTools should be disabled")
	}
	if got, want := cfg.BackendDir(), filepath.Join(dir, "backend"); got != want {
		t.Errorf("BackendDir() = %q, want %q", got, want)
	}
	if got, want := cfg.EntryPath(), filepath.Join(dir, "static", "index.html"); got != want {
		t.Errorf("EntryPath() = %q, want %q", got, want)
	}

	env := cfg.BackendEnv()
	if env[len(env)-1] != "MODE=desktop" {
		t.Errorf("last env entry = %q, want MODE=desktop", env[len(env)-1])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"empty command", "backend:\n  command: \"  \"\n", "backend.command"},
		{"negative grace", "backend:\n  grace_period: -1s\n", "grace_period"},
		{"zero width", "window:\n  width: 0\n", "window size"},
		{"dashed switch", "window:\n  switches: [\"--no-sandbox\"]\n", "leading dashes"},
		{"bad yaml", "backend: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		if err == nil || !strings.Contains(err.Error(), "not found") {
			t.Errorf("error = %v, want not found", err)
		}
	})
}

func TestFindRootFrom(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "backend:\n  command: ./serve\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	if got := findRootFrom(nested, "/fallback"); got != root {
		t.Errorf("findRootFrom(nested) = %q, want %q", got, root)
	}

	other := t.TempDir()
	if got := findRootFrom(other, "/fallback"); got != "/fallback" {
		t.Errorf("findRootFrom(other) = %q, want fallback", got)
	}
}

func TestLoadDiscoversRoot(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "backend:\n  command: ./run.sh\n")
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend.Command != "./run.sh" {
		t.Errorf("Command = %q, want ./run.sh", cfg.Backend.Command)
	}
	if got, want := cfg.StatePath(), filepath.Join(cfg.AppRoot, DefaultStateDir); got != want {
		t.Errorf("StatePath() = %q, want %q", got, want)
	}
}
