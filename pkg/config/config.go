package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	// FileName is the configuration file looked up in the application root
	FileName = "deskshell.yml"

	// DefaultStateDir holds run state, relative to the application root
	DefaultStateDir = ".deskshell"
)

// Config holds the application configuration
type Config struct {
	AppRoot  string  `yaml:"-"`
	Path     string  `yaml:"-"` // Config file that was loaded, empty when running on defaults
	StateDir string  `yaml:"state_dir"`
	Backend  Backend `yaml:"backend"`
	Window   Window  `yaml:"window"`
}

// Backend describes the server process spawned at startup
type Backend struct {
	Command     string            `yaml:"command"`
	Dir         string            `yaml:"dir"` // Relative to the application root
	Env         map[string]string `yaml:"env"`
	GracePeriod time.Duration     `yaml:"grace_period"`
}

// Window describes the single application window
type Window struct {
	Entry              string   `yaml:"entry"` // Relative to the application root
	Width              int      `yaml:"width"`
	Height             int      `yaml:"height"`
	DevTools           bool     `yaml:"devtools"`
	DisableWebSecurity bool     `yaml:"disable_web_security"`
	Browser            string   `yaml:"browser"` // Empty means auto-detect
	Switches           []string `yaml:"switches"`
}

// Default returns the configuration used when no deskshell.yml exists
func Default() *Config {
	return &Config{
		StateDir: DefaultStateDir,
		Backend: Backend{
			Command:     "python backend/server.py",
			GracePeriod: 2 * time.Second,
		},
		Window: Window{
			Entry:              filepath.Join("static", "index.html"),
			Width:              1200,
			Height:             600,
			DevTools:           true,
			DisableWebSecurity: true,
			Switches:           []string{"disable-features=OutOfBlinkCors"},
		},
	}
}

// EntryPath returns the absolute path of the window's entry document
func (c *Config) EntryPath() string {
	return c.resolve(c.Window.Entry)
}

// BackendDir returns the working directory for the backend command
func (c *Config) BackendDir() string {
	return c.resolve(c.Backend.Dir)
}

// StatePath returns the absolute state directory
func (c *Config) StatePath() string {
	return c.resolve(c.StateDir)
}

// BackendEnv returns the host environment extended with the configured
// variables, in a stable order
func (c *Config) BackendEnv() []string {
	env := os.Environ()

	keys := make([]string, 0, len(c.Backend.Env))
	for key := range c.Backend.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		env = append(env, fmt.Sprintf("%s=%s", key, c.Backend.Env[key]))
	}
	return env
}

func (c *Config) resolve(path string) string {
	if path == "" {
		return c.AppRoot
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.AppRoot, path)
}
