package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the configuration. An explicit path must exist; with an empty
// path the application root is discovered and a missing deskshell.yml falls
// back to defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		if _, err := os.Stat(abs); err != nil {
			return nil, fmt.Errorf("configuration file not found: %s", abs)
		}
		return loadFile(abs, filepath.Dir(abs))
	}

	root, err := FindRoot()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, FileName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := Default()
		cfg.AppRoot = root
		return cfg, nil
	}

	return loadFile(configPath, root)
}

func loadFile(configPath, root string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal over the defaults so omitted keys keep their default values
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.AppRoot = root
	cfg.Path = configPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Backend.Command) == "" {
		return errors.New("backend.command cannot be empty")
	}
	if c.Backend.GracePeriod < 0 {
		return fmt.Errorf("backend.grace_period must not be negative, got %s", c.Backend.GracePeriod)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if strings.TrimSpace(c.Window.Entry) == "" {
		return errors.New("window.entry cannot be empty")
	}
	for _, sw := range c.Window.Switches {
		if strings.HasPrefix(sw, "-") {
			return fmt.Errorf("window switch %q must be given without leading dashes", sw)
		}
	}
	return nil
}

// FindRoot returns the application root: the nearest directory at or above
// the working directory containing deskshell.yml, else the directory of the
// running executable.
func FindRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return findRootFrom(cwd, filepath.Dir(exe)), nil
}

// findRootFrom walks up from startDir looking for deskshell.yml
func findRootFrom(startDir, fallback string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, FileName)); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root without finding a config file
			return fallback
		}
		dir = parent
	}
}
