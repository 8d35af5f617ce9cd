package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/braunmar/deskshell/pkg/config"
	"github.com/braunmar/deskshell/pkg/process"
	"github.com/braunmar/deskshell/pkg/state"
	"github.com/braunmar/deskshell/pkg/window"
)

// RunHealthCheck runs all diagnostic checks and returns a report
func RunHealthCheck(ctx context.Context, cfg *config.Config, store *state.Store) *Report {
	report := &Report{}

	report.add(CheckConfig(cfg))
	report.add(CheckEntry(cfg))
	report.add(CheckBackendCommand(cfg))
	report.add(CheckBrowser(cfg))
	report.add(CheckState(ctx, store))

	report.buildSummary()
	return report
}

// CheckConfig reports where the configuration came from
func CheckConfig(cfg *config.Config) Check {
	check := Check{Name: "Configuration", Status: StatusOK}
	if cfg.Path == "" {
		check.Detail = fmt.Sprintf("no %s found, using defaults (app root %s)", config.FileName, cfg.AppRoot)
		return check
	}
	check.Detail = cfg.Path
	return check
}

// CheckEntry verifies the window's entry document exists
func CheckEntry(cfg *config.Config) Check {
	entry := cfg.EntryPath()
	check := Check{Name: "Entry document", Detail: entry}

	info, err := os.Stat(entry)
	switch {
	case err != nil:
		check.Status = StatusError
		check.Hint = "set window.entry in " + config.FileName
	case info.IsDir():
		check.Status = StatusError
		check.Detail = entry + " is a directory"
	default:
		check.Status = StatusOK
	}
	return check
}

// CheckBackendCommand verifies the program the backend command starts can be found
func CheckBackendCommand(cfg *config.Config) Check {
	check := Check{Name: "Backend command", Detail: cfg.Backend.Command}

	fields := strings.Fields(cfg.Backend.Command)
	if len(fields) == 0 {
		check.Status = StatusError
		return check
	}
	program := fields[0]

	if strings.ContainsRune(program, filepath.Separator) || strings.Contains(program, "/") {
		path := program
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.BackendDir(), path)
		}
		if _, err := os.Stat(path); err != nil {
			check.Status = StatusError
			check.Hint = fmt.Sprintf("%s does not exist", path)
			return check
		}
		check.Status = StatusOK
		return check
	}

	if _, err := exec.LookPath(program); err != nil {
		// Shell builtins and compound commands are not on PATH either
		check.Status = StatusWarn
		check.Hint = fmt.Sprintf("%q not found on PATH", program)
		return check
	}
	check.Status = StatusOK
	return check
}

// CheckBrowser reports which browser will render the window
func CheckBrowser(cfg *config.Config) Check {
	check := Check{Name: "Window browser"}

	browser, err := window.FindBrowser(cfg.Window.Browser)
	if err != nil {
		if cfg.Window.Browser != "" {
			check.Status = StatusError
		} else {
			check.Status = StatusWarn
			check.Hint = "the entry document will open with the system handler instead"
		}
		check.Detail = err.Error()
		return check
	}

	check.Status = StatusOK
	check.Detail = browser
	return check
}

// CheckState looks for backend processes left behind by a previous run
func CheckState(ctx context.Context, store *state.Store) Check {
	check := Check{Name: "Backend state", Status: StatusOK}

	run, ok, err := store.Load()
	if err != nil {
		check.Status = StatusWarn
		check.Detail = err.Error()
		check.Hint = "remove " + store.Path()
		return check
	}
	if !ok {
		check.Detail = "no backend recorded"
		return check
	}

	if process.IsAliveContext(ctx, run.HostPID) {
		check.Detail = fmt.Sprintf("running under host pid %d", run.HostPID)
		return check
	}

	var alive []string
	for _, pid := range run.Targets() {
		if process.IsAliveContext(ctx, pid) {
			alive = append(alive, fmt.Sprintf("%d", pid))
		}
	}
	if len(alive) == 0 {
		check.Status = StatusWarn
		check.Detail = "stale state from an unclean exit, no processes left"
		check.Hint = "run 'deskshell stop' to clear it"
		return check
	}

	check.Status = StatusError
	check.Detail = fmt.Sprintf("leftover backend processes: %s", strings.Join(alive, ", "))
	check.Hint = "run 'deskshell stop' to terminate them"
	return check
}
