package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/braunmar/deskshell/pkg/app"
	"github.com/braunmar/deskshell/pkg/backend"
	"github.com/braunmar/deskshell/pkg/config"
	"github.com/braunmar/deskshell/pkg/process"
	"github.com/braunmar/deskshell/pkg/state"
	"github.com/braunmar/deskshell/pkg/ui"
	"github.com/braunmar/deskshell/pkg/window"

	"github.com/spf13/cobra"
)

var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

func runApp(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := ui.NewConsole(verbose)

	ui.Rocket(fmt.Sprintf("Starting deskshell %s", version))
	if cfg.Path != "" {
		ui.Info(fmt.Sprintf("Config: %s", cfg.Path))
	}
	ui.NewLine()

	backendOpts := []backend.Option{
		backend.WithDir(cfg.BackendDir()),
		backend.WithEnv(cfg.BackendEnv()),
		backend.WithGrace(cfg.Backend.GracePeriod),
		backend.WithLogger(log),
	}

	// Run state is a convenience for 'status' and 'stop'; the app runs without it
	store, err := state.Open(cfg.StatePath())
	if err != nil {
		log.Warnf("Run state disabled: %v", err)
	} else {
		checkError(checkLeftovers(store, log))
		backendOpts = append(backendOpts, backend.WithStateStore(store))
	}

	sup := backend.New(cfg.Backend.Command, backendOpts...)

	windowOpts := windowOptions(cfg, log)
	openWindow := func(entry string) (window.Window, error) {
		return window.Open(entry, windowOpts)
	}

	a := app.New(cfg.EntryPath(), sup, openWindow,
		app.WithLogger(log),
		app.WithShutdownTimeout(cfg.Backend.GracePeriod+time.Second),
	)

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()

	checkError(a.Run(ctx))
}

func windowOptions(cfg *config.Config, log ui.Logger) window.Options {
	return window.Options{
		Width:              cfg.Window.Width,
		Height:             cfg.Window.Height,
		DevTools:           cfg.Window.DevTools,
		DisableWebSecurity: cfg.Window.DisableWebSecurity,
		Switches:           cfg.Window.Switches,
		Browser:            cfg.Window.Browser,
		Logger:             log,
	}
}

// checkLeftovers reports processes recorded by a run that did not shut down
// cleanly. A live host owning the same app root is an error: both would share
// one state file.
func checkLeftovers(store *state.Store, log ui.Logger) error {
	run, ok, err := store.Load()
	if err != nil {
		log.Warnf("Ignoring unreadable run state: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	if run.HostPID != os.Getpid() && process.IsAlive(run.HostPID) {
		return fmt.Errorf("another deskshell (pid %d) is already running from %s", run.HostPID, run.AppRoot)
	}

	for _, pid := range run.Targets() {
		if process.IsAlive(pid) {
			log.Warnf("Backend process %d from a previous run is still alive; run 'deskshell stop' to terminate it", pid)
		}
	}
	return nil
}
