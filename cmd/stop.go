package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/braunmar/deskshell/pkg/process"
	"github.com/braunmar/deskshell/pkg/ui"

	"github.com/spf13/cobra"
)

var forceStop bool

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Terminate backend processes left behind by a previous run",
	Long: `Terminate the backend processes recorded by a run that did not shut down cleanly.

This command:
1. Reads the recorded run state
2. Sends SIGTERM to the backend process group and the reported server PID
3. Sends SIGKILL to whatever is still running after the grace period
4. Clears the recorded state

A running deskshell stops its own backend when it quits; use --force to stop
the backend from underneath it anyway.

Examples:
  deskshell stop
  deskshell stop --force`,
	Args: cobra.NoArgs,
	Run:  runStop,
}

func init() {
	stopCmd.Flags().BoolVar(&forceStop, "force", false, "stop the backend even if its host is still running")
}

func runStop(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	store := openStore(cfg)

	run, ok, err := store.Load()
	checkError(err)
	if !ok {
		ui.Info("No backend recorded; nothing to stop")
		return
	}

	if !forceStop && run.HostPID != os.Getpid() && process.IsAlive(run.HostPID) {
		ui.Warning(fmt.Sprintf("deskshell (pid %d) is still running and will stop its backend on quit", run.HostPID))
		ui.Info("Use --force to stop the backend anyway")
		os.Exit(1)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	failed := false
	for _, pid := range run.Targets() {
		// The spawn PID leads the backend's process group
		group := pid == run.SpawnPID
		if !process.IsAliveContext(ctx, pid) && !group {
			ui.Info(fmt.Sprintf("Process %d is already terminated", pid))
			continue
		}

		ui.Loading(fmt.Sprintf("Stopping %d...", pid))
		if err := process.Terminate(ctx, process.OS{}, pid, group, cfg.Backend.GracePeriod); err != nil {
			ui.Error(fmt.Sprintf("Failed to stop %d: %v", pid, err))
			failed = true
			continue
		}
		ui.Success(fmt.Sprintf("Stopped %d", pid))
	}

	if failed {
		os.Exit(1)
	}
	checkError(store.Clear())
	ui.NewLine()
	ui.Success("Backend stopped")
}
