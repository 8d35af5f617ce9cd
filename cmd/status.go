package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/braunmar/deskshell/pkg/process"
	"github.com/braunmar/deskshell/pkg/ui"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the recorded backend processes",
	Long: `Show the backend processes recorded by the current or last run.

This command shows:
- The host process and whether it is still running
- The spawned backend process and the PID the server reported
- Whether each of them is alive

Example:
  deskshell status`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	store := openStore(cfg)

	run, ok, err := store.Load()
	checkError(err)
	if !ok {
		ui.Info("No backend recorded")
		return
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	ui.PrintHeader("deskshell status")
	ui.NewLine()
	ui.PrintStatusLine("Command", run.Command)
	ui.PrintStatusLine("Started", run.StartedAt.Format(time.DateTime))
	ui.PrintStatusLine("Host", describePID(ctx, run.HostPID))
	ui.PrintStatusLine("Backend", describePID(ctx, run.SpawnPID))
	if run.ReportedPID != 0 {
		ui.PrintStatusLine("Server PID", describePID(ctx, run.ReportedPID))
	} else {
		ui.PrintStatusLine("Server PID", "not reported")
	}
	ui.NewLine()
}

func describePID(ctx context.Context, pid int) string {
	if pid == 0 {
		return "-"
	}
	if !process.IsAliveContext(ctx, pid) {
		return fmt.Sprintf("%d (not running)", pid)
	}

	info, err := process.Describe(ctx, pid)
	if err != nil || info.Name == "" {
		return fmt.Sprintf("%d (running)", pid)
	}
	return fmt.Sprintf("%d (running: %s)", pid, info.Name)
}
