package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/braunmar/deskshell/pkg/doctor"

	"github.com/spf13/cobra"
)

var jsonOutput bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the application environment",
	Long: `Diagnose and report issues that keep the application from starting cleanly:

- Configuration file in use
- Entry document of the window
- Program started by the backend command
- Browser used to render the window
- Backend processes left behind by a previous run

Examples:
  deskshell doctor          # Human-readable report
  deskshell doctor --json   # JSON output for scripting`,
	Args: cobra.NoArgs,
	Run:  runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
}

func runDoctor(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	store := openStore(cfg)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report := doctor.RunHealthCheck(ctx, cfg, store)

	// Output report
	if jsonOutput {
		fmt.Println(report.ToJSON())
	} else {
		report.Print()
	}

	// Exit with appropriate code
	os.Exit(report.ExitCode())
}
