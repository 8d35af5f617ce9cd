package cmd

import (
	"fmt"
	"os"

	"github.com/braunmar/deskshell/pkg/config"
	"github.com/braunmar/deskshell/pkg/state"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "deskshell",
	Short: "Run a local web UI as a desktop app alongside its backend server",
	Long: `deskshell - A desktop shell for a local static page and its backend server.

Running deskshell without a subcommand starts the application: the backend
server is spawned, one window shows the entry document, and the backend is
terminated (SIGTERM, then SIGKILL after the grace period) when the app quits.

Settings are read from deskshell.yml in the application root, found by walking
up from the current directory, else the directory of the executable.`,
	Version: version,
	Args:    cobra.NoArgs,
	Run:     runApp,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to deskshell.yml (default: discovered)")

	// Add subcommands
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(doctorCmd)

	// Customize help template
	rootCmd.SetHelpTemplate(`{{.Long}}

Usage:
  {{.UseLine}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`)
}

func checkError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration named by --config, or the discovered one
func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	checkError(err)
	return cfg
}

// openStore opens the run state store of cfg
func openStore(cfg *config.Config) *state.Store {
	store, err := state.Open(cfg.StatePath())
	checkError(err)
	return store
}
