// Package cli implements the rollcalld command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rollcall/internal/logging"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	exportDir string
	logLevel  string
	logJSON   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "rollcalld" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rollcalld",
		Short: "Attendance kiosk backend with date-partitioned storage",
		Long: "Rollcalld keeps one JSON partition per calendar day of member\n" +
			"registrations and serves them over HTTP, with spreadsheet exports\n" +
			"of any recorded day.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A local .env can carry ROLLCALL_* overrides; absence is fine.
			_ = godotenv.Load()
			logging.Init(logging.ParseLevel(flags.logLevel), flags.logJSON)
		},
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .rollcall)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "partition directory (default: ./data)")
	root.PersistentFlags().StringVar(&flags.exportDir, "export-dir", "", "spreadsheet output directory (default: ./exports)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log in JSON format")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitUserError)
	}
}

// exitError prints the error to stderr and exits with the given code.
func exitError(cmd *cobra.Command, code int, msg string) error {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(code)
	return nil // unreachable
}
