package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	modulePath = "github.com/mesh-intelligence/rollcall"

	// Version is bumped on tagged releases.
	Version = "0.1.0"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rollcalld version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "rollcalld v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
