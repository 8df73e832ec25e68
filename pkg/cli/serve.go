package cli

import (
	"github.com/agentfleet/fleetconsole/internal/console"
	"github.com/spf13/cobra"
)

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the console API server",
	Long:  `Run the fleet console API server in the foreground until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return console.App(cmd.Context())
	},
}
