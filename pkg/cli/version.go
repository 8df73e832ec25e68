package cli

import (
	"fmt"

	"github.com/agentfleet/fleetconsole/internal/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print client and server version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Client version: %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildDate)

		if err := requireClient(); err != nil {
			return err
		}
		serverVersion, err := APIClient.Version()
		if err != nil {
			fmt.Println("Server version: unavailable")
			return nil
		}
		fmt.Printf("Server version: %s (commit %s, built %s)\n", serverVersion.Version, serverVersion.GitCommit, serverVersion.BuildTime)
		return nil
	},
}
