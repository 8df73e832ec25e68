package cli

import (
	"fmt"

	"github.com/agentfleet/fleetconsole/internal/tui"
	"github.com/spf13/cobra"
)

var ConsoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive fleet console",
	Long: `Open the interactive terminal console for browsing, filtering and
managing agent servers. Requires a running console API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireClient(); err != nil {
			return err
		}
		if err := APIClient.Ping(); err != nil {
			return fmt.Errorf("console API is not reachable at %s: %w", APIClient.BaseURL, err)
		}
		return tui.Run(APIClient)
	},
}
