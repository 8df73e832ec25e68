package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var deleteYes bool

var DeleteCmd = &cobra.Command{
	Use:   "delete <server-id>",
	Short: "Delete an agent server",
	Long: `Delete an agent server configuration. Servers must be offline before
they can be deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}
	id := args[0]

	if !deleteYes {
		server, err := APIClient.GetServer(id)
		if err != nil {
			return fmt.Errorf("failed to get server: %w", err)
		}
		fmt.Printf("Delete server %q? This cannot be undone. [y/N]: ", server.Name)
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted")
			return nil
		}
	}

	if err := APIClient.DeleteServer(id, true); err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}

	printer.PrintSuccess(fmt.Sprintf("Deleted server %s", id))
	return nil
}
