package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var updateFile string

var UpdateCmd = &cobra.Command{
	Use:   "update <server-id>",
	Short: "Update an agent server from a JSON draft",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func init() {
	UpdateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "Path to a JSON server draft (required)")
	_ = UpdateCmd.MarkFlagRequired("file")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	data, err := os.ReadFile(updateFile)
	if err != nil {
		return fmt.Errorf("failed to read draft file: %w", err)
	}
	var draft models.ServerDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return fmt.Errorf("invalid draft file: %w", err)
	}

	server, err := APIClient.UpdateServer(args[0], &draft)
	if err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}

	printer.PrintSuccess(fmt.Sprintf("Updated server %q", server.Name))
	return nil
}
