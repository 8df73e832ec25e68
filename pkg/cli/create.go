package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var (
	createFile      string
	createName      string
	createEndpoint  string
	createTransport string
	createMaxAgents int
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an agent server",
	Long: `Create an agent server configuration.

Managed servers with tool definitions are created from a JSON draft file
(--file). Remote servers can be created directly from flags.`,
	RunE: runCreate,
}

func init() {
	CreateCmd.Flags().StringVarP(&createFile, "file", "f", "", "Path to a JSON server draft")
	CreateCmd.Flags().StringVar(&createName, "name", "", "Server name (remote servers)")
	CreateCmd.Flags().StringVar(&createEndpoint, "endpoint", "", "Server endpoint URL (remote servers)")
	CreateCmd.Flags().StringVar(&createTransport, "transport", string(models.TransportStreamableHTTP), "Transport (sse, streamable-http)")
	CreateCmd.Flags().IntVar(&createMaxAgents, "max-agents", 10, "Maximum concurrent agents")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	draft, err := loadDraft()
	if err != nil {
		return err
	}

	server, err := APIClient.CreateServer(draft)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	printer.PrintSuccess(fmt.Sprintf("Created server %q (%s)", server.Name, server.ID))
	return nil
}

func loadDraft() (*models.ServerDraft, error) {
	if createFile != "" {
		data, err := os.ReadFile(createFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read draft file: %w", err)
		}
		var draft models.ServerDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return nil, fmt.Errorf("invalid draft file: %w", err)
		}
		return &draft, nil
	}

	if createName == "" {
		return nil, fmt.Errorf("either --file or --name is required")
	}
	return &models.ServerDraft{
		Name:      createName,
		Kind:      models.ServerKindRemote,
		Transport: models.Transport(createTransport),
		Endpoint:  createEndpoint,
		MaxAgents: createMaxAgents,
	}, nil
}
