// Package cli implements the fleetctl command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/agentfleet/fleetconsole/internal/client"
	"github.com/spf13/cobra"
)

var apiURL string

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Fleet Console CLI",
	Long:  `fleetctl is a CLI tool for managing agent server configurations in the fleet console.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// serve runs the API itself and never talks to a remote console
		if cmd.Name() == "serve" {
			return nil
		}
		APIClient = client.NewClient(normalizeBaseURL(apiURL))
		return nil
	},
}

// APIClient is the shared API client used by CLI commands
var APIClient *client.Client

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	envBaseURL := os.Getenv("FLEETCTL_API_BASE_URL")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", envBaseURL, "Console API base URL (overrides FLEETCTL_API_BASE_URL; default http://localhost:8080/admin/v0)")

	rootCmd.AddCommand(ServeCmd)
	rootCmd.AddCommand(ConsoleCmd)
	rootCmd.AddCommand(ListCmd)
	rootCmd.AddCommand(GetCmd)
	rootCmd.AddCommand(CreateCmd)
	rootCmd.AddCommand(UpdateCmd)
	rootCmd.AddCommand(DeleteCmd)
	rootCmd.AddCommand(StartCmd)
	rootCmd.AddCommand(StopCmd)
	rootCmd.AddCommand(PublishCmd)
	rootCmd.AddCommand(UnpublishCmd)
	rootCmd.AddCommand(SkipConfirmCmd)
	rootCmd.AddCommand(VersionCmd)
}

func Root() *cobra.Command {
	return rootCmd
}

func requireClient() error {
	if APIClient == nil {
		return fmt.Errorf("API client not initialized")
	}
	return nil
}

func normalizeBaseURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "http://" + trimmed
}
