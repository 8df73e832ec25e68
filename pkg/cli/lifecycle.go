package cli

import (
	"fmt"

	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var StartCmd = &cobra.Command{
	Use:   "start <server-id>",
	Short: "Start an offline agent server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleRunStatus(args[0], models.RunStatusOffline, "Starting")
	},
}

var StopCmd = &cobra.Command{
	Use:   "stop <server-id>",
	Short: "Stop an online agent server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleRunStatus(args[0], models.RunStatusOnline, "Stopping")
	},
}

var PublishCmd = &cobra.Command{
	Use:   "publish <server-id>",
	Short: "Make an agent server publicly visible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleVisibility(args[0], false, "Publishing")
	},
}

var UnpublishCmd = &cobra.Command{
	Use:   "unpublish <server-id>",
	Short: "Make an agent server private",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleVisibility(args[0], true, "Unpublishing")
	},
}

func toggleRunStatus(id string, expected models.RunStatus, verb string) error {
	if err := requireClient(); err != nil {
		return err
	}

	server, err := APIClient.GetServer(id)
	if err != nil {
		return fmt.Errorf("failed to get server: %w", err)
	}
	if server.RunStatus != expected {
		return fmt.Errorf("server %q is %s, expected %s", server.Name, server.RunStatus, expected)
	}

	updated, err := APIClient.ToggleRunStatus(id)
	if err != nil {
		return fmt.Errorf("failed to toggle run status: %w", err)
	}

	printer.PrintSuccess(fmt.Sprintf("%s server %q (now %s)", verb, updated.Name, printer.FormatRunStatus(updated.RunStatus)))
	return nil
}

func toggleVisibility(id string, expectedPublic bool, verb string) error {
	if err := requireClient(); err != nil {
		return err
	}

	server, err := APIClient.GetServer(id)
	if err != nil {
		return fmt.Errorf("failed to get server: %w", err)
	}
	if server.VisibilityStatus != models.VisibilityIdle {
		return fmt.Errorf("server %q has a visibility change in progress", server.Name)
	}
	if server.IsPublic != expectedPublic {
		return fmt.Errorf("server %q is already %s", server.Name, server.VisibilityWord())
	}

	updated, err := APIClient.ToggleVisibility(id)
	if err != nil {
		return fmt.Errorf("failed to toggle visibility: %w", err)
	}

	printer.PrintSuccess(fmt.Sprintf("%s server %q", verb, updated.Name))
	return nil
}
