package cli

import (
	"fmt"

	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var skipConfirmHours int

var SkipConfirmCmd = &cobra.Command{
	Use:   "skip-confirm",
	Short: "Suppress delete confirmation prompts for a while",
	Long: `Suppress the server-side delete confirmation requirement for the given
number of hours. The console UI and API honor the same window.`,
	RunE: runSkipConfirm,
}

func init() {
	SkipConfirmCmd.Flags().IntVar(&skipConfirmHours, "hours", 1, "How long to suppress confirmations")
}

func runSkipConfirm(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	if err := APIClient.SkipConfirmation(skipConfirmHours); err != nil {
		return fmt.Errorf("failed to set confirmation skip: %w", err)
	}

	printer.PrintSuccess(fmt.Sprintf("Delete confirmations suppressed for %dh", skipConfirmHours))
	return nil
}
