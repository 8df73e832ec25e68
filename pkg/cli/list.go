package cli

import (
	"fmt"
	"os"

	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var (
	listStatus   string
	listSearch   string
	listPage     int
	outputFormat string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agent servers",
	Long:  `List agent server configurations, optionally filtered by status or a search term.`,
	RunE:  runList,
}

func init() {
	ListCmd.Flags().StringVarP(&listStatus, "status", "s", "All", "Filter by run status (All, Online, Offline, Starting, Stopping)")
	ListCmd.Flags().StringVar(&listSearch, "search", "", "Search term matched against name, command, endpoint and more")
	ListCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page number (1-indexed)")
	ListCmd.Flags().StringVarP(&outputFormat, "output", "o", string(printer.OutputTypeTable), "Output format (table, json)")
}

func runList(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	result, err := APIClient.ListServers(listStatus, listSearch, listPage)
	if err != nil {
		return fmt.Errorf("failed to list servers: %w", err)
	}

	if printer.OutputType(outputFormat) == printer.OutputTypeJSON {
		return printer.PrintJSON(os.Stdout, result)
	}

	if len(result.Servers) == 0 {
		fmt.Println("No servers found")
		return nil
	}

	t := printer.NewTablePrinter(os.Stdout)
	t.SetHeaders("Name", "Kind", "Status", "Visibility", "Agents", "Transport", "Modified")
	for i := range result.Servers {
		s := &result.Servers[i]
		t.AddRow(
			printer.TruncateString(s.Name, 40),
			s.Kind,
			printer.FormatRunStatus(s.RunStatus),
			printer.FormatVisibility(s),
			printer.FormatAgents(s),
			s.Transport,
			printer.FormatAge(s.LastModified),
		)
	}
	if err := t.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	fmt.Printf("\nPage %d of %d (%d servers)\n", result.Metadata.Page, result.Metadata.TotalPages, result.Metadata.TotalCount)
	return nil
}
