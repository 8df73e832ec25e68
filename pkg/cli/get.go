package cli

import (
	"fmt"
	"os"

	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/agentfleet/fleetconsole/pkg/printer"
	"github.com/spf13/cobra"
)

var (
	getOutputFormat string
	getShowForm     bool
)

var GetCmd = &cobra.Command{
	Use:   "get <server-id>",
	Short: "Show details of an agent server",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	GetCmd.Flags().StringVarP(&getOutputFormat, "output", "o", "text", "Output format (text, json)")
	GetCmd.Flags().BoolVar(&getShowForm, "form", false, "Show the edit form (tool drafts decoded from the command string)")
}

func runGet(cmd *cobra.Command, args []string) error {
	if err := requireClient(); err != nil {
		return err
	}

	if getShowForm {
		return runGetForm(args[0])
	}

	server, err := APIClient.GetServer(args[0])
	if err != nil {
		return fmt.Errorf("failed to get server: %w", err)
	}

	if getOutputFormat == "json" {
		return printer.PrintJSON(os.Stdout, server)
	}

	printServerDetail(server)
	return nil
}

func runGetForm(id string) error {
	form, err := APIClient.GetEditForm(id)
	if err != nil {
		return fmt.Errorf("failed to get edit form: %w", err)
	}

	if getOutputFormat == "json" {
		return printer.PrintJSON(os.Stdout, form)
	}

	fmt.Printf("Name:          %s\n", form.Server.Name)
	fmt.Printf("Decode source: %s\n", form.DecodeSource)
	if len(form.Tools) == 0 {
		fmt.Println("\nNo tool drafts recovered")
		return nil
	}
	fmt.Println("\nTool drafts:")
	for _, d := range form.Tools {
		fmt.Printf("  %s\n", d.Name)
		fmt.Printf("    index:   %s\n", d.IndexName)
		fmt.Printf("    backend: %s\n", d.Backend)
		if d.EnableFilter {
			fmt.Println("    filter parameter enabled")
		}
		if d.EnableTopK {
			fmt.Println("    top_k parameter enabled")
		}
	}
	return nil
}

func printServerDetail(s *models.ServerRecord) {
	fmt.Printf("Name:        %s\n", s.Name)
	fmt.Printf("ID:          %s\n", s.ID)
	fmt.Printf("Kind:        %s\n", s.Kind)
	fmt.Printf("Status:      %s\n", printer.FormatRunStatus(s.RunStatus))
	fmt.Printf("Visibility:  %s\n", printer.FormatVisibility(s))
	fmt.Printf("Agents:      %s\n", printer.FormatAgents(s))
	fmt.Printf("Transport:   %s\n", s.Transport)
	fmt.Printf("Endpoint:    %s\n", s.Endpoint)
	fmt.Printf("Created by:  %s\n", s.CreatedBy)
	fmt.Printf("Modified:    %s\n", s.LastModified.Format("2006-01-02 15:04:05"))
	if s.Command != "" {
		fmt.Printf("Command:     %s\n", s.Command)
	}

	if len(s.Tools) > 0 {
		fmt.Println("\nTools:")
		for _, tool := range s.Tools {
			fmt.Printf("  %s\n", tool.Name)
			if tool.Description != "" {
				fmt.Printf("    %s\n", tool.Description)
			}
			for _, arg := range tool.Args {
				fmt.Printf("    - %s (%s)\n", arg.Name, arg.Type)
			}
		}
	}

	if len(s.SourceFiles) > 0 {
		fmt.Println("\nSource files:")
		for _, f := range s.SourceFiles {
			fmt.Printf("  %s\n", f.Path)
		}
	}

	if len(s.Headers) > 0 {
		fmt.Println("\nHeaders:")
		for k, v := range s.Headers {
			fmt.Printf("  %s: %s\n", k, printer.TruncateString(v, 40))
		}
	}
}
