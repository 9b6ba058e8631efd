package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// addOutputFlag registers the -o/--output flag shared by read commands.
func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", "", "output format (json, yaml); table when empty")
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

// checkOutputFormat rejects an unknown -o value before any request is made.
func checkOutputFormat(output string) error {
	switch output {
	case "", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

// printOutput renders v as JSON or YAML, or calls renderTable for the default format.
func printOutput(cmd *cobra.Command, output string, v any, renderTable func() table.Writer) error {
	switch output {
	case "":
		cmd.Printf("%s\n", renderTable().Render())
	case "json":
		jsonOutput, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Print(string(yamlOutput))
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
	return nil
}
