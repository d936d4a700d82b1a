package commands

import (
	"encoding/json"
	"fmt"

	"sprint-kpis/internal/stats"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the report produced by 'report --format json'",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := jsonschema.For[stats.Report](nil)
		if err != nil {
			return fmt.Errorf("failed to infer report schema: %w", err)
		}
		s.Title = "Sprint KPI report"

		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
