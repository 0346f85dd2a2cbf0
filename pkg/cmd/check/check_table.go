package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orbitarch/orbitarch-service-go/pkg/config"
	"github.com/orbitarch/orbitarch-service-go/pkg/debris"
)

type tableSummary struct {
	Source      string          `json:"source"`
	Records     int             `json:"records"`
	DefaultMass int             `json:"defaultMass"`
	Entries     []debris.Record `json:"entries"`
}

func NewCheckTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "loads the debris table and prints its content",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.SetupLogger(); err != nil {
				return err
			}
			table, err := debris.Load(cmd.Context(), config.DebrisSource)
			if err != nil {
				return err
			}
			out, err := render(summarize(config.DebrisSource, table), selectExpr)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	return cmd
}

func summarize(source string, table *debris.Table) tableSummary {
	records := table.Records()
	return tableSummary{
		Source:      source,
		Records:     len(records),
		DefaultMass: debris.CountMassDefaulted(records),
		Entries:     records,
	}
}
