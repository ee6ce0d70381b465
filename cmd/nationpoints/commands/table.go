package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTableCmd(rt *cliRuntime) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Prints the world-cup points table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := rt.service.Table().Entries()

			out := cmd.OutOrStdout()
			if rt.opts.jsonOutput {
				return writeJSON(out, entries)
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"Rank", "Points"})
			for _, entry := range entries {
				t.AppendRow(table.Row{entry.Rank, entry.Points})
			}
			t.Render()
			return nil
		},
	}
}
