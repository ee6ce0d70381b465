package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
	"github.com/spf13/cobra"
)

func newDiscoverCmd(rt *cliRuntime) *cobra.Command {
	return &cobra.Command{
		Use:   "discover <path|->",
		Short: "Lists every result-like object found in a feed document.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}

			items := rt.service.Discover(cmd.Context(), doc)
			if items == nil {
				items = []jsonvalue.Object{}
			}

			out := cmd.OutOrStdout()
			if rt.opts.jsonOutput {
				return writeJSON(out, items)
			}

			t := newTable(out)
			t.AppendHeader(table.Row{"#", "Object"})
			for i, item := range items {
				raw, err := item.MarshalJSON()
				if err != nil {
					return err
				}
				t.AppendRow(table.Row{i + 1, string(raw)})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d objects", len(items))})
			t.Render()
			return nil
		},
	}
}
