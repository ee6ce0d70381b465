package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPointsCmd(rt *cliRuntime) *cobra.Command {
	return &cobra.Command{
		Use:   "points <event-url>...",
		Short: "Fetches each event and prints athlete points, nation totals and a chart.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := rt.service.ScoreBatch(cmd.Context(), args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stderr := cmd.ErrOrStderr()
			failed := 0

			if rt.opts.jsonOutput {
				events := make([]eventJSON, 0, len(items))
				for _, item := range items {
					entry := eventJSON{URL: item.URL}
					if item.Err != nil {
						failed++
						entry.Error = describeError(item.Err)
					} else {
						entry = eventToJSON(item.Points, rt.service.Table())
						entry.URL = item.URL
					}
					events = append(events, entry)
				}
				if err := writeJSON(out, events); err != nil {
					return err
				}
			} else {
				for i, item := range items {
					if item.Err != nil {
						failed++
						fmt.Fprintf(stderr, "%s: %s\n", item.URL, describeError(item.Err))
						continue
					}
					if i > 0 {
						fmt.Fprintln(out)
					}
					renderEventPoints(out, item.Points, rt.service.Table())
				}
			}

			if failed == 0 {
				return nil
			}
			if len(items) > 1 {
				fmt.Fprintf(stderr, "%d of %d events failed\n", failed, len(items))
			}
			return errReported
		},
	}
}
