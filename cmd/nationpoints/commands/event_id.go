package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEventIDCmd(rt *cliRuntime) *cobra.Command {
	return &cobra.Command{
		Use:   "event-id <event-url>",
		Short: "Prints the event identifier and feed URL for a results page URL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := rt.service.ResolveEventID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			sourceURL, err := rt.service.SourceURL(eventID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rt.opts.jsonOutput {
				return writeJSON(out, map[string]string{"event_id": eventID, "source_url": sourceURL})
			}
			fmt.Fprintf(out, "%s\t%s\n", eventID, sourceURL)
			return nil
		},
	}
}
