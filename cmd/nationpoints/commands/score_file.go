package commands

import (
	"fmt"

	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
	"github.com/riskibarqy/nation-points/internal/usecase"
	"github.com/spf13/cobra"
)

func newScoreFileCmd(rt *cliRuntime) *cobra.Command {
	var eventID string

	cmd := &cobra.Command{
		Use:   "score-file <path|->",
		Short: "Scores a feed document read from a file or stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args[0])
			if err != nil {
				return err
			}

			points, err := rt.service.ScoreDocument(cmd.Context(), eventID, doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if rt.opts.jsonOutput {
				return writeJSON(out, eventToJSON(points, rt.service.Table()))
			}
			renderEventPoints(out, points, rt.service.Table())
			return nil
		},
	}
	cmd.Flags().StringVar(&eventID, "event-id", "", "event identifier reported with the result")
	return cmd
}

func loadDocument(cmd *cobra.Command, path string) (jsonvalue.Value, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: read %s: %v", usecase.ErrInvalidInput, path, err)
	}
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %s is not a JSON document: %v", usecase.ErrInvalidInput, path, err)
	}
	return doc, nil
}
