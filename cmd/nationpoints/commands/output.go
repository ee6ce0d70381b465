package commands

import (
	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

type athleteJSON struct {
	Rank   int    `json:"rank"`
	Nation string `json:"nation"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type nationJSON struct {
	Nation string `json:"nation"`
	Points int    `json:"points"`
}

type eventJSON struct {
	URL         string         `json:"url,omitempty"`
	EventID     string         `json:"event_id,omitempty"`
	SourceURL   string         `json:"source_url,omitempty"`
	TotalPoints int            `json:"total_points"`
	Athletes    []athleteJSON  `json:"athletes"`
	Nations     []nationJSON   `json:"nations"`
	Skipped     map[string]int `json:"skipped,omitempty"`
	Error       string         `json:"error,omitempty"`
}

func eventToJSON(points usecase.EventPoints, pointsTable scoring.PointsTable) eventJSON {
	out := eventJSON{
		EventID:     points.EventID,
		SourceURL:   points.SourceURL,
		TotalPoints: points.TotalPoints,
		Athletes:    make([]athleteJSON, 0, len(points.Results)),
		Nations:     make([]nationJSON, 0, len(points.Nations)),
	}
	for _, row := range points.Results {
		out.Athletes = append(out.Athletes, athleteJSON{
			Rank:   row.Rank,
			Nation: row.Nation,
			Name:   row.Name,
			Points: pointsTable.Points(row.Rank),
		})
	}
	for _, item := range points.Nations {
		out.Nations = append(out.Nations, nationJSON{Nation: item.Nation, Points: item.Points})
	}
	if len(points.Skipped) > 0 {
		out.Skipped = make(map[string]int, len(points.Skipped))
		for reason, count := range points.Skipped {
			out.Skipped[string(reason)] = count
		}
	}
	return out
}
