package httpapi

import (
	"context"

	"github.com/riskibarqy/nation-points/internal/domain/raceresult"
	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

type healthDTO struct {
	Status      string `json:"status"`
	FeedCircuit string `json:"feed_circuit"`
}

type resolveEventRequest struct {
	URL string `json:"url" validate:"required"`
}

type resolvedEventDTO struct {
	EventID   string `json:"event_id"`
	SourceURL string `json:"source_url"`
}

type batchScoreRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required"`
}

type aggregateRowRequest struct {
	Rank   int    `json:"rank" validate:"required"`
	Nation string `json:"nation" validate:"required"`
	Name   string `json:"name"`
}

type aggregateRequest struct {
	Rows []aggregateRowRequest `json:"rows" validate:"required,min=1,dive"`
}

type resultRowDTO struct {
	Rank   int    `json:"rank"`
	Nation string `json:"nation"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type nationTotalDTO struct {
	Nation string `json:"nation"`
	Points int    `json:"points"`
}

type chartBarDTO struct {
	Nation string `json:"nation"`
	Points int    `json:"points"`
	Label  string `json:"label"`
}

type eventPointsDTO struct {
	EventID     string           `json:"event_id,omitempty"`
	SourceURL   string           `json:"source_url,omitempty"`
	TotalPoints int              `json:"total_points"`
	Results     []resultRowDTO   `json:"results"`
	Nations     []nationTotalDTO `json:"nations"`
	Chart       []chartBarDTO    `json:"chart"`
	Skipped     map[string]int   `json:"skipped"`
}

type aggregateDTO struct {
	TotalPoints int              `json:"total_points"`
	Nations     []nationTotalDTO `json:"nations"`
	Chart       []chartBarDTO    `json:"chart"`
}

type batchItemDTO struct {
	URL        string           `json:"url"`
	DurationMs int64            `json:"duration_ms"`
	Data       *eventPointsDTO  `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type batchDTO struct {
	Count     int            `json:"count"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Items     []batchItemDTO `json:"items"`
}

type discoverDTO struct {
	Count int                `json:"count"`
	Items []jsonvalue.Object `json:"items"`
}

type pointsTableDTO struct {
	MaxRank int             `json:"max_rank"`
	Entries []scoring.Entry `json:"entries"`
}

func eventPointsToDTO(ctx context.Context, points usecase.EventPoints, table scoring.PointsTable) eventPointsDTO {
	_, span := startSpan(ctx, "httpapi.eventPointsToDTO")
	defer span.End()

	results := make([]resultRowDTO, 0, len(points.Results))
	for _, row := range points.Results {
		results = append(results, resultRowDTO{
			Rank:   row.Rank,
			Nation: row.Nation,
			Name:   row.Name,
			Points: table.Points(row.Rank),
		})
	}

	skipped := make(map[string]int, len(points.Skipped))
	for reason, count := range points.Skipped {
		skipped[string(reason)] = count
	}

	return eventPointsDTO{
		EventID:     points.EventID,
		SourceURL:   points.SourceURL,
		TotalPoints: points.TotalPoints,
		Results:     results,
		Nations:     nationsToDTO(points.Nations),
		Chart:       chartToDTO(usecase.ChartBars(points.Nations)),
		Skipped:     skipped,
	}
}

func nationsToDTO(nations []scoring.NationTotal) []nationTotalDTO {
	out := make([]nationTotalDTO, 0, len(nations))
	for _, item := range nations {
		out = append(out, nationTotalDTO{Nation: item.Nation, Points: item.Points})
	}
	return out
}

func chartToDTO(bars []usecase.ChartBar) []chartBarDTO {
	out := make([]chartBarDTO, 0, len(bars))
	for _, bar := range bars {
		out = append(out, chartBarDTO{Nation: bar.Nation, Points: bar.Points, Label: bar.Label})
	}
	return out
}

func aggregateRowsFromRequest(req aggregateRequest) []raceresult.Row {
	rows := make([]raceresult.Row, 0, len(req.Rows))
	for _, item := range req.Rows {
		rows = append(rows, raceresult.Row{Rank: item.Rank, Nation: item.Nation, Name: item.Name})
	}
	return rows
}

func batchToDTO(ctx context.Context, items []usecase.BatchItem, table scoring.PointsTable) batchDTO {
	out := batchDTO{Count: len(items), Items: make([]batchItemDTO, 0, len(items))}
	for _, item := range items {
		dto := batchItemDTO{URL: item.URL, DurationMs: item.DurationMs}
		if item.Err != nil {
			dto.Error = errorBody(mapError(ctx, item.Err), item.Err)
			out.Failed++
		} else {
			points := eventPointsToDTO(ctx, item.Points, table)
			dto.Data = &points
			out.Succeeded++
		}
		out.Items = append(out.Items, dto)
	}
	return out
}

func pointsTableToDTO(table scoring.PointsTable) pointsTableDTO {
	return pointsTableDTO{MaxRank: table.MaxRank(), Entries: table.Entries()}
}
