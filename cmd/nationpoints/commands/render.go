package commands

import (
	"fmt"
	"io"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/riskibarqy/nation-points/internal/domain/scoring"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

const chartWidth = 40

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderEventPoints(w io.Writer, points usecase.EventPoints, pointsTable scoring.PointsTable) {
	title := "Event " + points.EventID
	if points.EventID == "" {
		title = "Document"
	}
	fmt.Fprintf(w, "%s\n", title)
	if points.SourceURL != "" {
		fmt.Fprintf(w, "Source: %s\n", points.SourceURL)
	}

	athletes := newTable(w)
	athletes.SetTitle("Athletes")
	athletes.AppendHeader(table.Row{"Rank", "Nation", "Name", "Points"})
	for _, row := range points.Results {
		athletes.AppendRow(table.Row{row.Rank, row.Nation, row.Name, pointsTable.Points(row.Rank)})
	}
	athletes.Render()

	renderNations(w, points.Nations)
	renderChart(w, usecase.ChartBars(points.Nations))

	if skipped := skippedTotal(points); skipped > 0 {
		fmt.Fprintf(w, "Skipped entries: %d\n", skipped)
	}
}

func renderNations(w io.Writer, nations []scoring.NationTotal) {
	t := newTable(w)
	t.SetTitle("Nations")
	t.AppendHeader(table.Row{"#", "Nation", "Points"})
	for i, item := range nations {
		t.AppendRow(table.Row{i + 1, item.Nation, item.Points})
	}
	t.AppendFooter(table.Row{"", "Total", scoring.Total(nations)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	t.Render()
}

// renderChart draws horizontal bars scaled to the leading nation.
func renderChart(w io.Writer, bars []usecase.ChartBar) {
	if len(bars) == 0 {
		return
	}
	top := bars[0].Points

	t := newTable(w)
	t.SetTitle("Points by nation")
	t.SetStyle(table.StyleLight)
	for _, bar := range bars {
		t.AppendRow(table.Row{bar.Nation, barOf(bar.Points, top), bar.Label})
	}
	t.Render()
}

func barOf(points, top int) string {
	if top <= 0 || points <= 0 {
		return ""
	}
	n := points * chartWidth / top
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

func skippedTotal(points usecase.EventPoints) int {
	total := 0
	for _, count := range points.Skipped {
		total += count
	}
	return total
}
