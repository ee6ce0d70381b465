package usecase

import (
	"strconv"

	"github.com/riskibarqy/nation-points/internal/domain/scoring"
)

// ChartBar is one bar of the nations chart: nation on the category axis,
// points on the value axis, the points printed as the bar label.
type ChartBar struct {
	Nation string
	Points int
	Label  string
}

// ChartBars keeps the order of nations, which is already points-descending.
func ChartBars(nations []scoring.NationTotal) []ChartBar {
	bars := make([]ChartBar, 0, len(nations))
	for _, item := range nations {
		bars = append(bars, ChartBar{
			Nation: item.Nation,
			Points: item.Points,
			Label:  strconv.Itoa(item.Points),
		})
	}
	return bars
}
