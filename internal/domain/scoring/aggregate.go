package scoring

import (
	"sort"

	"github.com/riskibarqy/nation-points/internal/domain/raceresult"
)

// NationTotal is the summed points of one nation in one race.
type NationTotal struct {
	Nation string
	Points int
}

// Aggregate sums table points per nation. Nations are compared by exact
// string equality. The result is ordered by points descending; nations
// with equal points keep the order in which they first appear in rows.
func Aggregate(rows []raceresult.Row, table PointsTable) []NationTotal {
	out := make([]NationTotal, 0, 16)
	indexByNation := make(map[string]int, 16)

	for _, row := range rows {
		idx, ok := indexByNation[row.Nation]
		if !ok {
			idx = len(out)
			indexByNation[row.Nation] = idx
			out = append(out, NationTotal{Nation: row.Nation})
		}
		out[idx].Points += table.Points(row.Rank)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// Total is the sum of points over all nations.
func Total(totals []NationTotal) int {
	sum := 0
	for _, item := range totals {
		sum += item.Points
	}
	return sum
}
