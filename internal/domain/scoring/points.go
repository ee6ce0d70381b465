package scoring

import (
	"errors"
	"fmt"
)

var ErrInvalidPointsTable = errors.New("invalid points table")

// PointsTable maps finishing rank to world-cup points. Ranks start at 1;
// any rank outside the table scores 0. The zero value awards nothing.
type PointsTable struct {
	// byRank[i] holds the points for rank i+1.
	byRank []int
}

// Entry is one rank/points pair of a table.
type Entry struct {
	Rank   int `json:"rank"`
	Points int `json:"points"`
}

var worldCup = mustPointsTable(
	100, 80, 60, 50, 45, 40, 36, 32, 29, 26,
	24, 22, 20, 18, 16, 15, 14, 13, 12, 11,
	10, 9, 8, 7, 6, 5, 4, 3, 2, 1,
)

// WorldCup returns the FIS world-cup table for ranks 1..30.
func WorldCup() PointsTable {
	return worldCup
}

// NewPointsTable builds a table where points[0] is awarded to rank 1.
// Values must be non-negative and strictly decreasing.
func NewPointsTable(points ...int) (PointsTable, error) {
	if len(points) == 0 {
		return PointsTable{}, fmt.Errorf("%w: at least one rank is required", ErrInvalidPointsTable)
	}
	for i, p := range points {
		if p < 0 {
			return PointsTable{}, fmt.Errorf("%w: rank %d has negative points %d", ErrInvalidPointsTable, i+1, p)
		}
		if i > 0 && p >= points[i-1] {
			return PointsTable{}, fmt.Errorf("%w: rank %d (%d) must score less than rank %d (%d)", ErrInvalidPointsTable, i+1, p, i, points[i-1])
		}
	}

	byRank := make([]int, len(points))
	copy(byRank, points)
	return PointsTable{byRank: byRank}, nil
}

func mustPointsTable(points ...int) PointsTable {
	table, err := NewPointsTable(points...)
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the points for rank and whether the rank is in the table.
func (t PointsTable) Lookup(rank int) (int, bool) {
	if rank < 1 || rank > len(t.byRank) {
		return 0, false
	}
	return t.byRank[rank-1], true
}

// Points returns the points for rank, 0 when the rank is not in the table.
func (t PointsTable) Points(rank int) int {
	points, _ := t.Lookup(rank)
	return points
}

// MaxRank is the last rank that scores.
func (t PointsTable) MaxRank() int {
	return len(t.byRank)
}

// Entries lists the table in rank order.
func (t PointsTable) Entries() []Entry {
	out := make([]Entry, 0, len(t.byRank))
	for i, p := range t.byRank {
		out = append(out, Entry{Rank: i + 1, Points: p})
	}
	return out
}
