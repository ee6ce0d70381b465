package raceresult

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
)

// Summary counts what happened to the entries of one document.
type Summary struct {
	Entries int
	Kept    int
	Skipped map[SkipReason]int
}

// Normalize turns the feed's "Results" list into rows ordered by rank.
// Entries without a usable rank inside the scoring window or without a
// nation are dropped. A document without a "Results" list yields no rows.
func Normalize(doc jsonvalue.Value) []Row {
	rows, _ := NormalizeWithSummary(doc)
	return rows
}

// NormalizeWithSummary is Normalize plus per-reason skip counts.
func NormalizeWithSummary(doc jsonvalue.Value) ([]Row, Summary) {
	summary := Summary{Skipped: make(map[SkipReason]int)}

	entries := resultEntries(doc)
	rows := make([]Row, 0, len(entries))
	for _, entry := range entries {
		summary.Entries++
		extracted := ExtractRow(entry)
		if !extracted.OK() {
			summary.Skipped[extracted.Reason]++
			continue
		}
		rows = append(rows, extracted.Row)
	}
	summary.Kept = len(rows)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	return rows, summary
}

func resultEntries(doc jsonvalue.Value) []jsonvalue.Value {
	raw, ok := doc.Get(FieldResults)
	if !ok {
		return nil
	}
	entries, ok := raw.AsArray()
	if !ok {
		return nil
	}
	return entries
}

// ExtractRow converts one athlete entry. It never fails; an entry that
// cannot become a row comes back with the reason it was skipped.
func ExtractRow(entry jsonvalue.Value) Extraction {
	item, ok := entry.AsObject()
	if !ok {
		return skipped(SkipNotObject)
	}

	rawRank, ok := item.Get(FieldRank)
	if !ok || rawRank.IsNull() {
		return skipped(SkipMissingRank)
	}
	rank, ok := parseRank(rawRank)
	if !ok {
		return skipped(SkipUnparsableRank)
	}
	if rank < MinScoringRank || rank > MaxScoringRank {
		return skipped(SkipOutsideWindow)
	}

	nation := getString(item, FieldNation)
	if nation == "" {
		return skipped(SkipMissingNation)
	}

	return Extraction{
		Row: Row{
			Rank:   int(rank),
			Nation: nation,
			Name:   displayName(item),
		},
	}
}

func displayName(item jsonvalue.Object) string {
	if name := getString(item, FieldDisplayName); name != "" {
		return name
	}
	return strings.TrimSpace(getString(item, FieldFirstName) + " " + getString(item, FieldLastName))
}

// parseRank accepts integral numbers, fractional numbers truncated toward
// zero, and strings holding an optionally signed decimal integer.
// Booleans are rejected rather than read as 0 or 1, so a stray true never
// scores as a race win.
func parseRank(v jsonvalue.Value) (int64, bool) {
	switch v.Kind() {
	case jsonvalue.KindNumber:
		literal, _ := v.AsNumber()
		if n, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		f = math.Trunc(f)
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int64(f), true
	case jsonvalue.KindString:
		text, _ := v.AsString()
		text = strings.TrimSpace(text)
		digits := strings.TrimLeft(text, "+-")
		if len(text)-len(digits) > 1 || digits == "" || strings.TrimLeft(digits, "0123456789") != "" {
			return 0, false
		}
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// getString returns the string value of key, or "" when the member is
// missing or not a string. The value is not trimmed.
func getString(item jsonvalue.Object, key string) string {
	raw, ok := item.Get(key)
	if !ok {
		return ""
	}
	value, ok := raw.AsString()
	if !ok {
		return ""
	}
	return value
}
