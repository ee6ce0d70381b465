package raceresult

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/nation-points/internal/platform/jsonvalue"
)

func mustParse(t *testing.T, doc string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return v
}

func TestNormalize_DropsEntriesOutsideWindow(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"Results": [
		{"RankingFinal": "1", "NationCC3": "AUT", "DisplayName": "A"},
		{"RankingFinal": "2", "NationCC3": "AUT", "DisplayName": "B"},
		{"RankingFinal": "31", "NationCC3": "SUI"}
	]}`)

	got := Normalize(doc)
	want := []Row{
		{Rank: 1, Nation: "AUT", Name: "A"},
		{Rank: 2, Nation: "AUT", Name: "B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestNormalize_SkipsNonNumericRank(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"Results": [
		{"RankingFinal": "DNF", "NationCC3": "NOR", "DisplayName": "Out"},
		{"RankingFinal": "3", "NationCC3": "ITA", "DisplayName": "In"}
	]}`)

	rows, summary := NormalizeWithSummary(doc)
	if len(rows) != 1 || rows[0].Nation != "ITA" {
		t.Fatalf("expected only the ITA row, got %+v", rows)
	}
	if summary.Skipped[SkipUnparsableRank] != 1 {
		t.Fatalf("expected one unparsable rank, got %+v", summary.Skipped)
	}
	if summary.Entries != 2 || summary.Kept != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestNormalize_SynthesizesNameFromParts(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"Results": [
		{"RankingFinal": 4, "NationCC3": "USA", "FirstName": "Jane", "LastName": "Doe"},
		{"RankingFinal": 5, "NationCC3": "USA", "DisplayName": "", "LastName": "Solo"},
		{"RankingFinal": 6, "NationCC3": "USA"}
	]}`)

	got := Normalize(doc)
	names := []string{got[0].Name, got[1].Name, got[2].Name}
	want := []string{"Jane Doe", "Solo", ""}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("unexpected names (-want +got):\n%s", diff)
	}
}

func TestNormalize_EmptyOrMissingResults(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"missing key":       `{"Event": {"Name": "Soelden"}}`,
		"empty list":        `{"Results": []}`,
		"results not list":  `{"Results": {"RankingFinal": "1", "NationCC3": "AUT"}}`,
		"document is array": `[{"RankingFinal": "1", "NationCC3": "AUT"}]`,
		"null document":     `null`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			got := Normalize(mustParse(t, doc))
			if got == nil {
				t.Fatalf("expected empty non-nil slice")
			}
			if len(got) != 0 {
				t.Fatalf("expected no rows, got %+v", got)
			}
		})
	}
}

func TestNormalize_SortsByRankKeepingTieOrder(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, `{"Results": [
		{"RankingFinal": "3", "NationCC3": "FRA", "DisplayName": "C"},
		{"RankingFinal": "1", "NationCC3": "SUI", "DisplayName": "A"},
		{"RankingFinal": "3", "NationCC3": "AUT", "DisplayName": "C2"},
		{"RankingFinal": "2", "NationCC3": "NOR", "DisplayName": "B"},
		{"RankingFinal": "1", "NationCC3": "SUI", "DisplayName": "A"}
	]}`)

	got := Normalize(doc)
	want := []Row{
		{Rank: 1, Nation: "SUI", Name: "A"},
		{Rank: 1, Nation: "SUI", Name: "A"},
		{Rank: 2, Nation: "NOR", Name: "B"},
		{Rank: 3, Nation: "FRA", Name: "C"},
		{Rank: 3, Nation: "AUT", Name: "C2"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Rank < got[j].Rank }) {
		t.Fatalf("rows are not sorted by rank")
	}
}

func TestExtractRow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		entry  string
		reason SkipReason
		rank   int
	}{
		{name: "string rank", entry: `{"RankingFinal": "7", "NationCC3": "AUT"}`, rank: 7},
		{name: "numeric rank", entry: `{"RankingFinal": 12, "NationCC3": "AUT"}`, rank: 12},
		{name: "padded string rank", entry: `{"RankingFinal": " 9 ", "NationCC3": "AUT"}`, rank: 9},
		{name: "signed string rank", entry: `{"RankingFinal": "+2", "NationCC3": "AUT"}`, rank: 2},
		{name: "fractional number truncates", entry: `{"RankingFinal": 5.9, "NationCC3": "AUT"}`, rank: 5},
		{name: "boundary 30", entry: `{"RankingFinal": "30", "NationCC3": "AUT"}`, rank: 30},
		{name: "missing rank", entry: `{"NationCC3": "AUT"}`, reason: SkipMissingRank},
		{name: "null rank", entry: `{"RankingFinal": null, "NationCC3": "AUT"}`, reason: SkipMissingRank},
		{name: "dnf", entry: `{"RankingFinal": "DNF", "NationCC3": "AUT"}`, reason: SkipUnparsableRank},
		{name: "decimal string", entry: `{"RankingFinal": "1.0", "NationCC3": "AUT"}`, reason: SkipUnparsableRank},
		{name: "empty string rank", entry: `{"RankingFinal": "", "NationCC3": "AUT"}`, reason: SkipUnparsableRank},
		{name: "bool rank", entry: `{"RankingFinal": true, "NationCC3": "AUT"}`, reason: SkipUnparsableRank},
		{name: "rank zero", entry: `{"RankingFinal": "0", "NationCC3": "AUT"}`, reason: SkipOutsideWindow},
		{name: "negative rank", entry: `{"RankingFinal": -1, "NationCC3": "AUT"}`, reason: SkipOutsideWindow},
		{name: "rank 31", entry: `{"RankingFinal": 31, "NationCC3": "AUT"}`, reason: SkipOutsideWindow},
		{name: "empty nation", entry: `{"RankingFinal": "1", "NationCC3": ""}`, reason: SkipMissingNation},
		{name: "missing nation", entry: `{"RankingFinal": "1"}`, reason: SkipMissingNation},
		{name: "numeric nation", entry: `{"RankingFinal": "1", "NationCC3": 40}`, reason: SkipMissingNation},
		{name: "entry not object", entry: `"AUT"`, reason: SkipNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractRow(mustParse(t, tt.entry))
			if got.Reason != tt.reason {
				t.Fatalf("reason=%q want=%q", got.Reason, tt.reason)
			}
			if tt.reason == SkipNone && got.Row.Rank != tt.rank {
				t.Fatalf("rank=%d want=%d", got.Row.Rank, tt.rank)
			}
			if tt.reason != SkipNone && got.Row != (Row{}) {
				t.Fatalf("skipped entry carried a row: %+v", got.Row)
			}
		})
	}
}

func TestExtractRow_NationIsKeptVerbatim(t *testing.T) {
	t.Parallel()

	got := ExtractRow(mustParse(t, `{"RankingFinal": "1", "NationCC3": "aut"}`))
	if !got.OK() || got.Row.Nation != "aut" {
		t.Fatalf("expected nation to be kept as-is, got %+v", got)
	}
}
