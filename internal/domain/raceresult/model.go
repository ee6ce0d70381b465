package raceresult

const (
	MinScoringRank = 1
	MaxScoringRank = 30
)

// Feed field names of one athlete entry inside the "Results" list.
const (
	FieldResults     = "Results"
	FieldRank        = "RankingFinal"
	FieldNation      = "NationCC3"
	FieldDisplayName = "DisplayName"
	FieldFirstName   = "FirstName"
	FieldLastName    = "LastName"
)

// Row is one athlete that finished inside the scoring window.
type Row struct {
	Rank   int
	Nation string
	Name   string
}

// InScoringWindow reports whether rank can earn points.
func InScoringWindow(rank int) bool {
	return rank >= MinScoringRank && rank <= MaxScoringRank
}

// SkipReason explains why an entry produced no row.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipNotObject      SkipReason = "not_object"
	SkipMissingRank    SkipReason = "missing_rank"
	SkipUnparsableRank SkipReason = "unparsable_rank"
	SkipOutsideWindow  SkipReason = "outside_window"
	SkipMissingNation  SkipReason = "missing_nation"
)

// Extraction is the outcome of converting one feed entry: either a Row or
// the reason the entry was dropped.
type Extraction struct {
	Row    Row
	Reason SkipReason
}

func (e Extraction) OK() bool { return e.Reason == SkipNone }

func skipped(reason SkipReason) Extraction {
	return Extraction{Reason: reason}
}
