package models

// RawRow is one row of a stat table exactly as extracted: an ordered
// sequence of text cells positionally aligned to one of the column schemas
// below. Both extraction strategies produce this shape.
type RawRow []string

// StatKind identifies which leaderboard a row belongs to.
type StatKind string

const (
	KindBatting StatKind = "batting"
	KindBowling StatKind = "bowling"
)

// Column schemas for the two leaderboards. CSV artifacts carry these as
// their header row and the normalizer binds cells by position.
var (
	BattingColumns = []string{
		"Rank", "Player", "Matches", "Innings", "Average", "Strike Rate",
		"Highest Score", "4s", "6s", "50s", "100s", "Runs",
	}
	BowlingColumns = []string{
		"Rank", "Player", "Matches", "Innings", "Wickets", "Average",
		"Bowling_Figure", "Economy", "Strike_Rate", "Runs",
	}
)

// Columns returns the column schema for a stat kind.
func (k StatKind) Columns() []string {
	if k == KindBowling {
		return BowlingColumns
	}
	return BattingColumns
}

// Source describes one stat page to extract from.
type Source struct {
	Format string // human-entered format token, e.g. "test", "ODI"
	URL    string
}

// BattingStats is the non-key field set of a batting record.
type BattingStats struct {
	Rank         int
	Matches      int
	Innings      int
	Runs         int
	Average      float64
	StrikeRate   float64
	HighestScore int
	Fours        int
	Sixes        int
	Fifties      int
	Hundreds     int
}

// BowlingStats is the non-key field set of a bowling record.
type BowlingStats struct {
	Rank          int
	Matches       int
	Innings       int
	Wickets       int
	Average       float64
	Economy       float64
	StrikeRate    float64
	BowlingFigure float64
	Runs          int
}
