// Package normalize coerces raw leaderboard cells into typed records.
//
// Cell-level problems never fail a row: unparseable or absent values fall
// back to a documented default. Only an invalid player name rejects the
// whole row, and callers count that separately from loaded rows.
package normalize

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cric-stats/harvest/pkg/models"
)

// AbsenceMarker is the textual placeholder the source (and the CSV seam)
// uses for a missing value.
const AbsenceMarker = "nan"

var (
	// ErrRowRejected means the player-name cell was empty, the absence
	// marker, or the literal "0"; no record and no identity is created.
	ErrRowRejected = errors.New("row rejected: invalid player name")

	// ErrBlankRow means every numeric cell of the row defaulted; the row
	// carries no information and is dropped.
	ErrBlankRow = errors.New("row dropped: all numeric cells empty")

	// ErrShortRow means the raw row has fewer cells than the schema.
	ErrShortRow = errors.New("row dropped: fewer cells than schema columns")
)

// Name validates and trims a player-name cell. ok is false when the row
// must be rejected.
func Name(cell string) (name string, ok bool) {
	name = strings.TrimSpace(cell)
	if name == "" || name == AbsenceMarker || name == "0" {
		return "", false
	}
	return name, true
}

// clean strips thousands separators and surrounding whitespace. The empty
// string and the absence marker collapse to "".
func clean(cell string) string {
	s := strings.TrimSpace(strings.ReplaceAll(cell, ",", ""))
	if s == AbsenceMarker {
		return ""
	}
	return s
}

// Count parses an integer-valued cell. Empty, absent, or unparseable text
// yields 0 with defaulted=true. Text with a decimal point truncates.
func Count(cell string) (v int, defaulted bool) {
	s := clean(cell)
	if s == "" {
		return 0, true
	}
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true
		}
		return int(f), false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, true
	}
	return n, false
}

// Rate parses an average/rate cell. Empty, absent, or unparseable text
// yields 0.0 with defaulted=true.
func Rate(cell string) (v float64, defaulted bool) {
	s := clean(cell)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true
	}
	return f, false
}

// Figure parses a bowling figure. The source encodes it either as a plain
// decimal or as "wickets/runs"; the fraction form converts to its
// quotient rounded to three decimal places. A zero divisor yields the
// numerator unchanged. Any failure yields the 0.0 default.
func Figure(cell string) (v float64, defaulted bool) {
	s := clean(cell)
	if s == "" {
		return 0, true
	}
	if num, den, found := strings.Cut(s, "/"); found {
		n, errN := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, errD := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if errN != nil || errD != nil {
			return 0, true
		}
		if d == 0 {
			return n, false
		}
		return math.Round(n/d*1000) / 1000, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true
	}
	return f, false
}

// Batting binds a raw row to the batting column schema and returns the
// player name with the typed stats. Schema:
// [Rank, Player, Matches, Innings, Average, Strike Rate, Highest Score,
// 4s, 6s, 50s, 100s, Runs].
func Batting(row models.RawRow) (string, *models.BattingStats, error) {
	if len(row) < len(models.BattingColumns) {
		return "", nil, ErrShortRow
	}
	name, ok := Name(row[1])
	if !ok {
		return "", nil, ErrRowRejected
	}

	var s models.BattingStats
	allDefault := true
	track := func(d bool) { allDefault = allDefault && d }

	var d bool
	s.Rank, d = Count(row[0])
	track(d)
	s.Matches, d = Count(row[2])
	track(d)
	s.Innings, d = Count(row[3])
	track(d)
	s.Average, d = Rate(row[4])
	track(d)
	s.StrikeRate, d = Rate(row[5])
	track(d)
	s.HighestScore, d = Count(row[6])
	track(d)
	s.Fours, d = Count(row[7])
	track(d)
	s.Sixes, d = Count(row[8])
	track(d)
	s.Fifties, d = Count(row[9])
	track(d)
	s.Hundreds, d = Count(row[10])
	track(d)
	s.Runs, d = Count(row[11])
	track(d)

	if allDefault {
		return "", nil, ErrBlankRow
	}
	return name, &s, nil
}

// Bowling binds a raw row to the bowling column schema. Schema:
// [Rank, Player, Matches, Innings, Wickets, Average, Bowling_Figure,
// Economy, Strike_Rate, Runs].
func Bowling(row models.RawRow) (string, *models.BowlingStats, error) {
	if len(row) < len(models.BowlingColumns) {
		return "", nil, ErrShortRow
	}
	name, ok := Name(row[1])
	if !ok {
		return "", nil, ErrRowRejected
	}

	var s models.BowlingStats
	allDefault := true
	track := func(d bool) { allDefault = allDefault && d }

	var d bool
	s.Rank, d = Count(row[0])
	track(d)
	s.Matches, d = Count(row[2])
	track(d)
	s.Innings, d = Count(row[3])
	track(d)
	s.Wickets, d = Count(row[4])
	track(d)
	s.Average, d = Rate(row[5])
	track(d)
	s.BowlingFigure, d = Figure(row[6])
	track(d)
	s.Economy, d = Rate(row[7])
	track(d)
	s.StrikeRate, d = Rate(row[8])
	track(d)
	s.Runs, d = Count(row[9])
	track(d)

	if allDefault {
		return "", nil, ErrBlankRow
	}
	return name, &s, nil
}
