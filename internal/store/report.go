package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Read-only reporting over loaded data. Comparisons are keyed by resolved
// player identity, not name-substring matching, so two players sharing a
// name fragment can never alias each other.

// LeaderboardEntry is one row of a ranked report.
type LeaderboardEntry struct {
	Player  string
	Format  string
	Matches int
	Runs    int
	Wickets int
}

// PlayerID looks up an existing player by exact display name. It never
// creates one; reporting is read-only.
func (s *Store) PlayerID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT player_id FROM players WHERE full_name = $1`, name,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("no player named %q", name)
		}
		return 0, fmt.Errorf("look up player %q: %w", name, err)
	}
	return id, nil
}

// TopRunScorers returns the highest run aggregates across formats.
func (s *Store) TopRunScorers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.full_name, f.format_name, bs.matches, bs.runs
		FROM batting_stats bs
		JOIN players p ON p.player_id = bs.player_id
		JOIN formats f ON f.format_id = bs.format_id
		ORDER BY bs.runs DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top run scorers: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Player, &e.Format, &e.Matches, &e.Runs); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TopWicketTakers returns the highest wicket aggregates across formats.
func (s *Store) TopWicketTakers(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.full_name, f.format_name, bws.matches, bws.wickets
		FROM bowling_stats bws
		JOIN players p ON p.player_id = bws.player_id
		JOIN formats f ON f.format_id = bws.format_id
		WHERE bws.wickets > 0
		ORDER BY bws.wickets DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top wicket takers: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.Player, &e.Format, &e.Matches, &e.Wickets); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// AllRounders returns players holding both a batting and a bowling record.
func (s *Store) AllRounders(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT p.full_name
		FROM players p
		JOIN batting_stats bs ON bs.player_id = p.player_id
		JOIN bowling_stats bws ON bws.player_id = p.player_id
		ORDER BY p.full_name
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query all-rounders: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// CompareMatches reports the match counts of two players in one format
// and the gap between them.
func (s *Store) CompareMatches(ctx context.Context, nameA, nameB, format string) (matchesA, matchesB int, err error) {
	formatID, err := s.FormatID(ctx, format)
	if err != nil {
		return 0, 0, err
	}
	idA, err := s.PlayerID(ctx, nameA)
	if err != nil {
		return 0, 0, err
	}
	idB, err := s.PlayerID(ctx, nameB)
	if err != nil {
		return 0, 0, err
	}

	matchesA, err = s.battingMatches(ctx, idA, formatID)
	if err != nil {
		return 0, 0, err
	}
	matchesB, err = s.battingMatches(ctx, idB, formatID)
	if err != nil {
		return 0, 0, err
	}
	return matchesA, matchesB, nil
}

func (s *Store) battingMatches(ctx context.Context, playerID, formatID int64) (int, error) {
	var matches int
	err := s.pool.QueryRow(ctx, `
		SELECT matches FROM batting_stats
		WHERE player_id = $1 AND format_id = $2`,
		playerID, formatID,
	).Scan(&matches)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("no batting record for player %d in format %d", playerID, formatID)
		}
		return 0, err
	}
	return matches, nil
}

// FifthPositionGap reports how many matches the named player needs to
// reach the fifth-highest match count on the batting table.
func (s *Store) FifthPositionGap(ctx context.Context, name string) (fifth, current, gap int, err error) {
	id, err := s.PlayerID(ctx, name)
	if err != nil {
		return 0, 0, 0, err
	}

	err = s.pool.QueryRow(ctx, `
		WITH top_players AS (
			SELECT bs.matches
			FROM batting_stats bs
			ORDER BY bs.matches DESC
			LIMIT 5
		)
		SELECT COALESCE((SELECT MIN(matches) FROM top_players), 0),
		       COALESCE((SELECT MAX(bs.matches) FROM batting_stats bs WHERE bs.player_id = $1), 0)`,
		id,
	).Scan(&fifth, &current)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("query fifth-position gap: %w", err)
	}
	return fifth, current, fifth - current, nil
}
