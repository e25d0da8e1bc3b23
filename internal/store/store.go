// Package store is the relational loader: schema provisioning, player
// identity resolution, and idempotent record upserts over PostgreSQL.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/cric-stats/harvest/pkg/models"
)

// Store wraps a pgx connection pool with the loader operations.
type Store struct {
	pool *pgxpool.Pool
}

// Open creates and validates a connection pool for the given URL.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Debug().Msg("Database connection established")
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// FormatID resolves a human-entered format token (case-insensitive) to
// its seeded format id. An unresolvable token fails the batch.
func (s *Store) FormatID(ctx context.Context, token string) (int64, error) {
	name, ok := canonicalFormat(token)
	if !ok {
		return 0, fmt.Errorf("unknown format %q", token)
	}

	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT format_id FROM formats WHERE format_name = $1`, name,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("format %q not seeded in database", name)
		}
		return 0, fmt.Errorf("look up format %q: %w", name, err)
	}
	return id, nil
}

// canonicalFormat maps a format token to its canonical display name.
func canonicalFormat(token string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "test":
		return "Test", true
	case "odi":
		return "ODI", true
	}
	return "", false
}

// Begin opens a transaction covering one load unit (a full artifact's
// worth of rows commits together).
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Tx is an open load transaction. A nested Begin opens a savepoint, which
// is the per-row unit of work: a failed row rolls back to it while the
// rest of the file proceeds.
type Tx struct {
	tx pgx.Tx
}

// Begin opens a savepoint inside this transaction.
func (t *Tx) Begin(ctx context.Context) (*Tx, error) {
	inner, err := t.tx.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin savepoint: %w", err)
	}
	return &Tx{tx: inner}, nil
}

// Commit commits the transaction or releases the savepoint.
func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction or rolls back to the savepoint. Safe to
// defer after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return err
	}
	return nil
}

// ResolvePlayer maps a display name to its stable player id, creating the
// player on first sight. A single atomic upsert-by-name keeps this
// correct even with concurrent writers; the no-op update lets RETURNING
// yield the id on the conflict path.
func (t *Tx) ResolvePlayer(ctx context.Context, name string) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO players (full_name) VALUES ($1)
		ON CONFLICT (full_name) DO UPDATE SET full_name = EXCLUDED.full_name
		RETURNING player_id`,
		name,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("resolve player %q: %w", name, err)
	}
	return id, nil
}

// UpsertBatting inserts or fully overwrites the batting record keyed by
// (player, format).
func (t *Tx) UpsertBatting(ctx context.Context, playerID, formatID int64, s models.BattingStats) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO batting_stats (
			player_id, format_id, rank, matches, innings, runs, average,
			strike_rate, highest_score, fours, sixes, fifties, hundreds
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (player_id, format_id) DO UPDATE SET
			rank = EXCLUDED.rank,
			matches = EXCLUDED.matches,
			innings = EXCLUDED.innings,
			runs = EXCLUDED.runs,
			average = EXCLUDED.average,
			strike_rate = EXCLUDED.strike_rate,
			highest_score = EXCLUDED.highest_score,
			fours = EXCLUDED.fours,
			sixes = EXCLUDED.sixes,
			fifties = EXCLUDED.fifties,
			hundreds = EXCLUDED.hundreds`,
		playerID, formatID, s.Rank, s.Matches, s.Innings, s.Runs, s.Average,
		s.StrikeRate, s.HighestScore, s.Fours, s.Sixes, s.Fifties, s.Hundreds,
	)
	if err != nil {
		return fmt.Errorf("upsert batting record: %w", err)
	}
	return nil
}

// UpsertBowling inserts or fully overwrites the bowling record keyed by
// (player, format).
func (t *Tx) UpsertBowling(ctx context.Context, playerID, formatID int64, s models.BowlingStats) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO bowling_stats (
			player_id, format_id, rank, matches, innings, wickets, average,
			economy, strike_rate, bowling_figure, runs
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (player_id, format_id) DO UPDATE SET
			rank = EXCLUDED.rank,
			matches = EXCLUDED.matches,
			innings = EXCLUDED.innings,
			wickets = EXCLUDED.wickets,
			average = EXCLUDED.average,
			economy = EXCLUDED.economy,
			strike_rate = EXCLUDED.strike_rate,
			bowling_figure = EXCLUDED.bowling_figure,
			runs = EXCLUDED.runs`,
		playerID, formatID, s.Rank, s.Matches, s.Innings, s.Wickets, s.Average,
		s.Economy, s.StrikeRate, s.BowlingFigure, s.Runs,
	)
	if err != nil {
		return fmt.Errorf("upsert bowling record: %w", err)
	}
	return nil
}
