package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// The DDL is idempotent so migrate can run before every load. Stat
// records cascade on player deletion; the pipeline itself never deletes.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		player_id SERIAL PRIMARY KEY,
		full_name VARCHAR(100) NOT NULL UNIQUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS formats (
		format_id SERIAL PRIMARY KEY,
		format_name VARCHAR(20) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS batting_stats (
		batting_id SERIAL PRIMARY KEY,
		player_id INTEGER REFERENCES players(player_id) ON DELETE CASCADE,
		format_id INTEGER REFERENCES formats(format_id) ON DELETE CASCADE,
		rank INTEGER,
		matches INTEGER,
		innings INTEGER,
		runs INTEGER,
		average DECIMAL(6,2),
		strike_rate DECIMAL(6,2),
		highest_score INTEGER,
		fours INTEGER,
		sixes INTEGER,
		fifties INTEGER,
		hundreds INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(player_id, format_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bowling_stats (
		bowling_id SERIAL PRIMARY KEY,
		player_id INTEGER REFERENCES players(player_id) ON DELETE CASCADE,
		format_id INTEGER REFERENCES formats(format_id) ON DELETE CASCADE,
		rank INTEGER,
		matches INTEGER,
		innings INTEGER,
		wickets INTEGER,
		average DECIMAL(6,2),
		economy DECIMAL(6,2),
		strike_rate DECIMAL(6,2),
		bowling_figure DECIMAL(6,3),
		runs INTEGER,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(player_id, format_id)
	)`,
	`INSERT INTO formats (format_name) VALUES ('Test'), ('ODI')
		ON CONFLICT (format_name) DO NOTHING`,
}

// Migrate provisions the four relations and seeds the two live formats.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	log.Info().Msg("Schema migrated and formats seeded")
	return nil
}
