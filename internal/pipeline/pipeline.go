// Package pipeline sequences extraction, normalization, identity
// resolution, and upsert per format and stat kind, and aggregates
// success/failure counts. The run is deliberately sequential: one
// combination at a time, one row at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/cric-stats/harvest/internal/artifact"
	"github.com/cric-stats/harvest/internal/engine"
	"github.com/cric-stats/harvest/internal/normalize"
	"github.com/cric-stats/harvest/pkg/models"
)

// Pipeline wires the two extractors and the loader around the CSV seam.
type Pipeline struct {
	static  engine.Extractor
	dynamic engine.Extractor
	loader  Loader
	dir     string

	// RowLoaded, if set, is called after each successfully upserted row.
	// The CLI hangs a progress bar off it.
	RowLoaded func()
}

// New creates a Pipeline writing artifacts under dir.
func New(static, dynamic engine.Extractor, loader Loader, dir string) *Pipeline {
	return &Pipeline{
		static:  static,
		dynamic: dynamic,
		loader:  loader,
		dir:     dir,
	}
}

// extractorFor picks the strategy a stat kind requires: the batting table
// is statically rendered, the bowling table only appears after browser
// interaction.
func (p *Pipeline) extractorFor(kind models.StatKind) engine.Extractor {
	if kind == models.KindBowling {
		return p.dynamic
	}
	return p.static
}

// Scrape extracts one leaderboard and writes its artifact. A missing
// table yields engine.ErrTableNotFound and writes nothing.
func (p *Pipeline) Scrape(ctx context.Context, kind models.StatKind, src models.Source) (int, error) {
	ex := p.extractorFor(kind)

	rows, err := ex.Extract(ctx, src)
	if err != nil {
		return 0, err
	}

	path := artifact.Path(p.dir, kind, src.Format)
	if err := artifact.Write(path, kind, rows); err != nil {
		return 0, err
	}

	log.Info().
		Str("kind", string(kind)).
		Str("format", src.Format).
		Str("file", path).
		Int("rows", len(rows)).
		Msg("Artifact written")
	return len(rows), nil
}

// Load reads one artifact and upserts its rows. The whole file commits
// together; each row runs in its own unit of work so a persistence error
// rolls back that row alone and is reported while the rest proceed.
func (p *Pipeline) Load(ctx context.Context, kind models.StatKind, format string) (loaded, skipped int, err error) {
	path := artifact.Path(p.dir, kind, format)
	rows, err := artifact.Read(path)
	if err != nil {
		return 0, 0, err
	}

	formatID, err := p.loader.FormatID(ctx, format)
	if err != nil {
		return 0, 0, err
	}

	tx, err := p.loader.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		ok, rerr := p.loadRow(ctx, tx, kind, formatID, row)
		if rerr != nil {
			log.Warn().Err(rerr).Str("file", path).Msg("Row failed, unit rolled back")
			skipped++
			continue
		}
		if !ok {
			skipped++
			continue
		}
		loaded++
		if p.RowLoaded != nil {
			p.RowLoaded()
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit %s: %w", path, err)
	}

	log.Info().
		Str("file", path).
		Int("loaded", loaded).
		Int("skipped", skipped).
		Msg("Artifact loaded")
	return loaded, skipped, nil
}

// loadRow normalizes and persists one raw row inside a savepoint.
// ok=false with nil error means the row was rejected by normalization.
func (p *Pipeline) loadRow(ctx context.Context, tx LoadTx, kind models.StatKind, formatID int64, row models.RawRow) (ok bool, err error) {
	var name string
	var batting *models.BattingStats
	var bowling *models.BowlingStats

	if kind == models.KindBowling {
		name, bowling, err = normalize.Bowling(row)
	} else {
		name, batting, err = normalize.Batting(row)
	}
	if err != nil {
		if errors.Is(err, normalize.ErrRowRejected) ||
			errors.Is(err, normalize.ErrBlankRow) ||
			errors.Is(err, normalize.ErrShortRow) {
			log.Debug().Err(err).Strs("row", row).Msg("Row skipped")
			return false, nil
		}
		return false, err
	}

	unit, err := tx.Begin(ctx)
	if err != nil {
		return false, err
	}

	playerID, err := unit.ResolvePlayer(ctx, name)
	if err != nil {
		unit.Rollback(ctx)
		return false, err
	}

	if kind == models.KindBowling {
		err = unit.UpsertBowling(ctx, playerID, formatID, *bowling)
	} else {
		err = unit.UpsertBatting(ctx, playerID, formatID, *batting)
	}
	if err != nil {
		unit.Rollback(ctx)
		return false, err
	}

	return true, unit.Commit(ctx)
}

// Run drives the full extract-load flow for every format and stat kind.
// A missing table or artifact skips only that combination; sibling
// combinations still run. The returned result is always complete.
func (p *Pipeline) Run(ctx context.Context, sources []models.Source) *Result {
	res := &Result{}

	for _, src := range sources {
		for _, kind := range []models.StatKind{models.KindBatting, models.KindBowling} {
			combo := ComboResult{Kind: kind, Format: src.Format}

			extracted, err := p.Scrape(ctx, kind, src)
			switch {
			case errors.Is(err, engine.ErrTableNotFound):
				log.Warn().
					Str("kind", string(kind)).
					Str("format", src.Format).
					Msg("No data table found, skipping combination")
				combo.Missing = true
				res.Add(combo)
				continue
			case err != nil:
				res.AddErrorf("scrape %s/%s: %v", kind, src.Format, err)
				res.Add(combo)
				continue
			}
			combo.Extracted = extracted

			loaded, skipped, err := p.Load(ctx, kind, src.Format)
			if err != nil {
				if os.IsNotExist(err) {
					combo.Missing = true
				} else {
					res.AddErrorf("load %s/%s: %v", kind, src.Format, err)
				}
				res.Add(combo)
				continue
			}
			combo.Loaded = loaded
			combo.Skipped = skipped
			res.Add(combo)
		}
	}

	log.Info().Str("summary", res.Summary()).Msg("Run complete")
	return res
}

// LoadAll loads the existing artifacts for the given formats and kinds
// without scraping. Missing files skip their combination.
func (p *Pipeline) LoadAll(ctx context.Context, formats []string, kinds []models.StatKind) *Result {
	res := &Result{}

	for _, format := range formats {
		for _, kind := range kinds {
			combo := ComboResult{Kind: kind, Format: format}

			loaded, skipped, err := p.Load(ctx, kind, format)
			if err != nil {
				if os.IsNotExist(err) {
					log.Warn().
						Str("kind", string(kind)).
						Str("format", format).
						Msg("Artifact not found, skipping combination")
					combo.Missing = true
				} else {
					res.AddErrorf("load %s/%s: %v", kind, format, err)
				}
				res.Add(combo)
				continue
			}
			combo.Loaded = loaded
			combo.Skipped = skipped
			res.Add(combo)
		}
	}

	return res
}
