// Package engine implements the two extraction strategies for the stat
// source: a static HTML parse for batting leaderboards and a
// browser-driven session for bowling leaderboards, which the source only
// renders after tab interaction. Both converge on the same raw row shape.
package engine

import (
	"context"

	"github.com/cric-stats/harvest/pkg/models"
)

// Extractor produces a finite sequence of raw rows for a source page.
// The normalizer and loader are strategy-agnostic.
type Extractor interface {
	// Extract fetches the source and returns its leaderboard rows in
	// document order, featured row first when present.
	Extract(ctx context.Context, src models.Source) ([]models.RawRow, error)

	// Name returns the name of the extractor implementation.
	Name() string
}
