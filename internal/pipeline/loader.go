package pipeline

import (
	"context"

	"github.com/cric-stats/harvest/internal/store"
	"github.com/cric-stats/harvest/pkg/models"
)

// Loader is the storage seam the orchestrator writes through. The
// production implementation is PostgreSQL; tests substitute an in-memory
// fake.
type Loader interface {
	// FormatID resolves a human-entered format token to its stable id.
	FormatID(ctx context.Context, token string) (int64, error)

	// Begin opens a transaction covering one artifact's worth of rows.
	Begin(ctx context.Context) (LoadTx, error)
}

// LoadTx is one open load transaction. Begin opens a nested unit of work
// (a savepoint) so a failed row rolls back alone.
type LoadTx interface {
	Begin(ctx context.Context) (LoadTx, error)
	ResolvePlayer(ctx context.Context, name string) (int64, error)
	UpsertBatting(ctx context.Context, playerID, formatID int64, s models.BattingStats) error
	UpsertBowling(ctx context.Context, playerID, formatID int64, s models.BowlingStats) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// NewStoreLoader adapts the PostgreSQL store to the Loader seam.
func NewStoreLoader(s *store.Store) Loader {
	return &storeLoader{s: s}
}

type storeLoader struct {
	s *store.Store
}

func (l *storeLoader) FormatID(ctx context.Context, token string) (int64, error) {
	return l.s.FormatID(ctx, token)
}

func (l *storeLoader) Begin(ctx context.Context) (LoadTx, error) {
	tx, err := l.s.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *store.Tx
}

func (t *storeTx) Begin(ctx context.Context) (LoadTx, error) {
	inner, err := t.tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &storeTx{tx: inner}, nil
}

func (t *storeTx) ResolvePlayer(ctx context.Context, name string) (int64, error) {
	return t.tx.ResolvePlayer(ctx, name)
}

func (t *storeTx) UpsertBatting(ctx context.Context, playerID, formatID int64, s models.BattingStats) error {
	return t.tx.UpsertBatting(ctx, playerID, formatID, s)
}

func (t *storeTx) UpsertBowling(ctx context.Context, playerID, formatID int64, s models.BowlingStats) error {
	return t.tx.UpsertBowling(ctx, playerID, formatID, s)
}

func (t *storeTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *storeTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
