package library

import (
	"context"

	"github.com/vmunix/filmlib/internal/production"
)

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

// Store persists the whole collection as one unit. Implementations never
// expose a partially written collection: Load yields everything or an
// error, Save replaces everything or fails.
type Store interface {
	// Load returns the saved collection, or ErrNoData on first run.
	Load(ctx context.Context) ([]*production.Production, error)

	// Save replaces the saved collection with list.
	Save(ctx context.Context, list []*production.Production) error
}
