package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/filmlib/internal/production"
	"github.com/vmunix/filmlib/internal/snapshot"
)

// snapshotLoader is implemented by stores that keep the save time of
// their snapshot.
type snapshotLoader interface {
	LoadSnapshot(ctx context.Context) (*snapshot.Result, error)
}

// MirrorStore keeps copies of the collection in several stores. The
// primary is the commit point: a save that fails there changes nothing,
// and replicas are only written once the primary holds the new snapshot.
type MirrorStore struct {
	stores []Store
	log    *slog.Logger
}

// NewMirrorStore creates a store over primary and any replicas.
func NewMirrorStore(log *slog.Logger, primary Store, replicas ...Store) *MirrorStore {
	if log == nil {
		log = slog.Default()
	}
	return &MirrorStore{
		stores: append([]Store{primary}, replicas...),
		log:    log.With("store", "mirror"),
	}
}

// Load returns the newest snapshot any store yields. Stores that cannot
// report a save time rank oldest, and ties go to the earlier store.
// ErrNoData is returned only when every store reports it.
func (m *MirrorStore) Load(ctx context.Context) ([]*production.Production, error) {
	var (
		best     *snapshot.Result
		bestIdx  int
		firstErr error
	)
	for i, s := range m.stores {
		res, err := loadSnapshot(ctx, s)
		if err != nil {
			if errors.Is(err, ErrNoData) {
				continue
			}
			m.log.Warn("mirror load failed", "index", i, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if best == nil || res.SavedAt.After(best.SavedAt) {
			best, bestIdx = res, i
		}
	}
	if best != nil {
		if bestIdx > 0 {
			m.log.Info("serving replica snapshot", "index", bestIdx, "saved_at", best.SavedAt)
		}
		return best.Productions, nil
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrNoData
}

func loadSnapshot(ctx context.Context, s Store) (*snapshot.Result, error) {
	if sl, ok := s.(snapshotLoader); ok {
		return sl.LoadSnapshot(ctx)
	}
	list, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot.Result{Productions: list}, nil
}

// Save writes the primary, then every replica concurrently. Only a
// primary failure fails the save. A replica that could not be written
// keeps its older snapshot, which Load ranks below the primary's.
func (m *MirrorStore) Save(ctx context.Context, list []*production.Production) error {
	if err := m.stores[0].Save(ctx, list); err != nil {
		return err
	}

	var g errgroup.Group
	for i, s := range m.stores[1:] {
		g.Go(func() error {
			if err := s.Save(ctx, list); err != nil {
				return fmt.Errorf("replica %d: %w", i+1, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		m.log.Warn("replica left stale", "error", err)
	}
	return nil
}
