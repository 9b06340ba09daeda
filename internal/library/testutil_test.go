// internal/library/testutil_test.go
package library

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vmunix/filmlib/internal/migrations"
	"github.com/vmunix/filmlib/internal/production"
	"github.com/vmunix/filmlib/internal/snapshot"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProduction(t *testing.T, title string, g production.Genre, date string, opts ...production.Option) *production.Production {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	base := []production.Option{
		production.WithTitle(title),
		production.WithGenre(g),
		production.WithReleaseDate(d),
	}
	p, err := production.New(append(base, opts...)...)
	require.NoError(t, err)
	return p
}

// sampleLibrary returns the three watched titles used across tests.
func sampleLibrary(t *testing.T) []*production.Production {
	t.Helper()
	return []*production.Production{
		newProduction(t, "Inception", production.GenreAction, "2010-07-30",
			production.WithWatched(true), production.WithRate(10), production.WithKind(production.Movie{Minutes: 148})),
		newProduction(t, "Nosferatu", production.GenreHorror, "2024-02-21",
			production.WithWatched(true), production.WithRate(8), production.WithKind(production.Movie{Minutes: 132})),
		newProduction(t, "The Witcher", production.GenreFantasy, "2019-12-20",
			production.WithWatched(true), production.WithRate(6), production.WithKind(production.NewSeries(map[int]int{1: 8, 2: 8, 3: 8}))),
	}
}

// memStore is an in-memory Store that records what was saved.
type memStore struct {
	list    []*production.Production
	savedAt time.Time
	saves   int
}

func (m *memStore) Load(ctx context.Context) ([]*production.Production, error) {
	if m.list == nil {
		return nil, ErrNoData
	}
	out := make([]*production.Production, len(m.list))
	for i, p := range m.list {
		out[i] = p.Clone()
	}
	return out, nil
}

func (m *memStore) Save(ctx context.Context, list []*production.Production) error {
	m.list = make([]*production.Production, len(list))
	for i, p := range list {
		m.list[i] = p.Clone()
	}
	m.saves++
	return nil
}

func (m *memStore) LoadSnapshot(ctx context.Context) (*snapshot.Result, error) {
	list, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot.Result{Version: snapshot.Version, SavedAt: m.savedAt, Productions: list}, nil
}

// failingStore reads like the memStore it wraps but never saves.
type failingStore struct {
	*memStore
	err error
}

func (f failingStore) Save(context.Context, []*production.Production) error {
	return f.err
}

func titlesOf(list []*production.Production) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Title()
	}
	return out
}
