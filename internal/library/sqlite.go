package library

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vmunix/filmlib/internal/migrations"
	"github.com/vmunix/filmlib/internal/production"
	"github.com/vmunix/filmlib/internal/snapshot"
)

// ErrConstraint indicates a check constraint violation.
var ErrConstraint = errors.New("constraint violation")

// mapSQLiteError converts SQLite errors to custom error types.
func mapSQLiteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoData
	}
	// modernc.org/sqlite wraps errors; check error message for constraint violations
	if strings.Contains(err.Error(), "CHECK constraint failed") {
		return ErrConstraint
	}
	return err
}

// OpenSQLite opens the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.ExecContext(ctx, migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// SQLiteStore keeps the collection as a single snapshot row.
type SQLiteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteStore creates a store on an already migrated database.
func NewSQLiteStore(db *sql.DB, log *slog.Logger) *SQLiteStore {
	if log == nil {
		log = slog.Default()
	}
	return &SQLiteStore{db: db, log: log.With("store", "sqlite")}
}

// Load reads the snapshot row. Returns ErrNoData if nothing was saved yet.
func (s *SQLiteStore) Load(ctx context.Context) ([]*production.Production, error) {
	res, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return res.Productions, nil
}

// LoadSnapshot is Load with the snapshot metadata kept.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*snapshot.Result, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, "SELECT body FROM snapshots WHERE id = 1").Scan(&body)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", mapSQLiteError(err))
	}
	res, err := snapshot.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	logSkipped(s.log, res.Skipped)
	s.log.Debug("snapshot loaded", "count", len(res.Productions), "version", res.Version)
	return res, nil
}

// Save replaces the snapshot row inside a transaction.
func (s *SQLiteStore) Save(ctx context.Context, list []*production.Production) error {
	now := time.Now()
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, list, now); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, version, item_count, saved_at, body)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			item_count = excluded.item_count,
			saved_at = excluded.saved_at,
			body = excluded.body`,
		snapshot.Version, len(list), now.UTC(), buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", mapSQLiteError(err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	s.log.Debug("snapshot saved", "count", len(list))
	return nil
}

// Count returns the number of productions in the saved snapshot.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT item_count FROM snapshots WHERE id = 1").Scan(&n)
	if err != nil {
		if errors.Is(mapSQLiteError(err), ErrNoData) {
			return 0, nil
		}
		return 0, fmt.Errorf("count snapshot: %w", err)
	}
	return n, nil
}
