package library

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/filmlib/internal/production"
	"github.com/vmunix/filmlib/internal/snapshot"
)

// FileStore keeps the collection in a single snapshot file.
type FileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, log *slog.Logger) *FileStore {
	if log == nil {
		log = slog.Default()
	}
	return &FileStore{path: path, log: log.With("store", "file", "path", path)}
}

// Path returns the snapshot file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the snapshot file. Returns ErrNoData if it does not exist.
func (s *FileStore) Load(ctx context.Context) ([]*production.Production, error) {
	res, err := s.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return res.Productions, nil
}

// LoadSnapshot is Load with the snapshot metadata kept.
func (s *FileStore) LoadSnapshot(ctx context.Context) (*snapshot.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer func() { _ = f.Close() }()

	res, err := snapshot.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	logSkipped(s.log, res.Skipped)
	s.log.Debug("snapshot loaded", "count", len(res.Productions), "version", res.Version)
	return res, nil
}

// Save writes the snapshot to a temporary file in the same directory
// and renames it over the previous one.
func (s *FileStore) Save(ctx context.Context, list []*production.Production) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := snapshot.Encode(w, list, time.Now()); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	committed = true
	s.log.Debug("snapshot saved", "count", len(list))
	return nil
}

func logSkipped(log *slog.Logger, skipped []snapshot.Skip) {
	for _, sk := range skipped {
		log.Warn("dropped unreadable record", "index", sk.Index, "id", sk.ID, "error", sk.Err)
	}
}
