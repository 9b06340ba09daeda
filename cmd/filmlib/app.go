package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/filmlib/internal/config"
	"github.com/vmunix/filmlib/internal/library"
	"github.com/vmunix/filmlib/internal/production"
)

// app is the state one command invocation works with.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	lib    *library.Library
	sqlite *library.SQLiteStore // nil on the file backend
	close  func() error
}

// loadConfig reads --config, or the discovered file. With no file at all
// the defaults apply.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		found, err := config.Discover()
		if errors.Is(err, config.ErrNotFound) {
			return config.Default(), nil
		}
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// openedStore is the store the storage section asks for, plus the
// database-backed store inside it when there is one.
type openedStore struct {
	store  library.Store
	sqlite *library.SQLiteStore
	close  func() error
}

func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (*openedStore, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return &openedStore{
			store: library.NewFileStore(cfg.Path, log),
			close: func() error { return nil },
		}, nil
	case config.BackendSQLite, config.BackendMirror:
		// Ensure database directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		db, err := library.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		sqlite := library.NewSQLiteStore(db, log)
		opened := &openedStore{store: sqlite, sqlite: sqlite, close: db.Close}
		if cfg.Backend == config.BackendMirror {
			opened.store = library.NewMirrorStore(log, library.NewFileStore(cfg.Path, log), sqlite)
		}
		return opened, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log := newLogger(cmd.ErrOrStderr(), level)

	opened, err := openStore(cmd.Context(), cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		log:    log,
		lib:    library.Open(cmd.Context(), opened.store, log),
		sqlite: opened.sqlite,
		close:  opened.close,
	}, nil
}

// save persists the library if it changed. A library whose saved data
// could not be read is only written with --force.
func (a *app) save(ctx context.Context) error {
	if !a.lib.Dirty() {
		a.log.Debug("library unchanged, not saving")
		return nil
	}
	if err := a.lib.LoadErr(); err != nil && !force {
		return fmt.Errorf("refusing to overwrite unreadable library (%w); rerun with --force to replace it", err)
	}
	return a.lib.Save(ctx)
}

// withApp wraps a command body with opening and closing the library.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = a.close() }()
		return run(cmd, a, args)
	}
}

// mutate runs edit against the production ref names and saves.
func (a *app) mutate(cmd *cobra.Command, ref string, edit func(*production.Production) error) (*production.Production, error) {
	p, err := a.lib.Resolve(ref)
	if err != nil {
		return nil, err
	}
	updated, err := a.lib.Update(p.ID(), edit)
	if err != nil {
		return nil, err
	}
	if err := a.save(cmd.Context()); err != nil {
		return nil, err
	}
	return updated, nil
}
