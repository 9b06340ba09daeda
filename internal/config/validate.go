// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/vmunix/filmlib/internal/browse"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validBackends = map[string]bool{
	BackendFile: true, BackendSQLite: true, BackendMirror: true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Storage validation
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, fmt.Sprintf("storage.backend: must be one of file, sqlite, mirror; got %q", c.Storage.Backend))
	}
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			errs = append(errs, "storage.path: required for the file backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, "storage.sqlite_path: required for the sqlite backend")
		}
	case BackendMirror:
		if c.Storage.Path == "" || c.Storage.SQLitePath == "" {
			errs = append(errs, "storage: mirror backend needs both path and sqlite_path")
		}
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	// Browse defaults
	if _, err := browse.ParseSortKey(c.Browse.DefaultSort); err != nil {
		errs = append(errs, fmt.Sprintf("browse.default_sort: %v", err))
	}
	if _, err := browse.ParseWatchedMode(c.Browse.DefaultWatched); err != nil {
		errs = append(errs, fmt.Sprintf("browse.default_watched: %v", err))
	}

	return errs
}
