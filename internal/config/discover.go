// internal/config/discover.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./filmlib.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "filmlib", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. FILMLIB_CONFIG environment variable
//  2. ./filmlib.toml (current directory)
//  3. $XDG_CONFIG_HOME/filmlib/config.toml
func Discover() (string, error) {
	// 1. Check FILMLIB_CONFIG env var
	if envPath := os.Getenv("FILMLIB_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("FILMLIB_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	// Build search paths
	paths := []string{
		"./filmlib.toml",
		DefaultPath(),
	}

	// 2-3. Check each path
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, formatPaths(paths))
}

func formatPaths(paths []string) string {
	return strings.Join(paths, ", ")
}
