// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMirror = "mirror"
)

// Config is the root configuration structure.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Log     LogConfig     `toml:"log"`
	Browse  BrowseConfig  `toml:"browse"`
}

type StorageConfig struct {
	Backend    string `toml:"backend"`
	Path       string `toml:"path"`
	SQLitePath string `toml:"sqlite_path"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// BrowseConfig holds the list defaults used when no flag overrides them.
type BrowseConfig struct {
	DefaultSort    string `toml:"default_sort"`
	DefaultWatched string `toml:"default_watched"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, parses, and validates the configuration file.
// Returns *ConfigError if environment variables are missing or validation fails.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// defaults but skipping Validate.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(DataDir(), "library.json")
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = filepath.Join(DataDir(), "library.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Storage.Path = expandHome(c.Storage.Path)
	c.Storage.SQLitePath = expandHome(c.Storage.SQLitePath)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

// DataDir returns the XDG data directory for the library files.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "filmlib")
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces environment references in content and returns
// the references it could not resolve. Comment lines are left as written.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
			value, ok := expandEnvRef(match[2 : len(match)-1]) // Strip ${ and }
			if !ok {
				missing = append(missing, value)
				return match // Leave unchanged if not found
			}
			return value
		})
	}
	return strings.Join(lines, ""), missing
}

// expandEnvRef resolves one reference body. When it cannot, it returns
// the name (and message) to report as missing.
func expandEnvRef(expr string) (string, bool) {
	if name, def, ok := strings.Cut(expr, ":-"); ok {
		if value := os.Getenv(name); value != "" {
			return value, true
		}
		return def, true
	}
	if name, msg, ok := strings.Cut(expr, ":?"); ok {
		if value := os.Getenv(name); value != "" {
			return value, true
		}
		return name + ": " + msg, false
	}
	if value, ok := os.LookupEnv(expr); ok {
		return value, true
	}
	return expr, false
}
