package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmunix/filmlib/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configTestCmd = &cobra.Command{
	Use:   "test [path]",
	Short: "Validate configuration file",
	Long:  "Validates TOML syntax, storage settings, browse defaults and environment variable substitution.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigTest,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file",
	Long: `Writes the commented default configuration. With --backend,
--path or --sqlite-path it writes the resulting settings instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().String("backend", "", "Storage backend: file, sqlite, mirror")
	configInitCmd.Flags().String("path", "", "Snapshot file for the file and mirror backends")
	configInitCmd.Flags().String("sqlite-path", "", "Database for the sqlite and mirror backends")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configTestCmd, configInitCmd)
}

func runConfigTest(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Storage:  %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fmt.Fprintf(w, "  File:     %s\n", cfg.Storage.Path)
	case config.BackendSQLite:
		fmt.Fprintf(w, "  Database: %s\n", cfg.Storage.SQLitePath)
	case config.BackendMirror:
		fmt.Fprintf(w, "  File:     %s\n", cfg.Storage.Path)
		fmt.Fprintf(w, "  Database: %s\n", cfg.Storage.SQLitePath)
	}
	fmt.Fprintf(w, "  Log:      %s\n", cfg.Log.Level)

	sort, watched := cfg.Browse.DefaultSort, cfg.Browse.DefaultWatched
	if sort == "" {
		sort = "date-desc"
	}
	if watched == "" {
		watched = "any"
	}
	fmt.Fprintf(w, "  Browse:   sort %s, watched %s\n", sort, watched)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath()
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}

	cfg, custom := initConfig(cmd)
	if !custom {
		if err := config.WriteDefault(path); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		printOK(cmd.OutOrStdout(), "Wrote %s", path)
		return nil
	}

	if err := cfg.Write(path); err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(cmd.OutOrStdout(), configErr)
			return fmt.Errorf("configuration invalid")
		}
		return fmt.Errorf("write config: %w", err)
	}
	printOK(cmd.OutOrStdout(), "Wrote %s", path)
	printConfigSummary(cmd.OutOrStdout(), cfg)
	return nil
}

// initConfig applies the init flags to the defaults. It reports false
// when no flag was given.
func initConfig(cmd *cobra.Command) (*config.Config, bool) {
	f := cmd.Flags()
	cfg := config.Default()
	custom := false
	if f.Changed("backend") {
		cfg.Storage.Backend, _ = f.GetString("backend")
		custom = true
	}
	if f.Changed("path") {
		cfg.Storage.Path, _ = f.GetString("path")
		custom = true
	}
	if f.Changed("sqlite-path") {
		cfg.Storage.SQLitePath, _ = f.GetString("sqlite-path")
		custom = true
	}
	return cfg, custom
}
