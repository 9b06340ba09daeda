package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	logLevel   string
	jsonOutput bool
	force      bool
)

var rootCmd = &cobra.Command{
	Use:   "filmlib",
	Short: "Track the films and series you watch",
	Long: `filmlib - a personal film and series tracker

Keeps a library of movies and series with genre, release date,
watched state, a 1-10 rating and a comment. Browse it with text
search, genre and watched filters, and date or title ordering.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Save even if the existing library could not be read")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("filmlib {{.Version}}\n")
}
