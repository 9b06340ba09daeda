package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/filmlib/internal/config"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show where the library is stored and how much it holds",
		Args:  cobra.NoArgs,
		RunE:  withApp(runStatus),
	})
}

type statusReport struct {
	Backend   string `json:"backend"`
	Path      string `json:"path,omitempty"`
	Database  string `json:"database,omitempty"`
	Loaded    int    `json:"loaded"`
	DBCount   *int   `json:"db_count,omitempty"`
	LoadError string `json:"load_error,omitempty"`
}

func runStatus(cmd *cobra.Command, a *app, _ []string) error {
	st := a.cfg.Storage
	report := statusReport{Backend: st.Backend, Loaded: a.lib.Len()}
	if st.Backend != config.BackendSQLite {
		report.Path = st.Path
	}
	if a.sqlite != nil {
		report.Database = st.SQLitePath
		n, err := a.sqlite.Count(cmd.Context())
		if err != nil {
			return err
		}
		report.DBCount = &n
	}
	if err := a.lib.LoadErr(); err != nil {
		report.LoadError = err.Error()
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, report)
	}
	fmt.Fprintf(out, "Storage:  %s\n", report.Backend)
	if report.Path != "" {
		fmt.Fprintf(out, "File:     %s\n", report.Path)
	}
	if report.Database != "" {
		fmt.Fprintf(out, "Database: %s (%d saved)\n", report.Database, *report.DBCount)
	}
	fmt.Fprintf(out, "Loaded:   %d\n", report.Loaded)
	if report.LoadError != "" {
		fmt.Fprintf(out, "Warning:  %s\n", report.LoadError)
	}
	return nil
}
