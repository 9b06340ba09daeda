package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/filmlib/internal/snapshot"
)

// testEnv is a config file pointing at storage inside a temp dir.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T, backend string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "filmlib.toml")
	content := `
[storage]
backend = "` + backend + `"
path = "` + filepath.Join(dir, "library.json") + `"
sqlite_path = "` + filepath.Join(dir, "library.db") + `"

[log]
level = "error"
`
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0644))
	return &testEnv{dir: dir, config: cfg}
}

// run executes the root command with args and returns what it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "filmlib %v", args)
	return out
}

// records runs list --json with args and decodes the output.
func (e *testEnv) records(t *testing.T, args ...string) []snapshot.Record {
	t.Helper()
	out := e.mustRun(t, append([]string{"list", "--json"}, args...)...)
	var records []snapshot.Record
	require.NoError(t, json.Unmarshal([]byte(out), &records), out)
	return records
}

// resetFlags puts every flag back to its default between executions of
// the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func titles(records []snapshot.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}
