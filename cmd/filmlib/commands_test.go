package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/filmlib/internal/browse"
	"github.com/vmunix/filmlib/internal/config"
	"github.com/vmunix/filmlib/internal/library"
	"github.com/vmunix/filmlib/internal/production"
)

func seed(t *testing.T, e *testEnv) {
	t.Helper()
	e.mustRun(t, "add", "--title", "Inception", "--genre", "action", "--date", "2010-07-30", "--minutes", "148")
	e.mustRun(t, "add", "--title", "Nosferatu", "--genre", "horror", "--date", "2024-02-21", "--minutes", "132")
	e.mustRun(t, "add", "--title", "The Witcher", "--genre", "fantasy", "--date", "2019-12-20",
		"--season", "1=8", "--season", "2=8", "--season", "3=8")
}

func TestAddAndList(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	seed(t, e)

	assert.Equal(t, []string{"Nosferatu", "The Witcher", "Inception"}, titles(e.records(t)))
	assert.Equal(t, []string{"Inception", "Nosferatu", "The Witcher"}, titles(e.records(t, "--sort", "title-asc")))
	assert.Equal(t, []string{"Nosferatu"}, titles(e.records(t, "--genre", "HORROR")))
	assert.Equal(t, []string{"The Witcher"}, titles(e.records(t, "--query", "witch", "--genre", "horror")))

	witcher := e.records(t, "--query", "witcher")[0]
	assert.Equal(t, "series", witcher.Kind)
	assert.Equal(t, map[int]int{1: 8, 2: 8, 3: 8}, witcher.Seasons)

	out := e.mustRun(t, "list")
	assert.Contains(t, out, "Library (3 of 3)")
	assert.Contains(t, out, "Inception")
	assert.Contains(t, out, "2h 28m")
}

func TestAdd_Defaults(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	e.mustRun(t, "add")

	records := e.records(t)
	require.Len(t, records, 1)
	assert.Equal(t, production.DefaultTitle, records[0].Title)
	assert.Equal(t, "ALL", records[0].Genre)
}

func TestAdd_RateNeedsWatched(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	_, err := e.run(t, "add", "--title", "Alien", "--rate", "9")
	assert.ErrorIs(t, err, production.ErrNotWatched)

	e.mustRun(t, "add", "--title", "Alien", "--watched", "--rate", "9", "--comment", "perfect")
	r := e.records(t)[0]
	assert.Equal(t, 9, r.Rate)
	require.NotNil(t, r.Comment)
	assert.Equal(t, "perfect", *r.Comment)
}

func TestWatchRateComment(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	seed(t, e)

	_, err := e.run(t, "rate", "Nosferatu", "8")
	assert.ErrorIs(t, err, production.ErrNotWatched)

	e.mustRun(t, "watch", "nosferatu")
	e.mustRun(t, "rate", "Nosferatu", "8")
	e.mustRun(t, "comment", "Nosferatu", "  slow but haunting ")

	_, err = e.run(t, "rate", "Nosferatu", "11")
	assert.ErrorIs(t, err, production.ErrRateOutOfRange)

	r := e.records(t, "--watched", "watched")
	require.Len(t, r, 1)
	assert.Equal(t, 8, r[0].Rate)
	assert.Equal(t, "  slow but haunting ", *r[0].Comment)

	e.mustRun(t, "comment", "Nosferatu")
	e.mustRun(t, "rate", "Nosferatu", "0")
	r = e.records(t, "--watched", "watched")
	assert.Nil(t, r[0].Comment)
	assert.Zero(t, r[0].Rate)

	assert.Len(t, e.records(t, "--watched", "unwatched"), 2)
}

func TestEdit_LockedWhileWatched(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	seed(t, e)

	e.mustRun(t, "edit", "The Witcher", "--season", "4=8", "--remove-season", "1")
	w := e.records(t, "--query", "witcher")[0]
	assert.Equal(t, map[int]int{2: 8, 3: 8, 4: 8}, w.Seasons)

	e.mustRun(t, "watch", "The Witcher")
	_, err := e.run(t, "edit", "The Witcher", "--title", "Witcher")
	assert.ErrorIs(t, err, production.ErrLocked)

	e.mustRun(t, "unwatch", "The Witcher")
	e.mustRun(t, "edit", "The Witcher", "--title", "Witcher", "--genre", "drama")
	w = e.records(t, "--query", "witcher")[0]
	assert.Equal(t, "Witcher", w.Title)
	assert.Equal(t, "DRAMA", w.Genre)

	_, err = e.run(t, "edit", "Inception", "--season", "1=3")
	assert.Error(t, err)
}

func TestShowAndDelete(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	seed(t, e)

	out := e.mustRun(t, "show", "inception")
	assert.Contains(t, out, "movie: Inception")
	assert.Contains(t, out, "duration: 2h 28m")

	_, err := e.run(t, "show", "Nosferatoo")
	assert.ErrorIs(t, err, library.ErrNotFound)
	assert.ErrorContains(t, err, "did you mean: Nosferatu")

	e.mustRun(t, "delete", "Nosferatu")
	assert.Equal(t, []string{"The Witcher", "Inception"}, titles(e.records(t)))
}

func TestImage(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	seed(t, e)

	e.mustRun(t, "image", "Inception", "--uri", "https://example.com/inception.jpg")
	r := e.records(t, "--query", "inception")[0]
	assert.Equal(t, "https://example.com/inception.jpg", r.ImageURI)

	poster := filepath.Join(e.dir, "poster.png")
	require.NoError(t, os.WriteFile(poster, []byte{0x89, 'P', 'N', 'G'}, 0644))
	e.mustRun(t, "image", "Inception", "--file", poster)
	r = e.records(t, "--query", "inception")[0]
	assert.Empty(t, r.ImageURI)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, r.ImageData)

	e.mustRun(t, "image", "Inception", "--clear")
	r = e.records(t, "--query", "inception")[0]
	assert.Empty(t, r.ImageData)
}

func TestUnreadableLibraryNeedsForce(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	path := filepath.Join(e.dir, "library.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	_, err := e.run(t, "add", "--title", "Alien")
	require.Error(t, err)
	assert.ErrorContains(t, err, "--force")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{broken", string(data), "unreadable library left untouched")

	e.mustRun(t, "add", "--title", "Alien", "--force")
	assert.Equal(t, []string{"Alien"}, titles(e.records(t)))
}

func TestBackends(t *testing.T) {
	for _, backend := range []string{config.BackendSQLite, config.BackendMirror} {
		t.Run(backend, func(t *testing.T) {
			e := newTestEnv(t, backend)
			seed(t, e)
			assert.Equal(t, []string{"Inception", "Nosferatu", "The Witcher"}, titles(e.records(t, "--sort", "title-asc")))
			_, err := os.Stat(filepath.Join(e.dir, "library.db"))
			assert.NoError(t, err)
		})
	}
}

func TestConfigCommands(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	out := e.mustRun(t, "config", "test")
	assert.Contains(t, out, "Configuration valid!")

	bad := filepath.Join(e.dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[storage]\nbackend = \"tape\"\n"), 0644))
	out, err := e.run(t, "config", "test", bad)
	assert.Error(t, err)
	assert.Contains(t, out, "storage.backend")

	fresh := filepath.Join(e.dir, "fresh", "config.toml")
	e.mustRun(t, "config", "init", fresh)
	_, err = e.run(t, "config", "init", fresh)
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigInit_DefaultTemplateLoads(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	t.Setenv("XDG_DATA_HOME", filepath.Join(e.dir, "data"))

	fresh := filepath.Join(e.dir, "fresh.toml")
	e.mustRun(t, "config", "init", fresh)

	e.mustRun(t, "--config", fresh, "add", "--title", "Alien")
	out := e.mustRun(t, "--config", fresh, "list", "--json")
	assert.Contains(t, out, `"title": "Alien"`)

	_, err := os.Stat(filepath.Join(e.dir, "data", "filmlib", "library.json"))
	assert.NoError(t, err)
}

func TestConfigInit_WithSettings(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	written := filepath.Join(e.dir, "sqlite.toml")
	db := filepath.Join(e.dir, "films.db")

	out := e.mustRun(t, "config", "init", written, "--backend", "sqlite", "--sqlite-path", db)
	assert.Contains(t, out, "Database: "+db)

	cfg, err := config.Load(written)
	require.NoError(t, err)
	assert.Equal(t, config.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, db, cfg.Storage.SQLitePath)

	rejected := filepath.Join(e.dir, "tape.toml")
	_, err = e.run(t, "config", "init", rejected, "--backend", "tape")
	assert.Error(t, err)
	_, statErr := os.Stat(rejected)
	assert.True(t, os.IsNotExist(statErr))
}

func TestAdd_UnknownGenre(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	_, err := e.run(t, "add", "--title", "Alien", "--genre", "bogus")
	assert.ErrorIs(t, err, production.ErrValidation)
	assert.ErrorIs(t, err, production.ErrInvalidGenre)
}

func TestList_SortHelpNamesEveryKey(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	out := e.mustRun(t, "list", "--help")
	for _, k := range browse.SortKeys() {
		assert.Contains(t, out, k.String())
	}
}

func TestUnchangedLibraryIsNotRewritten(t *testing.T) {
	e := newTestEnv(t, config.BackendFile)
	seed(t, e)
	e.mustRun(t, "watch", "Inception")

	path := filepath.Join(e.dir, "library.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	e.mustRun(t, "watch", "Inception")
	e.mustRun(t, "edit", "Nosferatu", "--title", "Nosferatu")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestStatus(t *testing.T) {
	e := newTestEnv(t, config.BackendMirror)
	seed(t, e)

	out := e.mustRun(t, "status")
	assert.Contains(t, out, "Storage:  mirror")
	assert.Contains(t, out, "(3 saved)")
	assert.Contains(t, out, "Loaded:   3")

	out = e.mustRun(t, "status", "--json")
	var report statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	assert.Equal(t, 3, report.Loaded)
	require.NotNil(t, report.DBCount)
	assert.Equal(t, 3, *report.DBCount)
	assert.Equal(t, filepath.Join(e.dir, "library.json"), report.Path)

	file := newTestEnv(t, config.BackendFile)
	out = file.mustRun(t, "status")
	assert.Contains(t, out, "Loaded:   0")
	assert.NotContains(t, out, "Database:")
}
