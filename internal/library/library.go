// Package library holds the in-memory production collection and the
// stores that persist it as a whole.
package library

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/vmunix/filmlib/internal/browse"
	"github.com/vmunix/filmlib/internal/production"
)

// maxSuggestions bounds the titles offered on a failed title lookup.
const maxSuggestions = 3

// Library is the ordered collection a front end works on. Insertion
// order is the baseline display order. Entities never leave the library
// by reference: reads return clones and edits go through Update.
//
// A Library is meant for a single session and is not safe for
// concurrent use.
type Library struct {
	store   Store
	log     *slog.Logger
	items   []*production.Production
	dirty   bool
	loadErr error
}

// New returns an empty library bound to store.
func New(store Store, log *slog.Logger) *Library {
	if log == nil {
		log = slog.Default()
	}
	return &Library{store: store, log: log}
}

// Open loads the saved collection. A store with no data yields an empty
// library. Any other load failure is logged and also yields an empty
// library; the failure stays available through LoadErr so callers can
// avoid overwriting data they could not read.
func Open(ctx context.Context, store Store, log *slog.Logger) *Library {
	l := New(store, log)
	list, err := store.Load(ctx)
	switch {
	case err == nil:
		l.items = list
		l.log.Debug("library loaded", "count", len(list))
	case errors.Is(err, ErrNoData):
		l.log.Debug("no saved library, starting empty")
	default:
		l.loadErr = &PersistenceError{Op: "load", Err: err}
		l.log.Warn("could not load library, starting empty", "error", err)
	}
	return l
}

// LoadErr returns the load failure Open swallowed, if any.
func (l *Library) LoadErr() error { return l.loadErr }

// Dirty reports whether the collection changed since the last save.
func (l *Library) Dirty() bool { return l.dirty }

func (l *Library) Len() int { return len(l.items) }

func (l *Library) indexOf(id string) int {
	for i, p := range l.items {
		if p.ID() == id {
			return i
		}
	}
	return -1
}

// Add appends a copy of p.
func (l *Library) Add(p *production.Production) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if l.indexOf(p.ID()) >= 0 {
		return ErrDuplicate
	}
	l.items = append(l.items, p.Clone())
	l.dirty = true
	l.log.Debug("production added", "id", p.ID(), "title", p.Title())
	return nil
}

// Get returns a copy of the production with id.
func (l *Library) Get(id string) (*production.Production, error) {
	i := l.indexOf(id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	return l.items[i].Clone(), nil
}

// FindByTitle returns a copy of the first production whose title equals
// title, ignoring case. The NotFoundError carries close titles.
func (l *Library) FindByTitle(title string) (*production.Production, error) {
	want := strings.TrimSpace(title)
	for _, p := range l.items {
		if strings.EqualFold(p.Title(), want) {
			return p.Clone(), nil
		}
	}
	return nil, &NotFoundError{
		Title:       want,
		Suggestions: browse.Suggest(l.items, want, maxSuggestions),
	}
}

// Resolve looks ref up as an id, then as a title.
func (l *Library) Resolve(ref string) (*production.Production, error) {
	if i := l.indexOf(ref); i >= 0 {
		return l.items[i].Clone(), nil
	}
	return l.FindByTitle(ref)
}

// Update edits a draft copy of the production with id and commits it
// only if edit succeeds. On error the stored entity is untouched. An
// edit that changes nothing leaves the library clean.
func (l *Library) Update(id string, edit func(*production.Production) error) (*production.Production, error) {
	i := l.indexOf(id)
	if i < 0 {
		return nil, &NotFoundError{ID: id}
	}
	draft := l.items[i].Clone()
	if err := edit(draft); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.Equal(l.items[i]) {
		return draft, nil
	}
	l.items[i] = draft
	l.dirty = true
	return draft.Clone(), nil
}

// Delete removes the production with id.
func (l *Library) Delete(id string) error {
	i := l.indexOf(id)
	if i < 0 {
		return &NotFoundError{ID: id}
	}
	removed := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	l.dirty = true
	l.log.Debug("production deleted", "id", id, "title", removed.Title())
	return nil
}

// List returns copies of every production in insertion order.
func (l *Library) List() []*production.Production {
	return cloneAll(l.items)
}

// View returns copies of the productions visible under q.
func (l *Library) View(q browse.Query) []*production.Production {
	return cloneAll(browse.Apply(l.items, q))
}

// Save validates and persists the whole collection.
func (l *Library) Save(ctx context.Context) error {
	for _, p := range l.items {
		if err := p.Validate(); err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
	}
	if err := l.store.Save(ctx, l.items); err != nil {
		l.log.Error("save failed", "count", len(l.items), "error", err)
		return &PersistenceError{Op: "save", Err: err}
	}
	l.dirty = false
	l.loadErr = nil
	l.log.Info("library saved", "count", len(l.items))
	return nil
}

func cloneAll(list []*production.Production) []*production.Production {
	out := make([]*production.Production, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}
