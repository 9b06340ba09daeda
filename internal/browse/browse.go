// Package browse derives the visible list of productions: title search,
// genre and watched facets, and ordering. Every function is pure; inputs
// are never mutated and a fresh slice is always returned.
package browse

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/filmlib/internal/production"
)

var (
	ErrUnknownSortKey     = errors.New("unknown sort key")
	ErrUnknownWatchedMode = errors.New("unknown watched mode")
)

// WatchedMode selects productions by watched status.
type WatchedMode int

const (
	WatchedAny WatchedMode = iota
	WatchedOnly
	UnwatchedOnly
)

var watchedModeNames = map[WatchedMode]string{
	WatchedAny:    "any",
	WatchedOnly:   "watched",
	UnwatchedOnly: "unwatched",
}

func (m WatchedMode) String() string {
	if s, ok := watchedModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("WatchedMode(%d)", int(m))
}

// ParseWatchedMode accepts "any", "watched" or "unwatched"; empty means any.
func ParseWatchedMode(s string) (WatchedMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return WatchedAny, nil
	}
	for m, name := range watchedModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWatchedMode, s)
}

// SortKey orders productions. The zero value is ReleaseDateDesc.
type SortKey int

const (
	ReleaseDateDesc SortKey = iota
	ReleaseDateAsc
	TitleAsc
	TitleDesc
)

var sortKeyNames = map[SortKey]string{
	ReleaseDateDesc: "date-desc",
	ReleaseDateAsc:  "date-asc",
	TitleAsc:        "title-asc",
	TitleDesc:       "title-desc",
}

func (k SortKey) String() string {
	if s, ok := sortKeyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("SortKey(%d)", int(k))
}

// SortKeys lists the known keys in declaration order.
func SortKeys() []SortKey {
	return []SortKey{ReleaseDateDesc, ReleaseDateAsc, TitleAsc, TitleDesc}
}

// ParseSortKey accepts the names printed by SortKey.String; empty means
// the default ReleaseDateDesc.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ReleaseDateDesc, nil
	}
	for k, name := range sortKeyNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// fold normalizes s for case-insensitive comparison.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// ByTitle keeps productions whose title contains query, ignoring case.
// An empty query keeps everything.
func ByTitle(list []*production.Production, query string) []*production.Production {
	if query == "" {
		return slices.Clone(list)
	}
	needle := fold(query)
	out := make([]*production.Production, 0, len(list))
	for _, p := range list {
		if strings.Contains(fold(p.Title()), needle) {
			out = append(out, p)
		}
	}
	return out
}

// ByGenre keeps productions tagged exactly g. GenreAll keeps everything.
func ByGenre(list []*production.Production, g production.Genre) []*production.Production {
	if g == production.GenreAll {
		return slices.Clone(list)
	}
	out := make([]*production.Production, 0, len(list))
	for _, p := range list {
		if p.Genre() == g {
			out = append(out, p)
		}
	}
	return out
}

// ByWatched keeps productions matching mode. It panics on a mode outside
// the declared constants.
func ByWatched(list []*production.Production, mode WatchedMode) []*production.Production {
	var keep func(*production.Production) bool
	switch mode {
	case WatchedAny:
		return slices.Clone(list)
	case WatchedOnly:
		keep = func(p *production.Production) bool { return p.Watched() }
	case UnwatchedOnly:
		keep = func(p *production.Production) bool { return !p.Watched() }
	default:
		panic(fmt.Sprintf("browse: %v", mode))
	}
	out := make([]*production.Production, 0, len(list))
	for _, p := range list {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a stably sorted copy of list; ties keep input order. It
// panics on a key outside the declared constants.
func Sort(list []*production.Production, key SortKey) []*production.Production {
	var cmp func(a, b *production.Production) int
	switch key {
	case ReleaseDateDesc:
		cmp = func(a, b *production.Production) int { return b.ReleaseDate().Compare(a.ReleaseDate()) }
	case ReleaseDateAsc:
		cmp = func(a, b *production.Production) int { return a.ReleaseDate().Compare(b.ReleaseDate()) }
	case TitleAsc:
		cmp = compareTitles
	case TitleDesc:
		cmp = func(a, b *production.Production) int { return compareTitles(b, a) }
	default:
		panic(fmt.Sprintf("browse: %v", key))
	}
	out := slices.Clone(list)
	slices.SortStableFunc(out, cmp)
	return out
}

func compareTitles(a, b *production.Production) int {
	if c := strings.Compare(fold(a.Title()), fold(b.Title())); c != 0 {
		return c
	}
	return strings.Compare(a.Title(), b.Title())
}

// Query is the browse state of a list view.
type Query struct {
	Text    string
	Genre   production.Genre
	Watched WatchedMode
	Sort    SortKey
}

// Active reports whether text search is in effect.
func (q Query) Active() bool {
	return strings.TrimSpace(q.Text) != ""
}

// Apply derives the visible list. A non-blank text query wins outright:
// the title filter runs alone, in original order, and the genre, watched
// and sort settings are ignored. Otherwise genre, then watched status,
// then sort are applied.
func Apply(list []*production.Production, q Query) []*production.Production {
	if q.Active() {
		return ByTitle(list, q.Text)
	}
	genre := q.Genre
	if genre == "" {
		genre = production.GenreAll
	}
	return Sort(ByWatched(ByGenre(list, genre), q.Watched), q.Sort)
}
