package production

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// KindName distinguishes movies from series.
type KindName string

const (
	KindMovie  KindName = "movie"
	KindSeries KindName = "series"
)

// ParseKindName converts a case-insensitive kind name.
func ParseKindName(s string) (KindName, error) {
	switch KindName(strings.ToLower(strings.TrimSpace(s))) {
	case KindMovie:
		return KindMovie, nil
	case KindSeries:
		return KindSeries, nil
	}
	return "", invalid("kind", s, ErrInvalidKind)
}

// Kind is the kind-specific payload of a production: Movie or Series.
// Both variants are immutable values; changing the duration or the
// season layout means building a new value and passing it to SetKind.
type Kind interface {
	Name() KindName
	// Length is the runtime in minutes for a movie and the total
	// episode count for a series.
	Length() int
	String() string

	validate() error
	clone() Kind
}

// Movie carries a runtime in minutes.
type Movie struct {
	Minutes int
}

func (Movie) Name() KindName { return KindMovie }

func (m Movie) Length() int { return m.Minutes }

func (m Movie) String() string {
	return fmt.Sprintf("%dh %02dm", m.Minutes/60, m.Minutes%60)
}

func (m Movie) validate() error {
	if m.Minutes < 0 {
		return invalid("minutes", m.Minutes, ErrInvalidKind)
	}
	return nil
}

func (m Movie) clone() Kind { return m }

// Series maps season numbers to episode counts.
type Series struct {
	seasons map[int]int
}

// NewSeries copies seasons into a new Series value.
func NewSeries(seasons map[int]int) Series {
	return Series{seasons: maps.Clone(seasons)}
}

func (Series) Name() KindName { return KindSeries }

// Seasons returns a copy of the season to episode-count map.
func (s Series) Seasons() map[int]int {
	out := make(map[int]int, len(s.seasons))
	maps.Copy(out, s.seasons)
	return out
}

// SeasonNumbers returns the season numbers in ascending order.
func (s Series) SeasonNumbers() []int {
	return slices.Sorted(maps.Keys(s.seasons))
}

// Episodes returns the episode count of one season, 0 when absent.
func (s Series) Episodes(season int) int {
	return s.seasons[season]
}

// Parts returns the total number of episodes across all seasons.
func (s Series) Parts() int {
	total := 0
	for _, n := range s.seasons {
		total += n
	}
	return total
}

func (s Series) Length() int { return s.Parts() }

// WithSeason returns a new Series with the season set to episodes.
func (s Series) WithSeason(season, episodes int) Series {
	out := s.Seasons()
	out[season] = episodes
	return Series{seasons: out}
}

// WithoutSeason returns a new Series with the season removed.
func (s Series) WithoutSeason(season int) Series {
	out := s.Seasons()
	delete(out, season)
	return Series{seasons: out}
}

func (s Series) String() string {
	parts := make([]string, 0, len(s.seasons))
	for _, n := range s.SeasonNumbers() {
		parts = append(parts, fmt.Sprintf("%d:%d", n, s.seasons[n]))
	}
	return strings.Join(parts, ", ")
}

func (s Series) validate() error {
	for season, episodes := range s.seasons {
		if season < 1 {
			return invalid("season", season, ErrInvalidKind)
		}
		if episodes < 0 {
			return invalid(fmt.Sprintf("season %d episodes", season), episodes, ErrInvalidKind)
		}
	}
	return nil
}

func (s Series) clone() Kind { return NewSeries(s.seasons) }

func validateKind(k Kind) error {
	if k == nil {
		return invalid("kind", nil, ErrInvalidKind)
	}
	return k.validate()
}

func kindEqual(a, b Kind) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case Movie:
		m, ok := b.(Movie)
		return ok && a == m
	case Series:
		o, ok := b.(Series)
		return ok && maps.Equal(a.seasons, o.seasons)
	}
	return false
}
