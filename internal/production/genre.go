package production

import "strings"

// Genre tags a production. GenreAll is a filter sentinel, not a real tag.
type Genre string

const (
	GenreAll         Genre = "ALL"
	GenreDrama       Genre = "DRAMA"
	GenreComedy      Genre = "COMEDY"
	GenreAction      Genre = "ACTION"
	GenreThriller    Genre = "THRILLER"
	GenreHorror      Genre = "HORROR"
	GenreDocumentary Genre = "DOCUMENTARY"
	GenreRomance     Genre = "ROMANCE"
	GenreFantasy     Genre = "FANTASY"
)

var genres = []Genre{
	GenreAll,
	GenreDrama,
	GenreComedy,
	GenreAction,
	GenreThriller,
	GenreHorror,
	GenreDocumentary,
	GenreRomance,
	GenreFantasy,
}

// Genres returns every genre in declaration order, starting with GenreAll.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// Valid reports whether g is one of the declared genres (GenreAll included).
func (g Genre) Valid() bool {
	for _, known := range genres {
		if g == known {
			return true
		}
	}
	return false
}

func (g Genre) String() string {
	return string(g)
}

// ParseGenre converts a case-insensitive genre name.
func ParseGenre(s string) (Genre, error) {
	g := Genre(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", invalid("genre", s, ErrInvalidGenre)
	}
	return g, nil
}
